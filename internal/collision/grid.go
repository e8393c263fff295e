package collision

import (
	"math"

	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/geom"
)

// Tile is one cell of a map's static collision layer.
type Tile struct {
	Solid bool
}

// Rect is a collision rectangle in whole tiles, offset from an
// object's anchor cell.
type Rect struct {
	OffX int
	OffY int
	W    int
	H    int
}

// Object is a multi-cell obstacle (a building, a fence run, a big
// rock). Its visual footprint is W×H anchored at (X,Y); when
// Collision is non-nil the solid area is that sub-rectangle instead,
// letting sprites overhang walkable ground.
type Object struct {
	ID        string
	X, Y      int // anchor cell
	W, H      int // visual footprint in tiles
	Collision *Rect
	Solid     bool
}

// collisionBounds returns the object's solid area as absolute tile
// bounds [x0,x1)×[y0,y1).
func (o *Object) collisionBounds() (x0, y0, x1, y1 int) {
	if o.Collision != nil {
		x0 = o.X + o.Collision.OffX
		y0 = o.Y + o.Collision.OffY
		return x0, y0, x0 + o.Collision.W, y0 + o.Collision.H
	}
	return o.X, o.Y, o.X + o.W, o.Y + o.H
}

// Grid answers blocked-or-not queries for one map area: a rectangular
// per-cell solid layer plus a table of multi-cell objects. Read-only
// once built — safe to query for any number of NPCs within a tick.
type Grid struct {
	width   int
	height  int
	solid   []bool // [y*width + x]
	objects []Object
}

// NewGrid creates an empty (fully walkable) grid of the given size.
func NewGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		solid:  make([]bool, width*height),
	}
}

// Width returns the grid width in tiles.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in tiles.
func (g *Grid) Height() int { return g.height }

// SetSolid marks a single cell solid or walkable. Out-of-range
// coordinates are ignored.
func (g *Grid) SetSolid(x, y int, solid bool) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return
	}
	g.solid[y*g.width+x] = solid
}

// AddObject registers a multi-cell obstacle.
func (g *Grid) AddObject(o Object) {
	g.objects = append(g.objects, o)
}

// TileAt returns the tile at whole-tile coordinates, or ok=false when
// the coordinates are outside the grid. Only the collision query
// itself should need this.
func (g *Grid) TileAt(x, y int) (Tile, bool) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return Tile{}, false
	}
	return Tile{Solid: g.solid[y*g.width+x]}, true
}

// IsBlocked reports whether a footprint anchored at pos overlaps any
// solid cell or solid object. Any part of the footprint outside the
// grid counts as blocked — the world edge is solid.
func (g *Grid) IsBlocked(pos geom.Position, footprint geom.Size) bool {
	if footprint.W <= 0 || footprint.H <= 0 {
		footprint = geom.DefaultFootprint
	}

	x0 := int(math.Floor(pos.X))
	y0 := int(math.Floor(pos.Y))
	// Last cell the footprint touches. The tiny epsilon keeps a
	// footprint ending exactly on a cell boundary out of the next cell.
	x1 := int(math.Ceil(pos.X+footprint.W-1e-9)) - 1
	y1 := int(math.Ceil(pos.Y+footprint.H-1e-9)) - 1

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			tile, ok := g.TileAt(x, y)
			if !ok || tile.Solid {
				return true
			}
		}
	}

	for i := range g.objects {
		o := &g.objects[i]
		if !o.Solid {
			continue
		}
		ox0, oy0, ox1, oy1 := o.collisionBounds()
		if x0 < ox1 && x1 >= ox0 && y0 < oy1 && y1 >= oy0 {
			return true
		}
	}
	return false
}
