package sim

import (
	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/data"
	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/geom"
	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/world"
)

// MapOracle routes collision queries to the active map's grid. A map
// without loaded tile data blocks everything — a malformed position
// must never let an NPC walk off the world.
type MapOracle struct {
	maps *data.MapTable
	reg  *world.Registry
}

// NewMapOracle builds the registry-aware oracle handed to the
// movement engine.
func NewMapOracle(maps *data.MapTable, reg *world.Registry) *MapOracle {
	return &MapOracle{maps: maps, reg: reg}
}

func (o *MapOracle) IsBlocked(pos geom.Position, footprint geom.Size) bool {
	grid := o.maps.Grid(o.reg.CurrentMap())
	if grid == nil {
		return true
	}
	return grid.IsBlocked(pos, footprint)
}
