package data

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/collision"
)

// MapInfo holds metadata for a single map area, loaded from
// map_list.yaml.
type MapInfo struct {
	ID       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	Width    int           `yaml:"width"`
	Height   int           `yaml:"height"`
	TileFile string        `yaml:"tile_file"`
	Objects  []ObjectEntry `yaml:"objects"`
}

// ObjectEntry is a multi-cell obstacle authored alongside its map.
type ObjectEntry struct {
	ID        string          `yaml:"id"`
	X         int             `yaml:"x"`
	Y         int             `yaml:"y"`
	Width     int             `yaml:"width"`
	Height    int             `yaml:"height"`
	Solid     *bool           `yaml:"solid"` // default true
	Collision *CollisionEntry `yaml:"collision"`
}

// CollisionEntry is an optional collision sub-rectangle distinct from
// the object's visual footprint.
type CollisionEntry struct {
	OffX int `yaml:"off_x"`
	OffY int `yaml:"off_y"`
	W    int `yaml:"w"`
	H    int `yaml:"h"`
}

type mapListFile struct {
	Maps []MapInfo `yaml:"maps"`
}

// MapTable provides collision grids and metadata per map area.
type MapTable struct {
	infos map[string]*MapInfo
	grids map[string]*collision.Grid
}

// LoadMapTable loads map metadata from YAML and tile data from CSV
// files. A map whose tile data fails to load is non-fatal: the map is
// skipped with a warning, the registry can still hold its roster.
// log may be nil.
func LoadMapTable(yamlPath, tileDir string, log *zap.Logger) (*MapTable, error) {
	if log == nil {
		log = zap.NewNop()
	}
	raw, err := os.ReadFile(yamlPath)
	if err != nil {
		return nil, fmt.Errorf("read map list %s: %w", yamlPath, err)
	}
	var file mapListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse map list: %w", err)
	}

	t := &MapTable{
		infos: make(map[string]*MapInfo, len(file.Maps)),
		grids: make(map[string]*collision.Grid, len(file.Maps)),
	}
	for i := range file.Maps {
		info := &file.Maps[i]
		if info.Width <= 0 || info.Height <= 0 {
			return nil, fmt.Errorf("map %q: invalid size %dx%d", info.ID, info.Width, info.Height)
		}
		grid, err := loadTileFile(filepath.Join(tileDir, info.TileFile), info.Width, info.Height)
		if err != nil {
			log.Warn("skipping map: tile data unavailable",
				zap.String("map", info.ID),
				zap.String("tile_file", info.TileFile),
				zap.Error(err))
			continue
		}
		for _, obj := range info.Objects {
			solid := true
			if obj.Solid != nil {
				solid = *obj.Solid
			}
			o := collision.Object{
				ID:    obj.ID,
				X:     obj.X,
				Y:     obj.Y,
				W:     obj.Width,
				H:     obj.Height,
				Solid: solid,
			}
			if c := obj.Collision; c != nil {
				o.Collision = &collision.Rect{OffX: c.OffX, OffY: c.OffY, W: c.W, H: c.H}
			}
			grid.AddObject(o)
		}
		t.infos[info.ID] = info
		t.grids[info.ID] = grid
	}
	return t, nil
}

// loadTileFile reads a CSV tile file: each line is a row of
// comma-separated values, non-zero = solid. Lines starting with '#'
// are comments.
func loadTileFile(path string, width, height int) (*collision.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	grid := collision.NewGrid(width, height)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)

	y := 0
	for scanner.Scan() && y < height {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		x := 0
		for _, tok := range strings.Split(line, ",") {
			if x >= width {
				break
			}
			val, err := strconv.Atoi(strings.TrimSpace(tok))
			if err != nil {
				val = 0
			}
			grid.SetSolid(x, y, val != 0)
			x++
		}
		y++
	}
	return grid, scanner.Err()
}

// Grid returns a map's collision grid, or nil if not loaded.
func (t *MapTable) Grid(mapID string) *collision.Grid {
	return t.grids[mapID]
}

// Info returns a map's metadata, or nil if not found.
func (t *MapTable) Info(mapID string) *MapInfo {
	return t.infos[mapID]
}

// Count returns the number of maps loaded with tile data.
func (t *MapTable) Count() int {
	return len(t.grids)
}
