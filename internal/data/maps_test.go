package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/geom"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadMapTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "map_list.yaml"), `
maps:
  - id: yard
    name: Yard
    width: 4
    height: 3
    tile_file: yard.txt
    objects:
      - id: crate
        x: 2
        y: 0
        width: 1
        height: 1
`)
	writeFile(t, filepath.Join(dir, "yard.txt"), `
# border on the left column
1,0,0,0
1,0,0,0
1,0,0,0
`)

	table, err := LoadMapTable(filepath.Join(dir, "map_list.yaml"), dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Count())

	info := table.Info("yard")
	require.NotNil(t, info)
	assert.Equal(t, "Yard", info.Name)
	assert.Equal(t, 4, info.Width)

	grid := table.Grid("yard")
	require.NotNil(t, grid)
	one := geom.Size{W: 1, H: 1}
	assert.True(t, grid.IsBlocked(geom.Position{X: 0, Y: 1}, one))
	assert.False(t, grid.IsBlocked(geom.Position{X: 1, Y: 1}, one))
	// The authored object is solid by default.
	assert.True(t, grid.IsBlocked(geom.Position{X: 2, Y: 0}, one))
}

func TestLoadMapTableMissingTileFileSkipsMapWithWarning(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "map_list.yaml"), `
maps:
  - id: ghost
    name: Ghost
    width: 4
    height: 4
    tile_file: nope.txt
`)

	core, logs := observer.New(zapcore.WarnLevel)
	table, err := LoadMapTable(filepath.Join(dir, "map_list.yaml"), dir, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Count())
	assert.Nil(t, table.Grid("ghost"))

	// The skip is a content error, not a silent drop.
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "skipping map: tile data unavailable", entry.Message)
	assert.Equal(t, "ghost", entry.ContextMap()["map"])
}

func TestLoadMapTableInvalidSize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "map_list.yaml"), `
maps:
  - id: bad
    name: Bad
    width: 0
    height: 5
    tile_file: bad.txt
`)

	_, err := LoadMapTable(filepath.Join(dir, "map_list.yaml"), dir, nil)
	assert.Error(t, err)
}

func TestLoadMapTableMissingList(t *testing.T) {
	_, err := LoadMapTable(filepath.Join(t.TempDir(), "none.yaml"), t.TempDir(), nil)
	assert.Error(t, err)
}
