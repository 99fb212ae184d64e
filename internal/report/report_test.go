package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/boundary-cli/internal/compare"
)

func sampleRows() []compare.Row {
	return []compare.Row{
		{
			CornerName:         "Enfield, Canaan, Grafton",
			Lat:                43.585261,
			Lon:                -72.018542,
			NearestBoundaryLat: 43.5853,
			NearestBoundaryLon: -72.0186,
			DistanceToBoundary: 0.4,
			NearestVertexLat:   43.5852,
			NearestVertexLon:   -72.0185,
			DistanceToVertex:   7.5,
		},
		{
			CornerName:         "Enfield, Grafton, Springfield",
			Lat:                43.5,
			Lon:                -72.0,
			NearestBoundaryLat: 43.5001,
			NearestBoundaryLon: -72.0001,
			DistanceToBoundary: 14.2,
			NearestVertexLat:   43.5002,
			NearestVertexLon:   -72.0002,
			DistanceToVertex:   30.1,
		},
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// commit stages data at path and renames it into place.
func commit(t *testing.T, path string, data []byte) {
	t.Helper()
	var b Batch
	require.NoError(t, b.Stage(path, data))
	require.NoError(t, b.Commit())
}

func TestBatch_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	commit(t, path, []byte("first\n"))
	commit(t, path, []byte("second\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))
	assert.Equal(t, []string{"out.json"}, listDir(t, dir))
}

func TestBatch_StageMissingDir(t *testing.T) {
	var b Batch
	err := b.Stage(filepath.Join(t.TempDir(), "missing", "out.json"), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report: create temp file")
	assert.Zero(t, b.Len())
}

func TestBatch_AbortKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keep.json")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	var b Batch
	require.NoError(t, b.Stage(path, []byte("new\n")))
	b.Abort()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(data))
	assert.Equal(t, []string{"keep.json"}, listDir(t, dir))
}

func TestBatch_CommitsAllTogether(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.json"), filepath.Join(dir, "b.xlsx")

	var batch Batch
	require.NoError(t, batch.Stage(a, []byte("a\n")))
	require.NoError(t, batch.Stage(b, []byte("b\n")))
	assert.Equal(t, 2, batch.Len())
	assert.NoFileExists(t, a)
	assert.NoFileExists(t, b)

	require.NoError(t, batch.Commit())
	assert.Equal(t, 0, batch.Len())
	assert.ElementsMatch(t, []string{"a.json", "b.xlsx"}, listDir(t, dir))

	// Abort after Commit leaves the committed files alone.
	batch.Abort()
	assert.FileExists(t, a)
}

func TestBatch_StageFailureThenAbortLeavesNothing(t *testing.T) {
	dir := t.TempDir()

	var batch Batch
	require.NoError(t, batch.Stage(filepath.Join(dir, "report.json"), []byte("[]\n")))
	err := batch.Stage(filepath.Join(dir, "missing", "report.xlsx"), []byte("x"))
	require.Error(t, err)
	assert.Equal(t, 1, batch.Len())

	batch.Abort()
	assert.Empty(t, listDir(t, dir))
}

func TestBatch_CommitFailureRemovesTemps(t *testing.T) {
	dir := t.TempDir()
	// A directory at the target makes the rename fail.
	target := filepath.Join(dir, "taken")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "child"), []byte("x"), 0o644))

	var batch Batch
	require.NoError(t, batch.Stage(target, []byte("data")))
	require.Error(t, batch.Commit())
	assert.Equal(t, []string{"taken"}, listDir(t, dir))
}

func TestEncodeJSON_Format(t *testing.T) {
	data, err := EncodeJSON([]map[string]int{{"a": 1}})
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"a\": 1\n  }\n]\n", string(data))
}

func TestEncodeJSON_Rows(t *testing.T) {
	data, err := EncodeJSON(sampleRows())
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), data[len(data)-1])

	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Enfield, Canaan, Grafton", got[0]["corner_name"])
	assert.Len(t, got[0], 9)
}

func TestEncodeJSON_NilSlice(t *testing.T) {
	var rows []compare.Row
	data, err := EncodeJSON(rows)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestEncodeJSON_Unsupported(t *testing.T) {
	_, err := EncodeJSON(map[string]any{"ch": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report: encode json")
}

func TestEncodeCornersXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corners.xlsx")
	data, err := EncodeCornersXLSX(sampleRows())
	require.NoError(t, err)
	commit(t, path, data)

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet, ok := f.Sheet[CornerSheet]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)

	header := make([]string, 0, len(sheet.Rows[0].Cells))
	for _, c := range sheet.Rows[0].Cells {
		header = append(header, c.String())
	}
	assert.Equal(t, CornerColumns, header)

	first := sheet.Rows[1].Cells
	require.Len(t, first, len(CornerColumns))
	assert.Equal(t, "Enfield, Canaan, Grafton", first[0].String())
	lat, err := first[1].Float()
	require.NoError(t, err)
	assert.InDelta(t, 43.585261, lat, 1e-9)
	assert.Equal(t, "close", first[9].String())

	assert.Equal(t, "offset", sheet.Rows[2].Cells[9].String())
}

func TestEncodeCornersXLSX_Empty(t *testing.T) {
	data, err := EncodeCornersXLSX(nil)
	require.NoError(t, err)

	f, err := xlsx.OpenBinary(data)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	assert.Len(t, f.Sheets[0].Rows, 1)
}

func square() *geom.Polygon {
	return geom.NewPolygonFlat(geom.XY, []float64{
		-72.1, 43.5, -72.1, 43.6, -72.0, 43.6, -72.0, 43.5, -72.1, 43.5,
	}, []int{10})
}

func TestOverlay(t *testing.T) {
	rows := sampleRows()
	fc, err := Overlay("Enfield", square(), rows)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2+2*len(rows))

	assert.Equal(t, KindBoundary, fc.Features[0].Properties["kind"])
	assert.Equal(t, "Enfield", fc.Features[0].ID)

	loop, ok := fc.Features[1].Geometry.(*geom.LineString)
	require.True(t, ok)
	assert.Equal(t, len(rows)+1, loop.NumCoords())
	assert.Equal(t, loop.Coord(0), loop.Coord(loop.NumCoords()-1), "survey loop is closed")

	pt, ok := fc.Features[2].Geometry.(*geom.Point)
	require.True(t, ok)
	assert.Equal(t, []float64{rows[0].Lon, rows[0].Lat}, pt.FlatCoords())
	assert.Equal(t, rows[0].CornerName, fc.Features[2].Properties["label"])
	assert.Equal(t, KindOffset, fc.Features[3].Properties["kind"])
}

func TestOverlay_NoRows(t *testing.T) {
	fc, err := Overlay("Enfield", square(), nil)
	require.NoError(t, err)
	assert.Len(t, fc.Features, 1)
}

func TestOverlay_NilBoundary(t *testing.T) {
	_, err := Overlay("Enfield", nil, sampleRows())
	assert.Error(t, err)
}

func TestEncodeOverlay(t *testing.T) {
	data, err := EncodeOverlay("Enfield", square(), sampleRows())
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), data[len(data)-1])

	var fc geojson.FeatureCollection
	require.NoError(t, json.Unmarshal(data, &fc))
	require.Len(t, fc.Features, 6)
	_, ok := fc.Features[0].Geometry.(*geom.Polygon)
	assert.True(t, ok)
	assert.Equal(t, "corner", fc.Features[4].Properties["kind"])
}
