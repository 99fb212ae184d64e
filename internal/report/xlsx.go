package report

import (
	"bytes"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/boundary-cli/internal/compare"
)

// CornerSheet is the sheet name used by EncodeCornersXLSX.
const CornerSheet = "corners"

// CornerColumns are the header cells of the corner sheet.
var CornerColumns = []string{
	"corner_name",
	"lat",
	"lon",
	"nearest_boundary_lat",
	"nearest_boundary_lon",
	"distance_to_boundary_m",
	"nearest_vertex_lat",
	"nearest_vertex_lon",
	"distance_to_vertex_m",
	"agreement",
}

// EncodeCornersXLSX renders rows as a workbook with a header row.
func EncodeCornersXLSX(rows []compare.Row) ([]byte, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(CornerSheet)
	if err != nil {
		return nil, eris.Wrap(err, "report: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, col := range CornerColumns {
		header.AddCell().SetString(col)
	}

	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetString(r.CornerName)
		for _, v := range []float64{
			r.Lat,
			r.Lon,
			r.NearestBoundaryLat,
			r.NearestBoundaryLon,
			r.DistanceToBoundary,
			r.NearestVertexLat,
			r.NearestVertexLon,
			r.DistanceToVertex,
		} {
			row.AddCell().SetFloat(v)
		}
		row.AddCell().SetString(r.Agreement())
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "report: encode xlsx")
	}
	return buf.Bytes(), nil
}
