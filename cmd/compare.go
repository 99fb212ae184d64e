package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/boundary-cli/internal/boundary"
	"github.com/sells-group/boundary-cli/internal/compare"
	"github.com/sells-group/boundary-cli/internal/projection"
	"github.com/sells-group/boundary-cli/internal/report"
	"github.com/sells-group/boundary-cli/internal/survey"
)

// compareParams are the resolved settings of one compare run.
type compareParams struct {
	Input      string
	Format     string
	Name       string
	AdminLevel string
	Corners    string
	UTMZone    int
	South      bool
	Output     string
	XLSX       string
	Overlay    string
	FirstMatch bool
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare surveyed corners against a mapped town boundary",
	Long: `Selects one municipality boundary by exact name and admin level, projects it
into UTM and reports, for every surveyed corner, the nearest point on the
boundary outline and the nearest boundary vertex with their distances in metres.

Corners are read from a YAML, JSON or XLSX file of name, lat and lon columns
with coordinates written in degrees, minutes and seconds.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := *cfg
		c.Input.Path = stringFlag(cmd, "input", c.Input.Path)
		c.Input.Format = stringFlag(cmd, "format", c.Input.Format)
		c.Compare.Name = stringFlag(cmd, "name", c.Compare.Name)
		c.Compare.AdminLevel = stringFlag(cmd, "admin-level", c.Compare.AdminLevel)
		c.Compare.Corners = stringFlag(cmd, "corners", c.Compare.Corners)
		c.Compare.UTMZone = intFlag(cmd, "utm-zone", c.Compare.UTMZone)
		c.Compare.South = boolFlag(cmd, "south", c.Compare.South)
		c.Compare.Output = stringFlag(cmd, "output", c.Compare.Output)
		c.Compare.XLSX = stringFlag(cmd, "xlsx", c.Compare.XLSX)
		c.Compare.Overlay = stringFlag(cmd, "overlay", c.Compare.Overlay)
		c.Compare.FirstMatch = boolFlag(cmd, "first-match", c.Compare.FirstMatch)
		if err := c.Validate("compare"); err != nil {
			return err
		}

		return runCompare(compareParams{
			Input:      c.Input.Path,
			Format:     c.Input.Format,
			Name:       c.Compare.Name,
			AdminLevel: c.Compare.AdminLevel,
			Corners:    c.Compare.Corners,
			UTMZone:    c.Compare.UTMZone,
			South:      c.Compare.South,
			Output:     c.Compare.Output,
			XLSX:       c.Compare.XLSX,
			Overlay:    c.Compare.Overlay,
			FirstMatch: c.Compare.FirstMatch,
		}, cmd.OutOrStdout())
	},
}

func init() {
	compareCmd.Flags().String("input", "", "boundary file (default: input.path)")
	compareCmd.Flags().String("format", "", "input format: auto, geojson or shapefile (default: input.format)")
	compareCmd.Flags().String("name", "", "municipality name, matched exactly (default: compare.name)")
	compareCmd.Flags().String("admin-level", "", "admin_level of the municipality (default: compare.admin_level)")
	compareCmd.Flags().String("corners", "", "corner file (default: compare.corners)")
	compareCmd.Flags().Int("utm-zone", 0, "UTM zone for distances (default: compare.utm_zone)")
	compareCmd.Flags().Bool("south", false, "use the southern hemisphere UTM zone")
	compareCmd.Flags().String("output", "", "JSON report path (default: compare.output)")
	compareCmd.Flags().String("xlsx", "", "also write the report as an XLSX workbook")
	compareCmd.Flags().String("overlay", "", "also write a GeoJSON overlay of boundary and corners")
	compareCmd.Flags().Bool("first-match", false, "take the first matching boundary instead of failing on duplicates")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(p compareParams, out io.Writer) error {
	log := zap.L().With(zap.String("command", "compare"))

	c, err := boundary.Load(p.Input, p.Format)
	if err != nil {
		return eris.Wrap(err, "compare")
	}

	selectFn := boundary.Select
	if p.FirstMatch {
		selectFn = boundary.SelectFirst
	}
	feature, err := selectFn(c, p.Name, p.AdminLevel)
	if err != nil {
		return eris.Wrap(err, "compare")
	}

	corners, err := survey.LoadCorners(p.Corners)
	if err != nil {
		return eris.Wrap(err, "compare")
	}

	proj, err := projection.UTM(p.UTMZone, p.South)
	if err != nil {
		return eris.Wrap(err, "compare")
	}
	cmp, err := compare.New(feature.Geometry, proj)
	if err != nil {
		return eris.Wrap(err, "compare")
	}
	rows, err := cmp.Compare(corners)
	if err != nil {
		return eris.Wrap(err, "compare")
	}
	if zone := projection.ZoneFor(rows[0].Lon); zone != p.UTMZone {
		log.Warn("corners lie outside the configured UTM zone",
			zap.Int("utm_zone", p.UTMZone),
			zap.Int("corner_zone", zone),
		)
	}

	// Encode and stage every output before any is renamed into place.
	var batch report.Batch
	defer batch.Abort()

	data, err := report.EncodeJSON(rows)
	if err != nil {
		return err
	}
	if err := batch.Stage(p.Output, data); err != nil {
		return err
	}
	if p.XLSX != "" {
		if data, err = report.EncodeCornersXLSX(rows); err != nil {
			return err
		}
		if err := batch.Stage(p.XLSX, data); err != nil {
			return err
		}
	}
	if p.Overlay != "" {
		if data, err = report.EncodeOverlay(p.Name, feature.Geometry, rows); err != nil {
			return err
		}
		if err := batch.Stage(p.Overlay, data); err != nil {
			return err
		}
	}
	if err := batch.Commit(); err != nil {
		return err
	}

	s := compare.Summarize(rows)
	log.Info("compare complete",
		zap.String("boundary", feature.ID),
		zap.String("projection", proj.Name()),
		zap.Int("corners", s.Corners),
		zap.Float64("max_boundary_m", s.MaxBoundaryM),
		zap.Float64("mean_boundary_m", s.MeanBoundaryM),
		zap.Float64("max_vertex_m", s.MaxVertexM),
		zap.Float64("mean_vertex_m", s.MeanVertexM),
		zap.String("worst_corner", s.WorstCorner),
		zap.Any("agreement", s.Agreement),
		zap.String("output", p.Output),
	)

	printRows(out, rows, s)
	return nil
}

// printRows writes the per-corner distances and a one-line summary.
func printRows(w io.Writer, rows []compare.Row, s compare.Summary) {
	fmt.Fprintf(w, "%-40s %12s %12s %s\n", "Corner", "Boundary (m)", "Vertex (m)", "Agreement")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, r := range rows {
		fmt.Fprintf(w, "%-40s %12.2f %12.2f %s\n",
			r.CornerName, r.DistanceToBoundary, r.DistanceToVertex, r.Agreement())
	}

	classes := make([]string, 0, len(s.Agreement))
	for class := range s.Agreement {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	counts := make([]string, 0, len(classes))
	for _, class := range classes {
		counts = append(counts, fmt.Sprintf("%s=%d", class, s.Agreement[class]))
	}

	fmt.Fprintf(w, "\n%d corners, mean %.2f m to boundary, max %.2f m (%s); %s\n",
		s.Corners, s.MeanBoundaryM, s.MaxBoundaryM, s.WorstCorner, strings.Join(counts, " "))
}
