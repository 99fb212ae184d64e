package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/boundary-cli/internal/boundary"
	"github.com/sells-group/boundary-cli/internal/extract"
	"github.com/sells-group/boundary-cli/internal/report"
	"github.com/sells-group/boundary-cli/internal/store"
)

// extractParams are the resolved settings of one extract run.
type extractParams struct {
	Input      string
	Format     string
	AdminLevel string
	IDPrefix   string
	Output     string
	OmitMiles  bool
	SQLitePath string
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract municipality records with equal-area areas",
	Long: `Reads a boundary feature collection (Overpass GeoJSON or a TIGER/Line place
shapefile), keeps the polygonal features at the requested admin level whose ID
carries the municipality prefix, computes their area in the CONUS Albers
equal-area projection and writes a JSON array of records.

Use --sqlite to also upsert the records into a SQLite database.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		c := *cfg
		c.Input.Path = stringFlag(cmd, "input", c.Input.Path)
		c.Input.Format = stringFlag(cmd, "format", c.Input.Format)
		c.Extract.Output = stringFlag(cmd, "output", c.Extract.Output)
		c.Extract.AdminLevel = stringFlag(cmd, "admin-level", c.Extract.AdminLevel)
		c.Extract.IDPrefix = stringFlag(cmd, "id-prefix", c.Extract.IDPrefix)
		c.Extract.OmitMiles = boolFlag(cmd, "omit-miles", c.Extract.OmitMiles)
		c.Store.SQLitePath = stringFlag(cmd, "sqlite", c.Store.SQLitePath)
		if err := c.Validate("extract"); err != nil {
			return err
		}

		return runExtract(ctx, extractParams{
			Input:      c.Input.Path,
			Format:     c.Input.Format,
			AdminLevel: c.Extract.AdminLevel,
			IDPrefix:   c.Extract.IDPrefix,
			Output:     c.Extract.Output,
			OmitMiles:  c.Extract.OmitMiles,
			SQLitePath: c.Store.SQLitePath,
		}, cmd.OutOrStdout())
	},
}

func init() {
	extractCmd.Flags().String("input", "", "boundary file (default: input.path)")
	extractCmd.Flags().String("format", "", "input format: auto, geojson or shapefile (default: input.format)")
	extractCmd.Flags().String("output", "", "JSON output path (default: extract.output)")
	extractCmd.Flags().String("admin-level", "", "admin_level to keep (default: extract.admin_level)")
	extractCmd.Flags().String("id-prefix", "", "required feature ID prefix (default: relation/ or tiger/ by format)")
	extractCmd.Flags().Bool("omit-miles", false, "leave area_sq_miles out of the records")
	extractCmd.Flags().String("sqlite", "", "also upsert records into this SQLite database")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(ctx context.Context, p extractParams, out io.Writer) error {
	log := zap.L().With(zap.String("command", "extract"))

	c, err := boundary.Load(p.Input, p.Format)
	if err != nil {
		return eris.Wrap(err, "extract")
	}

	opts := extract.Options{
		AdminLevel: p.AdminLevel,
		IDPrefix:   p.IDPrefix,
		OmitMiles:  p.OmitMiles,
	}
	if opts.IDPrefix == "" {
		opts.IDPrefix = boundary.DefaultIDPrefix(c.Format)
	}

	ms, err := extract.Extract(c, opts)
	if err != nil {
		return eris.Wrap(err, "extract")
	}
	if ms == nil {
		ms = []extract.Municipality{}
	}

	data, err := report.EncodeJSON(ms)
	if err != nil {
		return err
	}

	// Stage the JSON first so an unwritable output fails before any rows
	// reach the database.
	var batch report.Batch
	defer batch.Abort()
	if err := batch.Stage(p.Output, data); err != nil {
		return err
	}

	if p.SQLitePath != "" {
		run, stored, err := exportSQLite(ctx, p.SQLitePath, p.Input, ms)
		if err != nil {
			return err
		}
		log.Info("exported to sqlite",
			zap.String("path", p.SQLitePath),
			zap.String("run_id", run.ID),
			zap.Int("municipalities", run.Municipalities),
			zap.Int("stored", stored),
		)
	}

	if err := batch.Commit(); err != nil {
		return err
	}

	log.Info("extract complete",
		zap.String("input", p.Input),
		zap.String("format", c.Format),
		zap.Int("features", len(c.Features)),
		zap.Int("municipalities", len(ms)),
		zap.String("output", p.Output),
	)

	printMunicipalities(out, ms, 10)
	return nil
}

// exportSQLite saves ms as one run and reads the run back, returning the
// number of rows the database holds for it.
func exportSQLite(ctx context.Context, path, source string, ms []extract.Municipality) (*store.Run, int, error) {
	st, err := store.NewSQLite(path)
	if err != nil {
		return nil, 0, eris.Wrap(err, "extract: open sqlite")
	}
	defer st.Close() //nolint:errcheck

	if err := st.Migrate(ctx); err != nil {
		return nil, 0, err
	}
	run, err := store.Export(ctx, st, source, ms)
	if err != nil {
		return nil, 0, eris.Wrap(err, "extract: sqlite export")
	}

	stored, err := st.ListMunicipalities(ctx, store.Filter{RunID: run.ID, Limit: len(ms)})
	if err != nil {
		return nil, 0, eris.Wrap(err, "extract: sqlite read back")
	}
	if len(stored) != len(ms) {
		return nil, 0, eris.Errorf("extract: sqlite holds %d of %d municipalities for run %s", len(stored), len(ms), run.ID)
	}
	return run, len(stored), nil
}

// printMunicipalities writes a count and the first n records as a table.
func printMunicipalities(w io.Writer, ms []extract.Municipality, n int) {
	fmt.Fprintf(w, "Parsed %d municipalities\n", len(ms))
	if len(ms) == 0 {
		return
	}

	fmt.Fprintf(w, "%-24s %-18s %-12s %16s\n", "Name", "Relation", "Border", "Area (m²)")
	for i, m := range ms {
		if i == n {
			break
		}
		border := ""
		if m.BorderType != nil {
			border = *m.BorderType
		}
		fmt.Fprintf(w, "%-24s %-18s %-12s %16.0f\n", m.Name, m.RelationID, border, m.AreaSqMeters)
	}
}
