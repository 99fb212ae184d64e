package main

import (
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/boundary-cli/internal/dms"
)

var dmsCmd = &cobra.Command{
	Use:   "dms <value>...",
	Short: "Convert degrees-minutes-seconds coordinates to decimal degrees",
	Long: `Prints the signed decimal value of each DMS coordinate:
  boundary-cli dms "43° 35' 6.94\" N" "72° 1' 6.75\" W"

With --reverse the arguments are decimal degrees and are printed as DMS;
--lat selects N/S hemispheres instead of E/W. Put -- before negative values.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reverse, _ := cmd.Flags().GetBool("reverse")
		lat, _ := cmd.Flags().GetBool("lat")
		out := cmd.OutOrStdout()

		// Parse everything first so a bad value prints nothing.
		lines := make([]string, 0, len(args))
		for _, arg := range args {
			if reverse {
				v, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return eris.Wrapf(err, "dms: parse decimal %q", arg)
				}
				lines = append(lines, dms.Format(v, lat))
				continue
			}
			v, err := dms.Parse(arg)
			if err != nil {
				return eris.Wrap(err, "dms")
			}
			lines = append(lines, strconv.FormatFloat(v, 'f', 6, 64))
		}

		for _, line := range lines {
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	dmsCmd.Flags().Bool("reverse", false, "convert decimal degrees to DMS")
	dmsCmd.Flags().Bool("lat", false, "with --reverse, format values as latitudes")
	rootCmd.AddCommand(dmsCmd)
}
