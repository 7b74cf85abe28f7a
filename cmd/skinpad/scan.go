package skinpad

import (
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"github.com/skinpad/skinpad/romscan"
	"github.com/spf13/cobra"
)

var scanQuiet bool

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan DIR...",
	Short: "Look for calculator ROM images",
	Long: `Walk the given directories breadth first and list files whose name and
size look like a ROM dump of a supported calculator.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var bar *progressbar.ProgressBar
		if !scanQuiet {
			bar = progressbar.Default(-1, "Scanning directories")
		}

		callbacks := romscan.Callbacks{
			OnDirectory: func(dir string) {
				slog.Debug("Scanning directory", "path", dir)

				if bar != nil {
					if err := bar.Add(1); err != nil {
						slog.Error("could not update progress bar", "error", err)
					}
				}
			},
		}

		found, err := romscan.Scan(cmd.Context(), args, callbacks)

		if bar != nil {
			if finishErr := bar.Finish(); finishErr != nil {
				slog.Error("could not finish progress bar", "error", finishErr)
			}
		}

		out := cmd.OutOrStdout()
		for _, f := range found {
			fmt.Fprintf(out, "%-6s %s\n", f.Calculator.Name, f.Path)
		}

		return err
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "Do not show progress")
}
