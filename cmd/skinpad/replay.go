package skinpad

import (
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/skinpad/skinpad/db"
	"github.com/skinpad/skinpad/keypad"
	"github.com/skinpad/skinpad/screen"
	"github.com/skinpad/skinpad/touchlog"
	"github.com/skinpad/skinpad/touchlog/parser"
	"github.com/spf13/cobra"
)

var (
	replayFlags  keypadFlags
	scriptPath   string
	pngPath      string
	journalPath  string
	showProgress bool
)

// replayCmd represents the replay command.
var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Run a touch script through the keypad",
	Long: `Feed a touch script to a keypad driven by the demo engine. Every "frame"
line draws one frame; transitions still queued at the end are drawn out.
Optionally save the last frame as PNG and journal delivered transitions.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		entries, err := readScript(cmd, scriptPath)
		if err != nil {
			return err
		}

		opts := make([]keypad.Option, 0, 1)

		if journalPath != "" {
			storage, err := db.NewStorageFromPath(journalPath)
			if err != nil {
				return err
			}
			defer storage.Close()

			opts = append(opts, keypad.WithRecorder(storage))
		}

		k, _, err := replayFlags.newKeypad(cmd.Context(), opts...)
		if err != nil {
			return err
		}
		defer k.Close()

		canvas := screen.NewImageCanvas(replayFlags.width, replayFlags.height)

		var onFrame func(screen.Outcome)

		if showProgress {
			bar := progressbar.Default(-1, "Drawing frames")
			defer func() {
				if err := bar.Finish(); err != nil {
					slog.Error("could not finish progress bar", "error", err)
				}
			}()

			onFrame = func(screen.Outcome) {
				if err := bar.Add(1); err != nil {
					slog.Error("could not update progress bar", "error", err)
				}
			}
		}

		stats, err := touchlog.Replay(cmd.Context(), entries, k, canvas, onFrame)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "events %d, transitions %d, frames %d, delivered %d\n",
			stats.Events, stats.Transitions, stats.Frames, stats.Delivered)

		if pngPath != "" {
			return savePNG(pngPath, canvas)
		}

		return nil
	},
}

func readScript(cmd *cobra.Command, path string) ([]parser.Entry, error) {
	var r io.Reader = cmd.InOrStdin()

	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("could not open script: %w", err)
		}
		defer f.Close()

		r = f
	}

	return touchlog.ReadScript(r)
}

func savePNG(path string, canvas *screen.ImageCanvas) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}

	if err := png.Encode(f, canvas.Image); err != nil {
		f.Close()

		return fmt.Errorf("could not encode %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}

	slog.Info("Saved frame", "path", path)

	return nil
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayFlags.register(replayCmd)

	replayCmd.Flags().StringVar(&scriptPath, "script", "-", "Touch script, - for stdin")
	replayCmd.Flags().StringVar(&pngPath, "png", "", "Save the last frame to this PNG file")
	replayCmd.Flags().StringVarP(&journalPath, "out", "o", "", "Journal delivered transitions to this sqlite file")
	replayCmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar while drawing")
}
