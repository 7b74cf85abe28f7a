package skinpad

import (
	"fmt"
	"log/slog"

	"github.com/skinpad/skinpad/db"
	"github.com/skinpad/skinpad/screen"
	"github.com/skinpad/skinpad/web"
	"github.com/skinpad/skinpad/web/routes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	showFlags        keypadFlags
	showStoragePath  string
	showPort         int
	showDev          bool
	showScanProgress bool
)

// showCmd represents the show command.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show collected statistics",
	Long:  `Serve the inspector over a journal written by the track or replay commands.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		slog.Debug("Config", "file", viper.ConfigFileUsed(), "settings", viper.AllSettings())
		slog.Info("Journal", "path", showStoragePath)

		storage, err := db.NewStorageFromPath(showStoragePath)
		if err != nil {
			return fmt.Errorf("could not open %s as sqlite file: %w", showStoragePath, err)
		}
		defer storage.Close()

		chords, err := db.NewChordTrackerFromDB(storage, showScanProgress)
		if err != nil {
			return fmt.Errorf("could not create chord tracker: %w", err)
		}

		follows, err := db.NewFollowCounterFromDB(storage)
		if err != nil {
			return fmt.Errorf("could not create follow tracker: %w", err)
		}

		k, _, err := showFlags.newKeypad(cmd.Context())
		if err != nil {
			return err
		}

		// One frame shows the skin and a lit display under the heatmap.
		canvas := screen.NewImageCanvas(showFlags.width, showFlags.height)
		k.Draw(canvas)

		frames := &routes.LatestFrame{}
		frames.Update(canvas.Image)

		handler := &routes.ServerHandler{
			Storage:       storage,
			ChordTracker:  chords,
			FollowTracker: follows,
			Layout:        k,
			Frames:        frames,
		}

		return web.StartServer(cmd.Context(), showPort, handler, showDev)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showFlags.register(showCmd)

	showCmd.Flags().IntVarP(&showPort, "port", "p", 9000, "Port on which the inspector listens")
	showCmd.Flags().StringVarP(&showStoragePath, "storage", "o", "./keypresses.sqlite", "Journal path")
	showCmd.Flags().BoolVar(&showDev, "dev", false, "Enable developer mode")
	showCmd.Flags().BoolVar(&showScanProgress, "progress", true, "Show progress while reading the journal")
}
