package skinpad

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/skinpad/skinpad/db"
	"github.com/skinpad/skinpad/keypad"
	"github.com/skinpad/skinpad/model"
	"github.com/skinpad/skinpad/screen"
	"github.com/skinpad/skinpad/touchlog"
	"github.com/skinpad/skinpad/touchlog/ports"
	"github.com/skinpad/skinpad/web"
	"github.com/skinpad/skinpad/web/routes"
	"github.com/spf13/cobra"
)

var (
	trackFlags       keypadFlags
	devices          []string
	monitor          bool
	baudRate         int
	storagePath      string
	port             int
	fps              int
	disableInterface bool
	verbose          bool
	dev              bool
)

// trackCmd represents the track command.
var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Drive the keypad from a touch bridge and journal key presses",
	Long: `Read touch lines from serial touch bridges (or stdin when no device is
given), feed them to the keypad, draw frames at a fixed rate and journal every
delivered key transition. Optionally serve the inspector while tracking.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		lines, closer, err := openTouchInput(ctx)
		if err != nil {
			return err
		}
		defer closer()

		slog.Info("Journal", "path", storagePath)

		storage, err := db.NewStorageFromPath(storagePath)
		if err != nil {
			return fmt.Errorf("could not open %s as sqlite file: %w", storagePath, err)
		}
		defer storage.Close()

		chords, err := db.NewChordTrackerFromDB(storage, false)
		if err != nil {
			return fmt.Errorf("could not create chord tracker: %w", err)
		}

		follows, err := db.NewFollowCounterFromDB(storage)
		if err != nil {
			return fmt.Errorf("could not create follow tracker: %w", err)
		}

		recorder := &journal{storage: storage, trackers: []db.Tracker{chords, follows}, verbose: verbose}

		k, _, err := trackFlags.newKeypad(ctx, keypad.WithRecorder(recorder))
		if err != nil {
			return err
		}
		defer k.Close()

		frames := &routes.LatestFrame{}

		if !disableInterface {
			handler := &routes.ServerHandler{
				Storage:       storage,
				ChordTracker:  chords,
				FollowTracker: follows,
				Layout:        k,
				Frames:        frames,
			}

			go func() {
				if err := web.StartServer(ctx, port, handler, dev); err != nil {
					slog.Error("Inspector stopped", "error", err)
				}
			}()
		}

		ticker := time.NewTicker(time.Second / time.Duration(max(fps, 1)))
		defer ticker.Stop()

		canvas := screen.NewImageCanvas(trackFlags.width, trackFlags.height)
		drawDone := make(chan error, 1)

		go func() {
			drawDone <- k.Run(ctx, ticker.C, canvas, func(out screen.Outcome) {
				if out.Redraw || out.Fallback {
					frames.Update(canvas.Image)
				}
			})
		}()

		stats, err := touchlog.TouchLogLoop(ctx, lines, k, verbose)
		slog.Info("Touch input finished", "events", stats.Events, "transitions", stats.Transitions, "skipped", stats.Skipped)

		cancel()

		if drawErr := <-drawDone; drawErr != nil && !errors.Is(drawErr, context.Canceled) {
			return drawErr
		}

		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		return nil
	},
}

// journal stores delivered transitions and keeps the live trackers current.
type journal struct {
	storage  db.Storage
	trackers []db.Tracker
	verbose  bool
}

func (j *journal) Store(t model.KeyTransition) error {
	for _, tracker := range j.trackers {
		tracker.HandleKeyNow(t.Code, t.Pressed, j.verbose)
	}

	return j.storage.Store(t)
}

// openTouchInput picks the touch source: a polling monitor, the listed
// devices, or stdin.
func openTouchInput(ctx context.Context) (<-chan string, func(), error) {
	switch {
	case monitor:
		reader := ports.DefaultMonitoringDeviceReader(baudRate)

		return reader.Channel(ctx), func() {}, nil
	case len(devices) > 0:
		ch, closer, err := ports.OpenFiles(devices, baudRate)
		if err == nil {
			return ch, closer, nil
		}

		names, errInner := ports.GetAvailableDevices()
		if errInner != nil {
			return nil, nil, fmt.Errorf("could not open device: %w; could not suggest devices: %w", err, errInner)
		}

		if len(names) > 0 {
			return nil, nil, fmt.Errorf("error opening devices: %w. Maybe try instead: %v", err, names)
		}

		return nil, nil, fmt.Errorf("error opening devices: %w. It does not seem like any touch bridge is connected", err)
	default:
		if names, err := ports.GetAvailableDevices(); err == nil && len(names) > 0 {
			slog.Info("Suggested devices", "names", names)
		}

		slog.Info("Will proceed to read from stdin...")

		return ports.ReadFile(os.Stdin), func() {}, nil
	}
}

func init() {
	rootCmd.AddCommand(trackCmd)
	trackFlags.register(trackCmd)

	trackCmd.Flags().StringSliceVarP(&devices, "device", "d", []string{}, "Serial touch bridges to read from")
	trackCmd.Flags().BoolVar(&monitor, "monitor", false, "Poll for touch bridges and read every one that shows up")
	trackCmd.Flags().IntVar(&baudRate, "baud", ports.DefaultBaudRate, "Serial baud rate")
	trackCmd.Flags().StringVarP(&storagePath, "out", "o", "./keypresses.sqlite", "Journal path")
	trackCmd.Flags().IntVarP(&port, "port", "p", 3000, "Port on which the inspector listens")
	trackCmd.Flags().IntVar(&fps, "fps", 30, "Frames drawn per second")
	trackCmd.Flags().BoolVar(&disableInterface, "no-interface", false, "If provided, no inspector will be served")
	trackCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "If provided, every touch event is logged")
	trackCmd.Flags().BoolVar(&dev, "dev", false, "Enable developer mode")
}
