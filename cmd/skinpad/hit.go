package skinpad

import (
	"fmt"
	"strconv"

	"github.com/skinpad/skinpad/buttons"
	"github.com/skinpad/skinpad/input"
	"github.com/skinpad/skinpad/layout"
	"github.com/spf13/cobra"
)

var hitFlags keypadFlags

// hitCmd represents the hit command.
var hitCmd = &cobra.Command{
	Use:   "hit X Y",
	Short: "Show which button a surface point lands on",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("bad x: %w", err)
		}

		y, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("bad y: %w", err)
		}

		skin, g, err := hitFlags.geometry()
		if err != nil {
			return err
		}

		p := g.ViewToButton(x, y)
		out := cmd.OutOrStdout()

		locator := input.SkinLocator{Geometry: g, Buttons: buttons.New(skin.Buttons)}

		b, ok := locator.ButtonAt(x, y)
		if !ok {
			fmt.Fprintf(out, "%g,%g -> skin %d,%d: no button\n", x, y, p.X, p.Y)

			return nil
		}

		fmt.Fprintf(out, "%g,%g -> skin %d,%d: %s (0x%02X)\n", x, y, p.X, p.Y, layout.KeyLabel(b.Code), int(b.Code))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(hitCmd)
	hitFlags.register(hitCmd)
}
