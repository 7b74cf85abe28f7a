package skinpad

import (
	"fmt"
	"image"
	"io"

	"github.com/skinpad/skinpad/layout"
	"github.com/spf13/cobra"
)

var layoutFlags keypadFlags

// layoutCmd represents the layout command.
var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the geometry of a skin on a surface",
	Long: `Lay a skin out on a surface of the given size and print where the skin,
the emulated LCD and the button area end up.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		skin, g, err := layoutFlags.geometry()
		if err != nil {
			return err
		}

		calc, err := layoutFlags.calculator()
		if err != nil {
			return err
		}

		printGeometry(cmd.OutOrStdout(), skin, g, calc.Native)

		return nil
	},
}

func printRect(w io.Writer, name string, r image.Rectangle) {
	fmt.Fprintf(w, "%-12s %4d,%4d - %4d,%4d  (%dx%d)\n", name, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, r.Dx(), r.Dy())
}

func printGeometry(w io.Writer, skin *layout.Skin, g layout.Geometry, native image.Point) {
	fmt.Fprintf(w, "skin %q, %d buttons\n", skin.Name, len(skin.Buttons))
	printRect(w, "view", g.View)
	printRect(w, "visible", g.Visible)
	printRect(w, "screen src", g.ScreenSrc)
	printRect(w, "screen dst", g.ScreenDst)
	printRect(w, "button src", g.ButtonSrc)
	printRect(w, "button dst", g.ButtonDst)
	printRect(w, "screen view", g.ScreenView)
	printRect(w, "button view", g.ButtonView)
	printRect(w, "pixels", g.Pixels)

	scale := g.Scale(native)
	fmt.Fprintf(w, "%-12s %dx%d per emulated pixel\n", "scale", scale.X, scale.Y)
}

func init() {
	rootCmd.AddCommand(layoutCmd)
	layoutFlags.register(layoutCmd)
}
