package skinpad

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"

	"github.com/skinpad/skinpad/engine"
	"github.com/skinpad/skinpad/keypad"
	"github.com/skinpad/skinpad/layout"
	"github.com/skinpad/skinpad/screen"
	"github.com/skinpad/skinpad/skins"
	"github.com/spf13/cobra"
)

// keypadFlags are shared by every command that lays a skin out.
type keypadFlags struct {
	skinPath string
	model    string
	width    int
	height   int
	zoom     bool
}

func (f *keypadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.skinPath, "skin", "s", "", "Skin definition file (default: built-in skin for --model)")
	cmd.Flags().StringVarP(&f.model, "model", "m", skins.DefaultModel, "Calculator model")
	cmd.Flags().IntVar(&f.width, "width", 480, "Surface width in pixels")
	cmd.Flags().IntVar(&f.height, "height", 800, "Surface height in pixels")
	cmd.Flags().BoolVar(&f.zoom, "zoom", false, "Show only the screen and button regions")
}

func (f *keypadFlags) size() image.Point {
	return image.Pt(f.width, f.height)
}

func (f *keypadFlags) calculator() (layout.Calculator, error) {
	calc, ok := layout.CalculatorByName(f.model)
	if !ok {
		return layout.Calculator{}, fmt.Errorf("unknown calculator model %q", f.model)
	}

	return calc, nil
}

// loadSkin loads the configured skin and its bitmap. A configured skin that
// fails to load is replaced by the built-in one for the model.
func (f *keypadFlags) loadSkin() (*layout.Skin, image.Image, error) {
	if f.skinPath == "" {
		skin, err := skins.ForModel(f.model)

		return skin, nil, err
	}

	skin, err := layout.Load(f.skinPath)
	if err != nil {
		slog.Warn("Falling back to the built-in skin", "path", f.skinPath, "error", err)

		builtIn, builtInErr := skins.ForModel(f.model)
		if builtInErr != nil {
			return nil, nil, fmt.Errorf("%w; no fallback: %w", err, builtInErr)
		}

		return builtIn, nil, nil
	}

	if skin.Image == "" {
		return skin, nil, nil
	}

	imagePath := skin.Image
	if !filepath.IsAbs(imagePath) {
		imagePath = filepath.Join(filepath.Dir(f.skinPath), imagePath)
	}

	img, err := screen.LoadImage(imagePath)
	if err != nil {
		slog.Warn("Drawing the skin without its bitmap", "image", imagePath, "error", err)

		return skin, nil, nil
	}

	return skin, img, nil
}

// geometry lays the skin out without an engine.
func (f *keypadFlags) geometry() (*layout.Skin, layout.Geometry, error) {
	calc, err := f.calculator()
	if err != nil {
		return nil, layout.Geometry{}, err
	}

	skin, img, err := f.loadSkin()
	if err != nil {
		return nil, layout.Geometry{}, err
	}

	if img != nil && img.Bounds().Size() != skin.Size {
		skin = skin.WithSize(img.Bounds().Size())
	}

	g, err := layout.Compute(skin, f.size(), calc.Native, f.zoom)
	if err != nil {
		return nil, layout.Geometry{}, fmt.Errorf("could not lay out %s: %w", skin.Name, err)
	}

	return skin, g, nil
}

// newKeypad starts a demo engine for the model and builds a sized keypad
// around it. The engine stops with ctx.
func (f *keypadFlags) newKeypad(ctx context.Context, opts ...keypad.Option) (*keypad.Keypad, *engine.Demo, error) {
	calc, err := f.calculator()
	if err != nil {
		return nil, nil, err
	}

	skin, img, err := f.loadSkin()
	if err != nil {
		return nil, nil, err
	}

	demo := engine.NewDemo(calc, 0)
	if err := demo.Start(ctx); err != nil {
		return nil, nil, err
	}

	k := keypad.New(demo, calc.Native, opts...)

	if err := k.SetSkin(skin, img); err != nil {
		return nil, nil, err
	}

	if err := k.SetZoomed(f.zoom); err != nil {
		return nil, nil, err
	}

	if err := k.Resize(f.width, f.height); err != nil {
		return nil, nil, err
	}

	return k, demo, nil
}
