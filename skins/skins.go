// Package skins embeds the built-in skin definitions used when no skin file
// is configured or a configured one fails to load.
package skins

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/skinpad/skinpad/layout"
)

//go:embed *.json
var files embed.FS

const DefaultModel = "ti86"

// ForModel parses the built-in skin for a calculator model name.
func ForModel(name string) (*layout.Skin, error) {
	data, err := files.ReadFile(name + ".json")
	if err != nil {
		return nil, fmt.Errorf("no built-in skin for model %q: %w", name, err)
	}

	skin, err := layout.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("built-in skin %q: %w", name, err)
	}

	return skin, nil
}

// Default returns the built-in skin for DefaultModel.
func Default() *layout.Skin {
	skin, err := ForModel(DefaultModel)
	if err != nil {
		panic(err)
	}

	return skin
}
