package layout

import (
	"image"
	"strings"
)

// Calculator is one emulated calculator model.
type Calculator struct {
	Name string
	// ModelID is the identifier the emulation engine expects at start.
	ModelID int
	// Native is the LCD resolution in emulator pixels.
	Native image.Point
	// ROMSize is the size in bytes of a full ROM dump for this model.
	ROMSize int64
	// Tag is the model number expected somewhere in a ROM file name.
	Tag string
}

const (
	ModelTI85  = 0x0000
	ModelTI86  = 0x0100
	ModelTI82  = 0x0200
	ModelTI83  = 0x0400
	ModelTI83P = 0x0800
)

// Calculators lists the supported models. Order matters for ROM guessing:
// the first entry whose size and tag match wins.
var Calculators = []Calculator{
	{Name: "ti82", ModelID: ModelTI82, Native: image.Pt(96, 64), ROMSize: 0x20000, Tag: "82"},
	{Name: "ti83", ModelID: ModelTI83, Native: image.Pt(96, 64), ROMSize: 0x40000, Tag: "83"},
	{Name: "ti83p", ModelID: ModelTI83P, Native: image.Pt(96, 64), ROMSize: 0x80000, Tag: "83"},
	{Name: "ti85", ModelID: ModelTI85, Native: image.Pt(128, 64), ROMSize: 0x20000, Tag: "85"},
	{Name: "ti86", ModelID: ModelTI86, Native: image.Pt(128, 64), ROMSize: 0x40000, Tag: "86"},
}

// CalculatorByName finds a model by its short name, case-insensitively.
func CalculatorByName(name string) (Calculator, bool) {
	for _, c := range Calculators {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}

	return Calculator{}, false
}
