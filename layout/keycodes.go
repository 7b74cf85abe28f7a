package layout

import (
	"fmt"
	"sort"

	"github.com/skinpad/skinpad/model"
)

// Key codes understood by the emulation engine. Several names share a code
// because different calculator models label the same matrix position
// differently.
const (
	Key2nd     model.KeyCode = 0x00
	KeyAlpha   model.KeyCode = 0x01
	KeyXVar    model.KeyCode = 0x02
	KeyGraph   model.KeyCode = 0x03
	KeyMatrx   model.KeyCode = 0x04 // TI-83
	KeyStat    model.KeyCode = 0x04 // TI-85
	KeyTable   model.KeyCode = 0x04 // TI-86
	KeyPrgm    model.KeyCode = 0x05
	KeyCustom  model.KeyCode = 0x06
	KeyLog     model.KeyCode = 0x07
	KeyDel     model.KeyCode = 0x08
	KeyMore    model.KeyCode = 0x09
	KeySin     model.KeyCode = 0x0A
	KeyCos     model.KeyCode = 0x0B
	KeyClear   model.KeyCode = 0x0C
	KeyEnter   model.KeyCode = 0x0D
	KeyTan     model.KeyCode = 0x0E
	KeyLn      model.KeyCode = 0x0F
	KeyEE      model.KeyCode = 0x10
	KeySqr     model.KeyCode = 0x11
	KeySto     model.KeyCode = 0x12
	KeyOn      model.KeyCode = 0x13
	KeySign    model.KeyCode = 0x14
	KeyF1      model.KeyCode = 0x15
	KeyF2      model.KeyCode = 0x16
	KeyF3      model.KeyCode = 0x17
	KeyF4      model.KeyCode = 0x18
	KeyF5      model.KeyCode = 0x19
	KeyMode    model.KeyCode = 0x1B // TI-83
	KeyExit    model.KeyCode = 0x1B // TI-85/86
	KeyLeft    model.KeyCode = 0x1C
	KeyRight   model.KeyCode = 0x1D
	KeyUp      model.KeyCode = 0x1E
	KeyDown    model.KeyCode = 0x1F
	KeyPower   model.KeyCode = '^'
	KeyLParen  model.KeyCode = '('
	KeyRParen  model.KeyCode = ')'
	KeyDiv     model.KeyCode = '/'
	Key7       model.KeyCode = '7'
	Key8       model.KeyCode = '8'
	Key9       model.KeyCode = '9'
	KeyMul     model.KeyCode = '*'
	KeyComma   model.KeyCode = ','
	Key4       model.KeyCode = '4'
	Key5       model.KeyCode = '5'
	Key6       model.KeyCode = '6'
	KeyMinus   model.KeyCode = '-'
	Key1       model.KeyCode = '1'
	Key2       model.KeyCode = '2'
	Key3       model.KeyCode = '3'
	KeyPlus    model.KeyCode = '+'
	Key0       model.KeyCode = '0'
	KeyDot     model.KeyCode = '.'
)

var keyCodes = map[string]model.KeyCode{
	"KBD_2ND":     Key2nd,
	"KBD_ALPHA":   KeyAlpha,
	"KBD_XVAR":    KeyXVar,
	"KBD_GRAPH":   KeyGraph,
	"KBD_MATRX":   KeyMatrx,
	"KBD_STAT":    KeyStat,
	"KBD_TABLE":   KeyTable,
	"KBD_PRGM":    KeyPrgm,
	"KBD_CUSTOM":  KeyCustom,
	"KBD_LOG":     KeyLog,
	"KBD_DEL":     KeyDel,
	"KBD_MORE":    KeyMore,
	"KBD_SIN":     KeySin,
	"KBD_COS":     KeyCos,
	"KBD_CLEAR":   KeyClear,
	"KBD_ENTER":   KeyEnter,
	"KBD_TAN":     KeyTan,
	"KBD_LN":      KeyLn,
	"KBD_EE":      KeyEE,
	"KBD_SQR":     KeySqr,
	"KBD_STO":     KeySto,
	"KBD_ON":      KeyOn,
	"KBD_SIGN":    KeySign,
	"KBD_F1":      KeyF1,
	"KBD_F2":      KeyF2,
	"KBD_F3":      KeyF3,
	"KBD_F4":      KeyF4,
	"KBD_F5":      KeyF5,
	"KBD_MODE":    KeyMode,
	"KBD_EXIT":    KeyExit,
	"KBD_LEFT":    KeyLeft,
	"KBD_RIGHT":   KeyRight,
	"KBD_UP":      KeyUp,
	"KBD_DOWN":    KeyDown,
	"KBD_POWER":   KeyPower,
	"KBD_LPARENT": KeyLParen,
	"KBD_RPARENT": KeyRParen,
	"KBD_DIV":     KeyDiv,
	"KBD_7":       Key7,
	"KBD_8":       Key8,
	"KBD_9":       Key9,
	"KBD_MUL":     KeyMul,
	"KBD_COMMA":   KeyComma,
	"KBD_4":       Key4,
	"KBD_5":       Key5,
	"KBD_6":       Key6,
	"KBD_MINUS":   KeyMinus,
	"KBD_1":       Key1,
	"KBD_2":       Key2,
	"KBD_3":       Key3,
	"KBD_PLUS":    KeyPlus,
	"KBD_0":       Key0,
	"KBD_DOT":     KeyDot,
}

// KeyCodeFor looks up a symbolic key name such as "KBD_ENTER".
func KeyCodeFor(name string) (model.KeyCode, bool) {
	code, ok := keyCodes[name]

	return code, ok
}

// KeyNames returns every symbolic name mapping to code, sorted.
func KeyNames(code model.KeyCode) []string {
	names := make([]string, 0, 1)

	for name, c := range keyCodes {
		if c == code {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}

// KeyLabel is a short human readable label for code, used by the inspector.
func KeyLabel(code model.KeyCode) string {
	names := KeyNames(code)
	if len(names) == 0 {
		return fmt.Sprintf("0x%02X", int(code))
	}

	return names[0][len("KBD_"):]
}
