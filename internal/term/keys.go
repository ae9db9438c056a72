package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// KeyCode names the special keys a remote session understands.
type KeyCode int

const (
	KeyArrowUp KeyCode = iota + 1
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyTab
	KeyEscape
	KeyEnter
	KeyCtrlC
	KeyCtrlD
	KeyCtrlZ
	KeyCtrlL
	KeyCtrlA
	KeyCtrlE
)

var namedKeys = map[KeyCode]string{
	KeyArrowUp:    "\x1b[A",
	KeyArrowDown:  "\x1b[B",
	KeyArrowRight: "\x1b[C",
	KeyArrowLeft:  "\x1b[D",
	KeyTab:        "\t",
	KeyEscape:     "\x1b",
	KeyEnter:      "\r",
	KeyCtrlC:      "\x03",
	KeyCtrlD:      "\x04",
	KeyCtrlZ:      "\x1a",
	KeyCtrlL:      "\x0c",
	KeyCtrlA:      "\x01",
	KeyCtrlE:      "\x05",
}

// EncodeNamedKey returns the bytes to send for k, or nil for an unknown key.
func EncodeNamedKey(k KeyCode) []byte {
	if s, ok := namedKeys[k]; ok {
		return []byte(s)
	}
	return nil
}

// EncodeEventToBytes converts key events to terminal byte sequences using
// xterm conventions for modifiers.
func EncodeEventToBytes(ev *tcell.EventKey) []byte {
	if ev == nil {
		return nil
	}
	mods := ev.Modifiers()

	if ctrl, ok := ctrlCode(ev.Key()); ok {
		return withAlt([]byte{ctrl}, mods)
	}

	switch ev.Key() {
	case tcell.KeyRune:
		return withAlt([]byte(string(ev.Rune())), mods)
	case tcell.KeyEnter:
		return withAlt([]byte("\r"), mods)
	case tcell.KeyTab:
		if mods&tcell.ModShift != 0 {
			return []byte("\x1b[Z")
		}
		return withAlt([]byte("\t"), mods)
	case tcell.KeyBacktab:
		return []byte("\x1b[Z")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return withAlt([]byte{0x7f}, mods)
	case tcell.KeyEsc:
		return []byte{0x1b}
	case tcell.KeyUp:
		return csiWithModifier("A", mods)
	case tcell.KeyDown:
		return csiWithModifier("B", mods)
	case tcell.KeyRight:
		return csiWithModifier("C", mods)
	case tcell.KeyLeft:
		return csiWithModifier("D", mods)
	case tcell.KeyHome:
		return csiWithModifier("H", mods)
	case tcell.KeyEnd:
		return csiWithModifier("F", mods)
	case tcell.KeyPgUp:
		return tildeWithModifier(5, mods)
	case tcell.KeyPgDn:
		return tildeWithModifier(6, mods)
	case tcell.KeyDelete:
		return tildeWithModifier(3, mods)
	case tcell.KeyInsert:
		return tildeWithModifier(2, mods)
	}

	if f := functionKey(ev.Key()); f != "" {
		return []byte(f)
	}
	return nil
}

func withAlt(b []byte, mods tcell.ModMask) []byte {
	if mods&tcell.ModAlt != 0 {
		return append([]byte{0x1b}, b...)
	}
	return b
}

func csiWithModifier(final string, mods tcell.ModMask) []byte {
	mod := xtermModifier(mods)
	if mod == 1 {
		return []byte("\x1b[" + final)
	}
	return []byte(fmt.Sprintf("\x1b[1;%d%s", mod, final))
}

func tildeWithModifier(n int, mods tcell.ModMask) []byte {
	mod := xtermModifier(mods)
	if mod == 1 {
		return []byte(fmt.Sprintf("\x1b[%d~", n))
	}
	return []byte(fmt.Sprintf("\x1b[%d;%d~", n, mod))
}

func xtermModifier(mods tcell.ModMask) int {
	mod := 1
	if mods&tcell.ModShift != 0 {
		mod++
	}
	if mods&tcell.ModAlt != 0 {
		mod += 2
	}
	if mods&tcell.ModCtrl != 0 {
		mod += 4
	}
	return mod
}

// ctrlCode maps tcell's control keys onto C0 bytes.
func ctrlCode(k tcell.Key) (byte, bool) {
	switch {
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		if k == tcell.KeyCtrlI || k == tcell.KeyCtrlM {
			// Tab and Enter share these codes and carry modifiers by name.
			return 0, false
		}
		return byte(k-tcell.KeyCtrlA) + 1, true
	case k == tcell.KeyCtrlSpace:
		return 0x00, true
	case k == tcell.KeyCtrlBackslash:
		return 0x1c, true
	case k == tcell.KeyCtrlRightSq:
		return 0x1d, true
	case k == tcell.KeyCtrlCarat:
		return 0x1e, true
	case k == tcell.KeyCtrlUnderscore:
		return 0x1f, true
	}
	return 0, false
}

func functionKey(k tcell.Key) string {
	switch k {
	case tcell.KeyF1:
		return "\x1bOP"
	case tcell.KeyF2:
		return "\x1bOQ"
	case tcell.KeyF3:
		return "\x1bOR"
	case tcell.KeyF4:
		return "\x1bOS"
	case tcell.KeyF5:
		return "\x1b[15~"
	case tcell.KeyF6:
		return "\x1b[17~"
	case tcell.KeyF7:
		return "\x1b[18~"
	case tcell.KeyF8:
		return "\x1b[19~"
	case tcell.KeyF9:
		return "\x1b[20~"
	case tcell.KeyF10:
		return "\x1b[21~"
	case tcell.KeyF11:
		return "\x1b[23~"
	case tcell.KeyF12:
		return "\x1b[24~"
	default:
		return ""
	}
}
