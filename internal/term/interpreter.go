package term

import (
	"strconv"
	"strings"
)

const (
	esc = '\x1b'
	bel = '\a'

	maxCSILen = 256
	maxOSCLen = 64 * 1024
)

type interpState int

const (
	stateNormal interpState = iota
	stateEscape
	stateCSI
	stateOSC
	stateCharset
)

// Interpreter decodes a stream of text mixing printable characters and
// control sequences, driving a Screen. Input may be split at any point:
// an unfinished sequence is buffered until the next Feed.
//
// Malformed or unsupported sequences are dropped; Feed never fails.
type Interpreter struct {
	screen *Screen
	style  Style

	state       interpState
	csi         strings.Builder
	csiOverflow bool
	oscLen      int
	oscEsc      bool

	bracketedPaste bool
}

// NewInterpreter returns an interpreter writing into screen.
func NewInterpreter(screen *Screen) *Interpreter {
	return &Interpreter{screen: screen}
}

// Screen returns the screen the interpreter drives.
func (in *Interpreter) Screen() *Screen { return in.screen }

// Style returns the rendition applied to the next written character.
func (in *Interpreter) Style() Style { return in.style }

// Pending reports whether an incomplete control sequence is buffered.
func (in *Interpreter) Pending() bool {
	return in.state != stateNormal
}

// BracketedPaste reports whether the remote enabled bracketed paste mode
// (CSI ?2004h). It has no effect on the screen.
func (in *Interpreter) BracketedPaste() bool {
	return in.bracketedPaste
}

// Reset clears the current style and any buffered partial sequence.
func (in *Interpreter) Reset() {
	in.style = Style{}
	in.resetSequence()
}

func (in *Interpreter) resetSequence() {
	in.state = stateNormal
	in.csi.Reset()
	in.csiOverflow = false
	in.oscLen = 0
	in.oscEsc = false
}

// Feed consumes one chunk of decoded output.
func (in *Interpreter) Feed(chunk string) {
	for _, ch := range chunk {
		in.step(ch)
	}
}

func (in *Interpreter) step(ch rune) {
	switch in.state {
	case stateEscape:
		in.escape(ch)
	case stateCSI:
		in.collectCSI(ch)
	case stateOSC:
		in.collectOSC(ch)
	case stateCharset:
		// ESC ( X / ESC ) X: the designated charset is ignored.
		in.resetSequence()
	default:
		in.normal(ch)
	}
}

func (in *Interpreter) normal(ch rune) {
	s := in.screen
	switch ch {
	case esc:
		in.resetSequence()
		in.state = stateEscape
	case '\r':
		s.CarriageReturn()
	case '\n':
		s.LineFeed()
	case '\b':
		s.MoveCursorBackward(1)
	case '\t':
		row, col := s.Cursor()
		s.MoveCursorTo(row, (col/8+1)*8)
	case bel:
	default:
		if ch >= 0x20 && ch != 0x7f {
			s.WriteChar(ch, in.style)
		}
	}
}

func (in *Interpreter) escape(ch rune) {
	switch ch {
	case '[':
		in.state = stateCSI
	case ']':
		in.state = stateOSC
	case '(', ')':
		in.state = stateCharset
	default:
		in.resetSequence()
	}
}

func (in *Interpreter) collectCSI(ch rune) {
	switch {
	case ch >= 0x40 && ch <= 0x7e:
		params, overflow := in.csi.String(), in.csiOverflow
		in.resetSequence()
		if !overflow {
			in.dispatchCSI(params, byte(ch))
		}
	case ch >= 0x20 && ch <= 0x3f:
		if in.csi.Len() >= maxCSILen {
			// Keep consuming up to the final byte, then drop the sequence.
			in.csiOverflow = true
			return
		}
		in.csi.WriteRune(ch)
	case ch == esc:
		// An ESC inside a sequence abandons it and starts a new one.
		in.resetSequence()
		in.state = stateEscape
	case ch < 0x20:
	default:
		in.resetSequence()
	}
}

func (in *Interpreter) collectOSC(ch rune) {
	switch {
	case ch == bel:
		in.resetSequence()
	case ch == '\\' && in.oscEsc:
		in.resetSequence()
	default:
		in.oscEsc = ch == esc
		in.oscLen++
		if in.oscLen > maxOSCLen {
			in.resetSequence()
		}
	}
}

func (in *Interpreter) dispatchCSI(raw string, final byte) {
	if raw != "" && strings.ContainsRune("?<=>", rune(raw[0])) {
		in.privateCSI(raw[1:], final)
		return
	}
	params := parseParams(raw)
	s := in.screen
	row, col := s.Cursor()

	switch final {
	case 'm':
		in.sgr(raw, params)
	case 'H', 'f':
		s.MoveCursorTo(arg(params, 0, 1)-1, arg(params, 1, 1)-1)
	case 'A':
		s.MoveCursorUp(count(params))
	case 'B':
		s.MoveCursorDown(count(params))
	case 'C':
		s.MoveCursorForward(count(params))
	case 'D':
		s.MoveCursorBackward(count(params))
	case 'E':
		s.MoveCursorDown(count(params))
		s.CarriageReturn()
	case 'F':
		s.MoveCursorUp(count(params))
		s.CarriageReturn()
	case 'G':
		s.MoveCursorTo(row, arg(params, 0, 1)-1)
	case 'd':
		s.MoveCursorTo(arg(params, 0, 1)-1, col)
	case 'J':
		switch arg(params, 0, 0) {
		case 0:
			s.EraseToEndOfScreen()
		case 1:
			s.EraseToStartOfScreen()
		case 2, 3:
			s.EraseEntireScreen()
		}
	case 'K':
		switch arg(params, 0, 0) {
		case 0:
			s.EraseToEndOfLine()
		case 1:
			s.EraseToStartOfLine()
		case 2:
			s.EraseEntireLine()
		}
	case 'X':
		s.EraseChars(count(params))
	case 'S':
		for n := min(count(params), s.Rows()); n > 0; n-- {
			s.ScrollUp()
		}
	case 'T', 's', 'u', 'n', 'l', 'h', 'r':
		// Scroll down, cursor save/restore, device status, modes and scroll
		// regions are not modeled.
	}
}

func (in *Interpreter) privateCSI(raw string, final byte) {
	if final != 'h' && final != 'l' {
		return
	}
	for _, mode := range parseParams(raw) {
		if mode == 2004 {
			in.bracketedPaste = final == 'h'
		}
	}
}

func (in *Interpreter) sgr(raw string, params []int) {
	if raw == "" {
		in.style = Style{}
		return
	}
	st := &in.style
	for i := 0; i < len(params); i++ {
		code := params[i]
		switch {
		case code < 0:
			// unparsable parameter, skipped
		case code == 0:
			*st = Style{}
		case code == 1:
			st.Bold = true
		case code == 3:
			st.Italic = true
		case code == 4:
			st.Underline = true
		case code == 22:
			st.Bold = false
		case code == 23:
			st.Italic = false
		case code == 24:
			st.Underline = false
		case code >= 30 && code <= 37:
			st.FG = ColorOf(StandardColor(code - 30))
		case code == 39:
			st.FG = Color{}
		case code >= 40 && code <= 47:
			st.BG = ColorOf(StandardColor(code - 40))
		case code == 49:
			st.BG = Color{}
		case code >= 90 && code <= 97:
			st.FG = ColorOf(BrightColor(code - 90))
		case code >= 100 && code <= 107:
			st.BG = ColorOf(BrightColor(code - 100))
		case code == 38, code == 48:
			c, used, ok := extendedColor(params[i+1:])
			if ok {
				if code == 38 {
					st.FG = ColorOf(c)
				} else {
					st.BG = ColorOf(c)
				}
			}
			i += used
		}
	}
}

// extendedColor decodes the tail of a 38/48 SGR parameter: "5;N" or
// "2;R;G;B". It returns how many parameters were consumed.
func extendedColor(rest []int) (RGB, int, bool) {
	if len(rest) == 0 {
		return RGB{}, 0, false
	}
	switch rest[0] {
	case 5:
		if len(rest) >= 2 && rest[1] >= 0 {
			return PaletteColor(rest[1]), 2, true
		}
	case 2:
		if len(rest) >= 4 && rest[1] >= 0 && rest[2] >= 0 && rest[3] >= 0 {
			return RGB{R: clampByte(rest[1]), G: clampByte(rest[2]), B: clampByte(rest[3])}, 4, true
		}
	}
	return RGB{}, 0, false
}

// parseParams splits a CSI parameter string on ';'. Empty or non-numeric
// fields become -1.
func parseParams(raw string) []int {
	if raw == "" {
		return nil
	}
	fields := strings.Split(raw, ";")
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			n = -1
		}
		out[i] = n
	}
	return out
}

func arg(params []int, i, def int) int {
	if i < len(params) && params[i] >= 0 {
		return params[i]
	}
	return def
}

// maxCount bounds repeat counts well past any screen dimension.
const maxCount = 1 << 16

func count(params []int) int {
	if n := arg(params, 0, 1); n > 0 {
		return min(n, maxCount)
	}
	return 1
}
