package term

import "fmt"

// RGB is a resolved 24-bit color.
type RGB struct {
	R, G, B uint8
}

// Hex renders the color as #RRGGBB.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Standard and bright palettes (Tango).
var (
	standardColors = [8]RGB{
		{0x00, 0x00, 0x00}, {0xCC, 0x00, 0x00},
		{0x4E, 0x9A, 0x06}, {0xC4, 0xA0, 0x00},
		{0x34, 0x65, 0xA4}, {0x75, 0x50, 0x7B},
		{0x06, 0x98, 0x9A}, {0xD3, 0xD7, 0xCF},
	}
	brightColors = [8]RGB{
		{0x55, 0x57, 0x53}, {0xEF, 0x29, 0x29},
		{0x8A, 0xE2, 0x34}, {0xFC, 0xE9, 0x4F},
		{0x72, 0x9F, 0xCF}, {0xAD, 0x7F, 0xA8},
		{0x34, 0xE2, 0xE2}, {0xEE, 0xEE, 0xEC},
	}
)

// StandardColor returns one of the 8 base colors (SGR 30-37 / 40-47).
func StandardColor(n int) RGB {
	return standardColors[clamp(n, 0, 7)]
}

// BrightColor returns one of the 8 bright colors (SGR 90-97 / 100-107).
func BrightColor(n int) RGB {
	return brightColors[clamp(n, 0, 7)]
}

// PaletteColor resolves an xterm 256-color index.
//
//	0-7     standard
//	8-15    bright
//	16-231  6x6x6 cube, 51 per step
//	232-255 grayscale ramp, 8 + 10 per step
func PaletteColor(index int) RGB {
	index = clamp(index, 0, 255)
	switch {
	case index < 8:
		return standardColors[index]
	case index < 16:
		return brightColors[index-8]
	case index < 232:
		n := index - 16
		return RGB{
			R: uint8((n / 36) * 51),
			G: uint8(((n % 36) / 6) * 51),
			B: uint8((n % 6) * 51),
		}
	default:
		gray := uint8(8 + (index-232)*10)
		return RGB{R: gray, G: gray, B: gray}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampByte(v int) uint8 {
	return uint8(clamp(v, 0, 255))
}
