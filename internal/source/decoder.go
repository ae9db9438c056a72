package source

import (
	"errors"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decoder turns raw reads into valid UTF-8 text. A multi-byte sequence
// split across reads is held back until its remaining bytes arrive;
// invalid bytes become U+FFFD.
type Decoder struct {
	t    transform.Transformer
	tail []byte
	buf  []byte
}

func NewDecoder() *Decoder {
	return &Decoder{t: unicode.UTF8.NewDecoder(), buf: make([]byte, 4096)}
}

// Decode converts p, prefixed by any bytes held back from the last call.
func (d *Decoder) Decode(p []byte) string {
	src := append(d.tail, p...)
	d.tail = nil
	return d.run(src, false)
}

// Flush converts whatever is still held back.
func (d *Decoder) Flush() string {
	src := d.tail
	d.tail = nil
	return d.run(src, true)
}

func (d *Decoder) run(src []byte, atEOF bool) string {
	var out strings.Builder
	for len(src) > 0 {
		nDst, nSrc, err := d.t.Transform(d.buf, src, atEOF)
		out.Write(d.buf[:nDst])
		src = src[nSrc:]
		switch {
		case err == nil:
			if nSrc == 0 {
				src = nil
			}
		case errors.Is(err, transform.ErrShortDst):
		case errors.Is(err, transform.ErrShortSrc):
			d.tail = append([]byte(nil), src...)
			src = nil
		default:
			src = nil
		}
	}
	return out.String()
}
