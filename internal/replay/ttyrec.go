package replay

import (
	"encoding/binary"
	"errors"
	"time"
)

// DecodeTTYRec converts a ttyrec stream (12-byte little endian header of
// sec, usec, length, then the payload) into frames. Delays come from the
// timestamp deltas; the first frame has none.
func DecodeTTYRec(data []byte) ([]Frame, error) {
	if len(data) < 12 {
		return nil, errors.New("ttyrec data too short")
	}

	frames := make([]Frame, 0, 16)
	offset := 0
	var lastTS int64
	first := true

	for offset < len(data) {
		if offset+12 > len(data) {
			return nil, errors.New("truncated ttyrec header")
		}
		sec := binary.LittleEndian.Uint32(data[offset : offset+4])
		usec := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		size := binary.LittleEndian.Uint32(data[offset+8 : offset+12])
		offset += 12

		if size > uint32(len(data)-offset) {
			return nil, errors.New("truncated ttyrec payload")
		}
		chunk := string(data[offset : offset+int(size)])
		offset += int(size)

		ts := int64(sec)*1_000_000 + int64(usec)
		var delay time.Duration
		if !first && ts > lastTS {
			delay = time.Duration(ts-lastTS) * time.Microsecond
		}
		first = false
		lastTS = ts

		frames = append(frames, Frame{After: delay, Data: chunk})
	}
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	return frames, nil
}

// EncodeTTYRec is the inverse of DecodeTTYRec, with timestamps starting at
// start.
func EncodeTTYRec(frames []Frame, start time.Time) []byte {
	var out []byte
	ts := start
	hdr := make([]byte, 12)
	for _, f := range frames {
		ts = ts.Add(f.After)
		us := ts.UnixMicro()
		binary.LittleEndian.PutUint32(hdr[0:4], uint32(us/1_000_000))
		binary.LittleEndian.PutUint32(hdr[4:8], uint32(us%1_000_000))
		binary.LittleEndian.PutUint32(hdr[8:12], uint32(len(f.Data)))
		out = append(out, hdr...)
		out = append(out, f.Data...)
	}
	return out
}
