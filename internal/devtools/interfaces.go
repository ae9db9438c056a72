package devtools

import "docterm/internal/replay"

type Demo interface {
	Names() []string
	Recording(name string) (replay.Recording, error)
	WriteState(dir string, st State) (string, error)
}

var _ Demo = (*Manager)(nil)
