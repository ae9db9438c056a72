package app

import (
	"docterm/internal/source"
	"docterm/internal/ui"
)

var (
	_ ui.Controller = (*controller)(nil)
	_ source.Source = (*source.PTY)(nil)
	_ source.Source = (*source.Replay)(nil)
)
