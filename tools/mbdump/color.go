package main

import (
	"io"

	"bootcore/kernel/kfmt"

	"github.com/charmbracelet/x/ansi"
)

// colorWriter is a kfmt output sink that renders kfmt color tags as ANSI SGR
// sequences.
type colorWriter struct {
	w       io.Writer
	enabled bool
	styled  bool
}

func newColorWriter(w io.Writer, enabled bool) *colorWriter {
	return &colorWriter{w: w, enabled: enabled}
}

// Write implements io.Writer.
func (cw *colorWriter) Write(p []byte) (int, error) {
	return cw.w.Write(p)
}

// SetColor implements kfmt.ColorSetter.
func (cw *colorWriter) SetColor(fg, bg kfmt.Color) {
	if !cw.enabled {
		return
	}

	style := ansi.Style{}.ForegroundColor(ansiColor(fg))
	if bg != kfmt.Black {
		style = style.BackgroundColor(ansiColor(bg))
	}
	io.WriteString(cw.w, style.String())
	cw.styled = true
}

// Reset restores the terminal's default style if any color was emitted.
func (cw *colorWriter) Reset() {
	if cw.styled {
		io.WriteString(cw.w, ansi.ResetStyle)
		cw.styled = false
	}
}

// ansiColor maps a VGA palette color to the closest ANSI basic color.
func ansiColor(c kfmt.Color) ansi.BasicColor {
	switch c {
	case kfmt.Blue:
		return ansi.Blue
	case kfmt.Green:
		return ansi.Green
	case kfmt.Red:
		return ansi.Red
	case kfmt.Yellow:
		return ansi.BrightYellow
	case kfmt.White:
		return ansi.BrightWhite
	default:
		return ansi.Black
	}
}
