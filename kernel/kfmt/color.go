package kfmt

import "io"

// Color is a text attribute color. Values follow the VGA text mode palette so
// console sinks can use them as-is.
type Color uint8

// The subset of the VGA palette used by kernel messages.
const (
	Black  Color = 0
	Blue   Color = 1
	Green  Color = 2
	Red    Color = 4
	Yellow Color = 14
	White  Color = 15
)

// ColorSetter is implemented by output sinks that can render colored text.
// Sinks that do not implement it receive the plain text only.
type ColorSetter interface {
	SetColor(fg, bg Color)
}

// Printc sets the foreground and background color of the active sink and
// then behaves like Printf.
func Printc(fg, bg Color, format string, args ...interface{}) {
	Fprintc(outputSink, fg, bg, format, args...)
}

// Fprintc behaves like Printc but writes to w. The colors are ignored if w
// does not implement ColorSetter.
func Fprintc(w io.Writer, fg, bg Color, format string, args ...interface{}) {
	if cs, ok := w.(ColorSetter); ok {
		cs.SetColor(fg, bg)
	}
	Fprintf(w, format, args...)
}
