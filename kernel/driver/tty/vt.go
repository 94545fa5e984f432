// Package tty provides a terminal that serves as the kernel's output sink.
package tty

import (
	"bootcore/kernel/driver/video/console"
	"bootcore/kernel/kfmt"
)

// Vt implements a simple terminal that can process LF and CR characters. The
// terminal uses a console device for its output and implements
// kfmt.ColorSetter so kfmt.Printc can change the active attribute.
type Vt struct {
	// Interfaces are not usable before an allocator is available so the
	// terminal is bound to a concrete console type.
	cons *console.Vga

	width  uint16
	height uint16

	curX    uint16
	curY    uint16
	curAttr console.Attr
}

// Init attaches the terminal to cons and moves the cursor to the top-left
// corner.
func (t *Vt) Init(cons *console.Vga) {
	t.cons = cons
	t.width, t.height = cons.Dimensions()
	t.curX = 0
	t.curY = 0
	t.curAttr = console.DefaultAttr
}

// Clear clears the terminal and moves the cursor to the top-left corner.
func (t *Vt) Clear() {
	t.cons.Clear(0, 0, t.width, t.height, console.DefaultAttr)
	t.curX, t.curY = 0, 0
}

// Position returns the current cursor position (x, y).
func (t *Vt) Position() (uint16, uint16) {
	return t.curX, t.curY
}

// SetPosition sets the current cursor position to (x,y). Coordinates are
// clipped to the terminal dimensions.
func (t *Vt) SetPosition(x, y uint16) {
	if x >= t.width {
		x = t.width - 1
	}

	if y >= t.height {
		y = t.height - 1
	}

	t.curX, t.curY = x, y
}

// SetColor implements kfmt.ColorSetter. kfmt colors use the VGA palette so
// they map directly to console attributes.
func (t *Vt) SetColor(fg, bg kfmt.Color) {
	t.curAttr = console.MakeAttr(uint8(fg), uint8(bg))
}

// Write implements io.Writer.
func (t *Vt) Write(data []byte) (int, error) {
	for _, b := range data {
		switch b {
		case '\r':
			t.cr()
		case '\n':
			t.cr()
			t.lf()
		default:
			t.cons.Write(b, t.curAttr, t.curX, t.curY)
			t.curX++
			if t.curX == t.width {
				t.cr()
				t.lf()
			}
		}
	}

	return len(data), nil
}

// cr resets the x coordinate of the terminal cursor to 0.
func (t *Vt) cr() {
	t.curX = 0
}

// lf advances the y coordinate of the terminal cursor by one line scrolling
// the terminal contents if the end of the last terminal line is reached.
func (t *Vt) lf() {
	if t.curY+1 < t.height {
		t.curY++
		return
	}

	t.cons.ScrollUp(1)
	t.cons.Clear(0, t.height-1, t.width, 1, console.DefaultAttr)
}
