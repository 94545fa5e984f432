// Package console provides a text mode console that renders into an EGA
// compatible character buffer.
package console

import "unsafe"

// Attr is a cell color attribute: the background color in the high nibble and
// the foreground color in the low nibble.
type Attr uint8

// MakeAttr combines a foreground and a background palette index into an Attr.
func MakeAttr(fg, bg uint8) Attr {
	return Attr(bg<<4 | fg&0xf)
}

// DefaultAttr renders light grey text on black.
const DefaultAttr = Attr(0x07)

const (
	defaultWidth  = 80
	defaultHeight = 25

	clearChar = byte(' ')
)

// fbPhysAddr is the physical address of the text mode buffer. The boot page
// tables identity-map the first 1G so it is directly accessible.
var fbPhysAddr = uintptr(0xb8000)

// Vga implements an 80x25 text console. Each cell holds a character in the
// low byte and an Attr in the high byte.
type Vga struct {
	width  uint16
	height uint16

	fb []uint16
}

// Init sets up the console to render into fb. If fb is nil, the console
// renders into the physical text mode buffer.
func (cons *Vga) Init(fb []uint16) {
	cons.width = defaultWidth
	cons.height = defaultHeight

	if fb == nil {
		fb = unsafe.Slice((*uint16)(unsafe.Pointer(fbPhysAddr)), defaultWidth*defaultHeight)
	}
	cons.fb = fb
}

// Dimensions returns the console width and height in characters.
func (cons *Vga) Dimensions() (uint16, uint16) {
	return cons.width, cons.height
}

// Clear fills the specified rectangular region with blanks using attr. The
// region is clipped to the console dimensions.
func (cons *Vga) Clear(x, y, width, height uint16, attr Attr) {
	var (
		clr                  = uint16(attr)<<8 | uint16(clearChar)
		rowOffset, colOffset uint16
	)

	if x >= cons.width || y >= cons.height {
		return
	}

	if x+width > cons.width {
		width = cons.width - x
	}
	if y+height > cons.height {
		height = cons.height - y
	}

	rowOffset = (y * cons.width) + x
	for ; height > 0; height, rowOffset = height-1, rowOffset+cons.width {
		for colOffset = rowOffset; colOffset < rowOffset+width; colOffset++ {
			cons.fb[colOffset] = clr
		}
	}
}

// ScrollUp moves the console contents up by the specified number of lines.
// The bottom lines keep their previous contents; callers are expected to
// clear them.
func (cons *Vga) ScrollUp(lines uint16) {
	if lines == 0 || lines > cons.height {
		return
	}

	offset := lines * cons.width
	copy(cons.fb, cons.fb[offset:cons.height*cons.width])
}

// Write a char to the specified location. Off-screen writes are ignored.
func (cons *Vga) Write(ch byte, attr Attr, x, y uint16) {
	if x >= cons.width || y >= cons.height {
		return
	}

	cons.fb[(y*cons.width)+x] = uint16(attr)<<8 | uint16(ch)
}
