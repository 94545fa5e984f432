// Package kfmt is the kernel's logging sink. It provides a Printf that can be
// used before the Go allocator is available, buffers output until a real sink
// is attached and forwards color tags to sinks that understand them.
package kfmt

import (
	"io"
	"unsafe"
)

// numBufSize defines the scratch buffer size for formatting numbers. A
// 64-bit value needs at most 22 octal digits plus a sign.
const numBufSize = 32

var (
	errMissingArg   = []byte("(MISSING)")
	errWrongArgType = []byte("%!(WRONGTYPE)")
	errNoVerb       = []byte("%!(NOVERB)")
	errExtraArg     = []byte("%!(EXTRA)")
	trueValue       = []byte("true")
	falseValue      = []byte("false")

	numBuf [numBufSize]byte

	// oneByte is shared by all writes of individual characters.
	oneByte = []byte(" ")

	// earlyBuf captures output produced before SetOutputSink is called.
	earlyBuf ringBuffer

	// outputSink receives all Printf output. While nil, output is kept in
	// earlyBuf.
	outputSink io.Writer
)

// SetOutputSink redirects Printf output to w and flushes any output buffered
// so far into it.
func SetOutputSink(w io.Writer) {
	outputSink = w
	if w != nil {
		io.Copy(w, &earlyBuf)
	}
}

// GetOutputSink returns the active output sink or nil if output is still
// being buffered.
func GetOutputSink() io.Writer {
	return outputSink
}

// Printf writes formatted output to the active sink. It supports the
// following subset of the fmt verbs:
//
//	%s  string or []byte
//	%d  base 10 integer, space padded
//	%x  base 16 integer, zero padded, lower-case
//	%o  base 8 integer, zero padded
//	%t  bool
//	%%  a literal percent sign
//
// An optional decimal width may precede the verb. All built-in integer types
// are accepted. Printf never allocates, so it is safe to call from interrupt
// handlers and from code that runs before the runtime is initialized.
func Printf(format string, args ...interface{}) {
	Fprintf(outputSink, format, args...)
}

// Fprintf behaves like Printf but writes to w. A nil w selects the early
// output buffer.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	var (
		argIndex int
		width    int
		i        int
	)

	for i < len(format) {
		ch := format[i]
		i++
		if ch != '%' {
			writeByte(w, ch)
			continue
		}

		width = 0
		for ; i < len(format) && format[i] >= '0' && format[i] <= '9'; i++ {
			width = width*10 + int(format[i]-'0')
		}

		if i == len(format) {
			doWrite(w, errNoVerb)
			break
		}

		verb := format[i]
		i++

		switch verb {
		case '%':
			writeByte(w, '%')
			continue
		case 's', 'd', 'x', 'o', 't':
		default:
			doWrite(w, errNoVerb)
			continue
		}

		if argIndex >= len(args) {
			doWrite(w, errMissingArg)
			continue
		}

		arg := args[argIndex]
		argIndex++

		switch verb {
		case 's':
			fmtString(w, arg, width)
		case 'd':
			fmtInt(w, arg, 10, width)
		case 'x':
			fmtInt(w, arg, 16, width)
		case 'o':
			fmtInt(w, arg, 8, width)
		case 't':
			fmtBool(w, arg)
		}
	}

	for ; argIndex < len(args); argIndex++ {
		doWrite(w, errExtraArg)
	}
}

func fmtBool(w io.Writer, v interface{}) {
	b, ok := v.(bool)
	switch {
	case !ok:
		doWrite(w, errWrongArgType)
	case b:
		doWrite(w, trueValue)
	default:
		doWrite(w, falseValue)
	}
}

// fmtString writes a string or []byte value left-padded with spaces to width.
func fmtString(w io.Writer, v interface{}, width int) {
	switch s := v.(type) {
	case string:
		pad(w, ' ', width-len(s))
		// a string to []byte conversion allocates; emit one byte at a time.
		for i := 0; i < len(s); i++ {
			writeByte(w, s[i])
		}
	case []byte:
		pad(w, ' ', width-len(s))
		doWrite(w, s)
	default:
		doWrite(w, errWrongArgType)
	}
}

func pad(w io.Writer, ch byte, count int) {
	for ; count > 0; count-- {
		writeByte(w, ch)
	}
}

// fmtInt writes v in the requested base. Base 10 output is padded with spaces
// and carries a leading minus sign for negative values; base 8 and 16 output
// is zero padded.
func fmtInt(w io.Writer, v interface{}, base uint64, width int) {
	var (
		mag uint64
		neg bool
	)

	switch n := v.(type) {
	case uint8:
		mag = uint64(n)
	case uint16:
		mag = uint64(n)
	case uint32:
		mag = uint64(n)
	case uint64:
		mag = n
	case uint:
		mag = uint64(n)
	case uintptr:
		mag = uint64(n)
	case int8:
		mag, neg = abs(int64(n))
	case int16:
		mag, neg = abs(int64(n))
	case int32:
		mag, neg = abs(int64(n))
	case int64:
		mag, neg = abs(n)
	case int:
		mag, neg = abs(int64(n))
	default:
		doWrite(w, errWrongArgType)
		return
	}

	if width > numBufSize-1 {
		width = numBufSize - 1
	}

	// Digits are written right to left.
	pos := numBufSize
	for {
		pos--
		digit := byte(mag % base)
		if digit < 10 {
			numBuf[pos] = '0' + digit
		} else {
			numBuf[pos] = 'a' + digit - 10
		}
		mag /= base
		if mag == 0 {
			break
		}
	}

	padCh := byte('0')
	if base == 10 {
		padCh = ' '
	}

	// Zero padding goes between the sign and the digits; space padding goes
	// before the sign.
	if neg && padCh == '0' {
		for numBufSize-pos < width-1 {
			pos--
			numBuf[pos] = '0'
		}
	}
	if neg {
		pos--
		numBuf[pos] = '-'
	}
	for numBufSize-pos < width {
		pos--
		numBuf[pos] = padCh
	}

	doWrite(w, numBuf[pos:])
}

func abs(v int64) (uint64, bool) {
	if v < 0 {
		return uint64(-v), true
	}
	return uint64(v), false
}

func writeByte(w io.Writer, b byte) {
	oneByte[0] = b
	doWrite(w, oneByte)
}

// doWrite hides p from escape analysis. Without this, passing p to an
// arbitrary io.Writer makes the compiler move every caller's argument slice to
// the heap, which crashes the kernel when Printf runs before the allocator is
// initialized.
func doWrite(w io.Writer, p []byte) {
	doRealWrite(w, noEscape(unsafe.Pointer(&p)))
}

func doRealWrite(w io.Writer, bufPtr unsafe.Pointer) {
	p := *(*[]byte)(bufPtr)
	if w != nil {
		w.Write(p)
	} else {
		earlyBuf.Write(p)
	}
}

// noEscape hides a pointer from escape analysis. Copied from runtime/stubs.go.
//
//go:nosplit
func noEscape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}
