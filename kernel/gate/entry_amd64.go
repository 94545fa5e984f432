package gate

// The gate entry points below are implemented in entry_amd64.s. The CPU jumps
// to them with the exception frame at the top of the stack, so none of them
// may be called from Go code.

// Stack offsets, relative to SP on entry, used by the trampolines. They are
// exported to entry_amd64.s through go_asm.h.
const (
	// breakpointFrameOffset locates the Frame for exceptions without an
	// error code.
	breakpointFrameOffset = 0

	// doubleFaultErrorCodeOffset locates the error code the CPU pushes
	// after the Frame.
	doubleFaultErrorCodeOffset = 0

	// doubleFaultFrameOffset locates the Frame above the error code.
	doubleFaultFrameOffset = 8
)

// breakpointEntry forwards the exception frame to breakpointHandler.
func breakpointEntry()

// doubleFaultEntry forwards the exception frame and error code to
// doubleFaultHandler.
func doubleFaultEntry()

// divideByZeroEntryAddr returns the address of divideByZeroHandler.
func divideByZeroEntryAddr() uintptr

// breakpointEntryAddr returns the address of breakpointEntry.
func breakpointEntryAddr() uintptr

// doubleFaultEntryAddr returns the address of doubleFaultEntry.
func doubleFaultEntryAddr() uintptr
