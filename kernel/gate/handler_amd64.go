package gate

import (
	"io"

	"bootcore/kernel/cpu"
	"bootcore/kernel/kfmt"
)

var (
	// The following functions are mocked by tests.
	loadIDTFn = cpu.LoadIDT
	haltFn    = cpu.Halt
)

// Frame describes the exception frame that the CPU pushes to the stack before
// invoking a gate.
type Frame struct {
	RIP    uint64
	CS     uint64
	RFlags uint64
	RSP    uint64
	SS     uint64
}

// DumpTo outputs the frame contents to w.
func (f *Frame) DumpTo(w io.Writer) {
	kfmt.Fprintc(w, kfmt.Green, kfmt.Black, "RIP = %16x CS  = %16x\n", f.RIP, f.CS)
	kfmt.Fprintc(w, kfmt.Green, kfmt.Black, "RSP = %16x SS  = %16x\n", f.RSP, f.SS)
	kfmt.Fprintc(w, kfmt.Green, kfmt.Black, "RFL = %16x\n", f.RFlags)
}

// InstallExceptionHandlers installs the kernel's exception handlers into t.
// Every handler reports the exception and halts the CPU.
func InstallExceptionHandlers(t *Table) {
	t.Install(DivideByZero, divideByZeroEntryAddr())
	t.Install(Breakpoint, breakpointEntryAddr())
	t.Install(DoubleFault, doubleFaultEntryAddr())
}

// divideByZeroHandler is entered directly by the CPU; it takes no arguments
// and never returns.
func divideByZeroHandler() {
	kfmt.Printc(kfmt.Green, kfmt.Black, "\n[gate] divide by zero exception\n")
	haltFn()
}

// breakpointHandler is invoked by breakpointEntry with a pointer to the
// hardware-pushed frame.
func breakpointHandler(frame *Frame) {
	kfmt.Printc(kfmt.Green, kfmt.Black, "\n[gate] breakpoint exception\n")
	frame.DumpTo(kfmt.GetOutputSink())
	haltFn()
}

// doubleFaultHandler is invoked by doubleFaultEntry with a pointer to the
// hardware-pushed frame and the error code that precedes it on the stack.
func doubleFaultHandler(frame *Frame, errorCode uint64) {
	kfmt.Printc(kfmt.Green, kfmt.Black, "\n[gate] double fault exception (error code: %d)\n", errorCode)
	frame.DumpTo(kfmt.GetOutputSink())
	haltFn()
}
