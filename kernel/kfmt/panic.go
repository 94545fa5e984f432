package kfmt

import (
	"bootcore/kernel"
	"bootcore/kernel/cpu"
)

var (
	// cpuHaltFn is mocked by tests.
	cpuHaltFn = cpu.Halt

	errRuntimePanic = &kernel.Error{Module: "rt", Message: "unknown cause"}
)

// Panic outputs the supplied error (if not nil) and halts the CPU. Calls to
// Panic never return.
func Panic(e interface{}) {
	var err *kernel.Error

	switch t := e.(type) {
	case *kernel.Error:
		err = t
	case string:
		errRuntimePanic.Message = t
		err = errRuntimePanic
	case error:
		errRuntimePanic.Message = t.Error()
		err = errRuntimePanic
	}

	Printc(Red, Black, "\n-----------------------------------\n")
	if err != nil {
		Printc(Red, Black, "[%s] unrecoverable error: %s\n", err.Module, err.Message)
	}
	Printc(Red, Black, "*** kernel panic: system halted ***")
	Printc(Red, Black, "\n-----------------------------------\n")

	cpuHaltFn()
}
