package kmain

import (
	"bootcore/kernel"
	"bootcore/kernel/cpu"
	"bootcore/kernel/driver/tty"
	"bootcore/kernel/driver/video/console"
	"bootcore/kernel/gate"
	"bootcore/kernel/kfmt"
	"bootcore/multiboot"
)

var (
	errBadMagic      = &kernel.Error{Module: "kmain", Message: "kernel was not loaded by a multiboot2 bootloader"}
	errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}

	// These are statically allocated as no allocator is available this early.
	idt     gate.Table
	vgaCons console.Vga
	vt      tty.Vt

	// The following functions are mocked by tests.
	initConsoleFn      = initConsole
	panicFn            = kfmt.Panic
	activateFn         = (*gate.Table).Activate
	enableInterruptsFn = cpu.EnableInterrupts
)

// Kmain is the only Go symbol that is visible (exported) from the rt0
// initialization code. The rt0 code passes the magic value and the boot info
// address left in EAX and EBX by the bootloader after setting up the GDT and
// a stack for the Go code.
//
// Kmain is not expected to return. If it does, the rt0 code will halt the CPU.
//
//go:noinline
func Kmain(magic uint32, multibootInfoPtr uintptr) {
	initConsoleFn()

	if !multiboot.VerifyMagic(magic) {
		panicFn(errBadMagic)
		return
	}

	info := multiboot.InfoAt(multibootInfoPtr)
	multiboot.Parse(info)
	kfmt.Printc(kfmt.Green, kfmt.Black, "[kmain] total available memory: %d bytes\n", multiboot.TotalAvailableMemory(info))

	idt.Build()
	gate.InstallExceptionHandlers(&idt)
	activateFn(&idt)
	kfmt.Printc(kfmt.Green, kfmt.Black, "[kmain] interrupt descriptor table loaded\n")

	enableInterruptsFn()

	// Use kfmt.Panic instead of panic to prevent the compiler from treating
	// it as dead code and eliminating it.
	panicFn(errKmainReturned)
}

// initConsole attaches a terminal to the text mode buffer and makes it the
// kfmt output sink. Anything printed before this point is flushed to it.
func initConsole() {
	vgaCons.Init(nil)
	vt.Init(&vgaCons)
	vt.Clear()
	kfmt.SetOutputSink(&vt)
}
