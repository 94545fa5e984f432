// Package cpu is the privileged instruction boundary. Every instruction that
// requires ring 0 is implemented in cpu_amd64.s and exposed here as a plain Go
// function; nothing outside this package and the gate trampolines executes
// privileged code.
package cpu

// EnableInterrupts enables interrupt handling (STI).
func EnableInterrupts()

// Halt masks interrupts and stops instruction execution. Halt never returns.
func Halt()

// LoadIDT loads the IDT register from the 10-byte limit/base operand stored
// at descAddr.
func LoadIDT(descAddr uintptr)
