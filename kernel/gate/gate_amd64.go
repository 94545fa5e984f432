// Package gate builds and activates the amd64 interrupt descriptor table
// (IDT) and provides the exception handlers installed into it.
package gate

import (
	"encoding/binary"
	"unsafe"
)

// InterruptNumber describes an x86 interrupt/exception/trap slot. Using a
// uint8 keeps every representable vector inside the 256-entry table.
type InterruptNumber uint8

const (
	// DivideByZero occurs when dividing any number by 0 using the DIV or
	// IDIV instruction.
	DivideByZero = InterruptNumber(0)

	// Breakpoint occurs when the CPU executes an INT3 instruction.
	Breakpoint = InterruptNumber(3)

	// DoubleFault occurs when an unhandled exception occurs or when an
	// exception occurs within a running exception handler. The CPU pushes an
	// error code (always zero) for this exception.
	DoubleFault = InterruptNumber(8)
)

const (
	// NumVectors is the number of gates in the table.
	NumVectors = 256

	// KernelCodeSelector is the GDT selector of the ring 0 code segment set
	// up by the boot glue.
	KernelCodeSelector = uint16(0x08)

	// InterruptGateFlags marks a gate as present, callable from ring 0 only
	// and of type interrupt gate (IF is cleared on entry).
	InterruptGateFlags = uint16(0x8e00)

	descriptorSize = 16
	tableSize      = NumVectors * descriptorSize
)

// Descriptor is a single IDT gate. Its field order and sizes are fixed by the
// amd64 architecture.
type Descriptor struct {
	offsetLow  uint16
	selector   uint16
	flags      uint16
	offsetMid  uint16
	offsetHigh uint32
	reserved   uint32
}

// packAddr splits a handler address into the three offset fields of a gate.
func packAddr(addr uintptr) (low, mid uint16, high uint32) {
	a := uint64(addr)
	return uint16(a), uint16(a >> 16), uint32(a >> 32)
}

// unpackAddr reassembles an address previously split by packAddr.
func unpackAddr(low, mid uint16, high uint32) uintptr {
	return uintptr(uint64(high)<<32 | uint64(mid)<<16 | uint64(low))
}

// NewDescriptor returns a present ring 0 interrupt gate for handler.
func NewDescriptor(handler uintptr) Descriptor {
	low, mid, high := packAddr(handler)
	return Descriptor{
		offsetLow:  low,
		selector:   KernelCodeSelector,
		flags:      InterruptGateFlags,
		offsetMid:  mid,
		offsetHigh: high,
	}
}

// Addr returns the handler entry point encoded in the gate.
func (d Descriptor) Addr() uintptr {
	return unpackAddr(d.offsetLow, d.offsetMid, d.offsetHigh)
}

// Selector returns the code segment selector used when the gate fires.
func (d Descriptor) Selector() uint16 {
	return d.selector
}

// Flags returns the gate's packed present/DPL/type word.
func (d Descriptor) Flags() uint16 {
	return d.flags
}

// Present returns true if the gate can be triggered.
func (d Descriptor) Present() bool {
	return d.flags&(1<<15) != 0
}

// State tracks the table lifecycle. Transitions only move forward.
type State uint8

const (
	// Uninitialized is the state of a zero Table.
	Uninitialized State = iota

	// Built means every gate has been cleared and none is present.
	Built

	// Populated means at least one gate has been installed.
	Populated

	// Active means the table has been loaded into the IDT register.
	Active
)

// String implements fmt.Stringer for State.
func (s State) String() string {
	switch s {
	case Built:
		return "built"
	case Populated:
		return "populated"
	case Active:
		return "active"
	default:
		return "uninitialized"
	}
}

// Table owns the IDT. The CPU reads entries through the address loaded by
// Activate, so a Table must not be copied or moved once active.
type Table struct {
	entries [NumVectors]Descriptor
	state   State
}

// New returns a table with every gate marked as not present.
func New() *Table {
	t := &Table{}
	t.Build()
	return t
}

// Build clears all gates. It is a no-op once the table has been activated.
func (t *Table) Build() {
	if t.state == Active {
		return
	}

	t.entries = [NumVectors]Descriptor{}
	t.state = Built
}

// State returns the current lifecycle state of the table.
func (t *Table) State() State {
	return t.state
}

// Install points the gate for vector at handler. Installing the same vector
// again overwrites the previous gate. Installs after Activate take effect
// immediately as the CPU references the entries in place.
func (t *Table) Install(vector InterruptNumber, handler uintptr) {
	t.entries[vector] = NewDescriptor(handler)
	if t.state < Populated {
		t.state = Populated
	}
}

// Entry returns the gate currently installed for vector.
func (t *Table) Entry(vector InterruptNumber) Descriptor {
	return t.entries[vector]
}

// Pointer is the 10-byte operand expected by the LIDT instruction: a 16-bit
// limit followed by the 64-bit table base, both little-endian.
type Pointer [10]byte

// Limit returns the encoded table limit.
func (p *Pointer) Limit() uint16 {
	return binary.LittleEndian.Uint16(p[:2])
}

// Base returns the encoded table address.
func (p *Pointer) Base() uintptr {
	return uintptr(binary.LittleEndian.Uint64(p[2:]))
}

// Pointer returns the LIDT operand describing t.
func (t *Table) Pointer() Pointer {
	var p Pointer
	binary.LittleEndian.PutUint16(p[:2], uint16(tableSize-1))
	binary.LittleEndian.PutUint64(p[2:], uint64(uintptr(unsafe.Pointer(&t.entries[0]))))
	return p
}

// Activate loads t into the CPU's IDT register.
func (t *Table) Activate() {
	p := t.Pointer()
	loadIDTFn(uintptr(unsafe.Pointer(&p)))
	t.state = Active
}
