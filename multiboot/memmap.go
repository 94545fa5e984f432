package multiboot

import (
	"bootcore/kernel"
	"encoding/binary"
)

// MemoryEntryType defines the type of a MemoryMapEntry.
type MemoryEntryType uint32

const (
	// MemAvailable indicates that the memory region is available for use.
	MemAvailable MemoryEntryType = iota + 1

	// MemReserved indicates that the memory region is not available for use.
	MemReserved

	// MemAcpiReclaimable indicates a memory region that holds ACPI info that
	// can be reused by the OS.
	MemAcpiReclaimable

	// MemNvs indicates memory that must be preserved when hibernating.
	MemNvs

	// MemDefective indicates a region of defective RAM.
	MemDefective
)

// String implements fmt.Stringer for MemoryEntryType. Types outside the
// values defined by the multiboot2 protocol are reported as "Unknown".
func (t MemoryEntryType) String() string {
	switch t {
	case MemAvailable:
		return "Available"
	case MemReserved:
		return "Reserved"
	case MemAcpiReclaimable:
		return "ACPI"
	case MemNvs:
		return "NVS"
	case MemDefective:
		return "Defective"
	default:
		return "Unknown"
	}
}

// MemoryMapEntry describes a physical memory region.
type MemoryMapEntry struct {
	// The physical address for this memory region.
	BaseAddr uint64

	// The length of the memory region.
	Length uint64

	// The type of this entry.
	Type MemoryEntryType

	reserved uint32
}

// MemRegionVisitor is invoked by VisitRegions for each memory region. The
// visitor must return true to continue or false to abort the scan.
type MemRegionVisitor func(MemoryMapEntry) bool

// MemoryMapTag is a decoded memory map tag (type 6).
type MemoryMapTag struct {
	TagHeader

	// The size of each entry. It may exceed the size of MemoryMapEntry.
	EntrySize uint32

	// The version of the entries that follow.
	EntryVersion uint32

	addr    uintptr
	entries []byte
}

// MemoryMap decodes t as a memory map tag. It fails if t is not a memory map
// or if its header cannot describe a sequence of entries.
func (t Tag) MemoryMap() (MemoryMapTag, *kernel.Error) {
	if t.kind != KindMemoryMap ||
		t.header.Size < mmapTagHeaderSize ||
		len(t.body) < mmapTagHeaderSize-tagHeaderSize {
		return MemoryMapTag{}, errMalformedMemoryMap
	}

	tag := MemoryMapTag{
		TagHeader:    t.header,
		EntrySize:    binary.LittleEndian.Uint32(t.body),
		EntryVersion: binary.LittleEndian.Uint32(t.body[4:]),
		addr:         t.addr,
		entries:      t.body[mmapTagHeaderSize-tagHeaderSize:],
	}

	// Entries are decoded as 24-byte records at entry_size strides. A
	// smaller stride would make the last Entry read past the end of the tag.
	if tag.EntrySize < mmapEntrySize {
		return MemoryMapTag{}, errMalformedMemoryMap
	}

	return tag, nil
}

// Addr returns the address of the tag header.
func (t MemoryMapTag) Addr() uintptr {
	return t.addr
}

// Entries returns the number of entries in the map. Trailing bytes that do
// not make up a whole entry are ignored.
func (t MemoryMapTag) Entries() int {
	if t.EntrySize == 0 {
		return 0
	}
	return int((t.Size - mmapTagHeaderSize) / t.EntrySize)
}

// Entry returns the entry at index, which must be in [0, Entries()).
func (t MemoryMapTag) Entry(index int) MemoryMapEntry {
	raw := t.entries[index*int(t.EntrySize):]
	return MemoryMapEntry{
		BaseAddr: binary.LittleEndian.Uint64(raw),
		Length:   binary.LittleEndian.Uint64(raw[8:]),
		Type:     MemoryEntryType(binary.LittleEndian.Uint32(raw[16:])),
		reserved: binary.LittleEndian.Uint32(raw[20:]),
	}
}

// VisitRegions invokes visitor for each entry of the map in order.
func (t MemoryMapTag) VisitRegions(visitor MemRegionVisitor) {
	for i, n := 0, t.Entries(); i < n; i++ {
		if !visitor(t.Entry(i)) {
			return
		}
	}
}
