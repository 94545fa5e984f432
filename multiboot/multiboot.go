// Package multiboot parses the boot information stream that a multiboot2
// compliant bootloader hands over to the kernel.
package multiboot

import (
	"bootcore/kernel"
	"bootcore/kernel/kfmt"
)

// Magic is the value a multiboot2 bootloader leaves in EAX before jumping to
// the kernel entry point.
const Magic = uint32(0x36d76289)

const (
	// infoHeaderSize is the size of the fixed {total_size, reserved} header
	// that precedes the first tag.
	infoHeaderSize = 8

	// tagHeaderSize is the size of the {type, size} header of every tag.
	tagHeaderSize = 8

	// mmapTagHeaderSize is the size of a memory map tag header, i.e. the tag
	// header followed by {entry_size, entry_version}.
	mmapTagHeaderSize = tagHeaderSize + 8

	// mmapEntrySize is the size of the fields of a memory map entry that
	// this package understands. Bootloaders may report larger entries.
	mmapEntrySize = 24

	// tagAlignment is the alignment of every tag start address.
	tagAlignment = 8
)

var (
	errTruncatedInfo      = &kernel.Error{Module: "multiboot", Message: "boot info ends before the terminating tag"}
	errMalformedTag       = &kernel.Error{Module: "multiboot", Message: "tag size is smaller than its header"}
	errMalformedMemoryMap = &kernel.Error{Module: "multiboot", Message: "malformed memory map tag"}
)

// TagType identifies the contents of a tag.
type TagType uint32

// nolint
const (
	TagEnd TagType = iota
	TagBootCmdLine
	TagBootLoaderName
	TagModules
	TagBasicMemoryInfo
	TagBiosBootDevice
	TagMemoryMap
	TagVbeInfo
	TagFramebufferInfo
	TagElfSymbols
	TagApmTable
	TagEfi32SystemTable
	TagEfi64SystemTable
	TagSmbios
	TagAcpiOld
	TagAcpiNew
	TagNetwork
	TagEfiMemoryMap
	TagEfiBootServices
	TagEfi32ImageHandle
	TagEfi64ImageHandle
	TagLoadBaseAddr
)

// String implements fmt.Stringer for TagType.
func (t TagType) String() string {
	switch t {
	case TagEnd:
		return "end"
	case TagBootCmdLine:
		return "boot command line"
	case TagBootLoaderName:
		return "boot loader name"
	case TagModules:
		return "modules"
	case TagBasicMemoryInfo:
		return "basic memory info"
	case TagBiosBootDevice:
		return "BIOS boot device"
	case TagMemoryMap:
		return "memory map"
	case TagVbeInfo:
		return "VBE info"
	case TagFramebufferInfo:
		return "framebuffer info"
	case TagElfSymbols:
		return "ELF symbols"
	case TagApmTable:
		return "APM table"
	case TagEfi32SystemTable, TagEfi64SystemTable:
		return "EFI system table"
	case TagSmbios:
		return "SMBIOS tables"
	case TagAcpiOld:
		return "ACPI old RSDP"
	case TagAcpiNew:
		return "ACPI new RSDP"
	case TagNetwork:
		return "networking info"
	case TagEfiMemoryMap:
		return "EFI memory map"
	case TagEfiBootServices:
		return "EFI boot services not terminated"
	case TagEfi32ImageHandle, TagEfi64ImageHandle:
		return "EFI image handle"
	case TagLoadBaseAddr:
		return "image load base address"
	default:
		return "unknown"
	}
}

// VerifyMagic returns true if value matches the multiboot2 bootloader magic.
// A mismatch is reported but not treated as fatal; the caller decides whether
// to halt.
func VerifyMagic(value uint32) bool {
	if value != Magic {
		kfmt.Printc(kfmt.Red, kfmt.Black, "[multiboot] invalid magic number: 0x%x\n", value)
		kfmt.Printc(kfmt.Red, kfmt.Black, "[multiboot] expected: 0x%x\n", Magic)
		return false
	}

	kfmt.Printc(kfmt.Green, kfmt.Black, "[multiboot] valid magic number: 0x%x\n", value)
	return true
}
