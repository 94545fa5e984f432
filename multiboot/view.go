package multiboot

import "unsafe"

// InfoAt returns a view over the boot information stream at physical address
// addr. The stream length is taken from its header as-is, so InfoAt must only
// be called with the address the bootloader passed to the kernel after the
// magic value has been verified.
func InfoAt(addr uintptr) Info {
	totalSize := *(*uint32)(unsafe.Pointer(addr))
	return Info{
		base: addr,
		data: unsafe.Slice((*byte)(unsafe.Pointer(addr)), totalSize),
	}
}
