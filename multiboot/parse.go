package multiboot

import (
	"bootcore/kernel"
	"bootcore/kernel/kfmt"
)

// Stats summarizes a Parse run.
type Stats struct {
	// Tags is the number of tags processed before the terminator.
	Tags int

	// MemoryMaps is the number of memory map tags decoded.
	MemoryMaps int

	// Regions is the total number of memory regions reported.
	Regions int
}

// Parse walks the boot information stream and reports its contents to the
// console. Memory map tags are decoded and every region is printed; all other
// tags are skipped. The caller must have verified the bootloader magic.
//
// Parse stops at the terminating tag. If the stream is malformed, Parse
// reports the error and returns it together with the stats gathered so far.
func Parse(info Info) (Stats, *kernel.Error) {
	var stats Stats

	kfmt.Printc(kfmt.Green, kfmt.Black, "[multiboot] boot info total size: %d bytes\n", info.TotalSize())

	cur := info.Tags()
	for {
		tag, _, err := cur.Next()
		if err != nil {
			kfmt.Printc(kfmt.Red, kfmt.Black, "[multiboot] %s\n", err.Message)
			return stats, err
		}

		if tag.Kind() == KindEnd {
			return stats, nil
		}

		stats.Tags++
		hdr := tag.Header()

		switch tag.Kind() {
		case KindMemoryMap:
			mmap, err := tag.MemoryMap()
			if err != nil {
				kfmt.Printc(kfmt.Red, kfmt.Black, "[multiboot] %s at 0x%x\n", err.Message, tag.Addr())
				continue
			}
			stats.MemoryMaps++
			stats.Regions += ParseMemoryMap(mmap)
		default:
			kfmt.Printc(kfmt.Yellow, kfmt.Black, "[multiboot] skipping tag type: %d (%s)\n", uint32(hdr.Type), hdr.Type.String())
		}
	}
}

// ParseMemoryMap prints the base address, length and type of each region in
// tag and returns the number of regions printed.
func ParseMemoryMap(tag MemoryMapTag) int {
	var count int

	kfmt.Printc(kfmt.Green, kfmt.Black, "\n[multiboot] memory map:\n")
	tag.VisitRegions(func(entry MemoryMapEntry) bool {
		kfmt.Printc(kfmt.Green, kfmt.Black, "  region: base=0x%16x, length=0x%16x, type=%s\n",
			entry.BaseAddr, entry.Length, entry.Type.String())
		count++
		return true
	})

	return count
}

// TotalAvailableMemory returns the number of bytes in Available regions of the
// first memory map tag in the stream. Later memory map tags are not examined.
// It returns 0 if no memory map tag precedes the terminator.
func TotalAvailableMemory(info Info) uint64 {
	var total uint64

	cur := info.Tags()
	for {
		tag, _, err := cur.Next()
		if err != nil || tag.Kind() == KindEnd {
			return 0
		}

		if tag.Kind() != KindMemoryMap {
			continue
		}

		mmap, err := tag.MemoryMap()
		if err != nil {
			return 0
		}

		mmap.VisitRegions(func(entry MemoryMapEntry) bool {
			if entry.Type == MemAvailable {
				total += entry.Length
			}
			return true
		})

		return total
	}
}
