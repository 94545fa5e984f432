package main

import (
	"fmt"
	"io"

	"bootcore/multiboot"

	"gopkg.in/yaml.v3"
)

// report is the machine readable form of a boot info blob.
type report struct {
	Addr           uint64       `yaml:"addr"`
	TotalSize      uint32       `yaml:"total_size"`
	Tags           []tagReport  `yaml:"tags"`
	MemoryMap      []regionInfo `yaml:"memory_map,omitempty"`
	TotalAvailable uint64       `yaml:"total_available"`
}

type tagReport struct {
	Type uint32 `yaml:"type"`
	Name string `yaml:"name"`
	Addr uint64 `yaml:"addr"`
	Size uint32 `yaml:"size"`
}

type regionInfo struct {
	Base   uint64 `yaml:"base"`
	Length uint64 `yaml:"length"`
	Type   string `yaml:"type"`
}

// buildReport walks info and collects every tag and the regions of the first
// memory map.
func buildReport(info multiboot.Info) (*report, error) {
	r := &report{
		Addr:           uint64(info.Addr()),
		TotalSize:      info.TotalSize(),
		TotalAvailable: multiboot.TotalAvailableMemory(info),
	}

	cur := info.Tags()
	for {
		tag, _, err := cur.Next()
		if err != nil {
			return nil, fmt.Errorf("tag %d: %w", len(r.Tags), err)
		}
		if tag.Kind() == multiboot.KindEnd {
			return r, nil
		}

		hdr := tag.Header()
		r.Tags = append(r.Tags, tagReport{
			Type: uint32(hdr.Type),
			Name: hdr.Type.String(),
			Addr: uint64(tag.Addr()),
			Size: hdr.Size,
		})

		if tag.Kind() != multiboot.KindMemoryMap || r.MemoryMap != nil {
			continue
		}

		mmap, err := tag.MemoryMap()
		if err != nil {
			return nil, fmt.Errorf("memory map at 0x%x: %w", tag.Addr(), err)
		}

		r.MemoryMap = make([]regionInfo, 0, mmap.Entries())
		mmap.VisitRegions(func(entry multiboot.MemoryMapEntry) bool {
			r.MemoryMap = append(r.MemoryMap, regionInfo{
				Base:   entry.BaseAddr,
				Length: entry.Length,
				Type:   entry.Type.String(),
			})
			return true
		})
	}
}

func (r *report) encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	return nil
}
