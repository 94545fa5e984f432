package multiboot

import (
	"bootcore/kernel"
	"encoding/binary"
)

// Info is a read-only view of a multiboot2 boot information stream. The
// underlying bytes are owned by the bootloader; Info never modifies them.
type Info struct {
	// base is the address of data[0]. Tag alignment is computed on
	// absolute addresses so the view must know where it lives.
	base uintptr
	data []byte
}

// NewInfo returns a view over data, which is assumed to be located at
// address base. If the header's total size fits inside data, the view is
// limited to it.
func NewInfo(base uintptr, data []byte) Info {
	info := Info{base: base, data: data}
	if size := uint64(info.TotalSize()); size >= infoHeaderSize && size <= uint64(len(data)) {
		info.data = data[:size]
	}
	return info
}

// Addr returns the address of the boot information header.
func (i Info) Addr() uintptr {
	return i.base
}

// TotalSize returns the size of the stream as reported by its header, or 0
// if the view is too short to hold a header.
func (i Info) TotalSize() uint32 {
	if len(i.data) < infoHeaderSize {
		return 0
	}
	return binary.LittleEndian.Uint32(i.data)
}

// Tags returns a cursor positioned at the first tag of the stream.
func (i Info) Tags() Cursor {
	return Cursor{info: i, offset: infoHeaderSize}
}

// TagKind classifies a Tag returned by Cursor.Next.
type TagKind uint8

const (
	// KindEnd is returned for the terminating tag and for every call to
	// Next after the stream has ended.
	KindEnd TagKind = iota

	// KindMemoryMap marks a memory map tag; use Tag.MemoryMap to decode it.
	KindMemoryMap

	// KindUnknown marks any tag that this package does not decode.
	KindUnknown
)

// TagHeader is the {type, size} header that precedes each tag. Size covers the
// header and the tag contents but not the padding up to the next tag.
type TagHeader struct {
	Type TagType
	Size uint32
}

// Tag is a single tag of the boot information stream. It is a plain value so
// that walking the stream never allocates.
type Tag struct {
	kind   TagKind
	header TagHeader
	addr   uintptr

	// body holds the tag contents following the header.
	body []byte
}

// Kind returns the tag classification.
func (t Tag) Kind() TagKind {
	return t.kind
}

// Header returns the tag header.
func (t Tag) Header() TagHeader {
	return t.header
}

// Addr returns the address of the tag header.
func (t Tag) Addr() uintptr {
	return t.addr
}

// Cursor walks the tags of a boot information stream in order.
type Cursor struct {
	info   Info
	offset uintptr
	done   bool
}

// Next decodes the tag at the cursor and advances the cursor to the next tag.
// It also returns the number of bytes left in the stream after the cursor
// has moved.
//
// Once the terminating tag (type 0) is reached, Next returns a KindEnd tag
// and keeps doing so on further calls. A stream that ends before its
// terminator or contains a tag shorter than its own header yields an error
// and also ends iteration.
func (c *Cursor) Next() (Tag, int, *kernel.Error) {
	if c.done {
		return Tag{kind: KindEnd}, c.remaining(), nil
	}

	data := c.info.data
	if c.offset+tagHeaderSize > uintptr(len(data)) {
		c.done = true
		return Tag{kind: KindEnd}, c.remaining(), errTruncatedInfo
	}

	tag := Tag{
		header: TagHeader{
			Type: TagType(binary.LittleEndian.Uint32(data[c.offset:])),
			Size: binary.LittleEndian.Uint32(data[c.offset+4:]),
		},
		addr: c.info.base + c.offset,
	}

	if tag.header.Type == TagEnd {
		c.done = true
		return tag, c.remaining(), nil
	}

	if tag.header.Size < tagHeaderSize {
		c.done = true
		return Tag{kind: KindEnd}, c.remaining(), errMalformedTag
	}

	end := c.offset + uintptr(tag.header.Size)
	if end > uintptr(len(data)) {
		c.done = true
		return Tag{kind: KindEnd}, c.remaining(), errTruncatedInfo
	}
	tag.body = data[c.offset+tagHeaderSize : end]

	switch tag.header.Type {
	case TagMemoryMap:
		tag.kind = KindMemoryMap
	default:
		tag.kind = KindUnknown
	}

	// Tags start at 8-byte aligned addresses.
	c.offset = alignUp(tag.addr+uintptr(tag.header.Size), tagAlignment) - c.info.base

	return tag, c.remaining(), nil
}

// remaining returns the number of stream bytes at or after the cursor.
func (c *Cursor) remaining() int {
	if c.offset >= uintptr(len(c.info.data)) {
		return 0
	}
	return len(c.info.data) - int(c.offset)
}

// alignUp rounds addr up to the next multiple of align, which must be a power
// of 2.
func alignUp(addr, align uintptr) uintptr {
	return (addr + align - 1) &^ (align - 1)
}
