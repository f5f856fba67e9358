// SPDX-FileCopyrightText: Copyright The Flatimage Authors
// SPDX-License-Identifier: Apache-2.0

// Package elfimage walks the on-disk layout of a flatimage self-image: a
// leading ELF program image, a second ELF program image holding the
// extracted bootloader, then length-prefixed payload segments, and finally
// the opaque filesystem segment.
//
// The walker is stateless and never interprets payload bytes; callers carry
// the offset from one call to the next.
package elfimage

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrShortRead is returned when a length field or payload body runs off the
// end of the file.
var ErrShortRead = errors.New("short read")

// payloadLenSize is the size of the little-endian length field that
// precedes each payload segment.
const payloadLenSize = 8

// Span is a half-open byte range [Begin, End) within the self-image.
type Span struct {
	Begin int64
	End   int64
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int64 {
	return s.End - s.Begin
}

// Body returns the payload bytes of a length-prefixed segment, without the
// 8-byte length field.
func (s Span) Body() Span {
	return Span{Begin: s.Begin + payloadLenSize, End: s.End}
}

// ProgramImageEnd returns the end offset (relative to the start of the
// file) of the ELF program image rooted at byte base in path. The end is
// computed from the headers alone: the furthest extent of the ELF header,
// the program header table, and the section header table.
func ProgramImageEnd(path string, base int64) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return programImageEnd(f, base)
}

func programImageEnd(r io.ReaderAt, base int64) (int64, error) {
	var ident [elf.EI_NIDENT]byte
	if _, err := r.ReadAt(ident[:], base); err != nil {
		return 0, fmt.Errorf("failed to read ELF ident at offset %d: %w", base, err)
	}
	if !bytes.Equal(ident[:4], []byte(elf.ELFMAG)) {
		return 0, fmt.Errorf("bad ELF magic at offset %d", base)
	}

	var order binary.ByteOrder
	switch elf.Data(ident[elf.EI_DATA]) {
	case elf.ELFDATA2LSB:
		order = binary.LittleEndian
	case elf.ELFDATA2MSB:
		order = binary.BigEndian
	default:
		return 0, fmt.Errorf("unknown ELF data encoding %d at offset %d", ident[elf.EI_DATA], base)
	}

	sr := io.NewSectionReader(r, base, 1<<62)
	var ehsize, phoff, phnum, phentsize, shoff, shnum, shentsize int64
	switch elf.Class(ident[elf.EI_CLASS]) {
	case elf.ELFCLASS64:
		var hdr elf.Header64
		if err := binary.Read(sr, order, &hdr); err != nil {
			return 0, fmt.Errorf("failed to read ELF64 header at offset %d: %w", base, err)
		}
		ehsize = int64(hdr.Ehsize)
		phoff, phnum, phentsize = int64(hdr.Phoff), int64(hdr.Phnum), int64(hdr.Phentsize)
		shoff, shnum, shentsize = int64(hdr.Shoff), int64(hdr.Shnum), int64(hdr.Shentsize)
	case elf.ELFCLASS32:
		var hdr elf.Header32
		if err := binary.Read(sr, order, &hdr); err != nil {
			return 0, fmt.Errorf("failed to read ELF32 header at offset %d: %w", base, err)
		}
		ehsize = int64(hdr.Ehsize)
		phoff, phnum, phentsize = int64(hdr.Phoff), int64(hdr.Phnum), int64(hdr.Phentsize)
		shoff, shnum, shentsize = int64(hdr.Shoff), int64(hdr.Shnum), int64(hdr.Shentsize)
	default:
		return 0, fmt.Errorf("unknown ELF class %d at offset %d", ident[elf.EI_CLASS], base)
	}

	// The section header table is linked last in practice, but take the
	// furthest extent so a header-only or stripped image still walks.
	end := ehsize
	if tableEnd := phoff + phnum*phentsize; tableEnd > end {
		end = tableEnd
	}
	if tableEnd := shoff + shnum*shentsize; tableEnd > end {
		end = tableEnd
	}
	return base + end, nil
}

// NextPayload reads the 8-byte little-endian length L at offset and returns
// the span of the whole segment, [offset, offset+8+L). It verifies that the
// payload body lies within the file and fails with ErrShortRead otherwise.
func NextPayload(r io.ReaderAt, offset int64) (Span, error) {
	var lenBuf [payloadLenSize]byte
	if _, err := r.ReadAt(lenBuf[:], offset); err != nil {
		return Span{}, fmt.Errorf("failed to read payload length at offset %d: %w", offset, ErrShortRead)
	}
	size := binary.LittleEndian.Uint64(lenBuf[:])
	if size > 1<<62 {
		return Span{}, fmt.Errorf("implausible payload length %d at offset %d", size, offset)
	}
	span := Span{Begin: offset, End: offset + payloadLenSize + int64(size)}
	if size > 0 {
		// Probe the last payload byte so a truncated image fails here
		// rather than mid-extraction.
		var b [1]byte
		if _, err := r.ReadAt(b[:], span.End-1); err != nil {
			return Span{}, fmt.Errorf("payload at offset %d runs off EOF: %w", offset, ErrShortRead)
		}
	}
	return span, nil
}
