// Package gbz implements the container (spec §4.8, Component H): a
// versioned, self-describing binary layout combining a header, a tag map,
// the path index, and the node graph, plus an optional two-file legacy
// alternative and shared-memory placement for the node graph's buffers.
//
// Grounded on map_router/pkg/graph/binary.go's header + CRC32 + atomic
// rename pattern; length-prefixed sections use
// github.com/vmihailenco/msgpack/v5, the same wire format pathindex.Index
// uses for its own opaque blob.
package gbz

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// MagicBytes is the container's 4-byte magic tag (spec §6, 0x205A4247
	// little-endian, i.e. the ASCII bytes "GBZ ").
	MagicBytes = "GBZ "
	// CurrentVersion is the only version this package writes or accepts.
	CurrentVersion uint32 = 1
	// FlagMask is the set of flag bits this version understands; every
	// other bit must be zero (spec §6).
	FlagMask uint64 = 0x0000
)

// Header is the container's fixed-size preamble (spec §3, "header"; 24
// bytes: 4B magic + 4B version + 8B flags + 8B reserved padding).
type Header struct {
	Magic   [4]byte
	Version uint32
	Flags   uint64
	// Reserved pads the header to 24 bytes ("padded to value-size", spec
	// §4.8) and must be zero.
	Reserved uint64
}

func newHeader() Header {
	var h Header
	copy(h.Magic[:], MagicBytes)
	h.Version = CurrentVersion
	return h
}

func writeHeader(w io.Writer, h Header) error {
	return binary.Write(w, binary.LittleEndian, &h)
}

func readHeader(r io.Reader) (Header, error) {
	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return Header{}, fmt.Errorf("gbz: read header: %w", err)
	}
	if string(h.Magic[:]) != MagicBytes {
		return Header{}, fmt.Errorf("gbz: invalid magic bytes %q", h.Magic[:])
	}
	if h.Version != CurrentVersion {
		return Header{}, fmt.Errorf("gbz: unsupported version %d", h.Version)
	}
	if h.Flags&^FlagMask != 0 {
		return Header{}, fmt.Errorf("gbz: unknown flag bits set: %#x", h.Flags&^FlagMask)
	}
	return h, nil
}
