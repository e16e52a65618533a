package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version   byte = 1
	kindEntry byte = 1
)

var (
	ErrCorrupt = errors.New("offcache: corrupt entry")
	magic4     = [...]byte{'O', 'F', 'F', 'C'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Entry is one stored asset: response classification, status, an opaque
// header block (codec-encoded) and the body bytes.
type Entry struct {
	Class  byte
	Status uint16
	Header []byte
	Body   []byte
}

// Frame layout:
//
//	magic(4) | ver(1) | kind(1=entry) | class(1) | status(u16 be) |
//	hlen(u32 be) | header(hlen) | blen(u32 be) | body(blen)
func EncodeEntry(e Entry) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 1 + 2 + 4 + len(e.Header) + 4 + len(e.Body))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindEntry)
	buf.WriteByte(e.Class)

	var u4 [4]byte
	var u2 [2]byte

	binary.BigEndian.PutUint16(u2[:], e.Status)
	buf.Write(u2[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(e.Header)))
	buf.Write(u4[:])
	buf.Write(e.Header)

	binary.BigEndian.PutUint32(u4[:], uint32(len(e.Body)))
	buf.Write(u4[:])
	buf.Write(e.Body)

	return buf.Bytes()
}

// DecodeEntry is strict: wrong magic, wrong version, short blocks, or
// trailing bytes all return ErrCorrupt so the caller can self-heal.
func DecodeEntry(b []byte) (Entry, error) {
	const hdr = 4 + 1 + 1 + 1 + 2
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindEntry {
		return Entry{}, ErrCorrupt
	}

	e := Entry{Class: b[6]}
	e.Status = binary.BigEndian.Uint16(b[7:9])
	off := 9

	if off+4 > len(b) {
		return Entry{}, ErrCorrupt
	}
	hlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if hlen < 0 || hlen > len(b)-off { // overflow-safe bound check
		return Entry{}, ErrCorrupt
	}
	e.Header = b[off : off+hlen]
	off += hlen

	if off+4 > len(b) {
		return Entry{}, ErrCorrupt
	}
	blen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if blen < 0 || blen > len(b)-off {
		return Entry{}, ErrCorrupt
	}
	e.Body = b[off : off+blen]
	off += blen

	if off != len(b) {
		return Entry{}, ErrCorrupt
	}
	return e, nil
}
