// Copyright 2025 LNP/BP RGB Contributors
//
// Strict encoding: the deterministic binary wire format shared by every
// hashable contract entity. Fixed-width little-endian integers,
// length-prefixed byte strings, sum types as a tag byte followed by the
// variant body. Two implementations (same and the teacher's Merkle code)
// independently reach for plain encoding/binary + bytes.Buffer rather
// than a generic serde library, because the layout is bespoke and
// bit-for-bit stable across implementations by design (see DESIGN.md).

package strictenc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrLengthOverflow is returned when a byte string is longer than its
// declared length prefix can represent.
var ErrLengthOverflow = errors.New("strictenc: byte string exceeds length-prefix capacity")

// Writer accumulates a canonical byte encoding.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated canonical encoding.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// WriteU8 writes a single byte.
func (w *Writer) WriteU8(v uint8) {
	w.buf.WriteByte(v)
}

// WriteU16 writes a fixed-width little-endian u16.
func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

// WriteU32 writes a fixed-width little-endian u32.
func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// WriteU64 writes a fixed-width little-endian u64.
func (w *Writer) WriteU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// WriteRaw writes bytes with no length prefix; the caller is responsible
// for the field being fixed-width (e.g. a 32-byte hash).
func (w *Writer) WriteRaw(b []byte) {
	w.buf.Write(b)
}

// WriteBytes16 writes a byte string prefixed by its u16 length.
func (w *Writer) WriteBytes16(b []byte) error {
	if len(b) > 0xFFFF {
		return fmt.Errorf("%w: got %d bytes", ErrLengthOverflow, len(b))
	}
	w.WriteU16(uint16(len(b)))
	w.buf.Write(b)
	return nil
}

// WriteBytes32 writes a byte string prefixed by its u32 length.
func (w *Writer) WriteBytes32(b []byte) error {
	if uint64(len(b)) > 0xFFFFFFFF {
		return fmt.Errorf("%w: got %d bytes", ErrLengthOverflow, len(b))
	}
	w.WriteU32(uint32(len(b)))
	w.buf.Write(b)
	return nil
}

// WriteString16 writes a UTF-8 string as a u16-length-prefixed byte string.
func (w *Writer) WriteString16(s string) error {
	return w.WriteBytes16([]byte(s))
}
