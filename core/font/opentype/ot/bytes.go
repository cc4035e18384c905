package ot

import (
	"encoding/binary"
	"errors"
)

// errBufferBounds is flagged when an offset or a size points outside of a
// segment of font data.
var errBufferBounds = errors.New("internal inconsistency: buffer bounds error")

// --- Binary segments -------------------------------------------------------

// binarySegm is a segment of byte data. It is a view onto a font's binary
// data, never a copy.
type binarySegm []byte

func u16(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

func u32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

// Size returns the number of bytes of a segment.
func (b binarySegm) Size() int {
	return len(b)
}

// U16 returns the uint16 at offset i, or 0 if i is out of bounds.
func (b binarySegm) U16(i int) uint16 {
	n, _ := b.u16(i)
	return n
}

// U32 returns the uint32 at offset i, or 0 if i is out of bounds.
func (b binarySegm) U32(i int) uint32 {
	n, _ := b.u32(i)
	return n
}

// I16 returns the int16 at offset i, or 0 if i is out of bounds.
func (b binarySegm) I16(i int) int16 {
	return int16(b.U16(i))
}

func (b binarySegm) u16(i int) (uint16, error) {
	if i < 0 || i+2 > len(b) {
		return 0, errBufferBounds
	}
	return u16(b[i:]), nil
}

func (b binarySegm) u32(i int) (uint32, error) {
	if i < 0 || i+4 > len(b) {
		return 0, errBufferBounds
	}
	return u32(b[i:]), nil
}

// view returns n bytes at the given offset.
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n < 0 || offset+n > len(b) {
		return nil, errBufferBounds
	}
	return b[offset : offset+n], nil
}

// from returns the segment starting at offset and extending to the end of b.
func (b binarySegm) from(offset int) (binarySegm, error) {
	if offset < 0 || offset > len(b) {
		return nil, errBufferBounds
	}
	return b[offset:], nil
}

// --- Arrays ----------------------------------------------------------------

// array is a list of fixed-size records.
type array struct {
	recordSize int
	length     int
	loc        binarySegm
}

// viewArray16 creates an array of records from b, where b starts with a
// uint16 record count.
func viewArray16(b binarySegm, recordSize int) (array, error) {
	n, err := b.u16(0)
	if err != nil {
		return array{}, err
	}
	loc, err := b.view(2, int(n)*recordSize)
	if err != nil {
		return array{}, err
	}
	return array{recordSize: recordSize, length: int(n), loc: loc}, nil
}

// viewArray creates an array of n records with size recordSize, starting at
// offset.
func viewArray(b binarySegm, offset, n, recordSize int) (array, error) {
	loc, err := b.view(offset, n*recordSize)
	if err != nil {
		return array{}, err
	}
	return array{recordSize: recordSize, length: n, loc: loc}, nil
}

// Len returns the number of records of an array.
func (a array) Len() int {
	return a.length
}

// Get returns the bytes of record i, or nil if i is out of range.
func (a array) Get(i int) binarySegm {
	if i < 0 || i >= a.length {
		return nil
	}
	return a.loc[i*a.recordSize : (i+1)*a.recordSize]
}

// U16 returns record i interpreted as an uint16.
func (a array) U16(i int) uint16 {
	r := a.Get(i)
	if len(r) < 2 {
		return 0
	}
	return u16(r)
}
