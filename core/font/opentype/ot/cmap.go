package ot

/*
Parts of the code for cmap subtables follow the code of the Go core team,
available from https://github.com/golang/image/tree/master/font/sfnt.

   Copyright 2017 The Go Authors. All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

// CMapTable represents an OpenType cmap table, i.e. the table to receive glyphs
// from code-points.
//
// See https://docs.microsoft.com/de-de/typography/opentype/spec/cmap
//
// A cmap table may contain more than one lookup table, but we will only
// instantiate the most appropriate one, i.e. the one with the widest
// encoding.
type CMapTable struct {
	tableBase
	GlyphIndexMap CMapGlyphIndex
}

func newCMapTable(tag Tag, b binarySegm, offset, size uint32) *CMapTable {
	t := &CMapTable{}
	t.tableBase = tableBase{data: b, name: tag, offset: offset, length: size}
	t.self = t
	return t
}

// CMapGlyphIndex represents a CMap table index to receive a glyph index from
// a code-point.
type CMapGlyphIndex interface {
	Lookup(rune) GlyphIndex          // central activity of CMap
	ReverseLookup(GlyphIndex) rune   // inefficient, but helps with diagnostics
	Each(func(r rune, g GlyphIndex)) // iterate over all mapped code-points in ascending order
}

// platformEncodingWidth returns the number of bytes per character assumed by
// the given Platform ID and Platform Specific ID.
//
// Old fonts, from when Unicode meant the Basic Multilingual Plane (BMP),
// assume that 2 bytes per character is sufficient. Recent fonts support the
// full range of Unicode code points, which can take up to 4 bytes per
// character.
func platformEncodingWidth(pid, psid uint16) int {
	switch pid {
	case 0: // Unicode platform
		switch psid {
		case 3: // Unicode BMP
			return 2
		case 4, 10: // Unicode full (10 is a FontForge bug)
			return 4
		}
	case 3: // Windows platform
		switch psid {
		case 1: // Unicode BMP
			return 2
		case 10: // Unicode full
			return 4
		}
	}
	return 0 // width 0 will never get selected
}

// We only support the following plaform/encoding/format combinations:
//
//	0 (Unicode)  3    4   Unicode BMP
//	0 (Unicode)  4    12  Unicode full  (10 from FontForge, error)
//	3 (Win)      1    4   Unicode BMP
//	3 (Win)      10   12  Unicode full
func supportedCmapFormat(format, pid, psid uint16) bool {
	return (pid == 0 && psid == 3 && format == 4) ||
		(pid == 0 && (psid == 4 || psid == 10) && format == 12) ||
		(pid == 3 && psid == 1 && format == 4) ||
		(pid == 3 && psid == 10 && format == 12)
}

// makeGlyphIndex dispatches on the subtable format.
func makeGlyphIndex(subtable binarySegm, format uint16) (CMapGlyphIndex, error) {
	switch format {
	case 4:
		return makeGlyphIndexFormat4(subtable)
	case 12:
		return makeGlyphIndexFormat12(subtable)
	}
	return nil, errFontFormat("unsupported cmap subtable format")
}

// --- Format 4 --------------------------------------------------------------

// Format 4: Segment mapping to delta values.
// This is the standard character-to-glyph-index mapping subtable for fonts that support
// only Unicode Basic Multilingual Plane characters (U+0000 to U+FFFF).
type format4GlyphIndex struct {
	entries  []cmapEntry16
	glyphIds binarySegm
}

// Format 4 holds four parallel arrays to describe the segments (one segment for
// each contiguous range of codes).
type cmapEntry16 struct {
	end, start, delta, offset uint16
}

func (f4 format4GlyphIndex) Lookup(r rune) GlyphIndex {
	if r < 0 || r > 0xffff { // format 4 is for BMP code-points only
		return 0 // return index for 'missing character'
	}
	c := uint16(r)
	N := len(f4.entries)
	for i, j := 0, N; i < j; {
		h := i + (j-i)/2
		entry := &f4.entries[h]
		if c < entry.start {
			j = h
		} else if entry.end < c {
			i = h + 1
		} else if entry.offset == 0 {
			return GlyphIndex(c + entry.delta)
		} else {
			// idRangeOffset is relative to its own position within the offsets
			// array. We sliced the glyph ID array apart, so we have to
			// subtract the distance to the end of the offsets array.
			offset := int(entry.offset) - (N-h)*2
			index := offset/2 + int(c-entry.start)
			glyphInx := f4.glyphIds.U16(index * 2)
			if glyphInx > 0 {
				glyphInx += entry.delta
			}
			return GlyphIndex(glyphInx)
		}
	}
	return 0
}

func (f4 format4GlyphIndex) ReverseLookup(gid GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	var found rune
	f4.Each(func(r rune, g GlyphIndex) {
		if g == gid && found == 0 {
			found = r
		}
	})
	return found
}

func (f4 format4GlyphIndex) Each(fn func(rune, GlyphIndex)) {
	for _, entry := range f4.entries {
		if entry.end < entry.start {
			continue
		}
		for c := int(entry.start); c <= int(entry.end); c++ {
			if c == 0xffff {
				break
			}
			if g := f4.Lookup(rune(c)); g != 0 {
				fn(rune(c), g)
			}
		}
	}
}

// The format's data is divided into three parts, which must occur in the following order:
//
// - A four-word header gives parameters for an optimized search of the segment list;
// - Four parallel arrays describe the segments (one segment for each contiguous range of codes);
// - A variable-length array of glyph IDs (unsigned words).
func makeGlyphIndexFormat4(b binarySegm) (CMapGlyphIndex, error) {
	const headerSize = 14
	if headerSize > b.Size() {
		return nil, errFontFormat("cmap subtable bounds overflow")
	}
	size := int(b.U16(2))
	segCount := b.U16(6)
	if segCount&1 != 0 {
		return nil, errFontFormat("cmap table format, illegal segment count")
	}
	segCount /= 2
	n := int(segCount)
	if size > b.Size() || headerSize+8*n+2 > size {
		return nil, errFontFormat("cmap internal structure")
	}
	b = b[headerSize:size]
	next := 2*n + 2 // 2 is a padding entry in the cmap table
	entries := make([]cmapEntry16, n)
	for i := range entries {
		entries[i] = cmapEntry16{
			end:    b.U16(2 * i),
			start:  b.U16(next + 2*i),
			delta:  b.U16(next + 2*n + 2*i),
			offset: b.U16(next + 4*n + 2*i),
		}
	}
	next += 6 * n
	return format4GlyphIndex{
		entries:  entries,
		glyphIds: b[next:],
	}, nil
}

// --- Format 12 -------------------------------------------------------------

type cmapEntry32 struct {
	start, end, delta uint32
}

// Each sequential map group record specifies a character range and the starting glyph ID
// mapped from the first character. Glyph IDs for subsequent characters follow in sequence.
type format12GlyphIndex struct {
	entries []cmapEntry32
}

func (f12 format12GlyphIndex) Lookup(r rune) GlyphIndex {
	c := uint32(r)
	for i, j := 0, len(f12.entries); i < j; {
		h := i + (j-i)/2
		entry := &f12.entries[h]
		if c < entry.start {
			j = h
		} else if entry.end < c {
			i = h + 1
		} else {
			return GlyphIndex(c - entry.start + entry.delta)
		}
	}
	return 0
}

func (f12 format12GlyphIndex) ReverseLookup(gid GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	cid := uint32(gid)
	for _, entry := range f12.entries {
		if cid >= entry.delta && cid-entry.delta <= entry.end-entry.start {
			return rune(entry.start + cid - entry.delta)
		}
	}
	return 0
}

func (f12 format12GlyphIndex) Each(fn func(rune, GlyphIndex)) {
	for _, entry := range f12.entries {
		if entry.end < entry.start || entry.end > 0x10ffff {
			continue
		}
		for c := entry.start; c <= entry.end; c++ {
			if g := GlyphIndex(c - entry.start + entry.delta); g != 0 {
				fn(rune(c), g)
			}
		}
	}
}

// Format 12 is similar to format 4 in that it defines segments for sparse representation.
// It differs, however, in that it uses 32-bit character codes.
func makeGlyphIndexFormat12(b binarySegm) (CMapGlyphIndex, error) {
	const headerSize = 16
	if headerSize > b.Size() {
		return nil, errFontFormat("cmap subtable bounds overflow")
	}
	size := int(b.U32(4))
	grpCount := int(b.U32(12))
	if size > b.Size() || 12*grpCount+headerSize > size {
		return nil, errFontFormat("cmap internal structure")
	}
	groups, err := viewArray(b, headerSize, grpCount, 12)
	if err != nil {
		return nil, err
	}
	entries := make([]cmapEntry32, grpCount)
	for i := range entries {
		g := groups.Get(i)
		entries[i] = cmapEntry32{
			start: g.U32(0),
			end:   g.U32(4),
			delta: g.U32(8),
		}
	}
	return format12GlyphIndex{entries: entries}, nil
}
