package ot

import (
	"fmt"

	"github.com/elliottpearl/libertinus-analysis/core"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Code comment often will cite passage from the
// OpenType specification version 1.8.4;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

func errFontFormat(x string) error {
	return core.Error(core.EINVALID, "OpenType font format: %s", x)
}

// ---------------------------------------------------------------------------

// Parse parses an OpenType font from a byte slice.
// An ot.Font needs ongoing access to the fonts byte-data after the Parse function returns.
// Its elements are assumed immutable while the ot.Font remains in use.
func Parse(font []byte) (*Font, error) {
	src := binarySegm(font)
	// https://www.microsoft.com/typography/otspec/otff.htm: Offset Table is 12 bytes.
	if src.Size() < 12 {
		return nil, errFontFormat("font header")
	}
	h := FontHeader{FontType: src.U32(0), TableCount: src.U16(4)}
	tracer().Debugf("header = %v, tag = %x|%s", h, h.FontType, Tag(h.FontType).String())
	if !(h.FontType == 0x4f54544f || // OTTO
		h.FontType == 0x00010000 || // TrueType
		h.FontType == 0x74727565) { // true
		return nil, errFontFormat(fmt.Sprintf("font type not supported: %x", h.FontType))
	}
	otf := &Font{Header: &h, tables: make(map[Tag]Table)}
	// "The Offset Table is followed immediately by the Table Record entries …
	// sorted in ascending order by tag", 16 bytes each.
	buf, err := src.view(12, 16*int(h.TableCount))
	if err != nil {
		return nil, errFontFormat("table record entries")
	}
	for b, prevTag := buf, Tag(0); len(b) > 0; b = b[16:] {
		tag := MakeTag(b[:4])
		if tag < prevTag {
			return nil, errFontFormat("table order")
		}
		prevTag = tag
		off, size := u32(b[8:12]), u32(b[12:16])
		if off&3 != 0 { // ignore checksums, but "all tables must begin on four byte boundries".
			return nil, errFontFormat("invalid table offset")
		}
		data, err := src.view(int(off), int(size))
		if err != nil {
			return nil, errFontFormat(fmt.Sprintf("table %s exceeds font bounds", tag))
		}
		if otf.tables[tag], err = parseTable(tag, data, off, size); err != nil {
			return nil, err
		}
	}
	if err := extractLayoutInfo(otf); err != nil {
		return nil, err
	}
	return otf, nil
}

// RequiredTables are the tables which, according to the OpenType spec, are
// required for the font to function correctly.
var RequiredTables = []string{
	"cmap", "head", "hhea", "hmtx", "maxp", "name", "OS/2", "post",
}

// LayoutTables are the OpenType tables for advanced layout. All of them are
// optional.
var LayoutTables = []string{
	"GSUB", "GPOS", "GDEF",
}

// Consistency check and shortcuts to essential tables, including layout tables.
func extractLayoutInfo(otf *Font) error {
	for _, tag := range RequiredTables {
		if otf.tables[T(tag)] == nil {
			return errFontFormat("missing required table " + tag)
		}
	}
	otf.CMap = otf.tables[T("cmap")].Self().AsCMap()
	otf.Head = otf.tables[T("head")].Self().AsHead()
	otf.MaxP = otf.tables[T("maxp")].Self().AsMaxP()
	otf.HHea = otf.tables[T("hhea")].Self().AsHHea()
	otf.HMtx = otf.tables[T("hmtx")].Self().AsHMtx()
	otf.Name = otf.tables[T("name")].Self().AsName()
	otf.HMtx.NumberOfHMetrics = otf.HHea.NumberOfHMetrics
	if t := otf.tables[T("GSUB")]; t != nil {
		otf.Layout.GSub = t.Self().AsGSub()
	}
	if t := otf.tables[T("GPOS")]; t != nil {
		otf.Layout.GPos = t.Self().AsGPos()
	}
	if t := otf.tables[T("GDEF")]; t != nil {
		otf.Layout.GDef = t.Self().AsGDef()
	}
	return nil
}

func parseTable(t Tag, b binarySegm, offset, size uint32) (Table, error) {
	switch t {
	case T("cmap"):
		return parseCMap(t, b, offset, size)
	case T("head"):
		return parseHead(t, b, offset, size)
	case T("GDEF"):
		return parseGDef(t, b, offset, size)
	case T("GPOS"):
		return parseGPos(t, b, offset, size)
	case T("GSUB"):
		return parseGSub(t, b, offset, size)
	case T("hhea"):
		return parseHHea(t, b, offset, size)
	case T("hmtx"):
		return newHMtxTable(t, b, offset, size), nil
	case T("maxp"):
		return parseMaxP(t, b, offset, size)
	case T("name"):
		return parseName(t, b, offset, size)
	}
	tracer().Debugf("font contains table (%s), will not be interpreted", t)
	return newTable(t, b, offset, size), nil
}

// --- Head table ------------------------------------------------------------

func parseHead(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 54 {
		return nil, errFontFormat("size of head table")
	}
	t := newHeadTable(tag, b, offset, size)
	t.Flags = b.U16(16)
	t.UnitsPerEm = b.U16(18)
	t.XMin, t.YMin = b.I16(36), b.I16(38)
	t.XMax, t.YMax = b.I16(40), b.I16(42)
	t.IndexToLocFormat = b.U16(50)
	if t.UnitsPerEm < 16 || t.UnitsPerEm > 16384 {
		return nil, errFontFormat(fmt.Sprintf("units per em out of range: %d", t.UnitsPerEm))
	}
	return t, nil
}

// --- CMap table ------------------------------------------------------------

// parseCMap selects the widest supported encoding record and builds a glyph
// index map for it. Other subtables are ignored.
func parseCMap(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	n := int(b.U16(2)) // number of sub-tables
	tracer().Debugf("font cmap has %d sub-tables in %d bytes", n, size)
	t := newCMapTable(tag, b, offset, size)
	const headerSize, entrySize = 4, 8
	if int(size) < headerSize+entrySize*n {
		return nil, errFontFormat("size of cmap table")
	}
	var width int
	var format uint16
	var subtable binarySegm
	for i := 0; i < n; i++ {
		rec, _ := b.view(headerSize+entrySize*i, entrySize)
		pid, psid := u16(rec), u16(rec[2:])
		w := platformEncodingWidth(pid, psid)
		if w <= width {
			continue
		}
		sub, err := b.from(int(u32(rec[4:])))
		if err != nil || sub.Size() < 2 {
			tracer().Infof("cmap sub-table cannot be parsed")
			continue
		}
		if f := sub.U16(0); supportedCmapFormat(f, pid, psid) {
			width, format, subtable = w, f, sub
		}
	}
	if width == 0 {
		return nil, errFontFormat("no supported cmap format found")
	}
	var err error
	if t.GlyphIndexMap, err = makeGlyphIndex(subtable, format); err != nil {
		return nil, err
	}
	return t, nil
}

// --- MaxP table ------------------------------------------------------------

// Fonts with CFF data use Version 0.5 of this table, specifying only the
// numGlyphs field.
func parseMaxP(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 6 {
		return nil, errFontFormat("size of maxp table")
	}
	t := newMaxPTable(tag, b, offset, size)
	t.NumGlyphs = int(b.U16(4))
	return t, nil
}

// --- HHea table ------------------------------------------------------------

func parseHHea(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 36 {
		return nil, errFontFormat("hhea table incomplete")
	}
	t := newHHeaTable(tag, b, offset, size)
	t.Ascender = b.I16(4)
	t.Descender = b.I16(6)
	t.LineGap = b.I16(8)
	t.NumberOfHMetrics = int(b.U16(34))
	return t, nil
}

// --- Name table ------------------------------------------------------------

// parseName reads the naming table. For every name ID we keep the string of
// the most appropriate record, preferring Windows/Unicode records in US
// English over Unicode platform records over Macintosh Roman records.
func parseName(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 6 {
		return nil, errFontFormat("name section corrupt")
	}
	t := newNameTable(tag, b, offset, size)
	N := int(b.U16(2))
	strbuf, err := b.from(int(b.U16(4)))
	if err != nil {
		return nil, errFontFormat("name section corrupt")
	}
	recs, err := viewArray(b, 6, N, 12)
	if err != nil {
		return nil, errFontFormat("name section corrupt")
	}
	tracer().Debugf("name table has %d strings", N)
	utf16 := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	scores := make(map[NameID]int)
	for i := 0; i < recs.Len(); i++ {
		rec := recs.Get(i)
		pid, psid, lang := rec.U16(0), rec.U16(2), rec.U16(4)
		id := NameID(rec.U16(6))
		score := 0
		switch {
		case pid == 3 && (psid == 1 || psid == 10) && lang == 0x409:
			score = 4
		case pid == 3 && (psid == 1 || psid == 10):
			score = 3
		case pid == 0:
			score = 2
		case pid == 1 && psid == 0 && lang == 0:
			score = 1
		}
		if score == 0 || score <= scores[id] {
			continue
		}
		raw, err := strbuf.view(int(rec.U16(10)), int(rec.U16(8)))
		if err != nil {
			tracer().Infof("name record %d out of bounds", id)
			continue
		}
		var s []byte
		if pid == 1 {
			s, err = charmap.Macintosh.NewDecoder().Bytes(raw)
		} else {
			s, err = utf16.NewDecoder().Bytes(raw)
		}
		if err != nil {
			continue
		}
		t.names[id] = string(s)
		scores[id] = score
	}
	return t, nil
}
