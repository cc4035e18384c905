package ot

import (
	"fmt"
	"sort"
)

// Font represents the internal structure of an OpenType font.
//
// Advanced layout tables are optional. If a font does not contain a GSUB,
// GPOS or GDEF table, the corresponding entry in Layout is nil.
type Font struct {
	Header *FontHeader
	tables map[Tag]Table
	CMap   *CMapTable // CMAP table is mandatory
	Head   *HeadTable
	MaxP   *MaxPTable
	HHea   *HHeaTable
	HMtx   *HMtxTable
	Name   *NameTable
	Layout struct { // OpenType core layout tables
		GSub *GSubTable
		GPos *GPosTable
		GDef *GDefTable
	}
}

// FontHeader is a directory of the top-level tables in a font.
//
// OpenType fonts that contain TrueType outlines use the value of 0x00010000
// for FontType. OpenType fonts containing CFF data use 0x4F54544F ('OTTO').
type FontHeader struct {
	FontType   uint32
	TableCount uint16
}

// Table returns the font table for a given tag. If a table for a tag cannot
// be found in the font, nil is returned.
//
// Table tag names are case-sensitive, e.g.
//
//	os2 := otf.Table(ot.T("OS/2"))
func (otf *Font) Table(tag Tag) Table {
	if t, ok := otf.tables[tag]; ok {
		return t
	}
	return nil
}

// TableTags returns a list of tags, one for each table contained in the font,
// in ascending order of their offset within the font binary.
func (otf *Font) TableTags() []Tag {
	var tags = make([]Tag, 0, len(otf.tables))
	for tag := range otf.tables {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		oi, _ := otf.tables[tags[i]].Extent()
		oj, _ := otf.tables[tags[j]].Extent()
		if oi == oj {
			return tags[i] < tags[j]
		}
		return oi < oj
	})
	return tags
}

// NumGlyphs returns the number of glyphs in the font, as stated by 'maxp'.
func (otf *Font) NumGlyphs() int {
	if otf.MaxP == nil {
		return 0
	}
	return otf.MaxP.NumGlyphs
}

// Family returns the typographic family name of the font, falling back to
// the legacy family name.
func (otf *Font) Family() string {
	if otf.Name == nil {
		return ""
	}
	if fam := otf.Name.Get(NameTypographicFamily); fam != "" {
		return fam
	}
	return otf.Name.Get(NameFamily)
}

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// --- Tag -------------------------------------------------------------------

// Tag is defined by the spec as:
// Array of four uint8s (length = 32 bits) used to identify a table, design-variation axis,
// script, language system, feature, or baseline
type Tag uint32

// MakeTag creates a Tag from 4 bytes. If b is shorter or longer, it will be
// silently extended or cut as appropriate.
func MakeTag(b []byte) Tag {
	if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string, padded with spaces if shorter.
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	return string([]byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	})
}

// --- Table -----------------------------------------------------------------

// Table represents one of the various OpenType font tables.
//
// Tables which are semantically interpreted by this package may be converted
// to their concrete type with Self(), e.g.
//
//	gpos := otf.Table(ot.T("GPOS")).Self().AsGPos()
type Table interface {
	Extent() (uint32, uint32) // offset and byte size within the font's binary data
	Binary() []byte           // the bytes of this table; should be treated as read-only by clients
	Self() TableSelf          // reference to itself
}

func newTable(tag Tag, b binarySegm, offset, size uint32) *genericTable {
	t := &genericTable{}
	t.tableBase = tableBase{data: b, name: tag, offset: offset, length: size}
	t.self = t
	return t
}

type genericTable struct {
	tableBase
}

// tableBase is a common parent for all kinds of OpenType tables.
type tableBase struct {
	data   binarySegm // a table is a slice of font data
	name   Tag        // 4-byte name as an integer
	offset uint32     // from offset
	length uint32     // to offset + length
	self   interface{}
}

// Extent returns offset and byte size of this table within the OpenType font.
func (tb *tableBase) Extent() (uint32, uint32) {
	return tb.offset, tb.length
}

// Binary returns the bytes of this table. Should be treated as read-only by
// clients, as it is a view into the original data.
func (tb *tableBase) Binary() []byte {
	return tb.data
}

func (tb *tableBase) Self() TableSelf {
	return TableSelf{tableBase: tb}
}

// TableSelf is a reference to a table. Its primary use is for converting
// a generic table to a concrete table flavour.
type TableSelf struct {
	tableBase *tableBase
}

// NameTag returns the 4-letter name of a table.
func (tself TableSelf) NameTag() Tag {
	return tself.tableBase.name
}

// AsCMap returns this table as a cmap table, or nil.
func (tself TableSelf) AsCMap() *CMapTable {
	if k, ok := tself.tableBase.self.(*CMapTable); ok {
		return k
	}
	return nil
}

// AsHead returns this table as a head table, or nil.
func (tself TableSelf) AsHead() *HeadTable {
	if k, ok := tself.tableBase.self.(*HeadTable); ok {
		return k
	}
	return nil
}

// AsMaxP returns this table as a maxp table, or nil.
func (tself TableSelf) AsMaxP() *MaxPTable {
	if k, ok := tself.tableBase.self.(*MaxPTable); ok {
		return k
	}
	return nil
}

// AsHHea returns this table as a hhea table, or nil.
func (tself TableSelf) AsHHea() *HHeaTable {
	if k, ok := tself.tableBase.self.(*HHeaTable); ok {
		return k
	}
	return nil
}

// AsHMtx returns this table as a hmtx table, or nil.
func (tself TableSelf) AsHMtx() *HMtxTable {
	if k, ok := tself.tableBase.self.(*HMtxTable); ok {
		return k
	}
	return nil
}

// AsName returns this table as a name table, or nil.
func (tself TableSelf) AsName() *NameTable {
	if k, ok := tself.tableBase.self.(*NameTable); ok {
		return k
	}
	return nil
}

// AsGPos returns this table as a GPOS table, or nil.
func (tself TableSelf) AsGPos() *GPosTable {
	if k, ok := tself.tableBase.self.(*GPosTable); ok {
		return k
	}
	return nil
}

// AsGSub returns this table as a GSUB table, or nil.
func (tself TableSelf) AsGSub() *GSubTable {
	if k, ok := tself.tableBase.self.(*GSubTable); ok {
		return k
	}
	return nil
}

// AsGDef returns this table as a GDEF table, or nil.
func (tself TableSelf) AsGDef() *GDefTable {
	if k, ok := tself.tableBase.self.(*GDefTable); ok {
		return k
	}
	return nil
}

// --- Head table ------------------------------------------------------------

// HeadTable gives global information about the font.
// Only a small subset of fields are made public by HeadTable, as they are
// needed for consistency-checks. To read any of the other fields of table 'head' use:
//
//	head := otf.Table(T("head"))
//	field := head.Binary()[offset:offset+size]
type HeadTable struct {
	tableBase
	Flags            uint16 // see https://docs.microsoft.com/en-us/typography/opentype/spec/head
	UnitsPerEm       uint16 // values 16 … 16384 are valid
	XMin, YMin       int16  // bounding box of all glyphs
	XMax, YMax       int16
	IndexToLocFormat uint16 // needed to interpret loca table
}

func newHeadTable(tag Tag, b binarySegm, offset, size uint32) *HeadTable {
	t := &HeadTable{}
	t.tableBase = tableBase{data: b, name: tag, offset: offset, length: size}
	t.self = t
	return t
}

// --- MaxP table ------------------------------------------------------------

// MaxPTable establishes the memory requirements for this font.
// The 'maxp' table contains a count for the number of glyphs in the font.
// Whenever this value changes, other tables which depend on it should be
// updated as well.
type MaxPTable struct {
	tableBase
	NumGlyphs int
}

func newMaxPTable(tag Tag, b binarySegm, offset, size uint32) *MaxPTable {
	t := &MaxPTable{}
	t.tableBase = tableBase{data: b, name: tag, offset: offset, length: size}
	t.self = t
	return t
}

// --- HHea table ------------------------------------------------------------

// HHeaTable contains information for horizontal layout.
type HHeaTable struct {
	tableBase
	Ascender         int16
	Descender        int16
	LineGap          int16
	NumberOfHMetrics int
}

func newHHeaTable(tag Tag, b binarySegm, offset, size uint32) *HHeaTable {
	t := &HHeaTable{}
	t.tableBase = tableBase{data: b, name: tag, offset: offset, length: size}
	t.self = t
	return t
}

// --- HMtx table ------------------------------------------------------------

// HMtxTable contains metric information for the horizontal layout each of
// the glyphs in the font.
//
// A font has a number of long metrics (advance width plus left side
// bearing), followed by left side bearings only for the remaining glyphs,
// which all share the advance width of the last long metric.
type HMtxTable struct {
	tableBase
	NumberOfHMetrics int
}

func newHMtxTable(tag Tag, b binarySegm, offset, size uint32) *HMtxTable {
	t := &HMtxTable{}
	t.tableBase = tableBase{data: b, name: tag, offset: offset, length: size}
	t.self = t
	return t
}

// HMetrics returns the advance width and left side bearing of a glyph.
func (t *HMtxTable) HMetrics(g GlyphIndex) (uint16, int16) {
	n := t.NumberOfHMetrics
	if n == 0 {
		return 0, 0
	}
	if int(g) < n {
		return t.data.U16(int(g) * 4), t.data.I16(int(g)*4 + 2)
	}
	advance := t.data.U16((n - 1) * 4)
	lsb := t.data.I16(n*4 + (int(g)-n)*2)
	return advance, lsb
}

// --- Name table ------------------------------------------------------------

// NameID identifies an entry of the 'name' table.
type NameID uint16

// Name IDs used by package ot and its clients.
const (
	NameCopyright         NameID = 0
	NameFamily            NameID = 1
	NameSubfamily         NameID = 2
	NameUniqueID          NameID = 3
	NameFull              NameID = 4
	NameVersion           NameID = 5
	NamePostScript        NameID = 6
	NameTypographicFamily NameID = 16
)

// NameTable allows multilingual strings to be associated with the OpenType™ font.
//
// Package ot keeps one string per name ID, preferring Unicode/Windows
// platform entries with US English language.
type NameTable struct {
	tableBase
	names map[NameID]string
}

func newNameTable(tag Tag, b binarySegm, offset, size uint32) *NameTable {
	t := &NameTable{names: make(map[NameID]string)}
	t.tableBase = tableBase{data: b, name: tag, offset: offset, length: size}
	t.self = t
	return t
}

// Get returns the string for a name ID, or "".
func (t *NameTable) Get(id NameID) string {
	return t.names[id]
}

// IDs returns all name IDs present, in ascending order.
func (t *NameTable) IDs() []NameID {
	ids := make([]NameID, 0, len(t.names))
	for id := range t.names {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (t *NameTable) String() string {
	return fmt.Sprintf("name{%d entries}", len(t.names))
}
