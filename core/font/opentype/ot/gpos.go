package ot

import (
	"fmt"
	"strconv"
)

// GPosTable is a type representing an OpenType GPOS table
// (see https://docs.microsoft.com/en-us/typography/opentype/spec/gpos).
type GPosTable struct {
	tableBase
	LayoutTable
}

func newGPosTable(tag Tag, b binarySegm, offset, size uint32) *GPosTable {
	t := &GPosTable{}
	t.tableBase = tableBase{data: b, name: tag, offset: offset, length: size}
	t.self = t
	return t
}

var _ Table = &GPosTable{}

// The Glyph Positioning table (GPOS) provides precise control over glyph placement
// for sophisticated text layout and rendering in each script and language system
// that a font supports.
func parseGPos(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	gpos := newGPosTable(tag, b, offset, size)
	if err := parseLayoutTable(&gpos.LayoutTable, b, true); err != nil {
		tracer().Errorf("error parsing GPOS table: %v", err)
		return nil, err
	}
	mj, mn := gpos.header.Version()
	tracer().Debugf("GPOS table has version %d.%d", mj, mn)
	tracer().Debugf("GPOS table has %d lookup list entries", gpos.LookupList.Len())
	return gpos, nil
}

// GPOS Lookup Type Enumeration
const (
	GPosLookupTypeSingle            LayoutTableLookupType = 1 // Adjust position of a single glyph
	GPosLookupTypePair              LayoutTableLookupType = 2 // Adjust position of a pair of glyphs
	GPosLookupTypeCursive           LayoutTableLookupType = 3 // Attach cursive glyphs
	GPosLookupTypeMarkToBase        LayoutTableLookupType = 4 // Attach a combining mark to a base glyph
	GPosLookupTypeMarkToLigature    LayoutTableLookupType = 5 // Attach a combining mark to a ligature
	GPosLookupTypeMarkToMark        LayoutTableLookupType = 6 // Attach a combining mark to another mark
	GPosLookupTypeContextPos        LayoutTableLookupType = 7 // Position one or more glyphs in context
	GPosLookupTypeChainedContextPos LayoutTableLookupType = 8 // Position one or more glyphs in chained context
	GPosLookupTypeExtensionPos      LayoutTableLookupType = 9 // Extension mechanism for other positionings
)

var gposLookupTypeNames = [...]string{"Single", "Pair", "Cursive", "MarkToBase",
	"MarkToLigature", "MarkToMark", "ContextPos", "Chained", "Ext"}

// GPosString interprets a layout table lookup type as a GPOS table type.
func (lt LayoutTableLookupType) GPosString() string {
	if lt >= GPosLookupTypeSingle && lt <= GPosLookupTypeExtensionPos {
		return gposLookupTypeNames[lt-1]
	}
	return strconv.Itoa(int(lt))
}

// --- Mark attachment -------------------------------------------------------

// Anchor is a point within the design space of a glyph, used to attach
// glyphs to each other. Anchor formats 2 and 3 carry additional information
// (a contour point and device tables, respectively), of which we keep the
// contour point only.
type Anchor struct {
	Format uint16
	X, Y   int16
	Point  uint16 // anchor point index, for format 2
}

func (a Anchor) String() string {
	return fmt.Sprintf("(%d, %d)", a.X, a.Y)
}

// MarkRecord is an entry of a MarkArray: the class of a mark and its anchor.
type MarkRecord struct {
	Class  int
	Anchor Anchor
}

// MarkAttachment is the content of a GPOS MarkToBase (type 4) or MarkToMark
// (type 6) subtable. For MarkToMark, the "base" glyphs are the marks
// to attach to.
//
// Marks are listed in order of the mark coverage index. Every base glyph
// has an anchor per mark class, which is nil if the base does not support
// attaching marks of this class.
type MarkAttachment struct {
	MarkCoverage Coverage
	BaseCoverage Coverage
	ClassCount   int
	Marks        []MarkRecord
	Bases        [][]*Anchor
}

// MarkRecord returns the mark record for a mark glyph, if the glyph is
// covered by the mark coverage.
func (ma *MarkAttachment) MarkRecord(g GlyphIndex) (MarkRecord, bool) {
	inx, ok := ma.MarkCoverage.Match(g)
	if !ok || inx >= len(ma.Marks) {
		return MarkRecord{}, false
	}
	return ma.Marks[inx], true
}

// BaseAnchors returns the anchors per mark class for a base glyph, if the
// glyph is covered by the base coverage.
func (ma *MarkAttachment) BaseAnchors(g GlyphIndex) ([]*Anchor, bool) {
	inx, ok := ma.BaseCoverage.Match(g)
	if !ok || inx >= len(ma.Bases) {
		return nil, false
	}
	return ma.Bases[inx], true
}

// BaseAnchor returns the anchor of a base glyph for a mark class. It returns
// false if the base is not covered or has no anchor for this class.
func (ma *MarkAttachment) BaseAnchor(g GlyphIndex, class int) (Anchor, bool) {
	anchors, ok := ma.BaseAnchors(g)
	if !ok || class < 0 || class >= len(anchors) || anchors[class] == nil {
		return Anchor{}, false
	}
	return *anchors[class], true
}

// parseMarkAttachment parses a MarkToBase or MarkToMark subtable of format 1:
//
//	uint16  format
//	Offset16  markCoverageOffset
//	Offset16  baseCoverageOffset (mark2 for MarkToMark)
//	uint16  markClassCount
//	Offset16  markArrayOffset
//	Offset16  baseArrayOffset (mark2 for MarkToMark)
func parseMarkAttachment(b binarySegm) (*MarkAttachment, error) {
	if b.Size() < 12 {
		return nil, errFontFormat("mark attachment subtable header")
	}
	if format := b.U16(0); format != 1 {
		return nil, errFontFormat(fmt.Sprintf("mark attachment subtable format %d", format))
	}
	ma := &MarkAttachment{ClassCount: int(b.U16(6))}
	var err error
	if ma.MarkCoverage, err = parseCoverage(b, int(b.U16(2))); err != nil {
		return nil, err
	}
	if ma.BaseCoverage, err = parseCoverage(b, int(b.U16(4))); err != nil {
		return nil, err
	}
	if ma.Marks, err = parseMarkArray(b, int(b.U16(8))); err != nil {
		return nil, err
	}
	if ma.Bases, err = parseBaseArray(b, int(b.U16(10)), ma.ClassCount); err != nil {
		return nil, err
	}
	return ma, nil
}

// A MarkArray is a list of MarkRecords (class, anchor offset), with anchor
// offsets relative to the start of the MarkArray.
func parseMarkArray(b binarySegm, offset int) ([]MarkRecord, error) {
	arr, err := b.from(offset)
	if err != nil {
		return nil, errFontFormat("mark array offset")
	}
	recs, err := viewArray16(arr, 4)
	if err != nil {
		return nil, errFontFormat("mark array")
	}
	marks := make([]MarkRecord, recs.Len())
	for i := range marks {
		rec := recs.Get(i)
		marks[i].Class = int(rec.U16(0))
		if marks[i].Anchor, err = parseAnchor(arr, int(rec.U16(2))); err != nil {
			return nil, err
		}
	}
	return marks, nil
}

// A BaseArray is a list of BaseRecords, each holding classCount anchor
// offsets relative to the start of the BaseArray. An offset of 0 denotes a
// missing anchor.
func parseBaseArray(b binarySegm, offset, classCount int) ([][]*Anchor, error) {
	arr, err := b.from(offset)
	if err != nil {
		return nil, errFontFormat("base array offset")
	}
	recs, err := viewArray16(arr, 2*classCount)
	if err != nil {
		return nil, errFontFormat("base array")
	}
	bases := make([][]*Anchor, recs.Len())
	for i := range bases {
		rec := recs.Get(i)
		bases[i] = make([]*Anchor, classCount)
		for c := 0; c < classCount; c++ {
			off := int(rec.U16(2 * c))
			if off == 0 {
				continue
			}
			anchor, err := parseAnchor(arr, off)
			if err != nil {
				return nil, err
			}
			bases[i][c] = &anchor
		}
	}
	return bases, nil
}

// parseAnchor reads an anchor table of format 1, 2 or 3.
func parseAnchor(b binarySegm, offset int) (Anchor, error) {
	a, err := b.view(offset, 6)
	if err != nil {
		return Anchor{}, errFontFormat("anchor table offset")
	}
	anchor := Anchor{Format: a.U16(0), X: a.I16(2), Y: a.I16(4)}
	switch anchor.Format {
	case 1, 3:
	case 2:
		p, err := b.u16(offset + 6)
		if err != nil {
			return Anchor{}, errFontFormat("anchor table format 2")
		}
		anchor.Point = p
	default:
		return Anchor{}, errFontFormat(fmt.Sprintf("anchor table format %d", anchor.Format))
	}
	return anchor, nil
}
