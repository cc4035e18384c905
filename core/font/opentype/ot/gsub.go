package ot

import (
	"strconv"
)

// GSubTable is a type representing an OpenType GSUB table
// (see https://docs.microsoft.com/en-us/typography/opentype/spec/gsub).
//
// We do not interpret substitutions. Lookup types and coverages are enough
// to tell whether a glyph takes part in a substitution at all.
type GSubTable struct {
	tableBase
	LayoutTable
}

func newGSubTable(tag Tag, b binarySegm, offset, size uint32) *GSubTable {
	t := &GSubTable{}
	t.tableBase = tableBase{data: b, name: tag, offset: offset, length: size}
	t.self = t
	return t
}

var _ Table = &GSubTable{}

// The Glyph Substitution (GSUB) table provides data for substition of glyphs for
// appropriate rendering of scripts, such as cursively-connecting forms in Arabic script,
// or for advanced typographic effects, such as ligatures.
func parseGSub(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	gsub := newGSubTable(tag, b, offset, size)
	if err := parseLayoutTable(&gsub.LayoutTable, b, false); err != nil {
		tracer().Errorf("error parsing GSUB table: %v", err)
		return nil, err
	}
	mj, mn := gsub.header.Version()
	tracer().Debugf("GSUB table has version %d.%d", mj, mn)
	tracer().Debugf("GSUB table has %d lookup list entries", gsub.LookupList.Len())
	return gsub, nil
}

// GSUB Lookup Type Enumeration
const (
	GSubLookupTypeSingle          LayoutTableLookupType = 1 // Replace one glyph with one glyph
	GSubLookupTypeMultiple        LayoutTableLookupType = 2 // Replace one glyph with more than one glyph
	GSubLookupTypeAlternate       LayoutTableLookupType = 3 // Replace one glyph with one of many glyphs
	GSubLookupTypeLigature        LayoutTableLookupType = 4 // Replace multiple glyphs with one glyph
	GSubLookupTypeContext         LayoutTableLookupType = 5 // Replace one or more glyphs in context
	GSubLookupTypeChainingContext LayoutTableLookupType = 6 // Replace one or more glyphs in chained context
	GSubLookupTypeExtensionSubs   LayoutTableLookupType = 7 // Extension mechanism for other substitutions
	GSubLookupTypeReverseChaining LayoutTableLookupType = 8 // Applied in reverse order, replace single glyph in chaining context
)

var gsubLookupTypeNames = [...]string{"Single", "Multiple", "Alternate", "Ligature",
	"Context", "Chaining", "Extension", "Reverse"}

// GSubString interprets a layout table lookup type as a GSUB table type.
func (lt LayoutTableLookupType) GSubString() string {
	if lt >= GSubLookupTypeSingle && lt <= GSubLookupTypeReverseChaining {
		return gsubLookupTypeNames[lt-1]
	}
	return strconv.Itoa(int(lt))
}
