package ot

import (
	"fmt"
	"sort"
	"sync"
)

// LayoutTable is a base type for layout tables.
// OpenType specifies two tables–GPOS and GSUB–which share some of their
// structure. They are called "layout tables".
//
// Scripts and language systems are not interpreted. Features are kept as a
// list of tags with their lookup indices, which is all a diagnostic tool needs
// to find the lookups belonging to, e.g., feature 'mark'.
type LayoutTable struct {
	header     *LayoutHeader
	Features   []Feature
	LookupList *LookupList
}

// LayoutHeader represents header information for layout tables, i.e.
// GPOS and GSUB.
type LayoutHeader struct {
	Major, Minor   uint16
	scriptListOff  uint16
	featureListOff uint16
	lookupListOff  uint16
	featureVarsOff uint32 // only in version 1.1
}

// Version returns major and minor version numbers for this layout table.
func (h LayoutHeader) Version() (int, int) {
	return int(h.Major), int(h.Minor)
}

// Header returns the layout table header for this table.
func (lytt *LayoutTable) Header() LayoutHeader {
	if lytt.header == nil {
		return LayoutHeader{}
	}
	return *lytt.header
}

// Feature is an entry of a layout table's FeatureList.
type Feature struct {
	Tag           Tag
	LookupIndices []int
}

// FeatureLookups returns the indices of all lookups referenced by features
// with one of the given tags, sorted ascending and without duplicates.
func (lytt *LayoutTable) FeatureLookups(tags ...Tag) []int {
	seen := make(map[int]bool)
	for _, f := range lytt.Features {
		for _, tag := range tags {
			if f.Tag != tag {
				continue
			}
			for _, inx := range f.LookupIndices {
				seen[inx] = true
			}
		}
	}
	inxs := make([]int, 0, len(seen))
	for inx := range seen {
		inxs = append(inxs, inx)
	}
	sort.Ints(inxs)
	return inxs
}

// parseLayoutTable parses a layout table header, the FeatureList and the
// LookupList. Supports header versions 1.0 and 1.1.
func parseLayoutTable(lytt *LayoutTable, b binarySegm, isGPos bool) error {
	if b.Size() < 10 {
		return errFontFormat("layout table header")
	}
	h := &LayoutHeader{
		Major:          b.U16(0),
		Minor:          b.U16(2),
		scriptListOff:  b.U16(4),
		featureListOff: b.U16(6),
		lookupListOff:  b.U16(8),
	}
	if h.Major != 1 || (h.Minor != 0 && h.Minor != 1) {
		return errFontFormat(fmt.Sprintf("unsupported layout version (major: %d, minor: %d)",
			h.Major, h.Minor))
	}
	if h.Minor == 1 {
		h.featureVarsOff = b.U32(10)
	}
	lytt.header = h
	if err := parseFeatureList(lytt, b); err != nil {
		return err
	}
	return parseLookupList(lytt, b, isGPos)
}

// The FeatureList table enumerates features in an array of records (FeatureRecord),
// each consisting of a tag and an offset to a Feature table. A Feature table
// lists the indices of lookups to apply for this feature.
func parseFeatureList(lytt *LayoutTable, b binarySegm) error {
	if lytt.header.featureListOff == 0 {
		return nil
	}
	fl, err := b.from(int(lytt.header.featureListOff))
	if err != nil {
		return errFontFormat("feature list offset")
	}
	recs, err := viewArray16(fl, 6)
	if err != nil {
		return errFontFormat("feature list")
	}
	lytt.Features = make([]Feature, recs.Len())
	for i := 0; i < recs.Len(); i++ {
		rec := recs.Get(i)
		f := Feature{Tag: MakeTag(rec[:4])}
		ftable, err := fl.from(int(rec.U16(4)))
		if err != nil || ftable.Size() < 4 {
			return errFontFormat("feature table " + f.Tag.String())
		}
		inx, err := viewArray16(ftable[2:], 2)
		if err != nil {
			return errFontFormat("feature table " + f.Tag.String())
		}
		f.LookupIndices = make([]int, inx.Len())
		for j := range f.LookupIndices {
			f.LookupIndices[j] = int(inx.U16(j))
		}
		lytt.Features[i] = f
	}
	return nil
}

// --- Lookup list -----------------------------------------------------------

// LookupList is the list of lookups of a layout table.
//
// Lookups are parsed on first access and cached afterwards. A LookupList is
// safe for concurrent use.
type LookupList struct {
	base    binarySegm
	offsets array
	isGPos  bool
	mu      sync.Mutex
	cache   []*Lookup
}

// parseLookupList parses the LookupList.
// See https://www.microsoft.com/typography/otspec/chapter2.htm#lulTbl
func parseLookupList(lytt *LayoutTable, b binarySegm, isGPos bool) error {
	ll := &LookupList{isGPos: isGPos}
	lytt.LookupList = ll
	if lytt.header.lookupListOff == 0 {
		return nil
	}
	var err error
	if ll.base, err = b.from(int(lytt.header.lookupListOff)); err != nil {
		return errFontFormat("lookup list offset")
	}
	if ll.offsets, err = viewArray16(ll.base, 2); err != nil {
		return errFontFormat("lookup list")
	}
	ll.cache = make([]*Lookup, ll.offsets.Len())
	return nil
}

// Len returns the number of lookups in the list.
func (ll *LookupList) Len() int {
	if ll == nil {
		return 0
	}
	return ll.offsets.Len()
}

// Navigate returns lookup i, or nil if i is out of range.
func (ll *LookupList) Navigate(i int) *Lookup {
	if i < 0 || i >= ll.Len() {
		return nil
	}
	ll.mu.Lock()
	defer ll.mu.Unlock()
	if ll.cache[i] == nil {
		ll.cache[i] = parseLookup(ll.base, i, int(ll.offsets.U16(i)), ll.isGPos)
	}
	return ll.cache[i]
}

// LayoutTableLookupType is a type identifier for layout lookup records (GPOS and GSUB).
// Enum values are different for GPOS and GSUB.
type LayoutTableLookupType uint16

// LayoutTableLookupFlag is a flag type for layout tables (GPOS and GSUB).
type LayoutTableLookupFlag uint16

// Lookup flags of layout tables (GPOS and GSUB)
const ( // LookupFlag bit enumeration
	LOOKUP_FLAG_RIGHT_TO_LEFT             LayoutTableLookupFlag = 0x0001 // Used only for GPOS type 3 lookups
	LOOKUP_FLAG_IGNORE_BASE_GLYPHS        LayoutTableLookupFlag = 0x0002 // If set, skips over base glyphs
	LOOKUP_FLAG_IGNORE_LIGATURES          LayoutTableLookupFlag = 0x0004 // If set, skips over ligatures
	LOOKUP_FLAG_IGNORE_MARKS              LayoutTableLookupFlag = 0x0008 // If set, skips over all combining marks
	LOOKUP_FLAG_USE_MARK_FILTERING_SET    LayoutTableLookupFlag = 0x0010 // If set, the lookup table structure is followed by a MarkFilteringSet field
	LOOKUP_FLAG_reserved                  LayoutTableLookupFlag = 0x00E0 // For future use (Set to zero)
	LOOKUP_FLAG_MARK_ATTACHMENT_TYPE_MASK LayoutTableLookupFlag = 0xFF00 // If not zero, skips over all marks of attachment type different from specified
)

// Lookup is a lookup of a layout table, together with its subtables.
//
// Type is the lookup type as stated by the font. For extension lookups it is
// the extension type (GPOS 9, GSUB 7), and the wrapped type is found in
// the subtables (see EffectiveType).
type Lookup struct {
	Index            int
	Type             LayoutTableLookupType
	Flag             LayoutTableLookupFlag
	MarkFilteringSet uint16 // only valid if flag LOOKUP_FLAG_USE_MARK_FILTERING_SET is set
	IsGPos           bool
	Subtables        []LookupSubtable
	Err              error // first error encountered while parsing subtables
}

// LookupSubtable is a subtable of a lookup, with extension subtables
// already resolved.
type LookupSubtable struct {
	LookupType     LayoutTableLookupType // may differ from Lookup.Type for Type=Extension
	Format         uint16                // lookup subtables may come in more than one format
	Extension      bool                  // subtable has been wrapped by an extension subtable
	Coverage       Coverage              // for which glyphs is this lookup applicable
	MarkAttachment *MarkAttachment       // GPOS MarkToBase and MarkToMark only
}

// EffectiveType returns the lookup type, with extension lookups resolved to
// the type of their subtables.
func (l *Lookup) EffectiveType() LayoutTableLookupType {
	if l.isExtension() && len(l.Subtables) > 0 {
		return l.Subtables[0].LookupType
	}
	return l.Type
}

func (l *Lookup) isExtension() bool {
	return (l.IsGPos && l.Type == GPosLookupTypeExtensionPos) ||
		(!l.IsGPos && l.Type == GSubLookupTypeExtensionSubs)
}

// TypeString returns a readable name for the effective lookup type.
func (l *Lookup) TypeString() string {
	if l.IsGPos {
		return l.EffectiveType().GPosString()
	}
	return l.EffectiveType().GSubString()
}

func (l *Lookup) String() string {
	ext := ""
	if l.isExtension() {
		ext = " (ext)"
	}
	return fmt.Sprintf("lookup #%d %s%s, flags 0x%04x, %d subtables", l.Index,
		l.TypeString(), ext, uint16(l.Flag), len(l.Subtables))
}

// parseLookup reads a Lookup from a lookup list. It first parses the
// lookup header and after that parses the subtables. Errors in subtables are
// recorded in the lookup, but do not hinder parsing of other subtables.
func parseLookup(list binarySegm, inx, offset int, isGPos bool) *Lookup {
	lookup := &Lookup{Index: inx, IsGPos: isGPos}
	b, err := list.from(offset)
	if err != nil || b.Size() < 6 {
		lookup.Err = errFontFormat(fmt.Sprintf("lookup %d header", inx))
		return lookup
	}
	lookup.Type = LayoutTableLookupType(b.U16(0))
	lookup.Flag = LayoutTableLookupFlag(b.U16(2))
	subs, err := viewArray16(b[4:], 2)
	if err != nil {
		lookup.Err = errFontFormat(fmt.Sprintf("lookup %d subtable offsets", inx))
		return lookup
	}
	if lookup.Flag&LOOKUP_FLAG_USE_MARK_FILTERING_SET != 0 {
		lookup.MarkFilteringSet = b.U16(6 + 2*subs.Len())
	}
	for i := 0; i < subs.Len(); i++ {
		sub, err := parseLookupSubtable(b, int(subs.U16(i)), lookup.Type, isGPos)
		if err != nil {
			tracer().Errorf("lookup %d, subtable %d: %v", inx, i, err)
			if lookup.Err == nil {
				lookup.Err = err
			}
			continue
		}
		lookup.Subtables = append(lookup.Subtables, sub)
	}
	return lookup
}

// parseLookupSubtable parses a subtable, following a possible extension
// subtable to its target.
func parseLookupSubtable(b binarySegm, offset int, lookupType LayoutTableLookupType,
	isGPos bool) (LookupSubtable, error) {
	//
	sub := LookupSubtable{LookupType: lookupType}
	loc, err := b.from(offset)
	if err != nil || loc.Size() < 4 {
		return sub, errFontFormat("lookup subtable offset")
	}
	extType := GSubLookupTypeExtensionSubs
	if isGPos {
		extType = GPosLookupTypeExtensionPos
	}
	if lookupType == extType {
		if loc.Size() < 8 {
			return sub, errFontFormat("extension subtable")
		}
		sub.LookupType = LayoutTableLookupType(loc.U16(2))
		if sub.LookupType == extType {
			return sub, errFontFormat("extension subtable recursion")
		}
		if loc, err = loc.from(int(loc.U32(4))); err != nil || loc.Size() < 4 {
			return sub, errFontFormat("extension subtable offset")
		}
		sub.Extension = true
	}
	sub.Format = loc.U16(0)
	if hasCoverageAt2(sub.LookupType, sub.Format, isGPos) {
		if sub.Coverage, err = parseCoverage(loc, int(loc.U16(2))); err != nil {
			return sub, err
		}
	}
	if isGPos && (sub.LookupType == GPosLookupTypeMarkToBase ||
		sub.LookupType == GPosLookupTypeMarkToMark) {
		if sub.MarkAttachment, err = parseMarkAttachment(loc); err != nil {
			return sub, err
		}
	}
	return sub, nil
}

// Most of the subtable formats use a coverage table, located by an offset
// right after the format field. Context lookups of format 3 store lists of
// coverages instead.
func hasCoverageAt2(lookupType LayoutTableLookupType, format uint16, isGPos bool) bool {
	if isGPos {
		switch lookupType {
		case GPosLookupTypeContextPos, GPosLookupTypeChainedContextPos:
			return format != 3
		}
		return lookupType >= GPosLookupTypeSingle && lookupType < GPosLookupTypeExtensionPos
	}
	switch lookupType {
	case GSubLookupTypeContext, GSubLookupTypeChainingContext:
		return format != 3
	}
	return lookupType >= GSubLookupTypeSingle && lookupType <= GSubLookupTypeReverseChaining &&
		lookupType != GSubLookupTypeExtensionSubs
}

// --- Coverage --------------------------------------------------------------

// Coverage denotes an indexed set of glyphs.
// Each LookupTable (except an Extension LookupType) includes an offset to a
// Coverage table, which lists all the glyphs affected by a substitution or
// positioning operation described in the subtables.
type Coverage struct {
	Format     uint16
	Count      uint16
	GlyphRange GlyphRange
}

// GlyphRange is a type frequently used by sub-tables of layout tables (GPOS and GSUB).
type GlyphRange interface {
	Match(GlyphIndex) (int, bool) // returns the coverage index of a glyph
	Glyphs() []GlyphIndex         // all glyphs, in order of their coverage index
}

// Match returns the coverage index of glyph g, if g is covered.
func (c Coverage) Match(g GlyphIndex) (int, bool) {
	if c.GlyphRange == nil {
		return 0, false
	}
	return c.GlyphRange.Match(g)
}

// Glyphs returns the covered glyphs, in order of their coverage index.
func (c Coverage) Glyphs() []GlyphIndex {
	if c.GlyphRange == nil {
		return nil
	}
	return c.GlyphRange.Glyphs()
}

// parseCoverage reads a coverage table, which comes in two formats (1 and 2),
// located at offset from b.
func parseCoverage(b binarySegm, offset int) (Coverage, error) {
	loc, err := b.from(offset)
	if err != nil || loc.Size() < 4 {
		return Coverage{}, errFontFormat("coverage table offset")
	}
	c := Coverage{Format: loc.U16(0), Count: loc.U16(2)}
	switch c.Format {
	case 1:
		a, err := viewArray16(loc[2:], 2)
		if err != nil {
			return c, errFontFormat("coverage table format 1")
		}
		c.GlyphRange = &glyphRangeArray{count: a.Len(), data: a}
	case 2:
		a, err := viewArray16(loc[2:], 6)
		if err != nil {
			return c, errFontFormat("coverage table format 2")
		}
		c.GlyphRange = &glyphRangeRecords{count: a.Len(), data: a}
	default:
		return c, errFontFormat(fmt.Sprintf("unknown coverage format %d", c.Format))
	}
	return c, nil
}

// glyphRangeArray is a sorted array of glyphs, i.e. coverage format 1.
type glyphRangeArray struct {
	count int
	data  array
}

func (r *glyphRangeArray) Match(g GlyphIndex) (int, bool) {
	i := sort.Search(r.count, func(i int) bool {
		return GlyphIndex(r.data.U16(i)) >= g
	})
	if i < r.count && GlyphIndex(r.data.U16(i)) == g {
		return i, true
	}
	return 0, false
}

func (r *glyphRangeArray) Glyphs() []GlyphIndex {
	glyphs := make([]GlyphIndex, r.count)
	for i := range glyphs {
		glyphs[i] = GlyphIndex(r.data.U16(i))
	}
	return glyphs
}

// glyphRangeRecords is a list of glyph ranges, i.e. coverage format 2.
// Each record consists of a start glyph, an end glyph and the coverage index
// of the start glyph.
type glyphRangeRecords struct {
	count int
	data  array
}

func (r *glyphRangeRecords) Match(g GlyphIndex) (int, bool) {
	i := sort.Search(r.count, func(i int) bool {
		return GlyphIndex(r.data.Get(i).U16(2)) >= g
	})
	if i < r.count {
		rec := r.data.Get(i)
		from, to := GlyphIndex(rec.U16(0)), GlyphIndex(rec.U16(2))
		if g >= from && g <= to {
			return int(rec.U16(4)) + int(g-from), true
		}
	}
	return 0, false
}

func (r *glyphRangeRecords) Glyphs() []GlyphIndex {
	var glyphs []GlyphIndex
	for i := 0; i < r.count; i++ {
		rec := r.data.Get(i)
		from, to := int(rec.U16(0)), int(rec.U16(2))
		for g := from; g <= to; g++ {
			glyphs = append(glyphs, GlyphIndex(g))
		}
	}
	return glyphs
}

// --- Class definitions -----------------------------------------------------

// ClassDefinitions groups glyphs into classes, denoted as integer values.
//
// The ClassDef table can have either of two formats: one that assigns a range of
// consecutive glyph indices to different classes, or one that puts groups of consecutive
// glyph indices into the same class. Glyphs not covered are of class 0.
type ClassDefinitions struct {
	format  uint16 // format version 1 or 2
	start   GlyphIndex
	records array
}

// Lookup returns the class defined for a glyph, or 0 (= default class).
func (cdef *ClassDefinitions) Lookup(g GlyphIndex) int {
	switch cdef.format {
	case 1:
		if g < cdef.start || int(g-cdef.start) >= cdef.records.Len() {
			return 0
		}
		return int(cdef.records.U16(int(g - cdef.start)))
	case 2:
		i := sort.Search(cdef.records.Len(), func(i int) bool {
			return GlyphIndex(cdef.records.Get(i).U16(2)) >= g
		})
		if i < cdef.records.Len() {
			rec := cdef.records.Get(i)
			if g >= GlyphIndex(rec.U16(0)) {
				return int(rec.U16(4))
			}
		}
	}
	return 0
}

// parseClassDefinitions reads a ClassDef table located at offset from b.
// An offset of 0 denotes an absent table, resulting in every glyph being of
// class 0.
func parseClassDefinitions(b binarySegm, offset int) (ClassDefinitions, error) {
	cdef := ClassDefinitions{}
	if offset == 0 {
		return cdef, nil
	}
	loc, err := b.from(offset)
	if err != nil || loc.Size() < 4 {
		return cdef, errFontFormat("class definition offset")
	}
	cdef.format = loc.U16(0)
	switch cdef.format {
	case 1:
		cdef.start = GlyphIndex(loc.U16(2))
		cdef.records, err = viewArray16(loc[4:], 2)
	case 2:
		cdef.records, err = viewArray16(loc[2:], 6)
	default:
		return cdef, errFontFormat(fmt.Sprintf("unknown ClassDef format %d", cdef.format))
	}
	if err != nil {
		return cdef, errFontFormat("class definition records")
	}
	return cdef, nil
}

// --- GDEF table ------------------------------------------------------------

// GDefTable, the Glyph Definition (GDEF) table, provides various glyph properties
// used in OpenType Layout processing. We only interpret the glyph class
// definitions and the mark attachment class definitions.
type GDefTable struct {
	tableBase
	Major, Minor           uint16
	GlyphClassDef          ClassDefinitions
	MarkAttachmentClassDef ClassDefinitions
}

// Glyph classes of GDEF
const (
	BaseGlyph      = 1 // single character, spacing glyph
	LigatureGlyph  = 2 // multiple character, spacing glyph
	MarkGlyph      = 3 // non-spacing combining glyph
	ComponentGlyph = 4 // part of single character, spacing glyph
)

func newGDefTable(tag Tag, b binarySegm, offset, size uint32) *GDefTable {
	t := &GDefTable{}
	t.tableBase = tableBase{data: b, name: tag, offset: offset, length: size}
	t.self = t
	return t
}

// parseGDef parses the GDEF header and the class definitions it refers to.
func parseGDef(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 12 {
		return nil, errFontFormat("GDEF header")
	}
	gdef := newGDefTable(tag, b, offset, size)
	gdef.Major, gdef.Minor = b.U16(0), b.U16(2)
	var err error
	if gdef.GlyphClassDef, err = parseClassDefinitions(b, int(b.U16(4))); err != nil {
		return nil, err
	}
	if gdef.MarkAttachmentClassDef, err = parseClassDefinitions(b, int(b.U16(10))); err != nil {
		return nil, err
	}
	tracer().Debugf("GDEF table has version %d.%d", gdef.Major, gdef.Minor)
	return gdef, nil
}
