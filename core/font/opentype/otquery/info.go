package otquery

import (
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot"
)

// FontType returns the font type, encoded in the font header, as a string.
func FontType(otf *ot.Font) string {
	if otf.Header == nil {
		return "<empty>"
	}
	switch otf.Header.FontType {
	case 0x4f54544f: // OTTO
		return "OpenType (CFF outlines)"
	case 0x00010000: // TrueType
		return "TrueType"
	case 0x74727565: // true
		return "TrueType (Mac legacy)"
	}
	return "<unknown>"
}

// NameInfo returns a map with selected fields from OpenType table `name`.
// Will include (if available in the font) "family", "subfamily", "fullname",
// "version" and "psname".
func NameInfo(otf *ot.Font) map[string]string {
	names := make(map[string]string)
	if otf.Name == nil {
		tracer().Debugf("no name table found in font")
		return names
	}
	for field, id := range map[string]ot.NameID{
		"family":    ot.NameFamily,
		"subfamily": ot.NameSubfamily,
		"fullname":  ot.NameFull,
		"version":   ot.NameVersion,
		"psname":    ot.NamePostScript,
	} {
		if s := otf.Name.Get(id); s != "" {
			names[field] = s
		}
	}
	if fam := otf.Name.Get(ot.NameTypographicFamily); fam != "" {
		names["family"] = fam
	}
	return names
}

// LayoutTables returns a list of tag strings, one for each layout-table a font includes.
//
// From the spec:
// OpenType Layout makes use of five tables: GSUB, GPOS, BASE, JSTF, and GDEF.
func LayoutTables(otf *ot.Font) []string {
	var lt []string
	for _, tag := range otf.TableTags() {
		switch tag.String() {
		case "GSUB", "GPOS", "BASE", "JSTF", "GDEF":
			lt = append(lt, tag.String())
		}
	}
	return lt
}

// GlyphClass collects glyph class information for a glyph index.
type GlyphClass struct {
	Class           int
	MarkAttachClass int
}

// ClassesForGlyph retrieves glyph class information for a given glyph index.
// Fonts without a GDEF table have all glyphs in class 0.
func ClassesForGlyph(otf *ot.Font, gid ot.GlyphIndex) GlyphClass {
	gdef := otf.Layout.GDef
	if gdef == nil {
		return GlyphClass{}
	}
	return GlyphClass{
		Class:           gdef.GlyphClassDef.Lookup(gid),
		MarkAttachClass: gdef.MarkAttachmentClassDef.Lookup(gid),
	}
}

// IsMarkGlyph returns true if GDEF declares a glyph to be a mark.
func IsMarkGlyph(otf *ot.Font, gid ot.GlyphIndex) bool {
	return ClassesForGlyph(otf, gid).Class == ot.MarkGlyph
}
