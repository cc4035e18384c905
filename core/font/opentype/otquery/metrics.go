package otquery

import (
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// FontMetrics retrieves selected metrics of a font.
func FontMetrics(otf *ot.Font) opentype.FontMetricsInfo {
	metrics := opentype.FontMetricsInfo{
		UnitsPerEm: sfnt.Units(otf.Head.UnitsPerEm),
		Ascent:     sfnt.Units(otf.HHea.Ascender),
		Descent:    sfnt.Units(otf.HHea.Descender),
		LineGap:    sfnt.Units(otf.HHea.LineGap),
	}
	if metrics.Ascent == 0 && metrics.Descent == 0 {
		if os2 := otf.Table(ot.T("OS/2")); os2 != nil && len(os2.Binary()) >= 72 {
			b := os2.Binary()
			metrics.Ascent = sfnt.Units(i16(b[68:]))
			metrics.Descent = sfnt.Units(i16(b[70:]))
			tracer().Debugf("ascent and descent taken from OS/2")
		}
	}
	return metrics
}

// --- Glyph Routines --------------------------------------------------------

// GlyphIndex returns the glyph index for a give code-point.
// If the code-point cannot be found, 0 is returned.
//
// From the OpenType specification: character codes that do not correspond to any glyph in
// the font should be mapped to glyph index 0. The glyph at this location must be a special
// glyph representing a missing character, commonly known as '.notdef'.
func GlyphIndex(otf *ot.Font, codepoint rune) ot.GlyphIndex {
	return otf.CMap.GlyphIndexMap.Lookup(codepoint)
}

// CodePointForGlyph returns the code-point for a given glyph index.
//
// This is an inefficient operation: All code-points contained in the font's CMap
// are checked sequentially if they produce the given glyph.
// If the glyph index does not correspond to a code-point, 0 is returned.
func CodePointForGlyph(otf *ot.Font, gid ot.GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	return otf.CMap.GlyphIndexMap.ReverseLookup(gid)
}

// CodePointsByGlyph returns for every mapped glyph the code-points mapping to
// it, in ascending order.
func CodePointsByGlyph(otf *ot.Font) map[ot.GlyphIndex][]rune {
	m := make(map[ot.GlyphIndex][]rune)
	otf.CMap.GlyphIndexMap.Each(func(r rune, g ot.GlyphIndex) {
		m[g] = append(m[g], r)
	})
	return m
}

// GlyphMetrics retrieves metrics for a given glyph. Advance and left side
// bearing are taken from 'hmtx'. Package ot does not interpret outlines,
// so the bounding box stays empty; use GlyphBounds for it.
func GlyphMetrics(otf *ot.Font, gid ot.GlyphIndex) opentype.GlyphMetricsInfo {
	adv, lsb := otf.HMtx.HMetrics(gid)
	return opentype.GlyphMetricsInfo{
		Advance: sfnt.Units(adv),
		LSB:     sfnt.Units(lsb),
	}
}

// GlyphBounds measures the bounding box of a glyph in font design units,
// using the outline interpreter of x/image. The right side bearing is
// calculated from the bounding box:
//
//	rsb = aw - (lsb + xMax - xMin)
func GlyphBounds(sf *sfnt.Font, gid ot.GlyphIndex) (opentype.GlyphMetricsInfo, error) {
	var buf sfnt.Buffer
	ppem := fixed.I(int(sf.UnitsPerEm()))
	bounds, advance, err := sf.GlyphBounds(&buf, sfnt.GlyphIndex(gid), ppem, xfont.HintingNone)
	if err != nil {
		return opentype.GlyphMetricsInfo{}, err
	}
	metrics := opentype.GlyphMetricsInfo{
		Advance: sfnt.Units(advance.Round()),
		BBox:    opentype.BoundingBoxFromFixed(bounds),
	}
	// If a glyph has no contours, xMax/xMin are not defined. The left side bearing
	// indicated in the 'hmtx' table for such glyphs should be zero.
	if !metrics.BBox.Empty() {
		metrics.LSB = metrics.BBox.MinX
		metrics.RSB = metrics.Advance - (metrics.LSB + metrics.BBox.Dx())
	}
	return metrics, nil
}

// GlyphName returns the name of a glyph as stated in the font, or "" if the
// font carries no glyph names.
func GlyphName(sf *sfnt.Font, gid ot.GlyphIndex) string {
	var buf sfnt.Buffer
	name, err := sf.GlyphName(&buf, sfnt.GlyphIndex(gid))
	if err != nil {
		tracer().Debugf("no glyph name for glyph %d: %v", gid, err)
		return ""
	}
	return name
}

// --- Helpers ----------------------------------------------------------

func i16(b []byte) int16 {
	return int16(b[0])<<8 | int16(b[1])<<0
}
