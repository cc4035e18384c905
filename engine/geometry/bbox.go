package geometry

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/otquery"
	"github.com/elliottpearl/libertinus-analysis/engine/inspect"
)

// GlyphBox is the bounding box of a glyph, together with its name and the
// code-points mapping to it.
type GlyphBox struct {
	GID        ot.GlyphIndex
	Name       string
	CodePoints []rune
	BBox       opentype.BoundingBox
}

// String formats a glyph box as a tuple:
//
//	("G",	[0x0047],	(37, -10, 666, 658)),
func (gb GlyphBox) String() string {
	cps := make([]string, len(gb.CodePoints))
	for i, cp := range gb.CodePoints {
		cps[i] = fmt.Sprintf("0x%04X", cp)
	}
	return fmt.Sprintf("(%q,\t[%s],\t%s),", gb.Name, strings.Join(cps, ", "), gb.BBox)
}

func (gb GlyphBox) sortKey() rune {
	if len(gb.CodePoints) == 0 {
		return 0x7fffffff
	}
	return gb.CodePoints[0]
}

// BBoxes measures every glyph of a font. Glyphs are sorted by their first
// code-point, with unmapped glyphs last in glyph order. Glyphs without
// a name in the font are named "gidN".
func BBoxes(h *inspect.FontHandle) ([]GlyphBox, error) {
	sf, err := h.SFNT()
	if err != nil {
		return nil, err
	}
	cps := otquery.CodePointsByGlyph(h.OT)
	boxes := make([]GlyphBox, 0, h.NumGlyphs)
	for _, gid := range h.GlyphIDs() {
		metrics, err := otquery.GlyphBounds(sf, gid)
		if err != nil {
			return nil, core.WrapError(err, core.EINVALID,
				"font %s: cannot measure glyph %d", h.Path, gid)
		}
		name := otquery.GlyphName(sf, gid)
		if name == "" {
			name = fmt.Sprintf("gid%d", gid)
		}
		boxes = append(boxes, GlyphBox{
			GID:        gid,
			Name:       name,
			CodePoints: cps[gid],
			BBox:       metrics.BBox,
		})
	}
	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].sortKey() < boxes[j].sortKey()
	})
	tracer().Debugf("measured %d glyphs of %s", len(boxes), h.Name())
	return boxes, nil
}

// WriteBBoxes prints glyph boxes, one per line.
func WriteBBoxes(w io.Writer, boxes []GlyphBox) error {
	for _, gb := range boxes {
		if _, err := fmt.Fprintln(w, gb.String()); err != nil {
			return core.WrapError(err, core.EIO, "cannot write bounding boxes")
		}
	}
	return nil
}

// BoundsOf measures the bounding box of the glyph a character maps to.
// Characters not in the font result in a core.EMISSING error.
func BoundsOf(h *inspect.FontHandle, r rune) (opentype.BoundingBox, error) {
	gid, ok := h.GlyphIndex(r)
	if !ok {
		return opentype.BoundingBox{}, core.Error(core.EMISSING,
			"font %s has no glyph for %s", h.Path, inspect.CodePoint(r))
	}
	sf, err := h.SFNT()
	if err != nil {
		return opentype.BoundingBox{}, err
	}
	metrics, err := otquery.GlyphBounds(sf, gid)
	if err != nil {
		return opentype.BoundingBox{}, core.WrapError(err, core.EINVALID,
			"font %s: cannot measure glyph %d", h.Path, gid)
	}
	return metrics.BBox, nil
}
