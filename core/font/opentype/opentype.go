/*
Package opentype handles OpenType fonts.

Sub-packages expose the internal tables of a font (package ot) and answer
queries about metrics, names and layout lookups (package otquery).

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package opentype

import (
	"fmt"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// --- Font and glyph metrics ------------------------------------------------

// FontMetricsInfo contains selected metric information for a font.
type FontMetricsInfo struct {
	UnitsPerEm      sfnt.Units // ad-hoc units per em
	Ascent, Descent sfnt.Units // ascender and descender
	LineGap         sfnt.Units // typographic line gap
}

// GlyphMetricsInfo contains all the metric information for a glyph.
type GlyphMetricsInfo struct {
	Advance  sfnt.Units  // advance width
	LSB, RSB sfnt.Units  // side bearings
	BBox     BoundingBox // bounding box
}

// BoundingBox describes the bounding box of a glyph, in font design units
// with y pointing upwards.
type BoundingBox struct {
	MinX, MinY sfnt.Units
	MaxX, MaxY sfnt.Units
}

// BoundingBoxFromFixed converts a rectangle as returned by x/image/sfnt,
// which has y pointing downwards, to a bounding box. Rectangles must have been
// measured with ppem equal to the font's units per em.
func BoundingBoxFromFixed(r fixed.Rectangle26_6) BoundingBox {
	return BoundingBox{
		MinX: sfnt.Units(r.Min.X.Floor()),
		MinY: sfnt.Units(-r.Max.Y.Ceil()),
		MaxX: sfnt.Units(r.Max.X.Ceil()),
		MaxY: sfnt.Units(-r.Min.Y.Floor()),
	}
}

// Empty is a predicate: has this box a zero area?
func (bbox BoundingBox) Empty() bool {
	return bbox.MaxX-bbox.MinX == 0 || bbox.MaxY-bbox.MinY == 0
}

// Dx is the horizontal extent of this box.
func (bbox BoundingBox) Dx() sfnt.Units {
	return bbox.MaxX - bbox.MinX
}

// Dy is the vertical extent of this box.
func (bbox BoundingBox) Dy() sfnt.Units {
	return bbox.MaxY - bbox.MinY
}

// String prints a box as (xMin, yMin, xMax, yMax).
func (bbox BoundingBox) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", bbox.MinX, bbox.MinY, bbox.MaxX, bbox.MaxY)
}
