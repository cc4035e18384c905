/*
Package geometry measures glyph outlines and proposes anchor positions.

Bounding boxes are measured from the outlines of a font and reported in font
design units with y pointing upwards. Anchor proposals are computed for base
glyphs from their bounding boxes, a vertical reference line and clearances,
and are printed in a form ready to be pasted into a font's feature sources.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package geometry

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'libertinus.engine'.
func tracer() tracing.Trace {
	return tracing.Select("libertinus.engine")
}
