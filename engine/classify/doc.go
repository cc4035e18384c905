/*
Package classify sorts base+mark combinations into kinds of rendering.

A combination of a base letter and a combining mark may be rendered in a
number of ways: the font may lack one of the glyphs, it may map the
combination to a precomposed glyph, substitute a glyph by GSUB, attach the
mark using a GPOS anchor, or leave the mark at its default position
(fallback). Classifiers find out which of these applies, using the cmap, the
curated MarkToBase lookup of a font and a text shaper.

Two classifiers are provided:

▪︎ Combo classifies general combinations.

▪︎ Sanity focuses on IPA notation. It flags problems instead of stopping at
the first one, and marks combinations not used in IPA as unsupported.

Package classify also holds the curated Unicode groups of bases and marks,
the anchor class of marks and the IPA support table.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package classify

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'libertinus.engine'.
func tracer() tracing.Trace {
	return tracing.Select("libertinus.engine")
}
