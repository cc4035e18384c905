/*
Package inspect checks how combining marks attach to base glyphs.

For a font and a list of (base, mark) character pairs, the inspector
resolves both characters to glyphs and consults the font's GPOS mark
attachment lookups. The mark yields a mark class and a mark anchor, the
base yields its anchor for that class. If both anchors exist, the offset

	offset = base anchor − mark anchor

is the vector moving the mark's anchor onto the base's attachment point,
in font design units.

Every pair results in exactly one Report. A report never carries a made-up
offset: if one of the anchors is absent, the report is flagged unresolved;
if one of the characters is not mapped by the font's cmap, it is flagged
glyph-not-found. Only problems with the font itself (a missing file or a
file which cannot be parsed) are fatal.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package inspect

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'libertinus.engine'.
func tracer() tracing.Trace {
	return tracing.Select("libertinus.engine")
}
