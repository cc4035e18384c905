/*
Package ot provides access to the OpenType font tables needed to inspect
mark attachment.

Package ot will not interpret the tables of a font, but rather expose their
semantics to clients. For example, it is not possible to ask package ot for
the visual offset of a combining mark on a base letter. Clients have to
check for the availability of GPOS mark attachment subtables and consult the
anchors themselves (see package engine/inspect for that).

OpenType fonts contain a whole lot of different tables and sub-tables. We
focus on the tables important for mark positioning and wrap these into Go
types:

▪︎ 'cmap' for mapping code-points to glyphs and back again

▪︎ 'head', 'maxp', 'hhea', 'hmtx' and 'name' for general font information

▪︎ 'GPOS', 'GSUB' and 'GDEF' for advanced layout

Every other table of a font is kept as a generic table, giving access to its
bytes. No table information will be dropped.

Layout tables are optional: a font without GPOS is perfectly valid, it just
cannot position any marks.

# Mark Attachment

GPOS lookups of type MarkToBase (4) and MarkToMark (6) attach a mark glyph
to a preceding glyph by aligning two anchor points. The mark's anchor is
found via the mark coverage, yielding a mark class and an anchor. The base's
anchor is found via the base coverage, yielding one anchor per mark class.
Subtables may be wrapped in an extension subtable (type 9), which is resolved
transparently during parsing.

# Status

Package ot does not support font collections, variable fonts or bitmap
tables. It parses the ScriptList of layout tables only as far as needed to
skip it.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package ot

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'libertinus.fonts'
func tracer() tracing.Trace {
	return tracing.Select("libertinus.fonts")
}
