/*
Package otquery queries metrics and other information from OpenType fonts.

Package otquery knows about the various tables contained in OpenType fonts
and which ones to address for queries. Glyph outlines are not interpreted by
package ot, so bounding boxes and glyph names are taken from x/image/sfnt.

No font collections nor variable fonts are supported.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package otquery

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'libertinus.fonts'
func tracer() tracing.Trace {
	return tracing.Select("libertinus.fonts")
}
