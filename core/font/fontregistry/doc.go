/*
Package fontregistry knows the fonts under investigation.

Every font is registered under a short key (e.g., "semibold_italic"),
together with its file name, a human readable label, a style and the index
of the GPOS lookup which holds the curated mark-to-base anchors for this
font. Lookup indices differ between the Libertinus weights, so they cannot be
guessed and are part of the registry.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package fontregistry

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'libertinus.fonts'
func tracer() tracing.Trace {
	return tracing.Select("libertinus.fonts")
}
