/*
Package glyphing defines the types exchanged with text shapers.

A shaper turns a sequence of code-points into a sequence of positioned
glyphs. The diagnostics of this module shape very short texts only: a base
letter followed by a combining mark. The interesting question is whether the
shaper kept the glyphs the cmap maps the characters to, or whether GSUB
substituted or composed them.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package glyphing

import (
	"fmt"

	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot"
	"golang.org/x/text/language"
)

// Direction is the direction to typeset text in.
type Direction int

// Direction to typeset text in. DirectionAuto lets the shaper guess it
// from the text.
const (
	DirectionAuto Direction = iota
	LeftToRight
	RightToLeft
	TopToBottom
	BottomToTop
)

// A ShapedGlyph lives in design space, i.e. positions are in font units.
type ShapedGlyph struct {
	ClusterID int           // position of code-point(s) for this glyph in original string
	XAdvance  int32         // advance after glyph has been set, in design units
	YAdvance  int32         //
	XOffset   int32         // offset of glyph from its pen position, in design units
	YOffset   int32         //
	GID       ot.GlyphIndex // glyph index within font
	CodePoint rune          // code-point of first rune to produce this glyph
}

func (g ShapedGlyph) String() string {
	return fmt.Sprintf("(GID=%d, cluster=%d, offset=%d,%d)", g.GID, g.ClusterID, g.XOffset, g.YOffset)
}

// A Shaper creates a sequence of glyphs from a sequence of Unicode
// code-points, taken from a single font the shaper has been set up with.
type Shaper interface {
	Shape(text []rune, params Params) ([]ShapedGlyph, error)
}

// Params collects shaping parameters. Zero values let the shaper guess.
type Params struct {
	Direction Direction       // writing direction
	Script    language.Script // 4-letter ISO 15924 script identifier
	Language  language.Tag    // BCP 47 language tag
	Features  []FeatureRange  // OpenType features to apply
}

// FeatureRange tells a shaper to turn a certain OpenType feature on or off for a
// run of code-points.
type FeatureRange struct {
	Feature    ot.Tag // 4-letter feature tag
	Arg        int    // optional argument for this feature
	On         bool   // turn it on or off?
	Start, End int    // position of code-points to apply feature for
}

// ShapePair shapes a base character followed by a combining character, with
// segment properties guessed from the text.
func ShapePair(shaper Shaper, base, mark rune) ([]ShapedGlyph, error) {
	return shaper.Shape([]rune{base, mark}, Params{})
}
