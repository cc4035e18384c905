/*
Package harfbuzz uses HarfBuzz to convert text to sequences of glyphs.

We use the Go port of HarfBuzz found in github.com/benoitkugler/textlayout.
Positions are reported in font design units, as the HarfBuzz font is set up
without scaling.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package harfbuzz

import (
	"bytes"
	"encoding/binary"
	"unicode"

	hbtt "github.com/benoitkugler/textlayout/fonts/truetype"
	hb "github.com/benoitkugler/textlayout/harfbuzz"
	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot"
	"github.com/elliottpearl/libertinus-analysis/engine/glyphing"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/language"
)

// tracer traces with key 'libertinus.engine'.
func tracer() tracing.Trace {
	return tracing.Select("libertinus.engine")
}

// --- Type conversion -------------------------------------------------------

// Lang4HB returns a language tag as a HarfBuzz language.
func Lang4HB(l language.Tag) hblang.Language {
	return hblang.NewLanguage(l.String())
}

// Script4HB returns a script as a HarfBuzz script.
func Script4HB(s language.Script) hblang.Script {
	b := []byte(s.String())
	b[0] = byte(unicode.ToLower(rune(b[0])))
	h := binary.BigEndian.Uint32(b)
	return hblang.Script(h)
}

// Direction4HB translates a direction to a HarfBuzz direction.
func Direction4HB(d glyphing.Direction) hb.Direction {
	switch d {
	case glyphing.LeftToRight:
		return hb.LeftToRight
	case glyphing.RightToLeft:
		return hb.RightToLeft
	case glyphing.TopToBottom:
		return hb.TopToBottom
	case glyphing.BottomToTop:
		return hb.BottomToTop
	}
	return hb.LeftToRight
}

// FeatureRange4HB converts a feature range struct to a HarfBuzz Feature switch.
func FeatureRange4HB(frng glyphing.FeatureRange) hb.Feature {
	f := hb.Feature{
		Tag:   hbtt.Tag(frng.Feature),
		Start: frng.Start,
		End:   frng.End,
	}
	if frng.On {
		if frng.Arg > 0 {
			f.Value = uint32(frng.Arg)
		} else {
			f.Value = 1
		}
	}
	return f
}

// --- Shape -----------------------------------------------------------------

// Shaper shapes text with a single font.
type Shaper struct {
	font *hb.Font
}

var _ glyphing.Shaper = &Shaper{}

// NewShaper prepares a HarfBuzz font from font data. Font data not
// accepted by HarfBuzz results in a core.EINVALID error.
func NewShaper(fontdata []byte) (*Shaper, error) {
	face, err := hbtt.Parse(bytes.NewReader(fontdata))
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "HarfBuzz cannot load font: %v", err)
	}
	return &Shaper{font: hb.NewFont(face)}, nil
}

// Shape calls the HarfBuzz shaper, turning a sequence of code-points into
// positioned glyphs. Segment properties not set in params are guessed from
// the text.
//
// If `params.Features` is not empty, it will be used to control the
// features applied during shaping. If two features have the same tag but
// overlapping ranges the value of the feature with the higher index takes
// precedence.
func (s *Shaper) Shape(text []rune, params glyphing.Params) ([]glyphing.ShapedGlyph, error) {
	if len(text) == 0 {
		return nil, nil
	}
	features := make([]hb.Feature, 0, len(params.Features))
	for _, feat := range params.Features {
		features = append(features, FeatureRange4HB(feat))
	}
	buf := hb.NewBuffer()
	buf.AddRunes(text, 0, len(text))
	convertParams(&buf.Props, params)
	buf.GuessSegmentProperties()
	buf.Shape(s.font, features)
	glyphs := make([]glyphing.ShapedGlyph, len(buf.Info))
	for i, ginfo := range buf.Info {
		gpos := buf.Pos[i]
		g := &glyphs[i]
		g.ClusterID = ginfo.Cluster
		g.GID = ot.GlyphIndex(ginfo.Glyph)
		g.XAdvance = int32(gpos.XAdvance)
		g.YAdvance = int32(gpos.YAdvance)
		g.XOffset = int32(gpos.XOffset)
		g.YOffset = int32(gpos.YOffset)
		if g.ClusterID >= 0 && g.ClusterID < len(text) {
			g.CodePoint = text[g.ClusterID]
		}
	}
	tracer().Debugf("shaped %q into %d glyphs", string(text), len(glyphs))
	return glyphs, nil
}

// convertParams is a helper function to convert glyphing parameters to
// HarfBuzz's format. Unset parameters stay unset, to be guessed.
func convertParams(props *hb.SegmentProperties, params glyphing.Params) {
	if params.Language != language.Und {
		props.Language = Lang4HB(params.Language)
	}
	var none language.Script
	if params.Script != none {
		props.Script = Script4HB(params.Script)
	}
	if params.Direction != glyphing.DirectionAuto {
		props.Direction = Direction4HB(params.Direction)
	}
}
