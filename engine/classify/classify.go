package classify

import (
	"strings"
	"unicode/utf8"

	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/core/font/fontregistry"
	"github.com/elliottpearl/libertinus-analysis/engine/glyphing"
	"github.com/elliottpearl/libertinus-analysis/engine/inspect"
	"golang.org/x/text/unicode/norm"
)

// Kind is the way a base+mark combination is rendered by a font.
type Kind int

// Kinds of rendering, from the worst to the best.
const (
	Missing            Kind = iota // base or mark not in the font
	MissingPrecomposed             // a precomposed character exists in Unicode, but not in the font
	Unsupported                    // not used in IPA notation, or not realizable
	Substituted                    // GSUB replaced the base or the mark
	Fallback                       // mark is placed at its default position
	Anchored                       // mark is attached by a GPOS anchor
	Precomposed                    // the font has a precomposed glyph
)

var kindNames = [...]string{"missing", "missing-precomposed", "unsupported",
	"substituted", "fallback", "anchored", "precomposed"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind?"
	}
	return kindNames[k]
}

// Flags are cues the sanity classifier collects on the way to a kind.
type Flags uint8

// Sanity classification flags.
const (
	MissingBase Flags = 1 << iota
	MissingMark
	MissingPrecomposedGlyph
	GSubSubstitution
)

var flagNames = [...]string{"missing-base", "missing-mark", "missing-precomposed", "gsub-substitution"}

func (f Flags) String() string {
	var names []string
	for i, name := range flagNames {
		if f&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, ",")
}

// Has is true if all flags of g are set in f.
func (f Flags) Has(g Flags) bool {
	return f&g == g
}

// Result is the outcome of classifying a combination. Glyphs holds the
// shaper output, if the combination has been shaped.
type Result struct {
	Kind   Kind
	Flags  Flags
	Glyphs []glyphing.ShapedGlyph
}

// Shaped is true if the combination has been shaped.
func (r Result) Shaped() bool {
	return r.Glyphs != nil
}

// FontContext bundles what classifiers need to know about a font.
type FontContext struct {
	Entry     fontregistry.Entry
	Font      *inspect.FontHandle
	Inspector *inspect.Inspector // restricted to the curated lookup
	Shaper    glyphing.Shaper
}

// NewFontContext prepares a font for classification. Anchors are taken from
// the curated lookup of the registry entry, or from all MarkToBase lookups if
// the entry does not name one.
func NewFontContext(e fontregistry.Entry, h *inspect.FontHandle, shaper glyphing.Shaper) (*FontContext, error) {
	insp, err := inspect.NewInspector(h, inspect.Options{
		LookupIndex:  e.LookupIndex,
		NoMarkToMark: true,
	})
	if err != nil {
		return nil, err
	}
	return &FontContext{Entry: e, Font: h, Inspector: insp, Shaper: shaper}, nil
}

// HasAnchor is true if the base has an anchor for a mark class.
func (fc *FontContext) HasAnchor(base rune, class int) bool {
	gid, ok := fc.Font.GlyphIndex(base)
	if !ok || class < 0 {
		return false
	}
	_, ok = fc.Inspector.BaseAnchor(gid, class)
	return ok
}

// Classifier classifies base+mark, with class being the curated anchor class
// of the mark (-1 if unknown).
type Classifier interface {
	Name() string
	Classify(fc *FontContext, base, mark rune, class int) (Result, error)
}

// ByName returns a classifier for a name, "combo" or "sanity".
func ByName(name string) (Classifier, error) {
	switch name {
	case "combo":
		return Combo{}, nil
	case "sanity":
		return Sanity{Supported: IPASupported}, nil
	}
	return nil, core.Error(core.EUSAGE, "unknown classifier %q", name)
}

// Combo is the general classifier. It returns the first kind applicable,
// checking in order: missing glyphs, missing precomposed glyph, GSUB
// substitution, precomposed glyph, anchor, fallback.
type Combo struct{}

// Name is "combo".
func (Combo) Name() string { return "combo" }

// Classify classifies base+mark.
func (Combo) Classify(fc *FontContext, base, mark rune, class int) (Result, error) {
	if _, ok := fc.Font.GlyphIndex(base); !ok {
		return Result{Kind: Missing}, nil
	}
	if _, ok := fc.Font.GlyphIndex(mark); !ok {
		return Result{Kind: Missing}, nil
	}
	composite := Composite(base, mark)
	if composite != 0 {
		if _, ok := fc.Font.GlyphIndex(composite); !ok {
			return Result{Kind: MissingPrecomposed}, nil
		}
	}
	glyphs, err := glyphing.ShapePair(fc.Shaper, base, mark)
	if err != nil {
		return Result{}, err
	}
	r := Result{Glyphs: glyphs}
	switch {
	case substituted(fc, base, mark, composite, glyphs):
		r.Kind = Substituted
	case len(glyphs) == 1 && composite != 0:
		r.Kind = Precomposed
	case fc.HasAnchor(base, class):
		r.Kind = Anchored
	default:
		r.Kind = Fallback
	}
	return r, nil
}

// Sanity is the classifier for IPA notation. Combinations for which
// Supported returns false are classified as unsupported, after all flags
// have been collected.
type Sanity struct {
	Supported func(base, mark rune) bool
}

// Name is "sanity".
func (Sanity) Name() string { return "sanity" }

// Classify classifies base+mark.
func (s Sanity) Classify(fc *FontContext, base, mark rune, class int) (Result, error) {
	supported := s.Supported == nil || s.Supported(base, mark)
	var r Result
	if _, ok := fc.Font.GlyphIndex(base); !ok {
		r.Flags |= MissingBase
	}
	if _, ok := fc.Font.GlyphIndex(mark); !ok {
		r.Flags |= MissingMark
	}
	if r.Flags != 0 {
		r.Kind = Unsupported
		return r, nil
	}
	glyphs, err := glyphing.ShapePair(fc.Shaper, base, mark)
	if err != nil {
		return Result{}, err
	}
	r.Glyphs = glyphs
	composite := Composite(base, mark)
	if substituted(fc, base, mark, composite, glyphs) {
		r.Flags |= GSubSubstitution
	}
	if composite != 0 {
		if _, ok := fc.Font.GlyphIndex(composite); ok {
			r.Kind = Precomposed
			if !supported {
				r.Kind = Unsupported
			}
			return r, nil
		}
		r.Flags |= MissingPrecomposedGlyph
	}
	if fc.HasAnchor(base, class) {
		r.Kind = Anchored
	} else {
		r.Kind = Fallback
	}
	if !supported {
		r.Kind = Unsupported
	}
	return r, nil
}

// Composite returns the NFC composition of base+mark, if it is a single
// code-point, or 0 otherwise.
func Composite(base, mark rune) rune {
	nfc := norm.NFC.String(string([]rune{base, mark}))
	if utf8.RuneCountInString(nfc) != 1 {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(nfc)
	return r
}

// substituted checks if the shaper output differs from the cmap glyphs of
// base and mark. Composition into the cmap glyph of the precomposed
// character does not count as a substitution.
func substituted(fc *FontContext, base, mark, composite rune, glyphs []glyphing.ShapedGlyph) bool {
	if len(glyphs) == 0 {
		return false
	}
	if len(glyphs) == 1 && composite != 0 {
		if gid, ok := fc.Font.GlyphIndex(composite); ok && glyphs[0].GID == gid {
			return false
		}
	}
	baseGID, _ := fc.Font.GlyphIndex(base)
	markGID, _ := fc.Font.GlyphIndex(mark)
	if glyphs[0].GID != baseGID {
		tracer().Debugf("base U+%04X substituted by glyph %d", base, glyphs[0].GID)
		return true
	}
	if len(glyphs) < 2 || glyphs[1].GID != markGID {
		tracer().Debugf("mark U+%04X substituted", mark)
		return true
	}
	return false
}

var _ Classifier = Combo{}
var _ Classifier = Sanity{}
