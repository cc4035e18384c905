package classify

import (
	"testing"

	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/core/font/fontregistry"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot/ottest"
	"github.com/elliottpearl/libertinus-analysis/engine/glyphing"
	"github.com/elliottpearl/libertinus-analysis/engine/inspect"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/unicode/norm"
)

const gidAGrave = 26 // à, added to the sample font for these tests

// fakeShaper maps characters to glyphs by cmap, composes characters the font
// has a precomposed glyph for and applies substitutions.
type fakeShaper struct {
	font  *inspect.FontHandle
	subst map[ot.GlyphIndex]ot.GlyphIndex
}

func (s fakeShaper) Shape(text []rune, params glyphing.Params) ([]glyphing.ShapedGlyph, error) {
	if composed := []rune(norm.NFC.String(string(text))); len(composed) == 1 {
		if gid, ok := s.font.GlyphIndex(composed[0]); ok {
			return []glyphing.ShapedGlyph{{GID: gid, CodePoint: text[0]}}, nil
		}
	}
	glyphs := make([]glyphing.ShapedGlyph, len(text))
	for i, r := range text {
		gid, _ := s.font.GlyphIndex(r)
		if sub, ok := s.subst[gid]; ok {
			gid = sub
		}
		glyphs[i] = glyphing.ShapedGlyph{ClusterID: i, GID: gid, CodePoint: r}
	}
	return glyphs, nil
}

type ClassifierSuite struct {
	suite.Suite
	teardown func()
	fc       *FontContext
}

func TestClassifiers(t *testing.T) {
	suite.Run(t, new(ClassifierSuite))
}

func (s *ClassifierSuite) SetupSuite() {
	s.teardown = gotestingadapter.QuickConfig(s.T(), "libertinus.engine")
	f := ottest.Sample()
	f.CMap[0x00E0] = gidAGrave
	path, err := f.WriteFile(s.T().TempDir(), "Sample-Regular.otf")
	s.Require().NoError(err)
	h, err := inspect.Open(path)
	s.Require().NoError(err)
	shaper := fakeShaper{font: h, subst: map[ot.GlyphIndex]ot.GlyphIndex{ottest.GidX: 29}}
	entry := fontregistry.Entry{Key: "sample", File: path, LookupIndex: 1, Label: "Sample", Style: fontregistry.Regular}
	s.fc, err = NewFontContext(entry, h, shaper)
	s.Require().NoError(err)
}

func (s *ClassifierSuite) TearDownSuite() {
	s.teardown()
}

func (s *ClassifierSuite) TestCombo() {
	combo := Combo{}
	for _, tc := range []struct {
		base, mark rune
		class      int
		kind       Kind
		shaped     bool
	}{
		{'q', 0x0300, 0, Missing, false},
		{'a', 0x0330, 2, Missing, false},
		{'e', 0x0300, 0, MissingPrecomposed, false}, // è is not in the font
		{'x', 0x031A, 3, Substituted, true},
		{'a', 0x0300, 0, Precomposed, true},
		{'a', 0x031B, 1, Anchored, true},
		{'a', 0x031A, 3, Anchored, true},
		{'e', 0x031B, 1, Fallback, true}, // e has no anchor for class 1
		{'a', 0x031B, -1, Fallback, true},
		{'o', 0x0326, 2, Fallback, true}, // anchored outside the curated lookup
	} {
		r, err := combo.Classify(s.fc, tc.base, tc.mark, tc.class)
		s.Require().NoError(err)
		s.Equal(tc.kind, r.Kind, "U+%04X U+%04X", tc.base, tc.mark)
		s.Equal(tc.shaped, r.Shaped(), "U+%04X U+%04X", tc.base, tc.mark)
		s.Zero(r.Flags)
	}
}

func (s *ClassifierSuite) TestSanity() {
	sanity := Sanity{Supported: func(base, mark rune) bool {
		return base == 'a' || base == 'x'
	}}
	for _, tc := range []struct {
		base, mark rune
		class      int
		kind       Kind
		flags      Flags
	}{
		{'q', 0x0300, 0, Unsupported, MissingBase},
		{'q', 0x0330, 0, Unsupported, MissingBase | MissingMark},
		{'a', 0x0300, 0, Precomposed, 0},
		{'a', 0x031A, 3, Anchored, 0},
		{'a', 0x0323, 2, Anchored, MissingPrecomposedGlyph}, // ạ is not in the font
		{'x', 0x031A, 3, Fallback, GSubSubstitution},
		{'e', 0x031A, 3, Unsupported, 0},
		{'e', 0x0300, 0, Unsupported, MissingPrecomposedGlyph},
	} {
		r, err := sanity.Classify(s.fc, tc.base, tc.mark, tc.class)
		s.Require().NoError(err)
		s.Equal(tc.kind, r.Kind, "U+%04X U+%04X", tc.base, tc.mark)
		s.Equal(tc.flags, r.Flags, "U+%04X U+%04X: %s", tc.base, tc.mark, r.Flags)
	}
}

func (s *ClassifierSuite) TestMatrix() {
	bases := []Group{{Key: "b", Label: "b", Items: []rune("aeq")}}
	marks := []Group{{Key: "m", Label: "m", Items: []rune{0x031A, 0x0323}}}
	m := NewMatrix(bases, marks, []*FontContext{s.fc}, Combo{})
	s.Require().NoError(m.Classify())
	s.Equal(Anchored, m.Result(0, 'a', 0x031A).Kind)
	s.Equal(MissingPrecomposed, m.Result(0, 'a', 0x0323).Kind)
	s.Equal(MissingPrecomposed, m.Result(0, 'e', 0x0323).Kind)
	s.Equal(Fallback, m.Result(0, 'e', 0x031A).Kind)
	s.Equal(Missing, m.Result(0, 'q', 0x0323).Kind)
	s.Equal(Fallback, m.Result(0, 'o', 0x0323).Kind, "not classified")
	counts := m.Counts(0)
	s.Equal(6, counts[Anchored]+counts[MissingPrecomposed]+counts[Missing]+counts[Fallback])
}

// ---------------------------------------------------------------------------

func TestComposite(t *testing.T) {
	assert.Equal(t, rune(0x00E0), Composite('a', 0x0300))
	assert.Equal(t, rune(0x01A1), Composite('o', 0x031B))
	assert.Equal(t, rune(0), Composite('x', 0x0300))
	assert.Equal(t, rune(0), Composite('a', 0x031A))
}

func TestKindAndFlagStrings(t *testing.T) {
	assert.Equal(t, "missing-precomposed", MissingPrecomposed.String())
	assert.Equal(t, "anchored", Anchored.String())
	assert.Equal(t, "missing-base,gsub-substitution", (MissingBase | GSubSubstitution).String())
	assert.True(t, (MissingBase | MissingMark).Has(MissingMark))
	assert.False(t, MissingBase.Has(MissingMark))
}

func TestGroups(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	gg, err := SelectGroups("latin", "above")
	require.NoError(t, err)
	require.Len(t, gg, 2)
	assert.Len(t, gg[0].Items, 26)
	assert.Equal(t, rune(0x0300), gg[1].Items[0])
	_, err = SelectGroups("klingon")
	require.Error(t, err)
	assert.Equal(t, core.EUSAGE, core.Code(err))
	keys := []string{}
	for _, g := range Groups() {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []string{"BASE_COMMON", "latin", "ipa", "superscript_consonant",
		"MARK_COMMON", "above", "below"}, keys)
}

func TestMarkClassesAndIPA(t *testing.T) {
	assert.Equal(t, ClassAboveCenter, MarkClass(0x0301))
	assert.Equal(t, ClassBelow, MarkClass(0x0323))
	assert.Equal(t, ClassLeftAngle, MarkClass(0x031A))
	assert.Equal(t, -1, MarkClass('a'))
	marks := IPAMarks()
	require.NotEmpty(t, marks)
	for i := 1; i < len(marks); i++ {
		assert.Less(t, marks[i-1], marks[i])
	}
	assert.True(t, IPASupported('n', 0x0325))
	assert.False(t, IPASupported('a', 0x0325))
	for mark := range IPADiacriticBases {
		_, ok := MarkClassIndex[mark]
		assert.True(t, ok, "IPA mark U+%04X has no curated class", mark)
	}
}

func TestByName(t *testing.T) {
	c, err := ByName("sanity")
	require.NoError(t, err)
	assert.Equal(t, "sanity", c.Name())
	_, err = ByName("strict")
	assert.Error(t, err)
}
