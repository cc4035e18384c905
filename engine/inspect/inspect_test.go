package inspect

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/core/font"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot/ottest"
	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFontFile(t *testing.T) string {
	path, err := ottest.Sample().WriteFile(t.TempDir(), "Sample-Regular.otf")
	require.NoError(t, err)
	return path
}

func TestOpen(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	h, err := Open(sampleFontFile(t))
	require.NoError(t, err)
	assert.Equal(t, "Sample Serif", h.Family)
	assert.Equal(t, 1000, h.UnitsPerEm)
	assert.Equal(t, 30, h.NumGlyphs)
	assert.Len(t, h.GlyphIDs(), 30)
	assert.Equal(t, "Sample-Regular.otf", h.Name())
	gid, ok := h.GlyphIndex('e')
	assert.True(t, ok)
	assert.Equal(t, ot.GlyphIndex(ottest.GidE), gid)
	_, ok = h.GlyphIndex('q')
	assert.False(t, ok)
}

func TestOpenScalableSharesOutlines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	sf := font.FallbackFont()
	h, err := OpenScalable(sf)
	require.NoError(t, err)
	assert.Equal(t, "internal", h.Path)
	parsed, err := h.SFNT()
	require.NoError(t, err)
	assert.Same(t, sf.SFNT, parsed)
	_, ok := h.GlyphIndex('a')
	assert.True(t, ok)
}

func TestOpenErrorsNamePath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	dir := t.TempDir()
	missing := filepath.Join(dir, "NoSuchFont.otf")
	_, err := Open(missing)
	require.Error(t, err)
	assert.Equal(t, core.EMISSING, core.Code(err))
	assert.Contains(t, core.UserMessage(err), missing)
	//
	corrupt := filepath.Join(dir, "Corrupt.otf")
	require.NoError(t, os.WriteFile(corrupt, []byte("this is not an OpenType font"), 0o644))
	reports, err := InspectFile(corrupt, []Pair{{'a', 0x0300}}, DefaultOptions())
	require.Error(t, err)
	assert.Nil(t, reports)
	assert.Equal(t, core.EINVALID, core.Code(err))
	assert.Contains(t, core.UserMessage(err), corrupt)
}

func TestOffsets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	pairs := []Pair{
		{'a', 0x0300}, {'a', 0x0301}, {'a', 0x0323}, {'a', 0x031B},
		{'a', 0x031A}, {'o', 0x0326}, {0x0300, 0x0301},
	}
	reports, err := InspectFile(sampleFontFile(t), pairs, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, reports, len(pairs))
	expected := []Point{
		{480, 0}, {500, 0}, {500, -10}, {530, -20},
		{320, 120}, {520, -20}, {20, 240},
	}
	for i, r := range reports {
		require.True(t, r.Resolved(), "pair %v", pairs[i])
		assert.Equal(t, expected[i], r.Offset, "pair %v", pairs[i])
		// offset is always base anchor minus mark anchor
		assert.Equal(t, r.BaseAnchor.X-r.MarkAnchor.X, r.Offset.X)
		assert.Equal(t, r.BaseAnchor.Y-r.MarkAnchor.Y, r.Offset.Y)
	}
	assert.Equal(t, 1, reports[0].Lookup)
	assert.Equal(t, 3, reports[4].MarkClass)
	assert.Equal(t, 2, reports[5].Lookup, "comma below lives in an extension lookup")
	assert.Equal(t, 3, reports[6].Lookup, "mark on mark uses MarkToMark")
}

func TestUnresolvedNeverDefaultsToZero(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	h, err := Open(sampleFontFile(t))
	require.NoError(t, err)
	insp, err := NewInspector(h, DefaultOptions())
	require.NoError(t, err)
	//
	r := insp.InspectPair(Pair{'e', 0x031B}) // e has no anchor for horn's class
	assert.Equal(t, Unresolved, r.Status)
	assert.False(t, r.Resolved())
	assert.Nil(t, r.BaseAnchor)
	require.NotNil(t, r.MarkAnchor)
	assert.Equal(t, Point{-60, 420}, *r.MarkAnchor)
	assert.Equal(t, 1, r.MarkClass)
	assert.True(t, strings.HasSuffix(r.Line(), "\tunresolved\t-"))
	//
	r = insp.InspectPair(Pair{'x', 0x0300}) // x is no base at all
	assert.Equal(t, Unresolved, r.Status)
	assert.Equal(t, ot.GlyphIndex(ottest.GidX), r.BaseGlyph)
	assert.Nil(t, r.BaseAnchor)
}

func TestGlyphNotFound(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	pairs := []Pair{{'q', 0x0300}, {'a', 0x0330}, {'a', 0x0300}}
	reports, err := InspectFile(sampleFontFile(t), pairs, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, GlyphNotFound, reports[0].Status)
	assert.Equal(t, ot.GlyphIndex(0), reports[0].BaseGlyph)
	assert.Equal(t, ot.GlyphIndex(ottest.GidGrave), reports[0].MarkGlyph)
	assert.Equal(t, GlyphNotFound, reports[1].Status)
	assert.Equal(t, Resolved, reports[2].Status, "batch continues after missing glyphs")
	assert.Equal(t, "Sample-Regular.otf\tU+0071\tU+0300\t-\t20\tglyph-not-found\t-", reports[0].Line())
}

func TestCuratedLookup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	path := sampleFontFile(t)
	pairs := []Pair{{'a', 0x0300}, {'o', 0x0326}}
	reports, err := InspectFile(path, pairs, Options{LookupIndex: 2})
	require.NoError(t, err)
	assert.Equal(t, Unresolved, reports[0].Status)
	assert.Equal(t, Resolved, reports[1].Status)
	//
	_, err = InspectFile(path, pairs, Options{LookupIndex: 3}) // MarkToMark
	require.Error(t, err)
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = InspectFile(path, pairs, Options{LookupIndex: 17})
	require.Error(t, err)
}

func TestNoMarkToMark(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	opts := DefaultOptions()
	opts.NoMarkToMark = true
	reports, err := InspectFile(sampleFontFile(t), []Pair{{0x0300, 0x0301}}, opts)
	require.NoError(t, err)
	assert.Equal(t, Unresolved, reports[0].Status)
}

func TestFontWithoutGPos(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	f := ottest.Sample()
	f.GPos = nil
	path, err := f.WriteFile(t.TempDir(), "NoGPos.otf")
	require.NoError(t, err)
	reports, err := InspectFile(path, []Pair{{'a', 0x0300}}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, Unresolved, reports[0].Status)
}

func TestIdempotence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	path := sampleFontFile(t)
	pairs := Cross([]rune("aeoxq"), []rune{0x0300, 0x0301, 0x0323, 0x031A, 0x031B, 0x0326})
	first, err := InspectFile(path, pairs, DefaultOptions())
	require.NoError(t, err)
	second, err := InspectFile(path, pairs, DefaultOptions())
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("reports differ between runs (-first +second):\n%s", diff)
	}
	var out1, out2 bytes.Buffer
	require.NoError(t, WriteReports(&out1, first))
	require.NoError(t, WriteReports(&out2, second))
	assert.Equal(t, out1.Bytes(), out2.Bytes())
	assert.True(t, strings.HasPrefix(out1.String(), Header()+"\n"))
	assert.Equal(t, len(pairs)+1, strings.Count(out1.String(), "\n"))
}

func TestParsePairs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	pairs, err := ParsePairs("a+U+0300, a:0301 U+0061:U+0323\t0x61+0x31A")
	require.NoError(t, err)
	assert.Equal(t, []Pair{{'a', 0x0300}, {'a', 0x0301}, {'a', 0x0323}, {'a', 0x031A}}, pairs)
	_, err = ParsePairs("a+b+c")
	require.Error(t, err)
	assert.Equal(t, core.EUSAGE, core.Code(err))
	_, err = ParsePair("a:zzzz")
	require.Error(t, err)
	// 'u' and 'U' are valid bases in front of a code-point
	for _, s := range []string{"u+U+0308", "u+0308", "u:0308", "u:U+0308"} {
		p, err := ParsePair(s)
		require.NoError(t, err, s)
		assert.Equal(t, Pair{'u', 0x0308}, p, s)
	}
	p, err := ParsePair("U+U+0308")
	require.NoError(t, err)
	assert.Equal(t, Pair{'U', 0x0308}, p)
	p, err = ParsePair("U+0061+U+0300")
	require.NoError(t, err)
	assert.Equal(t, Pair{'a', 0x0300}, p)
	p, err = ParsePair("+++")
	require.NoError(t, err)
	assert.Equal(t, Pair{'+', '+'}, p)
	_, err = ParsePair("a+")
	assert.Equal(t, core.EUSAGE, core.Code(err))
	assert.Contains(t, core.UserMessage(err), "malformed pair")
	assert.Equal(t, "U+0061+U+0300", Pair{'a', 0x0300}.String())
}

func TestReadPairs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	input := `# pairs to check
a+U+0300   # grave
e:0301

x:0300, o:0326
`
	pairs, err := ReadPairs(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []Pair{{'a', 0x0300}, {'e', 0x0301}, {'x', 0x0300}, {'o', 0x0326}}, pairs)
	_, err = ReadPairs(strings.NewReader("a:0300\nbroken\n"))
	require.Error(t, err)
	assert.Contains(t, core.UserMessage(err), "line 2")
}

// Scenarios with the real Libertinus font, skipped if it is not available.
func TestLibertinusSerif(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	path := filepath.Join("..", "..", "fonts", "LibertinusSerif-Regular.otf")
	if _, err := os.Stat(path); err != nil {
		t.Skipf("font asset %s not present", path)
	}
	reports, err := InspectFile(path, []Pair{{'a', 0x0300}, {'a', 0x0E31}}, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	r := reports[0]
	require.Equal(t, Resolved, r.Status, r.Line())
	assert.NotNil(t, r.BaseAnchor)
	assert.NotNil(t, r.MarkAnchor)
	assert.NotEqual(t, Point{}, r.Offset)
	assert.Equal(t, GlyphNotFound, reports[1].Status)
}

func TestInspectorAnchorQueries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	h, err := Open(sampleFontFile(t))
	require.NoError(t, err)
	insp, err := NewInspector(h, DefaultOptions())
	require.NoError(t, err)
	rec, ok := insp.MarkRecord(ottest.GidCommaBelow) // found in extension lookup
	require.True(t, ok)
	assert.Equal(t, 0, rec.Class)
	a, ok := insp.BaseAnchor(ottest.GidO, 0)
	require.True(t, ok)
	assert.Equal(t, "(280, 460)", a.String(), "first lookup providing an anchor wins")
	_, ok = insp.BaseAnchor(ottest.GidE, 1)
	assert.False(t, ok)
}
