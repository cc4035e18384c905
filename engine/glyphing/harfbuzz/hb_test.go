package harfbuzz_test

import (
	"fmt"
	"testing"

	hb "github.com/benoitkugler/textlayout/harfbuzz"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot"
	"github.com/elliottpearl/libertinus-analysis/engine/glyphing"
	"github.com/elliottpearl/libertinus-analysis/engine/glyphing/harfbuzz"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/language"
)

func TestHBScript(t *testing.T) {
	id := "Plrd"
	script := language.MustParseScript(id)
	hbScript := harfbuzz.Script4HB(script)
	hstr := fmt.Sprintf("%x", uint32(hbScript))
	if hstr != "706c7264" {
		t.Logf("script %q: %x => %x", id, script, uint32(hbScript))
		t.Errorf("expected HB script of 706c7264, is %s", hstr)
	}
}

func TestHBLang(t *testing.T) {
	l := "de_DE"
	langT, err := language.Parse(l)
	if err != nil {
		t.Error(err)
	}
	h := harfbuzz.Lang4HB(langT)
	if h != "de-de" {
		t.Logf("Go lang = %v", langT)
		t.Logf("HB lang = %v, expected de-de", h)
		t.Fail()
	}
}

func TestHBDir(t *testing.T) {
	var d glyphing.Direction = glyphing.TopToBottom
	dir := harfbuzz.Direction4HB(d)
	if dir != hb.TopToBottom {
		t.Errorf("expected dir to be %d, is %d", hb.TopToBottom, dir)
	}
}

func TestHBShape(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	shaper, err := harfbuzz.NewShaper(goregular.TTF)
	require.NoError(t, err)
	input := []rune("Hello")
	glyphs, err := shaper.Shape(input, glyphing.Params{})
	require.NoError(t, err)
	require.Len(t, glyphs, len(input))
	assert.Equal(t, goGlyph(t, 'H'), glyphs[0].GID)
	assert.Equal(t, 'o', glyphs[4].CodePoint)
	assert.Greater(t, glyphs[0].XAdvance, int32(0))
	empty, err := shaper.Shape(nil, glyphing.Params{})
	assert.NoError(t, err)
	assert.Nil(t, empty)
}

func TestHBShapePairComposes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	shaper, err := harfbuzz.NewShaper(goregular.TTF)
	require.NoError(t, err)
	glyphs, err := glyphing.ShapePair(shaper, 'e', 0x0301)
	require.NoError(t, err)
	require.Len(t, glyphs, 1, "e + acute composes to é")
	assert.Equal(t, goGlyph(t, 'é'), glyphs[0].GID)
}

func TestHBNewShaperRejectsGarbage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	_, err := harfbuzz.NewShaper([]byte("no font"))
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------

func goGlyph(t *testing.T, r rune) ot.GlyphIndex {
	f, err := sfnt.Parse(goregular.TTF)
	require.NoError(t, err)
	gid, err := f.GlyphIndex(nil, r)
	require.NoError(t, err)
	require.NotZero(t, gid)
	return ot.GlyphIndex(gid)
}

func BenchmarkHBShapePair(b *testing.B) {
	shaper, err := harfbuzz.NewShaper(goregular.TTF)
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < b.N; i++ {
		for _, mark := range []rune{0x0300, 0x0301, 0x0302, 0x0308, 0x0323} {
			if _, err := glyphing.ShapePair(shaper, 'a', mark); err != nil {
				b.Fatal(err)
			}
		}
	}
}
