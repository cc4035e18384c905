package otquery

import (
	"path/filepath"
	"testing"

	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/core/font"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot/ottest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/sfnt"
)

func TestFontMetrics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.fonts")
	defer teardown()
	//
	otf, err := ot.Parse(ottest.Sample().Bytes())
	require.NoError(t, err)
	m := FontMetrics(otf)
	assert.Equal(t, sfnt.Units(1000), m.UnitsPerEm)
	assert.Equal(t, sfnt.Units(800), m.Ascent)
	assert.Equal(t, sfnt.Units(-200), m.Descent)
	gm := GlyphMetrics(otf, ottest.GidO)
	assert.Equal(t, sfnt.Units(600), gm.Advance)
	assert.Equal(t, sfnt.Units(50), gm.LSB)
	assert.Equal(t, ot.GlyphIndex(ottest.GidDotBelow), GlyphIndex(otf, 0x0323))
}

func TestGlyphBoundsOfFallbackFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.fonts")
	defer teardown()
	//
	sf := font.FallbackFont()
	otf, err := ot.Parse(sf.Binary)
	require.NoError(t, err)
	gid := GlyphIndex(otf, 'H')
	require.NotZero(t, gid)
	gm, err := GlyphBounds(sf.SFNT, gid)
	require.NoError(t, err)
	assert.False(t, gm.BBox.Empty())
	assert.Greater(t, int(gm.BBox.MaxY), 0, "y must point upwards")
	assert.Equal(t, 0, int(gm.BBox.MinY))
	adv, _ := otf.HMtx.HMetrics(gid)
	assert.Equal(t, sfnt.Units(adv), gm.Advance)
	assert.Contains(t, []string{"", "H"}, GlyphName(sf.SFNT, gid))
}

func TestTableDirectoryOfMissingFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.fonts")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "missing.otf")
	_, _, err := TableDirectory(path)
	require.Error(t, err)
	assert.Equal(t, core.EMISSING, core.Code(err))
	assert.Contains(t, core.UserMessage(err), path)
}
