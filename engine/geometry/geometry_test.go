package geometry

import (
	"bytes"
	"testing"

	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot/ottest"
	"github.com/elliottpearl/libertinus-analysis/engine/inspect"
	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

func box(xmin, ymin, xmax, ymax int) opentype.BoundingBox {
	return opentype.BoundingBox{MinX: sfnt.Units(xmin), MinY: sfnt.Units(ymin),
		MaxX: sfnt.Units(xmax), MaxY: sfnt.Units(ymax)}
}

func TestGlyphBoxString(t *testing.T) {
	gb := GlyphBox{Name: "G", CodePoints: []rune{0x47}, BBox: box(37, -10, 666, 658)}
	assert.Equal(t, "(\"G\",\t[0x0047],\t(37, -10, 666, 658)),", gb.String())
	gb = GlyphBox{Name: "gid7", BBox: box(0, 0, 0, 0)}
	assert.Equal(t, "(\"gid7\",\t[],\t(0, 0, 0, 0)),", gb.String())
}

func TestProposeClass0(t *testing.T) {
	cfg := DefaultAnchorConfig()
	block := ProposeClass0([]BaseBox{
		{0x02B3, box(10, 400, 229, 700)},
		{0x1D47, box(-7, 400, 300, 760)},
	}, cfg)
	expected := AnchorBlock{Class: 0, Proposals: []Proposal{
		{0x02B3, 119, 805},
		{0x1D47, 146, 935}, // relative to yMax; (-7+300)/2 rounds down
	}}
	if diff := cmp.Diff(expected, block); diff != "" {
		t.Errorf("class 0 anchors mismatch (-want +got):\n%s", diff)
	}
}

func TestProposeClass3(t *testing.T) {
	cfg := DefaultAnchorConfig()
	mark := MarkGeometry{Anchor: inspect.Point{X: 18, Y: 580}, BBox: box(-6, 555, 120, 700)}
	block := ProposeClass3([]BaseBox{
		{0x02B0, box(10, 400, 303, 760)},
		{0x1D47, box(10, 400, 300, 760)},
	}, mark, cfg)
	expected := AnchorBlock{Class: 3, Proposals: []Proposal{
		{0x02B0, 307, 725},
		{0x1D47, 304, 855},
	}}
	if diff := cmp.Diff(expected, block); diff != "" {
		t.Errorf("class 3 anchors mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "    3: {\n        0x02B0: (307, 725),\n        0x1D47: (304, 855),\n    },\n", block.String())
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, 146, floorDiv(293, 2))
	assert.Equal(t, -4, floorDiv(-7, 2))
	assert.Equal(t, -3, floorDiv(-6, 2))
}

func goRegular(t *testing.T) *inspect.FontHandle {
	h, err := inspect.OpenFont("Go-Regular.ttf", goregular.TTF)
	require.NoError(t, err)
	return h
}

func TestBBoxes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	h := goRegular(t)
	boxes, err := BBoxes(h)
	require.NoError(t, err)
	require.Len(t, boxes, h.NumGlyphs)
	mapped := true
	for i, gb := range boxes {
		if len(gb.CodePoints) == 0 {
			mapped = false
			continue
		}
		require.True(t, mapped, "mapped glyph %q after unmapped glyphs", gb.Name)
		if i > 0 && len(boxes[i-1].CodePoints) > 0 {
			assert.LessOrEqual(t, boxes[i-1].CodePoints[0], gb.CodePoints[0])
		}
		assert.NotEmpty(t, gb.Name)
	}
	var H GlyphBox
	for _, gb := range boxes {
		if len(gb.CodePoints) > 0 && gb.CodePoints[0] == 'H' {
			H = gb
		}
	}
	assert.False(t, H.BBox.Empty())
	assert.True(t, H.BBox.MinY >= 0 && H.BBox.MaxY > 0, "y points upwards")
	var out bytes.Buffer
	require.NoError(t, WriteBBoxes(&out, boxes[:2]))
	assert.Equal(t, boxes[0].String()+"\n"+boxes[1].String()+"\n", out.String())
}

func TestMeasureBases(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	h := goRegular(t)
	boxes, err := MeasureBases(h, []rune{'b', 0x10FFFD, 'x'})
	require.NoError(t, err)
	require.Len(t, boxes, 2, "unmapped character is skipped")
	assert.Equal(t, 'b', boxes[0].Base)
	assert.Greater(t, int(boxes[0].BBox.MaxY), int(boxes[1].BBox.MaxY), "b has an ascender")
	_, err = BoundsOf(h, 0x10FFFD)
	assert.Equal(t, core.EMISSING, core.Code(err))
}

func TestMarkGeometryMissing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	path, err := ottest.Sample().WriteFile(t.TempDir(), "Sample-Regular.otf")
	require.NoError(t, err)
	h, err := inspect.Open(path)
	require.NoError(t, err)
	insp, err := inspect.NewInspector(h, inspect.DefaultOptions())
	require.NoError(t, err)
	_, err = MarkGeometryOf(insp, 0x0330) // not in the font
	require.Error(t, err)
	assert.Equal(t, core.EMISSING, core.Code(err))
	assert.Contains(t, err.Error(), path)
	_, err = ProposeAnchors(insp, []rune("a"), AnchorConfig{Mark3: 0x0330})
	assert.Error(t, err)
}
