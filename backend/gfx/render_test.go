package gfx

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/engine/inspect"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func goRegular(t *testing.T) *inspect.FontHandle {
	h, err := inspect.OpenFont("Go-Regular.ttf", goregular.TTF)
	require.NoError(t, err)
	return h
}

func report(t *testing.T, h *inspect.FontHandle, base, mark rune) inspect.Report {
	bg, ok := h.GlyphIndex(base)
	require.True(t, ok)
	mg, ok := h.GlyphIndex(mark)
	require.True(t, ok)
	return inspect.Report{Font: h.Name(), Base: base, Mark: mark, BaseGlyph: bg, MarkGlyph: mg}
}

func isRed(c [4]uint8) bool {
	return c[0] > 0xa0 && c[1] < 0x60 && c[2] < 0x60
}

func pixel(img image.Image, x, y int) [4]uint8 {
	r, g, b, a := img.At(x, y).RGBA()
	return [4]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func TestRenderResolved(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	h := goRegular(t)
	r := report(t, h, 'a', 0x00B4)
	r.Status = inspect.Resolved
	r.Offset = inspect.Point{X: 120, Y: 0}
	img, err := RenderPair(h, r, DefaultOptions())
	require.NoError(t, err)
	b := img.Bounds()
	assert.Greater(t, b.Dx(), 2*DefaultOptions().Margin)
	assert.Greater(t, b.Dy(), 2*DefaultOptions().Margin)
	assert.False(t, isRed(pixel(img, b.Min.X, b.Min.Y)), "resolved pairs have no frame")
	corner := pixel(img, b.Min.X+1, b.Min.Y+1)
	assert.True(t, corner[0] > 0xf0 && corner[1] > 0xf0 && corner[2] > 0xf0, "background is white")
}

func TestRenderUnresolvedIsFramed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	h := goRegular(t)
	r := report(t, h, 'a', 0x00B4)
	img, err := RenderPair(h, r, Options{Size: 64, Margin: 8, Oversample: 1, Frame: 2})
	require.NoError(t, err)
	b := img.Bounds()
	assert.True(t, isRed(pixel(img, b.Min.X, b.Min.Y)))
	assert.True(t, isRed(pixel(img, b.Max.X-1, b.Max.Y-1)))
	var out bytes.Buffer
	require.NoError(t, WritePNG(&out, img))
	decoded, err := png.Decode(&out)
	require.NoError(t, err)
	assert.Equal(t, b.Size(), decoded.Bounds().Size())
}

func TestRenderGlyphNotFound(t *testing.T) {
	h := goRegular(t)
	_, err := RenderPair(h, inspect.Report{Base: 'a', Mark: 0x0E31, Status: inspect.GlyphNotFound}, DefaultOptions())
	require.Error(t, err)
	assert.Equal(t, core.EMISSING, core.Code(err))
}
