/*
Package gfx renders base+mark pairs to raster images.

The base glyph is drawn at the pen position, the mark at the offset a report
has computed for it. Unresolved pairs show the mark at its default position,
right after the base's advance, and get a red frame, making them easy to spot
in a directory of thumbnails.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package gfx

import (
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/disintegration/imaging"
	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/core/font"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot"
	"github.com/elliottpearl/libertinus-analysis/engine/inspect"
	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// tracer traces with key 'libertinus.engine'.
func tracer() tracing.Trace {
	return tracing.Select("libertinus.engine")
}

// Colors used for rendering.
var (
	BaseColor  color.Color = color.Black
	MarkColor  color.Color = color.RGBA{0x10, 0x40, 0xc0, 0xff}
	FrameColor color.Color = color.RGBA{0xd0, 0x10, 0x10, 0xff}
)

// Options control rendering.
type Options struct {
	Size       int // pixels per em of the final image
	Margin     int // pixels around the ink
	Oversample int // render at a multiple of Size, then scale down
	Frame      int // width of the frame for unresolved pairs, in pixels
	Label      int // point size of a caption below the pair, 0 for none
}

// DefaultOptions returns options for thumbnails of 96 pixels per em.
func DefaultOptions() Options {
	return Options{Size: 96, Margin: 12, Oversample: 2, Frame: 3, Label: 11}
}

// glyph is a glyph placed at a position in pixel space (y pointing down).
type glyph struct {
	gid ot.GlyphIndex
	at  fixed.Point26_6
	col color.Color
}

// RenderPair renders the pair of a report. Pairs with a glyph missing from
// the font result in a core.EMISSING error.
func RenderPair(h *inspect.FontHandle, r inspect.Report, opts Options) (image.Image, error) {
	if r.Status == inspect.GlyphNotFound {
		return nil, core.Error(core.EMISSING, "font %s: cannot render %s, glyph not found",
			h.Path, r.Pair())
	}
	sf, err := h.SFNT()
	if err != nil {
		return nil, err
	}
	if opts.Oversample < 1 {
		opts.Oversample = 1
	}
	px := opts.Size * opts.Oversample
	ppem := fixed.I(px)
	scale := func(units int) fixed.Int26_6 {
		return fixed.Int26_6(units * px * 64 / h.UnitsPerEm)
	}
	var buf sfnt.Buffer
	base := glyph{gid: r.BaseGlyph, col: BaseColor}
	mark := glyph{gid: r.MarkGlyph, col: MarkColor}
	if r.Resolved() {
		mark.at = fixed.Point26_6{X: scale(r.Offset.X), Y: -scale(r.Offset.Y)}
	} else {
		adv, err := sf.GlyphAdvance(&buf, sfnt.GlyphIndex(r.BaseGlyph), ppem, xfont.HintingNone)
		if err != nil {
			return nil, core.WrapError(err, core.EINVALID, "font %s: no advance for glyph %d", h.Path, r.BaseGlyph)
		}
		mark.at = fixed.Point26_6{X: adv}
	}
	glyphs := []glyph{base, mark}
	ink, err := inkBounds(sf, &buf, glyphs, ppem)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "font %s: cannot measure %s", h.Path, r.Pair())
	}
	margin := opts.Margin * opts.Oversample
	w := (ink.Max.X-ink.Min.X).Ceil() + 2*margin
	hgt := (ink.Max.Y-ink.Min.Y).Ceil() + 2*margin
	origin := fixed.Point26_6{X: fixed.I(margin) - ink.Min.X, Y: fixed.I(margin) - ink.Min.Y}
	img := imaging.New(w, hgt, color.White)
	z := vector.NewRasterizer(w, hgt)
	for _, g := range glyphs {
		segs, err := sf.LoadGlyph(&buf, sfnt.GlyphIndex(g.gid), ppem, nil)
		if err != nil {
			return nil, core.WrapError(err, core.EINVALID, "font %s: cannot load glyph %d", h.Path, g.gid)
		}
		z.Reset(w, hgt)
		rasterize(z, segs, origin.Add(g.at))
		z.Draw(img, img.Bounds(), image.NewUniform(g.col), image.Point{})
	}
	if !r.Resolved() {
		frame(img, opts.Frame*opts.Oversample, FrameColor)
	}
	tracer().Debugf("rendered %s of %s at %d px", r.Pair(), h.Name(), px)
	var out image.Image = img
	if opts.Oversample > 1 {
		out = imaging.Resize(img, w/opts.Oversample, 0, imaging.Lanczos)
	}
	if opts.Label > 0 {
		return caption(out, r.Pair().String()+" "+r.Status.String(), float64(opts.Label))
	}
	return out, nil
}

// caption adds a line of text below an image, set in the fallback font.
func caption(img image.Image, text string, size float64) (image.Image, error) {
	tc, err := font.FallbackFont().PrepareCase(size)
	if err != nil {
		return nil, core.WrapError(err, core.EINTERNAL, "cannot prepare caption font")
	}
	face := tc.Face()
	m := face.Metrics()
	lineh := (m.Ascent + m.Descent).Ceil() + 4
	b := img.Bounds()
	width := b.Dx()
	if tw := xfont.MeasureString(face, text).Ceil() + 8; tw > width {
		width = tw
	}
	dst := imaging.New(width, b.Dy()+lineh, color.White)
	dst = imaging.Paste(dst, img, image.Pt(0, 0))
	d := xfont.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(BaseColor),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(4), Y: fixed.I(b.Dy()+2) + m.Ascent},
	}
	d.DrawString(text)
	return dst, nil
}

// inkBounds is the union of the bounding boxes of glyphs, in pixel space.
func inkBounds(sf *sfnt.Font, buf *sfnt.Buffer, glyphs []glyph, ppem fixed.Int26_6) (fixed.Rectangle26_6, error) {
	var ink fixed.Rectangle26_6
	for i, g := range glyphs {
		bounds, _, err := sf.GlyphBounds(buf, sfnt.GlyphIndex(g.gid), ppem, xfont.HintingNone)
		if err != nil {
			return ink, err
		}
		bounds = bounds.Add(g.at)
		if i == 0 {
			ink = bounds
		} else {
			ink = ink.Union(bounds)
		}
	}
	return ink, nil
}

func rasterize(z *vector.Rasterizer, segs sfnt.Segments, at fixed.Point26_6) {
	pt := func(p fixed.Point26_6) (float32, float32) {
		p = p.Add(at)
		return float32(p.X) / 64, float32(p.Y) / 64
	}
	for i, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if i > 0 {
				z.ClosePath()
			}
			z.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			z.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			z.QuadTo(x1, y1, x2, y2)
		case sfnt.SegmentOpCubeTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			x3, y3 := pt(seg.Args[2])
			z.CubeTo(x1, y1, x2, y2, x3, y3)
		}
	}
	z.ClosePath()
}

// frame draws a frame of width w along the borders of img.
func frame(img draw.Image, w int, c color.Color) {
	b := img.Bounds()
	src := image.NewUniform(c)
	for _, r := range []image.Rectangle{
		image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+w),
		image.Rect(b.Min.X, b.Max.Y-w, b.Max.X, b.Max.Y),
		image.Rect(b.Min.X, b.Min.Y, b.Min.X+w, b.Max.Y),
		image.Rect(b.Max.X-w, b.Min.Y, b.Max.X, b.Max.Y),
	} {
		draw.Draw(img, r.Intersect(b), src, image.Point{}, draw.Src)
	}
}

// WritePNG encodes an image as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return core.WrapError(err, core.EIO, "cannot write PNG image")
	}
	return nil
}
