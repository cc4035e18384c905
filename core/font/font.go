/*
Package font is for loading font files.

We stick to the following definitions:

* A "scalable font" is a font file loaded into memory, i.e. a variant of a
typeface with a certain weight and slant. An example is "Libertinus Serif
Semibold Italic".

* A "typecase" is a scaled font, i.e. a font in a certain size. We need
typecases only to draw labels into diagnostic images.

Please note that Go (Golang) does use the terms "font" and "face"
differently, more or less in an opposite manner.

Font binaries are kept in memory for the lifetime of a ScalableFont, as both
package ot and HarfBuzz operate on the raw bytes.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package font

import (
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// tracer traces with key 'libertinus.fonts'
func tracer() tracing.Trace {
	return tracing.Select("libertinus.fonts")
}

// ScalableFont is a font file loaded into memory.
type ScalableFont struct {
	Fontname string     // full font name from the 'name' table
	Filepath string     // file path, or "internal" for embedded fonts
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container, as parsed by x/image
}

// LoadOpenTypeFont reads and parses a font file.
//
// Errors always mention the path: a missing file results in a core.EMISSING
// error, a file not recognized as an OpenType font in a core.EINVALID error.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.WrapError(err, core.EMISSING, "font file not found: %s", fontfile)
		}
		return nil, core.WrapError(err, core.EMISSING, "cannot read font file %s", fontfile)
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse font file %s", fontfile)
	}
	f.Filepath = fontfile
	tracer().Debugf("loaded font %q from %s", f.Fontname, fontfile)
	return f, nil
}

// ParseOpenTypeFont parses font data which has already been loaded.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, err
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	return
}

// UnitsPerEm returns the design units of the font.
func (sf *ScalableFont) UnitsPerEm() int {
	return int(sf.SFNT.UnitsPerEm())
}

// TypeCase is a font at a given size.
type TypeCase struct {
	face xfont.Face // Go uses 'face' and 'font' in an inverse manner
	size float64    // in points, after clamping
}

// PrepareCase creates a typecase for a size in points at 72 DPI, i.e. one
// point equals one pixel.
func (sf *ScalableFont) PrepareCase(fontsize float64) (*TypeCase, error) {
	if fontsize < 5.0 || fontsize > 500.0 {
		tracer().Infof("font size must be 5pt < size < 500pt, is %g (set to 10pt)", fontsize)
		fontsize = 10.0
	}
	face, err := opentype.NewFace(sf.SFNT, &opentype.FaceOptions{
		Size:    fontsize,
		DPI:     72,
		Hinting: xfont.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	return &TypeCase{face: face, size: fontsize}, nil
}

// Face returns the x/image face of this typecase, for drawing text.
func (tc *TypeCase) Face() xfont.Face {
	return tc.face
}

// --- Fallback font ---------------------------------------------------------

// FallbackFont returns a font to be used if everything else fails. It is
// always present. Currently we use Go Sans.
func FallbackFont() *ScalableFont {
	fallbackFontLoading.Do(func() {
		fallbackFont = loadFallbackFont()
	})
	return fallbackFont
}

var fallbackFontLoading sync.Once

var fallbackFont *ScalableFont

func loadFallbackFont() *ScalableFont {
	gofont, err := ParseOpenTypeFont(goregular.TTF)
	if err != nil {
		panic("cannot load default font") // this cannot happen
	}
	gofont.Fontname = "Go Sans"
	gofont.Filepath = "internal"
	return gofont
}
