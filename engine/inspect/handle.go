package inspect

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/core/font"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot"
	"golang.org/x/image/font/sfnt"
)

// FontHandle is an opened font, identified by its file path. It is read-only
// after opening and is not meant to be shared between goroutines.
type FontHandle struct {
	Path       string
	Family     string
	UnitsPerEm int
	NumGlyphs  int
	Binary     []byte
	OT         *ot.Font
	sfntOnce   sync.Once
	sfnt       *sfnt.Font
	sfntErr    error
}

// Open reads and parses a font file.
//
// A missing file results in a core.EMISSING error, a file which cannot be
// parsed in a core.EINVALID error. Both name the path.
func Open(path string) (*FontHandle, error) {
	bytez, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.WrapError(err, core.EMISSING, "font file not found: %s", path)
		}
		return nil, core.WrapError(err, core.EMISSING, "cannot read font file %s", path)
	}
	return OpenFont(path, bytez)
}

// OpenFont parses font data already loaded from path.
func OpenFont(path string, bytez []byte) (*FontHandle, error) {
	otf, err := ot.Parse(bytez)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse font file %s", path)
	}
	h := &FontHandle{
		Path:       path,
		Family:     otf.Family(),
		UnitsPerEm: int(otf.Head.UnitsPerEm),
		NumGlyphs:  otf.NumGlyphs(),
		Binary:     bytez,
		OT:         otf,
	}
	tracer().Debugf("opened font %q (%d glyphs, %d upem) from %s",
		h.Family, h.NumGlyphs, h.UnitsPerEm, path)
	return h, nil
}

// OpenScalable opens a font already loaded and parsed by package font. The
// outlines parsed there are re-used by SFNT.
func OpenScalable(sf *font.ScalableFont) (*FontHandle, error) {
	h, err := OpenFont(sf.Filepath, sf.Binary)
	if err != nil {
		return nil, err
	}
	if sf.SFNT != nil {
		h.sfntOnce.Do(func() {
			h.sfnt = sf.SFNT
		})
	}
	return h, nil
}

// Name returns the file name of the font, without directory.
func (h *FontHandle) Name() string {
	return filepath.Base(h.Path)
}

// GlyphIDs lists all glyph identifiers of the font, in ascending order.
func (h *FontHandle) GlyphIDs() []ot.GlyphIndex {
	gids := make([]ot.GlyphIndex, h.NumGlyphs)
	for i := range gids {
		gids[i] = ot.GlyphIndex(i)
	}
	return gids
}

// GlyphIndex maps a character to a glyph using the font's cmap. It returns
// false if the character is not mapped.
func (h *FontHandle) GlyphIndex(r rune) (ot.GlyphIndex, bool) {
	gid := h.OT.CMap.GlyphIndexMap.Lookup(r)
	return gid, gid != 0
}

// SFNT returns the font as parsed by x/image, for clients interested in
// outlines or glyph names. It is parsed on first use.
func (h *FontHandle) SFNT() (*sfnt.Font, error) {
	h.sfntOnce.Do(func() {
		h.sfnt, h.sfntErr = sfnt.Parse(h.Binary)
		if h.sfntErr != nil {
			h.sfntErr = core.WrapError(h.sfntErr, core.EINVALID, "cannot read outlines of font %s", h.Path)
		}
	})
	return h.sfnt, h.sfntErr
}
