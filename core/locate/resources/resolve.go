package resources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/core/font"
	"github.com/elliottpearl/libertinus-analysis/core/font/fontregistry"
	"github.com/flopp/go-findfont"
)

// NotFound returns an application error for a missing font.
func NotFound(name string) error {
	e := fmt.Errorf("resource missing: %v", name)
	return core.WrapError(e, core.EMISSING, "font not found: %s", name)
}

// FontResource is a resolved font together with its registry entry. Fonts
// not found in a registry get an ad-hoc entry without a curated lookup.
type FontResource struct {
	Entry fontregistry.Entry
	Font  *font.ScalableFont
}

// FontPromise is the promise of a font being loaded.
type FontPromise interface {
	// Font blocks until the font is loaded.
	Font() (FontResource, error)
	// Await is Font with a context for cancellation.
	Await(ctx context.Context) (FontResource, error)
}

type fontLoader struct {
	done chan struct{}
	res  FontResource
	err  error
}

func (loader *fontLoader) Font() (FontResource, error) {
	return loader.Await(context.Background())
}

func (loader *fontLoader) Await(ctx context.Context) (FontResource, error) {
	select {
	case <-ctx.Done():
		return FontResource{}, ctx.Err()
	case <-loader.done:
		return loader.res, loader.err
	}
}

// ResolveFont resolves a font name, using registry reg. Loading happens
// in the background.
func ResolveFont(name string, reg *fontregistry.Registry) FontPromise {
	loader := &fontLoader{done: make(chan struct{})}
	go func() {
		defer close(loader.done)
		loader.res, loader.err = resolve(name, reg)
	}()
	return loader
}

// ResolveFonts resolves a list of font names concurrently and waits for all
// of them. The first error encountered, in the order of names, is returned.
func ResolveFonts(ctx context.Context, names []string, reg *fontregistry.Registry) ([]FontResource, error) {
	promises := make([]FontPromise, len(names))
	for i, name := range names {
		promises[i] = ResolveFont(name, reg)
	}
	fonts := make([]FontResource, len(names))
	for i, p := range promises {
		var err error
		if fonts[i], err = p.Await(ctx); err != nil {
			return nil, err
		}
	}
	return fonts, nil
}

func resolve(name string, reg *fontregistry.Registry) (FontResource, error) {
	if isPath(name) {
		tracer().Debugf("font %s is a file path", name)
		return load(fontregistry.EntryForFile(name), name)
	}
	if e, ok := reg.Entry(name); ok {
		tracer().Debugf("font %s is a registry key", name)
		f, err := reg.Font(name)
		if err != nil {
			return FontResource{}, err
		}
		return FontResource{Entry: e, Font: f}, nil
	}
	if reg.Dir() != "" {
		fpath := filepath.Join(reg.Dir(), name)
		if _, err := os.Stat(fpath); err == nil {
			tracer().Debugf("font %s found in font directory %s", name, reg.Dir())
			return load(fontregistry.EntryForFile(fpath), fpath)
		}
	}
	if fpath, err := findfont.Find(name); err == nil && fpath != "" {
		tracer().Infof("%s is a system font: %s", name, fpath)
		return load(fontregistry.EntryForFile(fpath), fpath)
	}
	return FontResource{}, NotFound(name)
}

func load(e fontregistry.Entry, fpath string) (FontResource, error) {
	f, err := font.LoadOpenTypeFont(fpath)
	if err != nil {
		return FontResource{}, err
	}
	return FontResource{Entry: e, Font: f}, nil
}

// isPath is true for names which have to be taken as file paths: names
// with a directory part, and names of existing files.
func isPath(name string) bool {
	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		return true
	}
	_, err := os.Stat(name)
	return err == nil
}
