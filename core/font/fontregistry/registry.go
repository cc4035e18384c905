package fontregistry

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/core/font"
	xfont "golang.org/x/image/font"
)

// Style is a controlled vocabulary for the style of a font. It decides on
// the grouping commands in LaTeX output.
type Style string

// Styles of registered fonts
const (
	Regular    Style = "regular"
	Italic     Style = "italic"
	Bold       Style = "bold"
	BoldItalic Style = "bold_italic"
)

// TeXGroup returns the opening of a TeX group switching to style s, or ""
// for the regular style, which needs no group.
func (s Style) TeXGroup() string {
	switch s {
	case Italic:
		return `{\itshape`
	case Bold:
		return `{\bfseries`
	case BoldItalic:
		return `{\bfseries\itshape`
	}
	return ""
}

// Entry describes a registered font.
type Entry struct {
	Key         string // short key, e.g. "regular"
	File        string // file name within the font directory
	LookupIndex int    // index of the curated GPOS MarkToBase lookup, -1 if unknown
	Label       string // human readable label
	Style       Style
}

// Path returns the path of the font file of e within directory dir.
// If e.File is already a path, dir is ignored.
func (e Entry) Path(dir string) string {
	if strings.ContainsRune(e.File, filepath.Separator) || dir == "" {
		return e.File
	}
	return filepath.Join(dir, e.File)
}

var libertinus = []Entry{
	{"regular", "LibertinusSerif-Regular.otf", 4, "Regular", Regular},
	{"regular_patch", "LibertinusSerif-Regular-patch.otf", 4, "Regular patched", Regular},
	{"italic", "LibertinusSerif-Italic.otf", 4, "Italic", Italic},
	{"semibold", "LibertinusSerif-Semibold.otf", 1, "Semibold", Bold},
	{"semibold_italic", "LibertinusSerif-SemiboldItalic.otf", 2, "Semibold italic", BoldItalic},
}

// Registry is a type for holding information about fonts under investigation.
// Fonts are loaded lazily and cached.
type Registry struct {
	sync.Mutex
	dir     string
	entries []Entry
	fonts   map[string]*font.ScalableFont
}

var globalFontRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton holding the Libertinus
// fonts, located in directory "fonts".
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalFontRegistry = NewRegistry("fonts")
	})
	return globalFontRegistry
}

// NewRegistry creates a registry for the Libertinus fonts, with the font
// files located in dir.
func NewRegistry(dir string) *Registry {
	entries := make([]Entry, len(libertinus))
	copy(entries, libertinus)
	return &Registry{
		dir:     dir,
		entries: entries,
		fonts:   make(map[string]*font.ScalableFont),
	}
}

// Dir returns the font directory of the registry.
func (fr *Registry) Dir() string {
	return fr.dir
}

// SetDir changes the font directory. Fonts already cached stay cached.
func (fr *Registry) SetDir(dir string) {
	fr.Lock()
	defer fr.Unlock()
	fr.dir = dir
}

// Register adds an entry or replaces an entry with the same key.
func (fr *Registry) Register(e Entry) {
	fr.Lock()
	defer fr.Unlock()
	for i := range fr.entries {
		if fr.entries[i].Key == e.Key {
			fr.entries[i] = e
			delete(fr.fonts, e.Key)
			return
		}
	}
	fr.entries = append(fr.entries, e)
}

// Keys returns the keys of all registered fonts, in registration order.
func (fr *Registry) Keys() []string {
	fr.Lock()
	defer fr.Unlock()
	keys := make([]string, len(fr.entries))
	for i, e := range fr.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entry returns the entry for a key.
func (fr *Registry) Entry(key string) (Entry, bool) {
	fr.Lock()
	defer fr.Unlock()
	for _, e := range fr.entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns all entries for a list of keys, in the order of the keys.
// An unknown key results in a core.EUSAGE error.
func (fr *Registry) Entries(keys []string) ([]Entry, error) {
	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		e, ok := fr.Entry(k)
		if !ok {
			return nil, core.Error(core.EUSAGE, "unknown font key %q (known: %s)",
				k, strings.Join(fr.Keys(), ", "))
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Font loads the font registered under key, or returns it from the cache.
func (fr *Registry) Font(key string) (*font.ScalableFont, error) {
	e, ok := fr.Entry(key)
	if !ok {
		return nil, core.Error(core.EUSAGE, "unknown font key %q", key)
	}
	fr.Lock()
	defer fr.Unlock()
	if f, ok := fr.fonts[key]; ok {
		tracer().Debugf("registry found font %s", key)
		return f, nil
	}
	f, err := font.LoadOpenTypeFont(e.Path(fr.dir))
	if err != nil {
		return nil, err
	}
	tracer().Infof("registry caches font %s = %q", key, f.Fontname)
	fr.fonts[key] = f
	return f, nil
}

// LogFontList is a helper function to dump the list of known fonts
// to the trace (log-level Info).
func (fr *Registry) LogFontList() {
	fr.Lock()
	defer fr.Unlock()
	tracer().Infof("--- registered fonts ---")
	for _, e := range fr.entries {
		loaded := ""
		if f, ok := fr.fonts[e.Key]; ok {
			loaded = fmt.Sprintf(" (loaded: %s)", f.Fontname)
		}
		tracer().Infof("font [%s] = %s, lookup %d%s", e.Key, e.File, e.LookupIndex, loaded)
	}
	tracer().Infof("------------------------")
}

// EntryForFile creates an ad-hoc entry for a font file not contained in the
// registry. Style is guessed from the file name, and no curated lookup
// is known.
func EntryForFile(fontfile string) Entry {
	base := path.Base(filepath.ToSlash(fontfile))
	label := strings.TrimSuffix(base, path.Ext(base))
	style, weight := GuessStyleAndWeight(base)
	return Entry{
		Key:         label,
		File:        fontfile,
		LookupIndex: -1,
		Label:       label,
		Style:       StyleFor(style, weight),
	}
}

// StyleFor maps x/image style and weight to a registry style.
func StyleFor(style xfont.Style, weight xfont.Weight) Style {
	bold := weight >= xfont.WeightSemiBold
	italic := style == xfont.StyleItalic || style == xfont.StyleOblique
	switch {
	case bold && italic:
		return BoldItalic
	case bold:
		return Bold
	case italic:
		return Italic
	}
	return Regular
}

// GuessStyleAndWeight tries to guess a font's style and weight from the
// font's file name, e.g. "LibertinusSerif-SemiboldItalic.otf".
func GuessStyleAndWeight(fontfilename string) (xfont.Style, xfont.Weight) {
	fontfilename = path.Base(fontfilename)
	ext := path.Ext(fontfilename)
	fontfilename = strings.ToLower(fontfilename[:len(fontfilename)-len(ext)])
	s := strings.Split(fontfilename, "-")
	if len(s) > 1 {
		switch s[len(s)-1] {
		case "light", "xlight":
			return xfont.StyleNormal, xfont.WeightLight
		case "normal", "medium", "regular", "r":
			return xfont.StyleNormal, xfont.WeightNormal
		case "bold", "b":
			return xfont.StyleNormal, xfont.WeightBold
		case "semibold", "sb":
			return xfont.StyleNormal, xfont.WeightSemiBold
		}
	}
	style, weight := xfont.StyleNormal, xfont.WeightNormal
	if strings.Contains(fontfilename, "italic") {
		style = xfont.StyleItalic
	}
	if strings.Contains(fontfilename, "light") {
		weight = xfont.WeightLight
	}
	if strings.Contains(fontfilename, "semibold") {
		weight = xfont.WeightSemiBold
	} else if strings.Contains(fontfilename, "bold") {
		weight = xfont.WeightBold
	}
	return style, weight
}
