package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/elliottpearl/libertinus-analysis/backend/gfx"
	"github.com/elliottpearl/libertinus-analysis/backend/tex"
	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/core/font/fontregistry"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/otquery"
	"github.com/elliottpearl/libertinus-analysis/core/locate/resources"
	"github.com/elliottpearl/libertinus-analysis/engine/classify"
	"github.com/elliottpearl/libertinus-analysis/engine/geometry"
	"github.com/elliottpearl/libertinus-analysis/engine/glyphing/harfbuzz"
	"github.com/elliottpearl/libertinus-analysis/engine/inspect"
	"github.com/pterm/pterm"
)

// App holds the settings operations work with.
type App struct {
	Registry   *fontregistry.Registry
	Fonts      []string // font names; operations have their own defaults
	TeXDir     string
	Pairs      []inspect.Pair
	Bases      []string // base group keys
	Marks      []string // mark group keys
	Classifier string
	Builder    string
	Out        string
	PNGDir     string
	Lookup     int
	Stdout     io.Writer
	Terminal   bool // Stdout is a terminal
}

// standardFonts are the fonts documented by default.
var standardFonts = []string{"regular", "italic", "semibold", "semibold_italic"}

type operation struct {
	name string
	help string
	run  func(app *App, args []string) error
}

var operations []operation

func init() {
	operations = []operation{
		{"inspect", "report attachment offsets of pairs (args: pairs)", (*App).opInspect},
		{"bboxes", "list glyph names, code-points and bounding boxes", (*App).opBBoxes},
		{"matrix", "classify base groups × mark groups, emit LaTeX", (*App).opMatrix},
		{"ipa", "emit LaTeX documenting IPA diacritics", (*App).opIPA},
		{"render", "render pairs to PNG images (args: pairs)", (*App).opRender},
		{"anchors", "propose class 3 and class 0 base anchors", (*App).opAnchors},
		{"patch", "write a copy of fonts with the proposed anchors installed", (*App).opPatch},
		{"tables", "dump table directory and GPOS lookups", (*App).opTables},
		{"fonts", "list registered fonts", (*App).opFonts},
	}
}

func operationNames() []string {
	names := make([]string, len(operations))
	for i, op := range operations {
		names[i] = op.name
	}
	return names
}

// Execute runs the operation called name.
func (app *App) Execute(name string, args []string) error {
	for _, op := range operations {
		if op.name == name {
			tracer().Infof("executing operation %s %v", name, args)
			return op.run(app, args)
		}
	}
	return core.Error(core.EUSAGE, "unknown operation %q, known are: %s",
		name, strings.Join(operationNames(), ", "))
}

// --- Helpers ---------------------------------------------------------------

func (app *App) fontNames(defaults ...string) []string {
	if len(app.Fonts) > 0 {
		return app.Fonts
	}
	return defaults
}

func (app *App) groups(keys []string, defaults ...string) ([]classify.Group, error) {
	if len(keys) == 0 {
		keys = defaults
	}
	return classify.SelectGroups(keys...)
}

type openedFont struct {
	resources.FontResource
	Handle *inspect.FontHandle
}

// openFonts resolves and opens all fonts before any of them is used, so a
// missing font results in no output at all.
func (app *App) openFonts(names []string) ([]openedFont, error) {
	res, err := resources.ResolveFonts(context.Background(), names, app.Registry)
	if err != nil {
		return nil, err
	}
	fonts := make([]openedFont, len(res))
	for i, r := range res {
		h, err := inspect.OpenScalable(r.Font)
		if err != nil {
			return nil, err
		}
		fonts[i] = openedFont{FontResource: r, Handle: h}
	}
	return fonts, nil
}

func (app *App) inspector(h *inspect.FontHandle) (*inspect.Inspector, error) {
	opts := inspect.DefaultOptions()
	opts.LookupIndex = app.Lookup
	return inspect.NewInspector(h, opts)
}

// pairs returns the pairs given as arguments, or the pairs set by flags, or
// all combinations of the selected base and mark groups.
func (app *App) pairs(args []string) ([]inspect.Pair, error) {
	if len(args) > 0 {
		return inspect.ParsePairs(strings.Join(args, " "))
	}
	if len(app.Pairs) > 0 {
		return app.Pairs, nil
	}
	if len(app.Bases) == 0 || len(app.Marks) == 0 {
		return nil, core.Error(core.EUSAGE, "no pairs given (use -pairs, -pairs-file or -bases with -marks)")
	}
	bases, err := app.groups(app.Bases)
	if err != nil {
		return nil, err
	}
	marks, err := app.groups(app.Marks)
	if err != nil {
		return nil, err
	}
	var pairs []inspect.Pair
	for _, bg := range bases {
		for _, mg := range marks {
			pairs = append(pairs, inspect.Cross(bg.Items, mg.Items)...)
		}
	}
	return pairs, nil
}

// emit writes output to stdout, and to file Out if set.
func (app *App) emit(data []byte) error {
	if _, err := app.Stdout.Write(data); err != nil {
		return core.WrapError(err, core.EIO, "cannot write output")
	}
	if app.Out == "" {
		return nil
	}
	return writeFile(app.Out, data)
}

// emitTeX writes a LaTeX fragment to file Out in the TeX directory, or to
// stdout if Out is not set.
func (app *App) emitTeX(latex string) error {
	if app.Out == "" {
		_, err := io.WriteString(app.Stdout, latex)
		if err != nil {
			return core.WrapError(err, core.EIO, "cannot write output")
		}
		return nil
	}
	path := filepath.Join(app.TeXDir, app.Out)
	if err := writeFile(path, []byte(latex)); err != nil {
		return err
	}
	pterm.Info.Printfln("Wrote LaTeX fragment to %s", path)
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return core.WrapError(err, core.EIO, "cannot create directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return core.WrapError(err, core.EIO, "cannot write %s", path)
	}
	return nil
}

// --- Operations ------------------------------------------------------------

func (app *App) opInspect(args []string) error {
	pairs, err := app.pairs(args)
	if err != nil {
		return err
	}
	fonts, err := app.openFonts(app.fontNames("regular"))
	if err != nil {
		return err
	}
	var reports []inspect.Report
	for _, f := range fonts {
		insp, err := app.inspector(f.Handle)
		if err != nil {
			return err
		}
		reports = append(reports, insp.Inspect(pairs)...)
	}
	if app.Terminal {
		headline := pterm.DefaultSection.Sprintf("Attachment offsets of %d pairs in %d fonts",
			len(pairs), len(fonts))
		if _, err := io.WriteString(app.Stdout, headline); err != nil {
			return core.WrapError(err, core.EIO, "cannot write output")
		}
	}
	var buf bytes.Buffer
	if err := inspect.WriteReports(&buf, reports); err != nil {
		return err
	}
	return app.emit(buf.Bytes())
}

func (app *App) opBBoxes(args []string) error {
	fonts, err := app.openFonts(app.fontNames("regular"))
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, f := range fonts {
		boxes, err := geometry.BBoxes(f.Handle)
		if err != nil {
			return err
		}
		if len(fonts) > 1 {
			fmt.Fprintf(&buf, "# %s\n", f.Handle.Name())
		}
		if err := geometry.WriteBBoxes(&buf, boxes); err != nil {
			return err
		}
	}
	return app.emit(buf.Bytes())
}

func (app *App) fontContexts(names []string) ([]*classify.FontContext, error) {
	fonts, err := app.openFonts(names)
	if err != nil {
		return nil, err
	}
	fcs := make([]*classify.FontContext, len(fonts))
	for i, f := range fonts {
		shaper, err := harfbuzz.NewShaper(f.Font.Binary)
		if err != nil {
			return nil, err
		}
		if fcs[i], err = classify.NewFontContext(f.Entry, f.Handle, shaper); err != nil {
			return nil, err
		}
	}
	return fcs, nil
}

func (app *App) opMatrix(args []string) error {
	classifier, err := classify.ByName(app.Classifier)
	if err != nil {
		return err
	}
	builder, err := tex.BuilderByName(app.Builder)
	if err != nil {
		return err
	}
	bases, err := app.groups(app.Bases, "BASE_COMMON")
	if err != nil {
		return err
	}
	marks, err := app.groups(app.Marks, "MARK_COMMON")
	if err != nil {
		return err
	}
	fcs, err := app.fontContexts(app.fontNames(standardFonts...))
	if err != nil {
		return err
	}
	m := classify.NewMatrix(bases, marks, fcs, classifier)
	if err := m.Classify(); err != nil {
		return err
	}
	latex, err := builder(m)
	if err != nil {
		return err
	}
	return app.emitTeX(latex)
}

func (app *App) opIPA(args []string) error {
	classifier, err := classify.ByName(app.Classifier)
	if err != nil {
		return err
	}
	fcs, err := app.fontContexts(app.fontNames(standardFonts...))
	if err != nil {
		return err
	}
	latex, err := tex.IPA(fcs, classifier)
	if err != nil {
		return err
	}
	return app.emitTeX(latex)
}

func (app *App) opRender(args []string) error {
	pairs, err := app.pairs(args)
	if err != nil {
		return err
	}
	fonts, err := app.openFonts(app.fontNames("regular"))
	if err != nil {
		return err
	}
	n := 0
	for _, f := range fonts {
		insp, err := app.inspector(f.Handle)
		if err != nil {
			return err
		}
		stem := strings.TrimSuffix(f.Handle.Name(), filepath.Ext(f.Handle.Name()))
		for _, r := range insp.Inspect(pairs) {
			if r.Status == inspect.GlyphNotFound {
				pterm.Warning.Printfln("%s: %s not rendered, glyph not found", f.Handle.Name(), r.Pair())
				continue
			}
			img, err := gfx.RenderPair(f.Handle, r, gfx.DefaultOptions())
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := gfx.WritePNG(&buf, img); err != nil {
				return err
			}
			name := fmt.Sprintf("%s-%04X-%04X.png", stem, r.Base, r.Mark)
			if err := writeFile(filepath.Join(app.PNGDir, name), buf.Bytes()); err != nil {
				return err
			}
			n++
		}
	}
	pterm.Info.Printfln("Wrote %d images to %s", n, app.PNGDir)
	return nil
}

func (app *App) opAnchors(args []string) error {
	bases, err := app.groups(app.Bases, "superscript_consonant")
	if err != nil {
		return err
	}
	var runes []rune
	for _, g := range bases {
		runes = append(runes, g.Items...)
	}
	fonts, err := app.openFonts(app.fontNames("regular"))
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, f := range fonts {
		insp, err := app.inspector(f.Handle)
		if err != nil {
			return err
		}
		blocks, err := geometry.ProposeAnchors(insp, runes, geometry.DefaultAnchorConfig())
		if err != nil {
			return err
		}
		fmt.Fprintf(&buf, "# %s\n", f.Handle.Name())
		if err := geometry.WriteAnchors(&buf, blocks); err != nil {
			return err
		}
	}
	return app.emit(buf.Bytes())
}

// opPatch installs the proposed anchors into a copy of each font. The copy
// is written next to the font as "<name>-patch.<ext>", or to file Out if a
// single font is patched.
func (app *App) opPatch(args []string) error {
	bases, err := app.groups(app.Bases, "superscript_consonant")
	if err != nil {
		return err
	}
	var runes []rune
	for _, g := range bases {
		runes = append(runes, g.Items...)
	}
	fonts, err := app.openFonts(app.fontNames("regular"))
	if err != nil {
		return err
	}
	for _, f := range fonts {
		insp, err := app.inspector(f.Handle)
		if err != nil {
			return err
		}
		blocks, err := geometry.ProposeAnchors(insp, runes, geometry.DefaultAnchorConfig())
		if err != nil {
			return err
		}
		lookup := app.Lookup
		if lookup < 0 {
			lookup = f.Entry.LookupIndex
		}
		var buf bytes.Buffer
		stats, err := geometry.PatchAnchors(&buf, f.Handle, lookup, blocks)
		if err != nil {
			return err
		}
		path := filepath.Join(filepath.Dir(f.Font.Filepath), geometry.PatchedName(f.Handle.Name()))
		if app.Out != "" && len(fonts) == 1 {
			path = app.Out
		}
		if err := writeFile(path, buf.Bytes()); err != nil {
			return err
		}
		pterm.Info.Printfln("Patched lookup %d of %s (%d added, %d updated, %d skipped), wrote %s",
			stats.Lookup, f.Handle.Name(), stats.Added, stats.Updated, stats.Skipped, path)
	}
	return nil
}

func (app *App) opTables(args []string) error {
	fonts, err := app.openFonts(app.fontNames("regular"))
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, f := range fonts {
		scaler, records, err := otquery.TableDirectory(f.Font.Filepath)
		if err != nil {
			return err
		}
		fmt.Fprintf(&buf, "%s: %s, %s\n", f.Handle.Name(), scaler, otquery.FontType(f.Handle.OT))
		data := pterm.TableData{{"tag", "offset", "length"}}
		for _, rec := range records {
			data = append(data, []string{rec.Tag, strconv.FormatUint(uint64(rec.Offset), 10),
				strconv.FormatUint(uint64(rec.Length), 10)})
		}
		if err := renderTable(&buf, data); err != nil {
			return err
		}
		data = pterm.TableData{{"lookup", "type", "subtables", "features"}}
		for _, l := range otquery.GPosLookups(f.Handle.OT) {
			data = append(data, []string{strconv.Itoa(l.Index), l.Type, strconv.Itoa(l.Subtables),
				strings.Join(l.Features, " ")})
		}
		fmt.Fprintln(&buf, "GPOS lookups:")
		if err := renderTable(&buf, data); err != nil {
			return err
		}
	}
	return app.emit(buf.Bytes())
}

func (app *App) opFonts(args []string) error {
	entries, err := app.Registry.Entries(app.Registry.Keys())
	if err != nil {
		return err
	}
	data := pterm.TableData{{"key", "file", "lookup", "label", "style", "present"}}
	for _, e := range entries {
		present := "no"
		if _, err := os.Stat(e.Path(app.Registry.Dir())); err == nil {
			present = "yes"
		}
		data = append(data, []string{e.Key, e.File, strconv.Itoa(e.LookupIndex), e.Label,
			string(e.Style), present})
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "font directory: %s\n", app.Registry.Dir())
	if err := renderTable(&buf, data); err != nil {
		return err
	}
	app.Registry.LogFontList()
	return app.emit(buf.Bytes())
}

func renderTable(w io.Writer, data pterm.TableData) error {
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot render table")
	}
	_, err = fmt.Fprintln(w, s)
	return err
}
