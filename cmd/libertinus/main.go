/*
Command libertinus diagnoses how combining marks attach to base glyphs in the
Libertinus fonts, or in any other OpenType font.

Usage:

	libertinus -op <operation> [flags]
	libertinus -i [flags]

Operations are

	inspect   report the attachment offset of (base, mark) pairs
	bboxes    list glyph bounding boxes
	matrix    classify base × mark groups and emit a LaTeX fragment
	ipa       emit a LaTeX fragment documenting IPA diacritics
	render    render pairs to PNG images
	anchors   propose base anchors for superscript consonants
	patch     write a copy of a font with the proposed anchors installed
	tables    dump the table directory and GPOS lookups of a font
	fonts     list the registered fonts

With -i, operations are entered interactively, together with commands to
change settings (font, pairs, bases, marks, …). Type "help" for a list.

The exit code of the command is the error code of a fatal error, with 0
denoting success.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/core/font/fontregistry"
	"github.com/elliottpearl/libertinus-analysis/engine/inspect"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// tracer traces with key 'libertinus.fonts'
func tracer() tracing.Trace {
	return tracing.Select("libertinus.fonts")
}

var traceKeys = []string{"libertinus.fonts", "libertinus.engine"}

func main() {
	initDisplay()
	if err := initTracing(); err != nil {
		fmt.Fprintf(os.Stderr, "error configuring tracing: %v\n", err)
		os.Exit(core.EINTERNAL)
	}
	if err := run(os.Args[1:], os.Stdout); err != nil {
		pterm.Error.Println(core.UserMessage(err))
		tracer().Errorf("%v", err)
		os.Exit(core.Code(err))
	}
}

// We use pterm for moderately fancy output, unless stdout is redirected.
func initDisplay() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		pterm.DisableStyling()
	}
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
	pterm.Info.Writer = os.Stderr
	pterm.Warning.Writer = os.Stderr
	pterm.Error.Writer = os.Stderr
}

func initTracing() error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
	}
	for _, key := range traceKeys {
		conf["trace."+key] = "Error"
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

func setTraceLevel(level string) error {
	var l tracing.TraceLevel
	switch strings.ToLower(level) {
	case "debug":
		l = tracing.LevelDebug
	case "info":
		l = tracing.LevelInfo
	case "error":
		l = tracing.LevelError
	default:
		return core.Error(core.EUSAGE, "unknown trace level %q", level)
	}
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
	return nil
}

// run parses the command line and executes an operation, or starts the
// interactive mode.
func run(args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("libertinus", flag.ContinueOnError)
	fontdir := os.Getenv("LIBERTINUS_FONTS")
	if fontdir == "" {
		fontdir = "fonts"
	}
	op := flags.String("op", "", "Operation: "+strings.Join(operationNames(), ", "))
	interactive := flags.Bool("i", false, "Interactive mode")
	tlevel := flags.String("trace", "Error", "Trace level [Debug|Info|Error]")
	fontdirFlag := flags.String("fonts", fontdir, "Font directory (or $LIBERTINUS_FONTS)")
	fontsFlag := flags.String("font", "", "Comma separated fonts: registry keys, file names or paths")
	texdir := flags.String("tex", "tex/input", "Output directory for LaTeX fragments")
	pairsFlag := flags.String("pairs", "", "Pairs to inspect, e.g. \"a+U+0301, U+0065:U+0300\"")
	pairsFile := flags.String("pairs-file", "", "File with pairs to inspect, one per line")
	bases := flags.String("bases", "", "Comma separated base groups")
	marks := flags.String("marks", "", "Comma separated mark groups")
	classifier := flags.String("classifier", "combo", "Classifier [combo|sanity]")
	builder := flags.String("builder", "grid", "LaTeX builder [grid|paragraph]")
	out := flags.String("out", "", "Output file")
	pngdir := flags.String("png", "png", "Output directory for rendered pairs")
	lookup := flags.Int("lookup", -1, "Index of the GPOS lookup to inspect, -1 for all MarkToBase lookups")
	if err := flags.Parse(args); err != nil {
		return core.WrapError(err, core.EUSAGE, "invalid command line")
	}
	if err := setTraceLevel(*tlevel); err != nil {
		return err
	}
	tracer().Infof("trace level is %s", *tlevel)
	reg := fontregistry.GlobalRegistry()
	reg.SetDir(*fontdirFlag)
	app := &App{
		Registry:   reg,
		Fonts:      splitList(*fontsFlag),
		TeXDir:     *texdir,
		Bases:      splitList(*bases),
		Marks:      splitList(*marks),
		Classifier: *classifier,
		Builder:    *builder,
		Out:        *out,
		PNGDir:     *pngdir,
		Lookup:     *lookup,
		Stdout:     stdout,
		Terminal:   stdout == os.Stdout && term.IsTerminal(int(os.Stdout.Fd())),
	}
	if *pairsFlag != "" {
		pairs, err := inspect.ParsePairs(*pairsFlag)
		if err != nil {
			return err
		}
		app.Pairs = append(app.Pairs, pairs...)
	}
	if *pairsFile != "" {
		pairs, err := readPairsFile(*pairsFile)
		if err != nil {
			return err
		}
		app.Pairs = append(app.Pairs, pairs...)
	}
	switch {
	case *op != "":
		return app.Execute(*op, flags.Args())
	case *interactive:
		return startREPL(app)
	}
	flags.SetOutput(stdout)
	flags.Usage()
	return core.Error(core.EUSAGE, "neither -op nor -i given")
}

func readPairsFile(path string) ([]inspect.Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "pairs file not found: %s", path)
	}
	defer f.Close()
	pairs, err := inspect.ReadPairs(f)
	if err != nil {
		return nil, core.WrapError(err, core.EUSAGE, "%s: %s", path, core.UserMessage(err))
	}
	return pairs, nil
}

// splitList splits a comma separated list, dropping empty items.
func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
