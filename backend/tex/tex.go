/*
Package tex writes LaTeX fragments documenting how combining marks render.

Fragments are meant to be \input{} from a LaTeX document, which defines the
wrapper macros used for the cells:

	\NOBM  \NOPR  \PREC  \GSUB  \ANCH  \FALL         (classifier "combo")
	\UNSUPP  \PREC  \ANCH  \IPAFALL                  (classifier "sanity")
	\GSUBOVERLAY  \MISSINGPRE  \MISSINGGLYPH         (sanity flag overlays)

Cell payloads are always the original code-points, written as \char"XXXX,
never glyph IDs.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package tex

import (
	"fmt"
	"strings"

	"github.com/elliottpearl/libertinus-analysis/engine/classify"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'libertinus.engine'.
func tracer() tracing.Trace {
	return tracing.Select("libertinus.engine")
}

// Char returns TeX code for a Unicode code-point.
func Char(cp rune) string {
	return fmt.Sprintf(`\char"%04X`, cp)
}

func wrap(macro, s string) string {
	return `\` + macro + "{" + s + "}"
}

var comboMacros = map[classify.Kind]string{
	classify.Missing:            "NOBM",
	classify.MissingPrecomposed: "NOPR",
	classify.Precomposed:        "PREC",
	classify.Substituted:        "GSUB",
	classify.Anchored:           "ANCH",
	classify.Fallback:           "FALL",
}

// ComboCell renders a cell for a result of the combo classifier. Combinations
// which have not been shaped (missing glyphs) show the base only.
func ComboCell(base, mark rune, r classify.Result) (string, error) {
	macro, ok := comboMacros[r.Kind]
	if !ok {
		return "", fmt.Errorf("unknown kind for combo classifier: %s", r.Kind)
	}
	raw := Char(base)
	if r.Shaped() {
		raw += Char(mark)
	}
	return wrap(macro, raw), nil
}

// SanityCell renders a cell for a result of the sanity classifier. A missing
// mark is suppressed from the payload. Flags are shown as overlays around
// the kind's wrapper.
func SanityCell(base, mark rune, r classify.Result) (string, error) {
	raw := Char(base)
	if !r.Flags.Has(classify.MissingMark) {
		raw += Char(mark)
	}
	var cell string
	switch r.Kind {
	case classify.Unsupported:
		cell = wrap("UNSUPP", raw)
	case classify.Precomposed:
		cell = wrap("PREC", raw)
	case classify.Anchored:
		cell = wrap("ANCH", raw)
	case classify.Fallback:
		if r.Flags == 0 {
			cell = wrap("IPAFALL", raw)
		} else {
			cell = wrap("UNSUPP", raw)
		}
	default:
		return "", fmt.Errorf("unknown kind for sanity classifier: %s", r.Kind)
	}
	if r.Flags.Has(classify.GSubSubstitution) {
		cell = wrap("GSUBOVERLAY", cell)
	}
	if r.Flags.Has(classify.MissingPrecomposedGlyph) {
		cell = wrap("MISSINGPRE", cell)
	}
	if r.Flags&(classify.MissingBase|classify.MissingMark) != 0 {
		cell = wrap("MISSINGGLYPH", cell)
	}
	return cell, nil
}

// Cell renders a cell for a result, depending on the classifier which
// produced it.
func Cell(classifier classify.Classifier, base, mark rune, r classify.Result) (string, error) {
	if classifier.Name() == "sanity" {
		return SanityCell(base, mark, r)
	}
	return ComboCell(base, mark, r)
}

// row renders the cells of a mark across bases, separated by spaces.
func row(m *classify.Matrix, font int, mark rune, bases []rune) (string, error) {
	cells := make([]string, len(bases))
	for i, base := range bases {
		c, err := Cell(m.Classifier, base, mark, m.Result(font, base, mark))
		if err != nil {
			return "", err
		}
		cells[i] = c
	}
	return strings.Join(cells, " "), nil
}
