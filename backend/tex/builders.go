package tex

import (
	"fmt"
	"strings"

	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/engine/classify"
)

// Builder creates a LaTeX fragment from a classified matrix.
type Builder func(m *classify.Matrix) (string, error)

// BuilderByName returns a builder for a name, "grid" or "paragraph".
func BuilderByName(name string) (Builder, error) {
	switch name {
	case "grid":
		return Grid, nil
	case "paragraph":
		return Paragraph, nil
	}
	return nil, core.Error(core.EUSAGE, "unknown builder %q", name)
}

// Grid emits one chunk for every base group × mark group × font. Columns of
// a chunk are bases, rows are marks.
func Grid(m *classify.Matrix) (string, error) {
	var chunks []string
	for _, bg := range m.BaseGroups {
		for _, mg := range m.MarkGroups {
			for f, fc := range m.Fonts {
				chunk, err := gridChunk(m, f, fc.Entry.Label, mg.Items, bg.Items)
				if err != nil {
					return "", err
				}
				chunks = append(chunks, chunk)
			}
		}
	}
	tracer().Debugf("grid builder emitted %d chunks", len(chunks))
	return strings.Join(chunks, "\n\n"), nil
}

// Paragraph emits one chunk per mark × font, labelled with the code-point of
// the mark. Bases of all base groups are concatenated into a single row.
func Paragraph(m *classify.Matrix) (string, error) {
	var bases []rune
	for _, bg := range m.BaseGroups {
		bases = append(bases, bg.Items...)
	}
	var chunks []string
	for _, mg := range m.MarkGroups {
		for _, mark := range mg.Items {
			for f := range m.Fonts {
				label := fmt.Sprintf("U+%04X", mark)
				chunk, err := gridChunk(m, f, label, []rune{mark}, bases)
				if err != nil {
					return "", err
				}
				chunks = append(chunks, chunk)
			}
		}
	}
	tracer().Debugf("paragraph builder emitted %d chunks", len(chunks))
	return strings.Join(chunks, "\n\n"), nil
}

func gridChunk(m *classify.Matrix, font int, label string, marks, bases []rune) (string, error) {
	var out []string
	if len(marks) > 5 {
		out = append(out, `\newpage`)
	}
	out = append(out, `\subsection*{`+label+"}", "")
	group := m.Fonts[font].Entry.Style.TeXGroup()
	if group != "" {
		out = append(out, group)
	}
	out = append(out, "% grid. columns are bases, rows are marks.")
	body, err := gridBody(m, font, marks, bases)
	if err != nil {
		return "", err
	}
	out = append(out, body)
	if group != "" {
		out = append(out, "}")
	}
	return strings.Join(out, "\n"), nil
}

// gridBody renders one row per mark, each followed by a blank line.
func gridBody(m *classify.Matrix, font int, marks, bases []rune) (string, error) {
	rows := make([]string, 0, 2*len(marks))
	for _, mark := range marks {
		r, err := row(m, font, mark, bases)
		if err != nil {
			return "", err
		}
		rows = append(rows, r, "")
	}
	return strings.Join(rows, "\n"), nil
}

// IPA emits a section per font, documenting every IPA diacritic together
// with the bases it is used with in IPA notation. Combinations are
// classified with anchor class 0.
func IPA(fonts []*classify.FontContext, classifier classify.Classifier) (string, error) {
	var b strings.Builder
	marks := classify.IPAMarks()
	for _, fc := range fonts {
		fmt.Fprintf(&b, "\\subsection*{IPA diacritics -- %s}\n\n", fc.Entry.Label)
		group := fc.Entry.Style.TeXGroup()
		if group != "" {
			b.WriteString(group + "\n")
		}
		for _, mark := range marks {
			bases := classify.IPADiacriticBases[mark]
			cells := make([]string, len(bases))
			for i, base := range bases {
				r, err := classifier.Classify(fc, base, mark, classify.ClassAboveCenter)
				if err != nil {
					return "", err
				}
				if cells[i], err = Cell(classifier, base, mark, r); err != nil {
					return "", err
				}
			}
			fmt.Fprintf(&b, "%% Mark U+%04X\n%s\n\n", mark, strings.Join(cells, " "))
		}
		if group != "" {
			b.WriteString("}\n")
		}
		b.WriteString("\n")
		tracer().Infof("IPA diacritics documented for font %s", fc.Entry.Key)
	}
	return b.String(), nil
}
