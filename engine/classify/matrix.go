package classify

// Matrix classifies all combinations of base groups × mark groups for a
// number of fonts. Results are kept per (mark, base, font) and may be
// queried by clients building reports.
type Matrix struct {
	BaseGroups []Group
	MarkGroups []Group
	Fonts      []*FontContext
	Classifier Classifier
	results    map[cell]Result
}

type cell struct {
	mark, base rune
	font       int
}

// NewMatrix creates a classification matrix.
func NewMatrix(bases, marks []Group, fonts []*FontContext, classifier Classifier) *Matrix {
	return &Matrix{
		BaseGroups: bases,
		MarkGroups: marks,
		Fonts:      fonts,
		Classifier: classifier,
		results:    make(map[cell]Result),
	}
}

// Classify classifies every combination for every font. Marks use their
// curated anchor class (see MarkClassIndex).
func (m *Matrix) Classify() error {
	for f, fc := range m.Fonts {
		n := 0
		for _, mg := range m.MarkGroups {
			for _, mark := range mg.Items {
				class := MarkClass(mark)
				for _, bg := range m.BaseGroups {
					for _, base := range bg.Items {
						r, err := m.Classifier.Classify(fc, base, mark, class)
						if err != nil {
							return err
						}
						m.results[cell{mark, base, f}] = r
						n++
					}
				}
			}
		}
		tracer().Infof("classified %d combinations for font %s", n, fc.Entry.Key)
	}
	return nil
}

// Result returns the classification of base+mark for the font with index
// font. Combinations not classified are reported as fallback.
func (m *Matrix) Result(font int, base, mark rune) Result {
	if r, ok := m.results[cell{mark, base, font}]; ok {
		return r
	}
	return Result{Kind: Fallback}
}

// Counts returns the number of combinations per kind, for one font.
func (m *Matrix) Counts(font int) map[Kind]int {
	counts := make(map[Kind]int)
	for c, r := range m.results {
		if c.font == font {
			counts[r.Kind]++
		}
	}
	return counts
}
