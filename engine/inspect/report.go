package inspect

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot"
)

// Status is the outcome of inspecting a pair.
type Status int

// Outcomes of inspecting a pair. Unresolved is the zero value, so a report
// is never resolved by accident.
const (
	Unresolved Status = iota
	Resolved
	GlyphNotFound
)

func (s Status) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case Unresolved:
		return "unresolved"
	case GlyphNotFound:
		return "glyph-not-found"
	}
	return "status(" + strconv.Itoa(int(s)) + ")"
}

// Point is a position or vector in font design units.
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

func pointFromAnchor(a ot.Anchor) *Point {
	return &Point{X: int(a.X), Y: int(a.Y)}
}

// Report is the result of inspecting one (base, mark) pair in one font.
// Glyphs not found are 0, anchors not found are nil. Offset is valid only
// if the report is resolved.
type Report struct {
	Font       string // file name of the font
	Base       rune
	Mark       rune
	BaseGlyph  ot.GlyphIndex
	MarkGlyph  ot.GlyphIndex
	BaseAnchor *Point
	MarkAnchor *Point
	MarkClass  int // mark class of the mark, -1 if unknown
	Lookup     int // index of the GPOS lookup consulted, -1 if none
	Offset     Point
	Status     Status
}

// Resolved is true if both anchors have been found and Offset is valid.
func (r Report) Resolved() bool {
	return r.Status == Resolved
}

// Pair returns the pair this report is about.
func (r Report) Pair() Pair {
	return Pair{Base: r.Base, Mark: r.Mark}
}

// Columns of report lines.
var Columns = []string{"font", "base", "mark", "base_gid", "mark_gid", "status", "offset"}

// Header returns the header line for report lines, starting with '#'.
func Header() string {
	return "# " + strings.Join(Columns, "\t")
}

// Line renders a report as a tab-separated line (without newline):
//
//	<font> <base U+XXXX> <mark U+XXXX> <base gid|-> <mark gid|-> <status> <dx,dy|->
func (r Report) Line() string {
	var sb strings.Builder
	sb.WriteString(r.Font)
	sb.WriteByte('\t')
	sb.WriteString(CodePoint(r.Base))
	sb.WriteByte('\t')
	sb.WriteString(CodePoint(r.Mark))
	sb.WriteByte('\t')
	sb.WriteString(gidOrDash(r.BaseGlyph))
	sb.WriteByte('\t')
	sb.WriteString(gidOrDash(r.MarkGlyph))
	sb.WriteByte('\t')
	sb.WriteString(r.Status.String())
	sb.WriteByte('\t')
	if r.Resolved() {
		sb.WriteString(r.Offset.String())
	} else {
		sb.WriteByte('-')
	}
	return sb.String()
}

func (r Report) String() string {
	return r.Line()
}

func gidOrDash(gid ot.GlyphIndex) string {
	if gid == 0 {
		return "-"
	}
	return strconv.Itoa(int(gid))
}

// WriteReports writes a header line followed by one line per report.
// Output depends on the reports only, so it is identical across runs.
func WriteReports(w io.Writer, reports []Report) error {
	if _, err := fmt.Fprintln(w, Header()); err != nil {
		return core.WrapError(err, core.EIO, "cannot write report")
	}
	for _, r := range reports {
		if _, err := fmt.Fprintln(w, r.Line()); err != nil {
			return core.WrapError(err, core.EIO, "cannot write report")
		}
	}
	return nil
}
