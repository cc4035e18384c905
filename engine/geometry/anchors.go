package geometry

import (
	"fmt"
	"io"
	"strings"

	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype"
	"github.com/elliottpearl/libertinus-analysis/engine/classify"
	"github.com/elliottpearl/libertinus-analysis/engine/inspect"
)

// VerticalRef selects the line anchors of a base are placed relative to.
type VerticalRef int

// Vertical references
const (
	Meanline VerticalRef = iota // the superscript meanline
	BaseYMax                    // the top of the base's bounding box
)

// AnchorConfig holds the parameters for anchor proposals, in font units.
type AnchorConfig struct {
	Meanline    int                  // superscript meanline
	Clearance0Y int                  // class 0, above the reference line
	Clearance3X int                  // class 3, right of the base
	Clearance3Y int                  // class 3, above the reference line
	Refs        map[rune]VerticalRef // bases not listed use Meanline
	Mark3       rune                 // mark the class 3 anchor is computed for
}

// DefaultAnchorConfig returns the configuration for the superscript
// consonants of Libertinus Serif. ᵇ has an ascender and is placed relative
// to its top.
func DefaultAnchorConfig() AnchorConfig {
	return AnchorConfig{
		Meanline:    630,
		Clearance0Y: 175,
		Clearance3X: -20,
		Clearance3Y: 70,
		Refs:        map[rune]VerticalRef{0x1D47: BaseYMax},
		Mark3:       0x031A,
	}
}

func (cfg AnchorConfig) refY(base rune, bbox opentype.BoundingBox) int {
	if cfg.Refs[base] == BaseYMax {
		return int(bbox.MaxY)
	}
	return cfg.Meanline
}

// BaseBox is a base character together with its bounding box.
type BaseBox struct {
	Base rune
	BBox opentype.BoundingBox
}

// MarkGeometry is the anchor and bounding box of a mark glyph.
type MarkGeometry struct {
	Anchor inspect.Point
	BBox   opentype.BoundingBox
}

// Proposal is a proposed anchor for a base.
type Proposal struct {
	Base rune
	X, Y int
}

// AnchorBlock collects proposals for one anchor class.
type AnchorBlock struct {
	Class     int
	Proposals []Proposal
}

// String formats a block as a dictionary entry:
//
//	    3: {
//	        0x02B0: (307, 725),
//	    },
func (ab AnchorBlock) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "    %d: {\n", ab.Class)
	for _, p := range ab.Proposals {
		fmt.Fprintf(&b, "        0x%04X: (%d, %d),\n", p.Base, p.X, p.Y)
	}
	b.WriteString("    },\n")
	return b.String()
}

// ProposeClass0 proposes anchors for marks above center (acute, grave,
// circumflex): horizontally centered on the base, vertically at a clearance
// above the reference line.
func ProposeClass0(bases []BaseBox, cfg AnchorConfig) AnchorBlock {
	block := AnchorBlock{Class: classify.ClassAboveCenter}
	for _, bb := range bases {
		block.Proposals = append(block.Proposals, Proposal{
			Base: bb.Base,
			X:    floorDiv(int(bb.BBox.MinX)+int(bb.BBox.MaxX), 2),
			Y:    cfg.refY(bb.Base, bb.BBox) + cfg.Clearance0Y,
		})
	}
	return block
}

// ProposeClass3 proposes anchors for the left angle above. The mark's ink
// is placed to the right of the base and above the reference line, both at
// a clearance:
//
//	x = xMax + (markX - markXMin) + clearanceX
//	y = ref  + (markY - markYMin) + clearanceY
func ProposeClass3(bases []BaseBox, mark MarkGeometry, cfg AnchorConfig) AnchorBlock {
	block := AnchorBlock{Class: classify.ClassLeftAngle}
	dx := mark.Anchor.X - int(mark.BBox.MinX)
	dy := mark.Anchor.Y - int(mark.BBox.MinY)
	for _, bb := range bases {
		block.Proposals = append(block.Proposals, Proposal{
			Base: bb.Base,
			X:    int(bb.BBox.MaxX) + dx + cfg.Clearance3X,
			Y:    cfg.refY(bb.Base, bb.BBox) + dy + cfg.Clearance3Y,
		})
	}
	return block
}

// MarkGeometryOf reads the anchor of a mark from the font's MarkToBase
// lookups and measures its outline.
func MarkGeometryOf(insp *inspect.Inspector, mark rune) (MarkGeometry, error) {
	h := insp.Font()
	gid, ok := h.GlyphIndex(mark)
	if !ok {
		return MarkGeometry{}, core.Error(core.EMISSING,
			"font %s has no glyph for mark %s", h.Path, inspect.CodePoint(mark))
	}
	rec, ok := insp.MarkRecord(gid)
	if !ok {
		return MarkGeometry{}, core.Error(core.EMISSING,
			"font %s has no anchor for mark %s", h.Path, inspect.CodePoint(mark))
	}
	bbox, err := BoundsOf(h, mark)
	if err != nil {
		return MarkGeometry{}, err
	}
	return MarkGeometry{
		Anchor: inspect.Point{X: int(rec.Anchor.X), Y: int(rec.Anchor.Y)},
		BBox:   bbox,
	}, nil
}

// MeasureBases measures the bases present in the font. Bases without a
// glyph are skipped.
func MeasureBases(h *inspect.FontHandle, bases []rune) ([]BaseBox, error) {
	boxes := make([]BaseBox, 0, len(bases))
	for _, base := range bases {
		if _, ok := h.GlyphIndex(base); !ok {
			tracer().Infof("font %s has no glyph for %s, skipped", h.Name(), inspect.CodePoint(base))
			continue
		}
		bbox, err := BoundsOf(h, base)
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, BaseBox{Base: base, BBox: bbox})
	}
	return boxes, nil
}

// ProposeAnchors proposes class 3 and class 0 anchors for bases, in this
// order. The class 3 geometry of the mark is read from the font.
func ProposeAnchors(insp *inspect.Inspector, bases []rune, cfg AnchorConfig) ([]AnchorBlock, error) {
	boxes, err := MeasureBases(insp.Font(), bases)
	if err != nil {
		return nil, err
	}
	mark, err := MarkGeometryOf(insp, cfg.Mark3)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("mark %s: anchor %s, bbox %s", inspect.CodePoint(cfg.Mark3), mark.Anchor, mark.BBox)
	return []AnchorBlock{
		ProposeClass3(boxes, mark, cfg),
		ProposeClass0(boxes, cfg),
	}, nil
}

// WriteAnchors prints anchor blocks.
func WriteAnchors(w io.Writer, blocks []AnchorBlock) error {
	for _, block := range blocks {
		if _, err := io.WriteString(w, block.String()); err != nil {
			return core.WrapError(err, core.EIO, "cannot write anchors")
		}
	}
	return nil
}

// floorDiv divides, rounding towards negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
