package inspect

import (
	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/otquery"
)

// Options control the search for anchors.
type Options struct {
	// LookupIndex selects a single curated MarkToBase lookup. If negative,
	// all MarkToBase lookups are searched in lookup list order.
	LookupIndex int
	// NoMarkToMark disables the fallback to MarkToMark lookups for pairs
	// not covered by any MarkToBase lookup.
	NoMarkToMark bool
}

// DefaultOptions searches all mark attachment lookups.
func DefaultOptions() Options {
	return Options{LookupIndex: -1}
}

// Inspector inspects pairs for a single font.
type Inspector struct {
	font       *FontHandle
	markToBase []*ot.Lookup
	markToMark []*ot.Lookup
}

// NewInspector creates an inspector for an opened font.
//
// If opts selects a curated lookup, it has to exist and be a MarkToBase
// lookup, otherwise a core.EINVALID error naming the font is returned.
// A font without GPOS table is fine; every pair will be unresolved.
func NewInspector(h *FontHandle, opts Options) (*Inspector, error) {
	insp := &Inspector{font: h}
	gpos := h.OT.Layout.GPos
	if gpos == nil {
		tracer().Infof("font %s has no GPOS table", h.Name())
		return insp, nil
	}
	if opts.LookupIndex >= 0 {
		lookup := gpos.LookupList.Navigate(opts.LookupIndex)
		if lookup == nil || lookup.EffectiveType() != ot.GPosLookupTypeMarkToBase {
			return nil, core.Error(core.EINVALID,
				"font %s: GPOS lookup %d is not a MarkToBase lookup", h.Path, opts.LookupIndex)
		}
		insp.markToBase = []*ot.Lookup{lookup}
	} else {
		insp.markToBase = navigateAll(gpos, otquery.MarkAttachmentLookups(h.OT, ot.GPosLookupTypeMarkToBase))
	}
	if !opts.NoMarkToMark {
		insp.markToMark = navigateAll(gpos, otquery.MarkAttachmentLookups(h.OT, ot.GPosLookupTypeMarkToMark))
	}
	tracer().Debugf("inspector for %s uses %d MarkToBase and %d MarkToMark lookups",
		h.Name(), len(insp.markToBase), len(insp.markToMark))
	return insp, nil
}

func navigateAll(gpos *ot.GPosTable, inxs []int) []*ot.Lookup {
	lookups := make([]*ot.Lookup, 0, len(inxs))
	for _, inx := range inxs {
		lookup := gpos.LookupList.Navigate(inx)
		if lookup.Err != nil {
			tracer().Infof("lookup %d is damaged: %v", inx, lookup.Err)
		}
		lookups = append(lookups, lookup)
	}
	return lookups
}

// Font returns the font this inspector operates on.
func (insp *Inspector) Font() *FontHandle {
	return insp.font
}

// MarkRecord returns the mark class and anchor of a mark glyph, as found in
// the first MarkToBase lookup covering it.
func (insp *Inspector) MarkRecord(mark ot.GlyphIndex) (ot.MarkRecord, bool) {
	for _, lookup := range insp.markToBase {
		for _, sub := range lookup.Subtables {
			if sub.MarkAttachment == nil {
				continue
			}
			if rec, ok := sub.MarkAttachment.MarkRecord(mark); ok {
				return rec, true
			}
		}
	}
	return ot.MarkRecord{}, false
}

// BaseAnchor returns the anchor of a base glyph for a mark class, as found
// in the first MarkToBase lookup providing one.
func (insp *Inspector) BaseAnchor(base ot.GlyphIndex, class int) (ot.Anchor, bool) {
	for _, lookup := range insp.markToBase {
		for _, sub := range lookup.Subtables {
			if sub.MarkAttachment == nil {
				continue
			}
			if a, ok := sub.MarkAttachment.BaseAnchor(base, class); ok {
				return a, true
			}
		}
	}
	return ot.Anchor{}, false
}

// Inspect produces one report per pair, in the order of pairs.
func (insp *Inspector) Inspect(pairs []Pair) []Report {
	reports := make([]Report, len(pairs))
	for i, p := range pairs {
		reports[i] = insp.InspectPair(p)
	}
	return reports
}

// InspectPair inspects a single pair.
func (insp *Inspector) InspectPair(p Pair) Report {
	r := Report{
		Font:      insp.font.Name(),
		Base:      p.Base,
		Mark:      p.Mark,
		MarkClass: -1,
		Lookup:    -1,
	}
	var baseFound, markFound bool
	r.BaseGlyph, baseFound = insp.font.GlyphIndex(p.Base)
	r.MarkGlyph, markFound = insp.font.GlyphIndex(p.Mark)
	if !baseFound || !markFound {
		r.Status = GlyphNotFound
		return r
	}
	if insp.attach(&r, insp.markToBase) {
		return r
	}
	if insp.attach(&r, insp.markToMark) {
		tracer().Debugf("%v attached by MarkToMark lookup %d", p, r.Lookup)
	}
	return r
}

// attach searches lookups for anchors of a pair, filling r. It returns true
// if any of the lookups covers both glyphs of the pair, i.e. if searching
// further lookup types is pointless. The first lookup having anchors for
// both glyphs wins. If no lookup has, r receives the mark information of
// the first lookup covering the mark.
func (insp *Inspector) attach(r *Report, lookups []*ot.Lookup) bool {
	covered := false
	for _, lookup := range lookups {
		for _, sub := range lookup.Subtables {
			ma := sub.MarkAttachment
			if ma == nil {
				continue
			}
			rec, ok := ma.MarkRecord(r.MarkGlyph)
			if !ok {
				continue
			}
			if r.MarkAnchor == nil {
				r.MarkAnchor = pointFromAnchor(rec.Anchor)
				r.MarkClass = rec.Class
				r.Lookup = lookup.Index
			}
			if _, ok := ma.BaseAnchors(r.BaseGlyph); !ok {
				continue
			}
			covered = true
			base, ok := ma.BaseAnchor(r.BaseGlyph, rec.Class)
			if !ok {
				tracer().Debugf("glyph %d has no anchor for mark class %d in lookup %d",
					r.BaseGlyph, rec.Class, lookup.Index)
				continue
			}
			r.MarkAnchor = pointFromAnchor(rec.Anchor)
			r.MarkClass = rec.Class
			r.BaseAnchor = pointFromAnchor(base)
			r.Lookup = lookup.Index
			r.Offset = Point{
				X: r.BaseAnchor.X - r.MarkAnchor.X,
				Y: r.BaseAnchor.Y - r.MarkAnchor.Y,
			}
			r.Status = Resolved
			return true
		}
	}
	return covered
}

// InspectFile opens a font and inspects all pairs. If the font cannot be
// opened, the error names the path and no reports are returned.
func InspectFile(path string, pairs []Pair, opts Options) ([]Report, error) {
	h, err := Open(path)
	if err != nil {
		return nil, err
	}
	insp, err := NewInspector(h, opts)
	if err != nil {
		return nil, err
	}
	return insp.Inspect(pairs), nil
}
