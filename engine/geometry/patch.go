package geometry

import (
	"bytes"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/engine/inspect"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/header"
	"seehuhn.de/go/sfnt/opentype/anchor"
	"seehuhn.de/go/sfnt/opentype/coverage"
	"seehuhn.de/go/sfnt/opentype/gtab"
)

// gposMarkToBase is the GPOS lookup type of mark-to-base attachment.
const gposMarkToBase = 4

// PatchStats summarizes the changes of a patch.
type PatchStats struct {
	Lookup  int // index of the patched lookup
	Added   int // anchors added
	Updated int // anchors replaced
	Skipped int // proposals for bases missing from the font
}

// PatchAnchors writes a copy of the font of h to w, with the proposals of
// blocks installed as base anchors of a MarkToBase lookup. The lookup is
// the one with index lookupIndex, or the first MarkToBase lookup if
// lookupIndex is negative. Bases not yet covered by the lookup's first
// subtable are added to it.
//
// Only the GPOS table is re-encoded; all other tables are copied unchanged.
// The font of h is not modified.
func PatchAnchors(w io.Writer, h *inspect.FontHandle, lookupIndex int, blocks []AnchorBlock) (PatchStats, error) {
	stats := PatchStats{Lookup: -1}
	r := bytes.NewReader(h.Binary)
	dir, err := header.Read(r)
	if err != nil {
		return stats, core.WrapError(err, core.EINVALID, "font %s: cannot read table directory", h.Path)
	}
	if !dir.Has("GPOS") {
		return stats, core.Error(core.EINVALID, "font %s has no GPOS table", h.Path)
	}
	gposReader, err := dir.TableReader(r, "GPOS")
	if err != nil {
		return stats, core.WrapError(err, core.EINVALID, "font %s: cannot locate GPOS", h.Path)
	}
	gpos, err := gtab.Read(gposReader, gtab.TypeGpos)
	if err != nil {
		return stats, core.WrapError(err, core.EINVALID, "font %s: cannot decode GPOS", h.Path)
	}
	inx, sub, err := markToBaseSubtable(gpos, lookupIndex)
	if err != nil {
		return stats, core.WrapError(err, core.EINVALID, "font %s: %s", h.Path, core.UserMessage(err))
	}
	stats.Lookup = inx
	classCount := markClassCount(sub)
	rows := make(map[glyph.ID][]anchor.Table, len(sub.BaseCov))
	for gid, i := range sub.BaseCov {
		rows[gid] = append([]anchor.Table(nil), sub.BaseArray[i]...)
	}
	for _, block := range blocks {
		if block.Class < 0 || block.Class >= classCount {
			return stats, core.Error(core.EINVALID, "font %s: lookup %d has no anchor class %d",
				h.Path, inx, block.Class)
		}
		for _, p := range block.Proposals {
			gid, ok := h.GlyphIndex(p.Base)
			if !ok {
				tracer().Infof("patch: base %s not in font %s, skipped", inspect.CodePoint(p.Base), h.Name())
				stats.Skipped++
				continue
			}
			if p.X == 0 && p.Y == 0 {
				// an anchor at the origin encodes as "no anchor"
				tracer().Infof("patch: anchor (0, 0) for %s cannot be stored, skipped", inspect.CodePoint(p.Base))
				stats.Skipped++
				continue
			}
			row, ok := rows[glyph.ID(gid)]
			if !ok {
				row = make([]anchor.Table, classCount)
			}
			if row[block.Class].IsEmpty() {
				stats.Added++
			} else {
				stats.Updated++
			}
			row[block.Class] = anchor.Table{X: funit.Int16(p.X), Y: funit.Int16(p.Y)}
			rows[glyph.ID(gid)] = row
		}
	}
	// coverage indexes must increase with glyph IDs
	gids := make([]glyph.ID, 0, len(rows))
	for gid := range rows {
		gids = append(gids, gid)
	}
	sort.Slice(gids, func(i, j int) bool { return gids[i] < gids[j] })
	sub.BaseCov = make(coverage.Table, len(gids))
	sub.BaseArray = make([][]anchor.Table, len(gids))
	for i, gid := range gids {
		sub.BaseCov[gid] = i
		sub.BaseArray[i] = rows[gid]
	}
	tables := make(map[string][]byte, len(dir.Toc))
	for name := range dir.Toc {
		if tables[name], err = dir.ReadTableBytes(r, name); err != nil {
			return stats, core.WrapError(err, core.EINVALID, "font %s: cannot read table %s", h.Path, name)
		}
	}
	tables["GPOS"] = gpos.Encode()
	if _, err := header.Write(w, dir.ScalerType, tables); err != nil {
		return stats, core.WrapError(err, core.EIO, "cannot write patched font")
	}
	tracer().Infof("patched lookup %d of %s: %d added, %d updated, %d skipped",
		inx, h.Name(), stats.Added, stats.Updated, stats.Skipped)
	return stats, nil
}

func markToBaseSubtable(gpos *gtab.Info, lookupIndex int) (int, *gtab.Gpos4_1, error) {
	if lookupIndex >= len(gpos.LookupList) {
		return -1, nil, core.Error(core.EINVALID, "GPOS lookup %d does not exist", lookupIndex)
	}
	for i, lookup := range gpos.LookupList {
		if lookupIndex >= 0 && i != lookupIndex {
			continue
		}
		if lookup.Meta.LookupType != gposMarkToBase {
			if lookupIndex >= 0 {
				return -1, nil, core.Error(core.EINVALID, "GPOS lookup %d is not a MarkToBase lookup", i)
			}
			continue
		}
		for _, sub := range lookup.Subtables {
			if m2b, ok := sub.(*gtab.Gpos4_1); ok {
				return i, m2b, nil
			}
		}
	}
	return -1, nil, core.Error(core.EINVALID, "no MarkToBase subtable found")
}

func markClassCount(sub *gtab.Gpos4_1) int {
	if len(sub.BaseArray) > 0 {
		return len(sub.BaseArray[0])
	}
	n := 0
	for _, rec := range sub.MarkArray {
		if int(rec.Class) >= n {
			n = int(rec.Class) + 1
		}
	}
	return n
}

// PatchedName returns the file name of a patched font, e.g.
// "LibertinusSerif-Regular-patch.otf" for "LibertinusSerif-Regular.otf".
func PatchedName(fontfile string) string {
	ext := filepath.Ext(fontfile)
	return strings.TrimSuffix(fontfile, ext) + "-patch" + ext
}
