package otquery

import (
	"sort"

	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot"
)

// LookupInfo summarizes a layout lookup.
type LookupInfo struct {
	Index     int
	Type      string   // effective type, e.g. "MarkToBase"
	Extension bool     // wrapped in extension subtables
	Subtables int      // number of subtables parsed without errors
	Features  []string // tags of features referencing this lookup, sorted
	Marks     int      // number of covered marks, for mark attachment lookups
	Bases     int      // number of covered bases (or marks, for MarkToMark)
	Err       error
}

// GPosLookups lists all GPOS lookups of a font, in lookup list order.
// Fonts without GPOS result in an empty list.
func GPosLookups(otf *ot.Font) []LookupInfo {
	gpos := otf.Layout.GPos
	if gpos == nil {
		return nil
	}
	return lookupInfos(&gpos.LayoutTable)
}

// GSubLookups lists all GSUB lookups of a font, in lookup list order.
func GSubLookups(otf *ot.Font) []LookupInfo {
	gsub := otf.Layout.GSub
	if gsub == nil {
		return nil
	}
	return lookupInfos(&gsub.LayoutTable)
}

func lookupInfos(lytt *ot.LayoutTable) []LookupInfo {
	features := make(map[int][]string)
	for _, f := range lytt.Features {
		for _, inx := range f.LookupIndices {
			features[inx] = append(features[inx], f.Tag.String())
		}
	}
	infos := make([]LookupInfo, lytt.LookupList.Len())
	for i := range infos {
		lookup := lytt.LookupList.Navigate(i)
		info := LookupInfo{
			Index:     i,
			Type:      lookup.TypeString(),
			Extension: lookup.EffectiveType() != lookup.Type,
			Subtables: len(lookup.Subtables),
			Features:  dedup(features[i]),
			Err:       lookup.Err,
		}
		for _, sub := range lookup.Subtables {
			if ma := sub.MarkAttachment; ma != nil {
				info.Marks += len(ma.Marks)
				info.Bases += len(ma.Bases)
			}
		}
		infos[i] = info
	}
	return infos
}

// MarkAttachmentLookups returns the indices of all GPOS lookups of a given
// effective type (usually MarkToBase or MarkToMark), in lookup list order.
func MarkAttachmentLookups(otf *ot.Font, typ ot.LayoutTableLookupType) []int {
	gpos := otf.Layout.GPos
	if gpos == nil {
		return nil
	}
	var inxs []int
	for i := 0; i < gpos.LookupList.Len(); i++ {
		if gpos.LookupList.Navigate(i).EffectiveType() == typ {
			inxs = append(inxs, i)
		}
	}
	return inxs
}

func dedup(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	sort.Strings(tags)
	out := tags[:1]
	for _, t := range tags[1:] {
		if t != out[len(out)-1] {
			out = append(out, t)
		}
	}
	return out
}
