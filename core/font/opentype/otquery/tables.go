package otquery

import (
	"os"
	"sort"

	"github.com/elliottpearl/libertinus-analysis/core"
	"seehuhn.de/go/sfnt/header"
)

// TableRecord is an entry of a font file's table directory.
type TableRecord struct {
	Tag    string
	Offset uint32
	Length uint32
}

// TableDirectory reads the table directory of a font file, without parsing
// any table. It returns the scaler type ("TrueType", "CFF", …) and the table
// records, sorted by offset.
func TableDirectory(fontfile string) (string, []TableRecord, error) {
	fd, err := os.Open(fontfile)
	if err != nil {
		return "", nil, core.WrapError(err, core.EMISSING, "cannot open font file %s", fontfile)
	}
	defer fd.Close()
	info, err := header.Read(fd)
	if err != nil {
		return "", nil, core.WrapError(err, core.EINVALID, "cannot read table directory of %s", fontfile)
	}
	var fontType string
	switch info.ScalerType {
	case header.ScalerTypeTrueType:
		fontType = "TrueType"
	case header.ScalerTypeCFF:
		fontType = "CFF"
	case header.ScalerTypeApple:
		fontType = "TrueType (Apple)"
	default:
		fontType = "<unknown>"
	}
	recs := make([]TableRecord, 0, len(info.Toc))
	for name, rec := range info.Toc {
		recs = append(recs, TableRecord{Tag: name, Offset: rec.Offset, Length: rec.Length})
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Offset == recs[j].Offset {
			return recs[i].Tag < recs[j].Tag
		}
		return recs[i].Offset < recs[j].Offset
	})
	return fontType, recs, nil
}
