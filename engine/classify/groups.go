package classify

import (
	"sort"

	"github.com/elliottpearl/libertinus-analysis/core"
)

// Group is a named, ordered list of code-points.
type Group struct {
	Key   string
	Label string
	Items []rune
}

// Anchor classes of the curated MarkToBase lookups of the Libertinus fonts.
const (
	ClassAboveCenter = 0 // acute, grave, circumflex, …
	ClassAboveRight  = 1 // comma above right
	ClassBelow       = 2
	ClassLeftAngle   = 3 // left angle above
)

// Superscript consonants used as bases in IPA (modifier letters).
var superscriptConsonants = []rune{
	0x02B0, // ʰ
	0x02B2, // ʲ
	0x02B3, // ʳ
	0x02B7, // ʷ
	0x02B8, // ʸ
	0x02E1, // ˡ
	0x02E2, // ˢ
	0x02E3, // ˣ
	0x1D47, // ᵇ
	0x1D50, // ᵐ
	0x1D56, // ᵖ
}

var groups = []Group{
	{"BASE_COMMON", "Common bases", []rune("aeiouycgnszAEIOU")},
	{"latin", "Latin", []rune("abcdefghijklmnopqrstuvwxyz")},
	{"ipa", "IPA letters", []rune("ɐɑɒæəɛɜɪɔʊʌɯɤøœʏŋɲɳɖʈʃʒθðɹɾɽʔχʁɣβɸɬɮʎʟɫ")},
	{"superscript_consonant", "Superscript consonants", superscriptConsonants},
	{"MARK_COMMON", "Common marks", []rune{
		0x0300, 0x0301, 0x0302, 0x0303, 0x0304, 0x0306, 0x0307,
		0x0308, 0x030A, 0x030B, 0x030C, 0x0323, 0x0327, 0x0328,
	}},
	{"above", "Marks above", []rune{
		0x0300, 0x0301, 0x0302, 0x0303, 0x0304, 0x0306, 0x0307, 0x0308,
		0x030A, 0x030B, 0x030C, 0x030D, 0x0311, 0x0315, 0x031A, 0x033D,
	}},
	{"below", "Marks below", []rune{
		0x0318, 0x0319, 0x031C, 0x031D, 0x031E, 0x031F, 0x0320, 0x0323,
		0x0324, 0x0325, 0x0326, 0x0327, 0x0328, 0x0329, 0x032A, 0x032C,
		0x032F, 0x0330, 0x0331, 0x0339, 0x033A, 0x033B,
	}},
}

// Groups returns all Unicode groups in a fixed order.
func Groups() []Group {
	gg := make([]Group, len(groups))
	copy(gg, groups)
	return gg
}

// GroupByKey finds a Unicode group.
func GroupByKey(key string) (Group, bool) {
	for _, g := range groups {
		if g.Key == key {
			return g, true
		}
	}
	return Group{}, false
}

// SelectGroups finds Unicode groups by key, keeping the order of keys.
// Unknown keys result in a core.EUSAGE error.
func SelectGroups(keys ...string) ([]Group, error) {
	gg := make([]Group, 0, len(keys))
	for _, key := range keys {
		g, ok := GroupByKey(key)
		if !ok {
			return nil, core.Error(core.EUSAGE, "no Unicode group %q", key)
		}
		gg = append(gg, g)
	}
	return gg, nil
}

// MarkClassIndex maps a combining mark to the anchor class it uses in the
// curated MarkToBase lookups.
var MarkClassIndex = map[rune]int{
	0x0300: ClassAboveCenter, 0x0301: ClassAboveCenter, 0x0302: ClassAboveCenter,
	0x0303: ClassAboveCenter, 0x0304: ClassAboveCenter, 0x0306: ClassAboveCenter,
	0x0307: ClassAboveCenter, 0x0308: ClassAboveCenter, 0x030A: ClassAboveCenter,
	0x030B: ClassAboveCenter, 0x030C: ClassAboveCenter, 0x030D: ClassAboveCenter,
	0x0311: ClassAboveCenter, 0x033D: ClassAboveCenter,
	0x0315: ClassAboveRight,
	0x0318: ClassBelow, 0x0319: ClassBelow, 0x031C: ClassBelow, 0x031D: ClassBelow,
	0x031E: ClassBelow, 0x031F: ClassBelow, 0x0320: ClassBelow, 0x0323: ClassBelow,
	0x0324: ClassBelow, 0x0325: ClassBelow, 0x0326: ClassBelow, 0x0329: ClassBelow,
	0x032A: ClassBelow, 0x032C: ClassBelow, 0x032F: ClassBelow, 0x0330: ClassBelow,
	0x0331: ClassBelow, 0x0339: ClassBelow, 0x033A: ClassBelow, 0x033B: ClassBelow,
	0x031A: ClassLeftAngle,
}

// MarkClass returns the curated anchor class of a mark, or -1.
func MarkClass(mark rune) int {
	if c, ok := MarkClassIndex[mark]; ok {
		return c
	}
	return -1
}

// IPADiacriticBases maps IPA diacritics to the bases they are used with in
// IPA notation.
var IPADiacriticBases = map[rune][]rune{
	0x0303: []rune("aeiouɛɔæɑ"),     // nasalized
	0x0304: []rune("aeiouə"),        // mid level tone
	0x0306: []rune("eəaiu"),         // extra-short
	0x0308: []rune("eouaɪ"),         // centralized
	0x030A: []rune("ŋɲɡj"),          // voiceless (above descenders)
	0x030D: []rune("ŋ"),             // syllabic (above descenders)
	0x031A: []rune("ptkbdg"),        // no audible release
	0x0318: []rune("eoaiu"),         // advanced tongue root
	0x0319: []rune("eoaiu"),         // retracted tongue root
	0x031C: []rune("ɔouy"),          // less rounded
	0x031D: []rune("eoɛɔɹβ"),        // raised
	0x031E: []rune("eoɛɔβ"),         // lowered
	0x031F: []rune("uaekɡ"),         // advanced
	0x0320: []rune("ieakɡ"),         // retracted
	0x0324: []rune("bdgao"),         // breathy voiced
	0x0325: []rune("nmŋlrjwɹbdgvz"), // voiceless
	0x0329: []rune("nmlrɹ"),         // syllabic
	0x032A: []rune("tdnlsz"),        // dental
	0x032C: []rune("stpkh"),         // voiced
	0x032F: []rune("iueoy"),         // non-syllabic
	0x0330: []rune("aeioubdmn"),     // creaky voiced
	0x0339: []rune("ɔou"),           // more rounded
	0x033A: []rune("tdnl"),          // apical
	0x033B: []rune("tdnsz"),         // laminal
	0x033D: []rune("eoaɔ"),          // mid-centralized
}

// IPAMarks returns the marks of IPADiacriticBases in ascending order.
func IPAMarks() []rune {
	marks := make([]rune, 0, len(IPADiacriticBases))
	for m := range IPADiacriticBases {
		marks = append(marks, m)
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i] < marks[j] })
	return marks
}

// IPASupported is true if base+mark is used in IPA notation.
func IPASupported(base, mark rune) bool {
	for _, b := range IPADiacriticBases[mark] {
		if b == base {
			return true
		}
	}
	return false
}
