/*
Package ottest builds small OpenType font binaries for tests.

The fonts built here contain no outlines. They carry just enough of the
required tables to be accepted by package ot, plus GPOS, GDEF and GSUB
tables describing mark attachment. Sample returns a font modelled after
the situation found in the Libertinus fonts: curated MarkToBase anchors,
a second MarkToBase lookup wrapped in an extension subtable, and a
MarkToMark lookup.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package ottest

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/encoding/unicode"
)

// Anchor is an anchor point in design units.
type Anchor struct {
	X, Y int16
}

// A returns a pointer to an anchor, for use in Base.Anchors.
func A(x, y int16) *Anchor {
	return &Anchor{X: x, Y: y}
}

// Mark is a mark glyph with its class and anchor.
type Mark struct {
	Glyph  uint16
	Class  uint16
	Anchor Anchor
}

// Base is a base glyph with one anchor per mark class. Nil anchors denote
// classes the base cannot attach.
type Base struct {
	Glyph   uint16
	Anchors []*Anchor
}

// Lookup types the builder supports
const (
	SinglePos  = 1
	MarkToBase = 4
	MarkToMark = 6
)

// Lookup is a GPOS lookup with a single subtable.
type Lookup struct {
	Type       uint16 // SinglePos, MarkToBase or MarkToMark
	Extension  bool   // wrap the subtable into an extension subtable
	ClassCount int
	Marks      []Mark
	Bases      []Base
	Coverage   []uint16 // for SinglePos
}

// Feature references lookups by index.
type Feature struct {
	Tag     string
	Lookups []uint16
}

// Font describes a synthetic font.
type Font struct {
	Family       string
	Subfamily    string
	UnitsPerEm   uint16
	NumGlyphs    int
	CMap         map[rune]uint16 // BMP only
	GPos         []Lookup        // no GPOS table if empty
	Features     []Feature       // GPOS features
	GlyphClasses map[uint16]uint16
	Substituted  []uint16 // glyphs covered by a GSUB single substitution in feature 'ccmp'
}

// Glyph IDs of the sample font.
const (
	GidA          = 10 // a
	GidE          = 11 // e
	GidX          = 12 // x, no anchors at all
	GidO          = 13 // o
	GidGrave      = 20 // U+0300, class 0
	GidAcute      = 21 // U+0301, class 0
	GidDotBelow   = 22 // U+0323, class 2
	GidCommaBelow = 23 // U+0326, anchored in the extension lookup only
	GidHorn       = 24 // U+031B, class 1
	GidLeftAngle  = 25 // U+031A, class 3
)

// Sample returns a font modelled after the Libertinus situation.
//
// Lookup 0 is a single adjustment, lookup 1 is the curated MarkToBase
// lookup, lookup 2 is a MarkToBase lookup wrapped in an extension subtable
// and lookup 3 is a MarkToMark lookup.
func Sample() *Font {
	return &Font{
		Family:     "Sample Serif",
		Subfamily:  "Regular",
		UnitsPerEm: 1000,
		NumGlyphs:  30,
		CMap: map[rune]uint16{
			'a': GidA, 'e': GidE, 'x': GidX, 'o': GidO,
			0x0300: GidGrave, 0x0301: GidAcute, 0x0323: GidDotBelow,
			0x0326: GidCommaBelow, 0x031B: GidHorn, 0x031A: GidLeftAngle,
		},
		GPos: []Lookup{
			{Type: SinglePos, Coverage: []uint16{GidA}},
			{Type: MarkToBase, ClassCount: 4,
				Marks: []Mark{
					{GidGrave, 0, Anchor{-230, 460}},
					{GidAcute, 0, Anchor{-250, 460}},
					{GidDotBelow, 2, Anchor{-250, 0}},
					{GidHorn, 1, Anchor{-60, 420}},
					{GidLeftAngle, 3, Anchor{-300, 480}},
				},
				Bases: []Base{
					{GidA, []*Anchor{A(250, 460), A(470, 400), A(250, -10), A(20, 600)}},
					{GidE, []*Anchor{A(262, 460), nil, A(262, -10), nil}},
					{GidO, []*Anchor{A(280, 460), nil, nil, nil}},
				},
			},
			{Type: MarkToBase, Extension: true, ClassCount: 1,
				Marks: []Mark{{GidCommaBelow, 0, Anchor{-240, 0}}},
				Bases: []Base{{GidO, []*Anchor{A(280, -20)}}},
			},
			{Type: MarkToMark, ClassCount: 1,
				Marks: []Mark{{GidAcute, 0, Anchor{-250, 460}}},
				Bases: []Base{{GidGrave, []*Anchor{A(-230, 700)}}},
			},
		},
		Features: []Feature{
			{"kern", []uint16{0}},
			{"mark", []uint16{1, 2}},
			{"mkmk", []uint16{3}},
		},
		GlyphClasses: map[uint16]uint16{
			GidA: 1, GidE: 1, GidX: 1, GidO: 1,
			GidGrave: 3, GidAcute: 3, GidDotBelow: 3, GidCommaBelow: 3, GidHorn: 3, GidLeftAngle: 3,
		},
		Substituted: []uint16{GidX},
	}
}

// Bytes serializes the font.
func (f *Font) Bytes() []byte {
	tables := map[string][]byte{
		"cmap": f.cmap(),
		"head": f.head(),
		"hhea": f.hhea(),
		"hmtx": f.hmtx(),
		"maxp": f.maxp(),
		"name": f.name(),
		"OS/2": make([]byte, 96),
		"post": f.post(),
	}
	if len(f.GPos) > 0 {
		tables["GPOS"] = f.gpos()
	}
	if len(f.GlyphClasses) > 0 {
		tables["GDEF"] = f.gdef()
	}
	if len(f.Substituted) > 0 {
		tables["GSUB"] = f.gsub()
	}
	return assemble(tables)
}

// WriteFile serializes the font to a file named name in directory dir and
// returns the path of the file.
func (f *Font) WriteFile(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, f.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// assemble writes the table directory followed by the tables, 4-byte aligned.
func assemble(tables map[string][]byte) []byte {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	w := &buf{}
	w.u32(0x00010000)
	w.u16(uint16(len(tags)))
	w.u16(0)
	w.u16(0)
	w.u16(0)
	offset := 12 + 16*len(tags)
	for _, tag := range tags {
		w.raw([]byte(tag))
		w.u32(0) // checksum
		w.u32(uint32(offset))
		w.u32(uint32(len(tables[tag])))
		offset += padded(len(tables[tag]))
	}
	for _, tag := range tags {
		w.raw(tables[tag])
		w.pad()
	}
	return w.b
}

func padded(n int) int {
	return (n + 3) &^ 3
}

// --- Required tables -------------------------------------------------------

func (f *Font) head() []byte {
	w := &buf{}
	w.u32(0x00010000) // version
	w.u32(0x00010000) // font revision
	w.u32(0)          // checksum adjustment
	w.u32(0x5F0F3CF5) // magic
	w.u16(0)          // flags
	w.u16(f.UnitsPerEm)
	w.raw(make([]byte, 16)) // created, modified
	w.i16(0)                // xMin
	w.i16(-200)             // yMin
	w.i16(int16(f.UnitsPerEm))
	w.i16(800)
	w.u16(0) // mac style
	w.u16(8) // lowest rec PPEM
	w.i16(2) // font direction hint
	w.u16(0) // index to loc format
	w.u16(0) // glyph data format
	return w.b
}

func (f *Font) hhea() []byte {
	w := &buf{}
	w.u32(0x00010000)
	w.i16(800)  // ascender
	w.i16(-200) // descender
	w.i16(0)    // line gap
	w.raw(make([]byte, 24))
	w.u16(uint16(f.NumGlyphs))
	return w.b
}

func (f *Font) hmtx() []byte {
	w := &buf{}
	for g := 0; g < f.NumGlyphs; g++ {
		w.u16(600)
		w.i16(50)
	}
	return w.b
}

func (f *Font) maxp() []byte {
	w := &buf{}
	w.u32(0x00005000)
	w.u16(uint16(f.NumGlyphs))
	return w.b
}

func (f *Font) post() []byte {
	w := &buf{}
	w.u32(0x00030000)
	w.raw(make([]byte, 28))
	return w.b
}

func (f *Font) name() []byte {
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	entries := []struct {
		id uint16
		s  string
	}{
		{1, f.Family},
		{2, f.Subfamily},
		{4, f.Family + " " + f.Subfamily},
	}
	var strs []byte
	w := &buf{}
	w.u16(0)
	w.u16(uint16(len(entries)))
	w.u16(uint16(6 + 12*len(entries)))
	for _, e := range entries {
		s, _ := enc.Bytes([]byte(e.s))
		w.u16(3)
		w.u16(1)
		w.u16(0x409)
		w.u16(e.id)
		w.u16(uint16(len(s)))
		w.u16(uint16(len(strs)))
		strs = append(strs, s...)
	}
	w.raw(strs)
	return w.b
}

// cmap writes a single format 4 subtable with one segment per code-point.
func (f *Font) cmap() []byte {
	cps := make([]int, 0, len(f.CMap))
	for r := range f.CMap {
		if r < 0xffff {
			cps = append(cps, int(r))
		}
	}
	sort.Ints(cps)
	n := len(cps) + 1 // final segment 0xFFFF
	sub := &buf{}
	sub.u16(4)
	sub.u16(uint16(16 + 8*n))
	sub.u16(0)
	sub.u16(uint16(2 * n))
	sub.u16(0) // searchRange and friends are not checked
	sub.u16(0)
	sub.u16(0)
	for _, c := range cps {
		sub.u16(uint16(c))
	}
	sub.u16(0xffff)
	sub.u16(0) // reserved pad
	for _, c := range cps {
		sub.u16(uint16(c))
	}
	sub.u16(0xffff)
	for _, c := range cps {
		sub.u16(f.CMap[rune(c)] - uint16(c))
	}
	sub.u16(1)
	for i := 0; i < n; i++ {
		sub.u16(0)
	}
	w := &buf{}
	w.u16(0)
	w.u16(1)
	w.u16(3)
	w.u16(1)
	w.u32(12)
	w.raw(sub.b)
	return w.b
}

// --- Layout tables ---------------------------------------------------------

func (f *Font) gpos() []byte {
	lookups := make([][]byte, len(f.GPos))
	for i, l := range f.GPos {
		var sub []byte
		switch l.Type {
		case SinglePos:
			sub = singlePos(l.Coverage)
		default:
			sub = markAttachment(l)
		}
		lookups[i] = lookup(l.Type, 9, l.Extension, sub)
	}
	return layoutTable(f.Features, lookups)
}

func (f *Font) gsub() []byte {
	w := &buf{}
	w.u16(1)
	w.u16(6)
	w.i16(1) // delta glyph ID
	w.raw(coverage(f.Substituted))
	feats := []Feature{{"ccmp", []uint16{0}}}
	return layoutTable(feats, [][]byte{lookup(1, 7, false, w.b)})
}

func (f *Font) gdef() []byte {
	glyphs := make([]int, 0, len(f.GlyphClasses))
	for g := range f.GlyphClasses {
		glyphs = append(glyphs, int(g))
	}
	sort.Ints(glyphs)
	w := &buf{}
	w.u32(0x00010000)
	w.u16(12) // glyph class def
	w.u16(0)
	w.u16(0)
	w.u16(0)
	w.u16(2) // ClassDef format 2
	w.u16(uint16(len(glyphs)))
	for _, g := range glyphs {
		w.u16(uint16(g))
		w.u16(uint16(g))
		w.u16(f.GlyphClasses[uint16(g)])
	}
	return w.b
}

func layoutTable(features []Feature, lookups [][]byte) []byte {
	scripts := []byte{0, 0}
	fl := &buf{}
	fl.u16(uint16(len(features)))
	off := 2 + 6*len(features)
	for _, feat := range features {
		fl.raw([]byte((feat.Tag + "    ")[:4]))
		fl.u16(uint16(off))
		off += 4 + 2*len(feat.Lookups)
	}
	for _, feat := range features {
		fl.u16(0)
		fl.u16(uint16(len(feat.Lookups)))
		for _, inx := range feat.Lookups {
			fl.u16(inx)
		}
	}
	ll := &buf{}
	ll.u16(uint16(len(lookups)))
	off = 2 + 2*len(lookups)
	for _, l := range lookups {
		ll.u16(uint16(off))
		off += len(l)
	}
	for _, l := range lookups {
		ll.raw(l)
	}
	w := &buf{}
	w.u32(0x00010000)
	w.u16(10)
	w.u16(uint16(10 + len(scripts)))
	w.u16(uint16(10 + len(scripts) + len(fl.b)))
	w.raw(scripts)
	w.raw(fl.b)
	w.raw(ll.b)
	return w.b
}

func lookup(typ, extType uint16, extension bool, sub []byte) []byte {
	if extension {
		ext := &buf{}
		ext.u16(1)
		ext.u16(typ)
		ext.u32(8)
		ext.raw(sub)
		sub, typ = ext.b, extType
	}
	w := &buf{}
	w.u16(typ)
	w.u16(0)
	w.u16(1)
	w.u16(8)
	w.raw(sub)
	return w.b
}

func singlePos(glyphs []uint16) []byte {
	w := &buf{}
	w.u16(1)
	w.u16(6)
	w.u16(0) // value format: no value record
	w.raw(coverage(glyphs))
	return w.b
}

func markAttachment(l Lookup) []byte {
	marks := append([]Mark(nil), l.Marks...)
	sort.Slice(marks, func(i, j int) bool { return marks[i].Glyph < marks[j].Glyph })
	bases := append([]Base(nil), l.Bases...)
	sort.Slice(bases, func(i, j int) bool { return bases[i].Glyph < bases[j].Glyph })
	markGlyphs := make([]uint16, len(marks))
	for i, m := range marks {
		markGlyphs[i] = m.Glyph
	}
	baseGlyphs := make([]uint16, len(bases))
	for i, b := range bases {
		baseGlyphs[i] = b.Glyph
	}
	markCov, baseCov := coverage(markGlyphs), coverage(baseGlyphs)
	// mark array
	ma := &buf{}
	ma.u16(uint16(len(marks)))
	for i, m := range marks {
		ma.u16(m.Class)
		ma.u16(uint16(2 + 4*len(marks) + 6*i))
	}
	for _, m := range marks {
		ma.anchor(m.Anchor)
	}
	// base array
	cc := l.ClassCount
	ba := &buf{}
	ba.u16(uint16(len(bases)))
	off := 2 + 2*cc*len(bases)
	for _, b := range bases {
		for c := 0; c < cc; c++ {
			if c < len(b.Anchors) && b.Anchors[c] != nil {
				ba.u16(uint16(off))
				off += 6
			} else {
				ba.u16(0)
			}
		}
	}
	for _, b := range bases {
		for c := 0; c < cc; c++ {
			if c < len(b.Anchors) && b.Anchors[c] != nil {
				ba.anchor(*b.Anchors[c])
			}
		}
	}
	w := &buf{}
	mc := 12
	bc := mc + len(markCov)
	mo := bc + len(baseCov)
	bo := mo + len(ma.b)
	w.u16(1)
	w.u16(uint16(mc))
	w.u16(uint16(bc))
	w.u16(uint16(cc))
	w.u16(uint16(mo))
	w.u16(uint16(bo))
	w.raw(markCov)
	w.raw(baseCov)
	w.raw(ma.b)
	w.raw(ba.b)
	return w.b
}

func coverage(glyphs []uint16) []byte {
	w := &buf{}
	w.u16(1)
	w.u16(uint16(len(glyphs)))
	for _, g := range glyphs {
		w.u16(g)
	}
	return w.b
}

// --- Byte buffer -----------------------------------------------------------

type buf struct {
	b []byte
}

func (w *buf) u16(v uint16) {
	w.b = binary.BigEndian.AppendUint16(w.b, v)
}

func (w *buf) i16(v int16) {
	w.u16(uint16(v))
}

func (w *buf) u32(v uint32) {
	w.b = binary.BigEndian.AppendUint32(w.b, v)
}

func (w *buf) raw(p []byte) {
	w.b = append(w.b, p...)
}

func (w *buf) pad() {
	for len(w.b)%4 != 0 {
		w.b = append(w.b, 0)
	}
}

func (w *buf) anchor(a Anchor) {
	w.u16(1)
	w.i16(a.X)
	w.i16(a.Y)
}
