package otquery

import (
	"testing"

	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot/ottest"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Preparation ------------------------------------------------

type InfoTestEnviron struct {
	suite.Suite
	otf *ot.Font
}

// listen for 'go test' command --> run test methods
func TestInfoFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.fonts")
	defer teardown()
	suite.Run(t, new(InfoTestEnviron))
}

// run once, before test suite methods
func (env *InfoTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	tracing.Select("libertinus.fonts").SetTraceLevel(tracing.LevelError)
	var err error
	env.otf, err = ot.Parse(ottest.Sample().Bytes())
	env.Require().NoError(err)
	tracing.Select("libertinus.fonts").SetTraceLevel(tracing.LevelInfo)
}

// --- Tests -----------------------------------------------------------------

func (env *InfoTestEnviron) TestFontTypeInfo() {
	fti := FontType(env.otf)
	env.Equal("TrueType", fti, "expected font type of test font to be TrueType")
}

func (env *InfoTestEnviron) TestGeneralInfo() {
	info := NameInfo(env.otf)
	env.T().Logf("info = %v", info)
	fam, ok := info["family"]
	env.Require().True(ok, "font familiy identifier not found in font info")
	env.Equal("Sample Serif", fam)
	env.Equal("Sample Serif Regular", info["fullname"])
	_, ok = info["version"]
	env.False(ok)
}

func (env *InfoTestEnviron) TestLayoutInfo() {
	layouts := LayoutTables(env.otf)
	env.T().Logf("test font layout tables: %v", layouts)
	env.Equal([]string{"GDEF", "GPOS", "GSUB"}, layouts)
}

func (env *InfoTestEnviron) TestReverseLookup() {
	r := CodePointForGlyph(env.otf, ottest.GidE)
	env.Equal('e', r, "expected code-point to be %#U, is %#U", 'e', r)
	env.Equal(rune(0), CodePointForGlyph(env.otf, 0))
	env.Equal([]rune{0x0301}, CodePointsByGlyph(env.otf)[ottest.GidAcute])
}

func (env *InfoTestEnviron) TestGlyphClasses() {
	clz := ClassesForGlyph(env.otf, ottest.GidA)
	env.Equal(1, clz.Class, "expected class of 'a' to be 1, is %d", clz.Class)
	env.True(IsMarkGlyph(env.otf, ottest.GidHorn))
	env.False(IsMarkGlyph(env.otf, ottest.GidO))
}

func (env *InfoTestEnviron) TestGPosLookups() {
	infos := GPosLookups(env.otf)
	env.Require().Len(infos, 4)
	env.Equal("Single", infos[0].Type)
	env.Equal([]string{"kern"}, infos[0].Features)
	env.Equal("MarkToBase", infos[2].Type)
	env.True(infos[2].Extension)
	env.Equal(1, infos[2].Marks)
	env.Equal(5, infos[1].Marks)
	env.Equal(3, infos[1].Bases)
	env.Equal([]string{"mkmk"}, infos[3].Features)
	env.Equal([]int{1, 2}, MarkAttachmentLookups(env.otf, ot.GPosLookupTypeMarkToBase))
	env.Equal([]int{3}, MarkAttachmentLookups(env.otf, ot.GPosLookupTypeMarkToMark))
	gsub := GSubLookups(env.otf)
	env.Require().Len(gsub, 1)
	env.Equal([]string{"ccmp"}, gsub[0].Features)
}
