package geometry

import (
	"bytes"
	"testing"

	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/core/font/opentype/ot/ottest"
	"github.com/elliottpearl/libertinus-analysis/engine/inspect"
	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHandle(t *testing.T, bytez []byte) *inspect.FontHandle {
	h, err := inspect.OpenFont("Sample-Regular.otf", bytez)
	require.NoError(t, err)
	return h
}

func TestPatchAnchors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	h := sampleHandle(t, ottest.Sample().Bytes())
	blocks := []AnchorBlock{
		{Class: 3, Proposals: []Proposal{{'e', 400, 650}, {'x', 300, 640}, {0x10FFFD, 1, 1}}},
		{Class: 0, Proposals: []Proposal{{'x', 260, 470}, {'a', 255, 465}}},
	}
	var out bytes.Buffer
	stats, err := PatchAnchors(&out, h, -1, blocks)
	require.NoError(t, err)
	assert.Equal(t, PatchStats{Lookup: 1, Added: 3, Updated: 1, Skipped: 1}, stats)
	assert.Equal(t, ottest.Sample().Bytes(), h.Binary, "input font is not modified")
	//
	patched := sampleHandle(t, out.Bytes())
	opts := inspect.DefaultOptions()
	opts.LookupIndex = 1
	insp, err := inspect.NewInspector(patched, opts)
	require.NoError(t, err)
	pairs := []inspect.Pair{{Base: 'e', Mark: 0x031A}, {Base: 'x', Mark: 0x0300}, {Base: 'a', Mark: 0x0300}}
	expected := []inspect.Point{{X: 700, Y: 170}, {X: 490, Y: 10}, {X: 485, Y: 5}}
	for i, r := range insp.Inspect(pairs) {
		require.True(t, r.Resolved(), "pair %v", pairs[i])
		assert.Equal(t, expected[i], r.Offset, "pair %v", pairs[i])
	}
	// pairs not touched by the patch keep their offsets
	untouched := []inspect.Pair{{Base: 'o', Mark: 0x0300}, {Base: 'e', Mark: 0x0323},
		{Base: 'o', Mark: 0x0326}, {Base: 0x0300, Mark: 0x0301}, {Base: 'e', Mark: 0x031B}}
	before, err := inspect.NewInspector(h, inspect.DefaultOptions())
	require.NoError(t, err)
	after, err := inspect.NewInspector(patched, inspect.DefaultOptions())
	require.NoError(t, err)
	if diff := cmp.Diff(before.Inspect(untouched), after.Inspect(untouched)); diff != "" {
		t.Errorf("patch changed untouched pairs (-before +after):\n%s", diff)
	}
}

func TestPatchAnchorsErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.engine")
	defer teardown()
	//
	h := sampleHandle(t, ottest.Sample().Bytes())
	block := []AnchorBlock{{Class: 0, Proposals: []Proposal{{'a', 255, 465}}}}
	for _, inx := range []int{0, 3, 99} {
		var out bytes.Buffer
		_, err := PatchAnchors(&out, h, inx, block)
		assert.Equal(t, core.EINVALID, core.Code(err), "lookup %d", inx)
		assert.Zero(t, out.Len(), "lookup %d", inx)
	}
	var out bytes.Buffer
	_, err := PatchAnchors(&out, h, 1, []AnchorBlock{{Class: 4, Proposals: []Proposal{{'a', 1, 1}}}})
	assert.Equal(t, core.EINVALID, core.Code(err))
	assert.Contains(t, core.UserMessage(err), "no anchor class 4")
	//
	f := ottest.Sample()
	f.GPos = nil
	f.Features = nil
	_, err = PatchAnchors(&out, sampleHandle(t, f.Bytes()), -1, block)
	assert.Equal(t, core.EINVALID, core.Code(err))
	assert.Contains(t, core.UserMessage(err), "no GPOS table")
	assert.Zero(t, out.Len())
}

func TestPatchedName(t *testing.T) {
	assert.Equal(t, "LibertinusSerif-Regular-patch.otf", PatchedName("LibertinusSerif-Regular.otf"))
	assert.Equal(t, "fonts/Sample-patch", PatchedName("fonts/Sample"))
}
