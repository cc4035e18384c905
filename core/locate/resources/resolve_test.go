package resources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/core/font/fontregistry"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func fontDir(t *testing.T) (string, *fontregistry.Registry) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Go-Regular.ttf"), goregular.TTF, 0644))
	reg := fontregistry.NewRegistry(dir)
	reg.Register(fontregistry.Entry{Key: "go", File: "Go-Regular.ttf", LookupIndex: -1,
		Label: "Go", Style: fontregistry.Regular})
	return dir, reg
}

func TestResolveExplicitPath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.fonts")
	defer teardown()
	//
	dir, reg := fontDir(t)
	path := filepath.Join(dir, "Go-Regular.ttf")
	res, err := ResolveFont(path, reg).Font()
	require.NoError(t, err)
	assert.Equal(t, path, res.Font.Filepath)
	assert.Equal(t, -1, res.Entry.LookupIndex)
	assert.Equal(t, "Go-Regular", res.Entry.Label)
}

func TestResolveMissingPathIsNamed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.fonts")
	defer teardown()
	//
	dir, reg := fontDir(t)
	path := filepath.Join(dir, "Missing-Regular.otf")
	_, err := ResolveFont(path, reg).Font()
	require.Error(t, err)
	assert.Equal(t, core.EMISSING, core.Code(err))
	assert.Contains(t, err.Error(), path)
}

func TestResolveRegistryKey(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.fonts")
	defer teardown()
	//
	dir, reg := fontDir(t)
	res, err := ResolveFont("go", reg).Font()
	require.NoError(t, err)
	assert.Equal(t, "go", res.Entry.Key)
	assert.Equal(t, filepath.Join(dir, "Go-Regular.ttf"), res.Font.Filepath)
	// registered Libertinus fonts are not present in the directory
	_, err = ResolveFont("italic", reg).Font()
	require.Error(t, err)
	assert.Equal(t, core.EMISSING, core.Code(err))
	assert.Contains(t, err.Error(), filepath.Join(dir, "LibertinusSerif-Italic.otf"))
}

func TestResolveFileInFontDir(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.fonts")
	defer teardown()
	//
	dir, _ := fontDir(t)
	reg := fontregistry.NewRegistry(dir)
	res, err := ResolveFont("Go-Regular.ttf", reg).Font()
	require.NoError(t, err)
	assert.Equal(t, "Go-Regular", res.Entry.Key)
}

func TestResolveUnknown(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.fonts")
	defer teardown()
	//
	_, reg := fontDir(t)
	_, err := ResolveFont("No-Such-Font-3d1f", reg).Font()
	require.Error(t, err)
	assert.Equal(t, core.EMISSING, core.Code(err))
	assert.Contains(t, err.Error(), "No-Such-Font-3d1f")
}

func TestResolveFonts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "libertinus.fonts")
	defer teardown()
	//
	_, reg := fontDir(t)
	fonts, err := ResolveFonts(context.Background(), []string{"go", "Go-Regular.ttf"}, reg)
	require.NoError(t, err)
	require.Len(t, fonts, 2)
	assert.Equal(t, "go", fonts[0].Entry.Key)
	_, err = ResolveFonts(context.Background(), []string{"go", "regular"}, reg)
	assert.Error(t, err)
	p := ResolveFont("go", reg)
	first, err := p.Font()
	require.NoError(t, err)
	second, err := p.Font()
	require.NoError(t, err)
	assert.Same(t, first.Font, second.Font, "promise may be awaited twice")
}
