package opentype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/math/fixed"
)

func TestBoundingBoxFromFixed(t *testing.T) {
	r := fixed.Rectangle26_6{
		Min: fixed.Point26_6{X: fixed.I(37), Y: fixed.I(-658)},
		Max: fixed.Point26_6{X: fixed.I(666), Y: fixed.I(10)},
	}
	bbox := BoundingBoxFromFixed(r)
	assert.Equal(t, "(37, -10, 666, 658)", bbox.String())
	assert.False(t, bbox.Empty())
	assert.Equal(t, 629, int(bbox.Dx()))
	assert.Equal(t, 668, int(bbox.Dy()))
	assert.True(t, BoundingBox{}.Empty())
}
