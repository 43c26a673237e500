package utils

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestColourValidate(t *testing.T) {
	assert.True(t, ColourValidate("#000000ff"))
	assert.True(t, ColourValidate("#FFaa0080"))
	assert.False(t, ColourValidate("#000000"))
	assert.False(t, ColourValidate("000000ff"))
	assert.False(t, ColourValidate("#000000ffx"))
	assert.False(t, ColourValidate("#gg0000ff"))
}

func TestColourParse(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 0xff, G: 0x80, B: 0x00, A: 0xff}, ColourParse("#ff8000ff"))
}

func TestColourVec(t *testing.T) {
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, ColourVec(ColourParse("#000000ff")))
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 0}, ColourVec(ColourParse("#ffffff00")))
}
