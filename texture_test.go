package proofmat

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextureFromPixelMap(t *testing.T) {
	pm := NewPixelMap(2, 2, COLOR_SPACE_LINEAR)
	for i := 0; i < 4; i++ {
		pm.SetGray(i, byte(i*60))
	}

	tex := TextureFromPixelMap(pm, "roughness")
	assert.Equal(t, "roughness", tex.Name)
	assert.Equal(t, [2]uint64{2, 2}, tex.Size)
	assert.Equal(t, uint16(TEXTURE_FORMAT_RGBA), tex.Format)
	assert.Equal(t, uint16(TEXTURE_COMPRESSED_ZLIB), tex.Compressed)
	assert.Equal(t, COLOR_SPACE_LINEAR, tex.Space)

	raw, err := DecompressPixels(tex.Data)
	require.NoError(t, err)
	assert.Equal(t, pm.Pix, raw)
}

func TestTextureImage(t *testing.T) {
	pm := NewPixelMap(2, 1, COLOR_SPACE_LINEAR)
	pm.SetGray(0, 51)
	pm.SetGray(1, 255)

	tex := TextureFromPixelMap(pm, "metalness")
	img, err := tex.Image(false)
	require.NoError(t, err)

	nrgba, ok := img.(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, byte(51), nrgba.Pix[0])
	assert.Equal(t, byte(255), nrgba.Pix[4])
	assert.Equal(t, byte(255), nrgba.Pix[3])
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	src := make([]byte, 1024)
	for i := range src {
		src[i] = byte(i % 7)
	}
	got, err := DecompressPixels(CompressPixels(src))
	require.NoError(t, err)
	assert.Equal(t, src, got)
}
