package proofmat

import (
	"bytes"
	"compress/zlib"
	"image"
	"image/color"
	"io"
)

// Texture 纹理结构体. In-memory payload record a downstream renderer binds
// directly; Data is the zlib-compressed pixel stream.
type Texture struct {
	Id         int32      `json:"id"`
	Name       string     `json:"name"`
	Size       [2]uint64  `json:"size"`
	Format     uint16     `json:"format"`
	Compressed uint16     `json:"compressed"`
	Space      ColorSpace `json:"space"`
	Data       []byte     `json:"-"`
}

func CompressPixels(buf []byte) []byte {
	var bt []byte
	bf := bytes.NewBuffer(bt)
	w := zlib.NewWriter(bf)
	w.Write(buf)
	w.Close()
	return bf.Bytes()
}

func DecompressPixels(src []byte) ([]byte, error) {
	bf := bytes.NewBuffer(src)
	r, er := zlib.NewReader(bf)
	if er != nil {
		return nil, er
	}
	return io.ReadAll(r)
}

// TextureFromPixelMap packs a derived map into a compressed RGBA texture
// record, carrying the map's color-space tag along.
func TextureFromPixelMap(pm *PixelMap, name string) *Texture {
	return &Texture{
		Name:       name,
		Size:       [2]uint64{uint64(pm.Width), uint64(pm.Height)},
		Format:     TEXTURE_FORMAT_RGBA,
		Compressed: TEXTURE_COMPRESSED_ZLIB,
		Space:      pm.Space,
		Data:       CompressPixels(pm.Pix),
	}
}

// Image expands the texture payload back into an image.
func (tex *Texture) Image(flipY bool) (image.Image, error) {
	w := int(tex.Size[0])
	h := int(tex.Size[1])
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	data := tex.Data
	var sz int
	switch tex.Format {
	case TEXTURE_FORMAT_RGB:
		sz = 3
	case TEXTURE_FORMAT_RGBA:
		sz = 4
	case TEXTURE_FORMAT_R:
		sz = 1
	}
	var e error
	if tex.Compressed == TEXTURE_COMPRESSED_ZLIB {
		data, e = DecompressPixels(data)
		if e != nil && e != io.EOF {
			return nil, e
		}
	}

	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			p := i*w*sz + j*sz
			var c color.NRGBA
			switch sz {
			case 4:
				c = color.NRGBA{R: data[p], G: data[p+1], B: data[p+2], A: data[p+3]}
			case 3:
				c = color.NRGBA{R: data[p], G: data[p+1], B: data[p+2], A: 255}
			case 1:
				c = color.NRGBA{R: data[p], G: data[p], B: data[p], A: 255}
			}

			y := i
			if flipY {
				y = h - i - 1
			}
			img.Set(j, y, c)
		}
	}
	return img, nil
}
