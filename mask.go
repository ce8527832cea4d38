package proofmat

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var ErrUnknownFormat = errors.New("unknow mask format")

// MaskBuffer 灰度遮罩缓冲. One byte per pixel, row-major; only the red
// channel of the source image is semantically meaningful. Raw samples use
// the print convention dark = feature present; Inverted flips to the
// internal convention high = feature present.
type MaskBuffer struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   []byte `json:"-"`
}

func NewMaskBuffer(width, height int) *MaskBuffer {
	return &MaskBuffer{
		Width:  width,
		Height: height,
		Data:   make([]byte, width*height),
	}
}

func (m *MaskBuffer) Resolution() Resolution {
	return Resolution{Width: m.Width, Height: m.Height}
}

// Inverted returns 255 - raw for pixel i.
func (m *MaskBuffer) Inverted(i int) byte {
	return 255 - m.Data[i]
}

// Coverage reports the fraction of pixels whose inverted sample exceeds
// threshold.
func (m *MaskBuffer) Coverage(threshold byte) float64 {
	if len(m.Data) == 0 {
		return 0
	}
	count := 0
	for _, v := range m.Data {
		if 255-v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(m.Data))
}

// MaskFromImage extracts the red channel of img into a MaskBuffer.
func MaskFromImage(img image.Image) *MaskBuffer {
	bd := img.Bounds()
	m := NewMaskBuffer(bd.Dx(), bd.Dy())
	i := 0
	for y := bd.Min.Y; y < bd.Max.Y; y++ {
		for x := bd.Min.X; x < bd.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			m.Data[i] = byte(r >> 8)
			i++
		}
	}
	return m
}

// LoadMask decodes a mask image file into a MaskBuffer.
func LoadMask(name string) (*MaskBuffer, error) {
	reader, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	img, err := DecodeMaskImage(reader)
	if err != nil {
		return nil, fmt.Errorf("decode mask %s failed: %w", name, err)
	}
	return MaskFromImage(img), nil
}

// DecodeMaskImage decodes png/jpeg/gif/bmp/tiff streams.
func DecodeMaskImage(reader io.ReadSeeker) (image.Image, error) {
	_, format, err := image.DecodeConfig(reader)
	if err != nil {
		return nil, err
	}
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	switch format {
	case "jpeg", "jpg":
		return jpeg.Decode(reader)
	case "png":
		return png.Decode(reader)
	case "gif":
		return gif.Decode(reader)
	case "bmp":
		return bmp.Decode(reader)
	case "tif", "tiff":
		return tiff.Decode(reader)
	}
	return nil, ErrUnknownFormat
}
