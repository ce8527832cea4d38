package proofmat

const (
	PREVIEW_MODE_METAL PreviewMode = 0
	PREVIEW_MODE_PAPER PreviewMode = 1
)

// PreviewMode 预览模式: 金属底材或普通纸面
type PreviewMode int

func (m PreviewMode) String() string {
	switch m {
	case PREVIEW_MODE_METAL:
		return "metal"
	case PREVIEW_MODE_PAPER:
		return "paper"
	}
	return "unknown"
}

const (
	COLOR_SPACE_LINEAR     ColorSpace = 0
	COLOR_SPACE_PERCEPTUAL ColorSpace = 1
)

// ColorSpace marks how a pixel buffer must be sampled downstream. Derived
// maps are linear data channels; applying a display transfer curve to them
// corrupts the material response.
type ColorSpace uint8

const (
	TEXTURE_FORMAT_R    = 0
	TEXTURE_FORMAT_RGB  = 4
	TEXTURE_FORMAT_RGBA = 6
)

const (
	TEXTURE_COMPRESSED_ZLIB = 1
)

// Behavioral constants of the synthesis contract. Tests pin these values.
const (
	// VARNISH_THRESHOLD is the inverted-sample cutoff above which a pixel
	// counts as coated. Hard binary, no gradient.
	VARNISH_THRESHOLD = 100
	// VARNISH_GLOSS is the roughness sample written under varnish.
	VARNISH_GLOSS = 5
	// DEFAULT_VARNISH_BUMP is the bump scale applied when a varnish map
	// drives the clearcoat.
	DEFAULT_VARNISH_BUMP = 0.02
	// PAPER_ENV_FACTOR flattens environment reflections on plain paper.
	PAPER_ENV_FACTOR = 0.2
)

// Resolution 工作分辨率
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (r Resolution) Pixels() int {
	return r.Width * r.Height
}

// PixelMap is a row-major interleaved RGBA buffer carrying one scalar per
// pixel (R=G=B, A=255) plus its color-space tag.
type PixelMap struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Space  ColorSpace `json:"space"`
	Pix    []byte     `json:"-"`
}

func NewPixelMap(width, height int, space ColorSpace) *PixelMap {
	return &PixelMap{
		Width:  width,
		Height: height,
		Space:  space,
		Pix:    make([]byte, width*height*4),
	}
}

// SetGray writes v into the three color channels of pixel i and forces the
// alpha channel opaque.
func (p *PixelMap) SetGray(i int, v byte) {
	o := i * 4
	p.Pix[o] = v
	p.Pix[o+1] = v
	p.Pix[o+2] = v
	p.Pix[o+3] = 255
}

// GrayAt returns the scalar of pixel i (red channel).
func (p *PixelMap) GrayAt(i int) byte {
	return p.Pix[i*4]
}

func (p *PixelMap) Resolution() Resolution {
	return Resolution{Width: p.Width, Height: p.Height}
}
