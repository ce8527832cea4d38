package proofmat

import (
	"errors"
)

var (
	ErrNoMask           = errors.New("no mask supplied, nothing to process")
	ErrMaskSizeMismatch = errors.New("white-ink and varnish masks differ in resolution")
	ErrEmptyResolution  = errors.New("invalid working resolution")
)

// DerivedMaps holds the three synthesized material maps. Clearcoat is nil
// when no varnish mask was supplied; absence is a first-class outcome, not
// a blank map.
type DerivedMaps struct {
	Metalness *PixelMap
	Roughness *PixelMap
	Clearcoat *PixelMap
}

func (d *DerivedMaps) Resolution() Resolution {
	return d.Metalness.Resolution()
}

// Synthesize derives metalness, roughness and clearcoat maps from up to two
// grayscale masks. Both masks use the print convention dark = feature
// present and are inverted independently before use. Roughness blends
// linearly from metalRoughness (open metal) to paperRoughness (full ink);
// varnished pixels override it with VARNISH_GLOSS. metalRoughness and
// paperRoughness are expected in [0,1].
//
// Errors: ErrNoMask when both masks are nil, ErrMaskSizeMismatch when both
// are supplied with differing resolutions (resampling is the caller's job),
// ErrEmptyResolution when no mask exists and fallback has no pixels.
func Synthesize(white, varnish *MaskBuffer, metalRoughness, paperRoughness float32, fallback Resolution) (*DerivedMaps, error) {
	if white == nil && varnish == nil {
		return nil, ErrNoMask
	}
	if white != nil && varnish != nil && white.Resolution() != varnish.Resolution() {
		return nil, ErrMaskSizeMismatch
	}

	res := fallback
	if white != nil {
		res = white.Resolution()
	} else if varnish != nil {
		res = varnish.Resolution()
	}
	if res.Pixels() <= 0 {
		return nil, ErrEmptyResolution
	}

	maps := &DerivedMaps{
		Metalness: NewPixelMap(res.Width, res.Height, COLOR_SPACE_LINEAR),
		Roughness: NewPixelMap(res.Width, res.Height, COLOR_SPACE_LINEAR),
	}
	if varnish != nil {
		maps.Clearcoat = NewPixelMap(res.Width, res.Height, COLOR_SPACE_LINEAR)
	}

	metalFloor := metalRoughness * 255
	paperCeil := paperRoughness * 255

	n := res.Pixels()
	for i := 0; i < n; i++ {
		// Missing white mask means the whole surface is inked substrate.
		var ink byte = 255
		if white != nil {
			ink = white.Inverted(i)
		}
		maps.Metalness.SetGray(i, 255-ink)

		varnished := varnish != nil && varnish.Inverted(i) > VARNISH_THRESHOLD
		if varnish != nil {
			if varnished {
				maps.Clearcoat.SetGray(i, 255)
			} else {
				maps.Clearcoat.SetGray(i, 0)
			}
		}

		if varnished {
			maps.Roughness.SetGray(i, VARNISH_GLOSS)
		} else {
			maps.Roughness.SetGray(i, clampByte(metalFloor+float32(ink)/255*(paperCeil-metalFloor)))
		}
	}
	return maps, nil
}

func clampByte(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v + 0.5)
}
