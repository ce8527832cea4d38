package proofmat

import (
	"fmt"

	"github.com/go-playground/validator"
)

// PreviewConfig 预览参数配置. All scalars are user-adjustable; ranges match
// the external control surface.
type PreviewConfig struct {
	MetalRoughness      float32 `json:"metalRoughness" validate:"gte=0,lte=1"`
	PaperRoughness      float32 `json:"paperRoughness" validate:"gte=0,lte=1"`
	InkGlossiness       float32 `json:"inkGlossiness" validate:"gte=0,lte=1"`
	VarnishBump         float32 `json:"varnishBump" validate:"gte=0,lte=0.2"`
	Exposure            float32 `json:"exposure" validate:"gte=0,lte=8"`
	ToneMappingExposure float32 `json:"toneMappingExposure" validate:"gte=0,lte=8"`
	Background          [3]byte `json:"background"`
}

func DefaultPreviewConfig() PreviewConfig {
	return PreviewConfig{
		MetalRoughness:      0.2,
		PaperRoughness:      1.0,
		InkGlossiness:       0.0,
		VarnishBump:         DEFAULT_VARNISH_BUMP,
		Exposure:            1.0,
		ToneMappingExposure: 1.0,
		Background:          [3]byte{240, 240, 240},
	}
}

var configValidator = validator.New()

func (c PreviewConfig) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid preview config: %w", err)
	}
	return nil
}

// MaterialParams is the resolved parameter record handed to the renderer
// and the exporter. It is recomputed whole on every input change, never
// mutated in place. The renderer multiplies scalar × map sample, so a bound
// map with scalar 0 still zeroes the effect.
type MaterialParams struct {
	UseMetalnessMap bool    `json:"useMetalnessMap"`
	UseRoughnessMap bool    `json:"useRoughnessMap"`
	UseClearcoatMap bool    `json:"useClearcoatMap"`
	Metalness       float32 `json:"metalness"`
	Roughness       float32 `json:"roughness"`
	Clearcoat       float32 `json:"clearcoat"`
	BumpScale       float32 `json:"bumpScale"`
	EnvIntensity    float32 `json:"envIntensity"`
}

// Resolve maps varnish presence, the preview mode and the scalar config to
// a MaterialParams record. Pure and total; every consumer must call this
// rather than re-derive the table.
//
// When a varnish map exists the generated maps stay bound even in paper
// mode, because the varnish map is the only source of where the coating
// lies; metalness is forced off through the scalar multiplier instead of
// unbinding the map.
func Resolve(varnishMapExists bool, mode PreviewMode, cfg PreviewConfig) MaterialParams {
	p := MaterialParams{}
	switch {
	case varnishMapExists:
		p.UseMetalnessMap = true
		p.UseRoughnessMap = true
		p.UseClearcoatMap = true
		if mode == PREVIEW_MODE_METAL {
			p.Metalness = 1.0
		}
		p.Roughness = 1.0
		p.Clearcoat = 1.0
		p.BumpScale = cfg.VarnishBump
	case mode == PREVIEW_MODE_METAL:
		p.UseMetalnessMap = true
		p.UseRoughnessMap = true
		p.Metalness = 1.0
		p.Roughness = 1.0
		p.Clearcoat = cfg.InkGlossiness
	default:
		p.Metalness = 0.0
		p.Roughness = cfg.PaperRoughness
		p.Clearcoat = 0.0
	}

	p.EnvIntensity = cfg.Exposure
	if mode != PREVIEW_MODE_METAL {
		p.EnvIntensity = cfg.Exposure * PAPER_ENV_FACTOR
	}
	return p
}
