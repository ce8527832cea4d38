package proofmat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resolveConfigs = []PreviewConfig{
	DefaultPreviewConfig(),
	{MetalRoughness: 0, PaperRoughness: 0.8, InkGlossiness: 0.5, VarnishBump: 0.1, Exposure: 2, ToneMappingExposure: 1},
	{MetalRoughness: 1, PaperRoughness: 0, InkGlossiness: 1, VarnishBump: 0.2, Exposure: 8, ToneMappingExposure: 8},
	{MetalRoughness: 0.33, PaperRoughness: 0.66, InkGlossiness: 0.25, VarnishBump: 0, Exposure: 0, ToneMappingExposure: 0},
}

var resolveModes = []PreviewMode{PREVIEW_MODE_METAL, PREVIEW_MODE_PAPER}

func TestResolve_VarnishPresent(t *testing.T) {
	for _, cfg := range resolveConfigs {
		for _, mode := range resolveModes {
			p := Resolve(true, mode, cfg)

			assert.True(t, p.UseMetalnessMap, "mode %s", mode)
			assert.True(t, p.UseRoughnessMap, "mode %s", mode)
			assert.True(t, p.UseClearcoatMap, "mode %s", mode)
			assert.Equal(t, float32(1.0), p.Roughness)
			assert.Equal(t, float32(1.0), p.Clearcoat)
			assert.Equal(t, cfg.VarnishBump, p.BumpScale)

			if mode == PREVIEW_MODE_METAL {
				assert.Equal(t, float32(1.0), p.Metalness)
			} else {
				assert.Equal(t, float32(0.0), p.Metalness)
			}
		}
	}
}

func TestResolve_NoVarnishMetal(t *testing.T) {
	for _, cfg := range resolveConfigs {
		p := Resolve(false, PREVIEW_MODE_METAL, cfg)

		assert.True(t, p.UseMetalnessMap)
		assert.True(t, p.UseRoughnessMap)
		assert.False(t, p.UseClearcoatMap)
		assert.Equal(t, float32(1.0), p.Metalness)
		assert.Equal(t, float32(1.0), p.Roughness)
		assert.Equal(t, cfg.InkGlossiness, p.Clearcoat)
		assert.Equal(t, float32(0), p.BumpScale)
	}
}

func TestResolve_NoVarnishPaper(t *testing.T) {
	for _, cfg := range resolveConfigs {
		p := Resolve(false, PREVIEW_MODE_PAPER, cfg)

		assert.False(t, p.UseMetalnessMap)
		assert.False(t, p.UseRoughnessMap)
		assert.False(t, p.UseClearcoatMap)
		assert.Equal(t, float32(0.0), p.Metalness)
		assert.Equal(t, cfg.PaperRoughness, p.Roughness)
		assert.Equal(t, float32(0.0), p.Clearcoat)
		assert.Equal(t, float32(0), p.BumpScale)
	}
}

// The crux of the table: paper mode with a varnish map keeps the maps bound
// (the varnish map is the only source of where the coating lies) while the
// metalness scalar multiplier zeroes the metal effect.
func TestResolve_PaperWithVarnishForcesZeroScalarWithBoundMap(t *testing.T) {
	for _, cfg := range resolveConfigs {
		p := Resolve(true, PREVIEW_MODE_PAPER, cfg)
		assert.Equal(t, float32(0.0), p.Metalness)
		assert.True(t, p.UseClearcoatMap)
		assert.True(t, p.UseMetalnessMap)
	}
}

func TestResolve_EnvIntensity(t *testing.T) {
	for _, cfg := range resolveConfigs {
		for _, varnish := range []bool{false, true} {
			assert.Equal(t, cfg.Exposure, Resolve(varnish, PREVIEW_MODE_METAL, cfg).EnvIntensity)
			assert.Equal(t, cfg.Exposure*PAPER_ENV_FACTOR, Resolve(varnish, PREVIEW_MODE_PAPER, cfg).EnvIntensity)
		}
	}
}

func TestResolve_Invariants(t *testing.T) {
	for _, cfg := range resolveConfigs {
		for _, mode := range resolveModes {
			for _, varnish := range []bool{false, true} {
				p := Resolve(varnish, mode, cfg)

				assert.Equal(t, p.UseMetalnessMap, p.UseRoughnessMap,
					"metalness and roughness maps are gated together")

				// Clearcoat is exactly one of: map-bound with unity
				// scalar, scalar-only, or zero.
				if p.UseClearcoatMap {
					assert.Equal(t, float32(1.0), p.Clearcoat)
				}
			}
		}
	}
}

func TestResolve_SpecExample(t *testing.T) {
	cfg := DefaultPreviewConfig()
	cfg.PaperRoughness = 0.8

	p := Resolve(false, PREVIEW_MODE_PAPER, cfg)
	assert.Equal(t, MaterialParams{
		UseMetalnessMap: false,
		UseRoughnessMap: false,
		UseClearcoatMap: false,
		Metalness:       0.0,
		Roughness:       0.8,
		Clearcoat:       0.0,
		BumpScale:       0,
		EnvIntensity:    cfg.Exposure * PAPER_ENV_FACTOR,
	}, p)
}

func TestPreviewConfigValidate(t *testing.T) {
	require.NoError(t, DefaultPreviewConfig().Validate())

	bad := DefaultPreviewConfig()
	bad.VarnishBump = 0.5
	assert.Error(t, bad.Validate())

	bad = DefaultPreviewConfig()
	bad.Exposure = 9
	assert.Error(t, bad.Validate())

	bad = DefaultPreviewConfig()
	bad.PaperRoughness = -0.1
	assert.Error(t, bad.Validate())
}
