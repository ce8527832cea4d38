package proofmat

import "errors"

var ErrMapsUnavailable = errors.New("derived maps required but not synthesized")

// PreviewMaterial 预览材质. Renderer-ready PBR material for the interactive
// viewer: resolved scalars plus the bound map textures, if any.
type PreviewMaterial struct {
	Color              [3]byte  `json:"color"`
	Metallic           float32  `json:"metallic"`
	Roughness          float32  `json:"roughness"`
	ClearCoat          float32  `json:"clearCoat"`
	ClearCoatRoughness float32  `json:"clearCoatRoughness"`
	BumpScale          float32  `json:"bumpScale"`
	EnvIntensity       float32  `json:"envIntensity"`
	MetalnessTexture   *Texture `json:"metalnessTexture,omitempty"`
	RoughnessTexture   *Texture `json:"roughnessTexture,omitempty"`
	ClearCoatTexture   *Texture `json:"clearCoatTexture,omitempty"`
}

func (m *PreviewMaterial) HasMetalnessTexture() bool {
	return m.MetalnessTexture != nil
}

func (m *PreviewMaterial) HasRoughnessTexture() bool {
	return m.RoughnessTexture != nil
}

func (m *PreviewMaterial) HasClearCoatTexture() bool {
	return m.ClearCoatTexture != nil
}

// BindPreviewMaterial assembles the viewer material from a resolved
// parameter record and the synthesized maps. maps may be nil only when the
// record binds no maps.
func BindPreviewMaterial(params MaterialParams, maps *DerivedMaps, background [3]byte) (*PreviewMaterial, error) {
	mat := &PreviewMaterial{
		Color:              background,
		Metallic:           params.Metalness,
		Roughness:          params.Roughness,
		ClearCoat:          params.Clearcoat,
		ClearCoatRoughness: float32(VARNISH_GLOSS) / 255,
		BumpScale:          params.BumpScale,
		EnvIntensity:       params.EnvIntensity,
	}
	if params.UseMetalnessMap || params.UseRoughnessMap {
		if maps == nil {
			return nil, ErrMapsUnavailable
		}
		mat.MetalnessTexture = TextureFromPixelMap(maps.Metalness, "metalness")
		mat.RoughnessTexture = TextureFromPixelMap(maps.Roughness, "roughness")
	}
	if params.UseClearcoatMap {
		if maps == nil || maps.Clearcoat == nil {
			return nil, ErrMapsUnavailable
		}
		mat.ClearCoatTexture = TextureFromPixelMap(maps.Clearcoat, "clearcoat")
	}
	return mat, nil
}
