package proofmat

import (
	"time"

	"github.com/rs/zerolog/log"
)

// PreviewEngine ties mask inputs, the synthesizer and the resolver together
// for a single design. Synchronous: every input change recomputes the
// derived maps and the parameter record before the setter returns.
// Debouncing rapid config changes is the caller's job.
type PreviewEngine struct {
	cfg      PreviewConfig
	mode     PreviewMode
	white    *MaskBuffer
	varnish  *MaskBuffer
	fallback Resolution

	maps   *DerivedMaps
	params MaterialParams
}

func NewPreviewEngine(cfg PreviewConfig, fallback Resolution) (*PreviewEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &PreviewEngine{
		cfg:      cfg,
		mode:     PREVIEW_MODE_PAPER,
		fallback: fallback,
	}
	e.params = Resolve(false, e.Mode(), e.cfg)
	return e, nil
}

// Mode returns the effective preview mode. Metal preview is gated on a
// white-ink mask being loaded; without one the engine answers paper.
func (e *PreviewEngine) Mode() PreviewMode {
	if e.mode == PREVIEW_MODE_METAL && e.white == nil {
		return PREVIEW_MODE_PAPER
	}
	return e.mode
}

func (e *PreviewEngine) SetMode(mode PreviewMode) {
	e.mode = mode
	e.params = Resolve(e.varnish != nil, e.Mode(), e.cfg)
}

func (e *PreviewEngine) SetConfig(cfg PreviewConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	prev := e.cfg
	e.cfg = cfg
	if err := e.refresh(); err != nil {
		e.cfg = prev
		return err
	}
	return nil
}

func (e *PreviewEngine) SetWhiteMask(mask *MaskBuffer) error {
	prev := e.white
	e.white = mask
	if err := e.refresh(); err != nil {
		e.white = prev
		return err
	}
	return nil
}

func (e *PreviewEngine) SetVarnishMask(mask *MaskBuffer) error {
	prev := e.varnish
	e.varnish = mask
	if err := e.refresh(); err != nil {
		e.varnish = prev
		return err
	}
	return nil
}

func (e *PreviewEngine) Config() PreviewConfig {
	return e.cfg
}

// Maps returns the current derived maps, nil while no mask is loaded.
func (e *PreviewEngine) Maps() *DerivedMaps {
	return e.maps
}

// Params returns the current resolved parameter record.
func (e *PreviewEngine) Params() MaterialParams {
	return e.params
}

// refresh recomputes maps and params. Nothing is committed when synthesis
// rejects the inputs, so the previous preview stays serveable; setters roll
// their field back on error.
func (e *PreviewEngine) refresh() error {
	if e.white == nil && e.varnish == nil {
		e.maps = nil
		e.params = Resolve(false, e.Mode(), e.cfg)
		return nil
	}
	start := time.Now()
	maps, err := Synthesize(e.white, e.varnish, e.cfg.MetalRoughness, e.cfg.PaperRoughness, e.fallback)
	if err != nil {
		return err
	}
	e.maps = maps
	e.params = Resolve(e.varnish != nil, e.Mode(), e.cfg)
	res := maps.Resolution()
	evt := log.Debug().
		Int("width", res.Width).
		Int("height", res.Height).
		Bool("clearcoat", maps.Clearcoat != nil)
	if e.white != nil {
		evt = evt.Float64("inkCoverage", e.white.Coverage(0))
	}
	if e.varnish != nil {
		evt = evt.Float64("varnishCoverage", e.varnish.Coverage(VARNISH_THRESHOLD))
	}
	evt.Dur("elapsed", time.Since(start)).
		Msg("synthesized material maps")
	return nil
}

// Material builds the viewer-side material from the current state.
func (e *PreviewEngine) Material() (*PreviewMaterial, error) {
	return BindPreviewMaterial(e.params, e.maps, e.cfg.Background)
}

// ExportGLB serializes the current state as a standalone binary glTF scene.
// It consumes the same parameter record the viewer material does.
func (e *PreviewEngine) ExportGLB() ([]byte, error) {
	start := time.Now()
	bt, err := ExportGLB(e.maps, e.params, e.cfg.Background)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Int("bytes", len(bt)).
		Dur("elapsed", time.Since(start)).
		Msg("exported preview scene")
	return bt, nil
}
