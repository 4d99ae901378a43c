package editor

// Config holds the adjustment values that the renderer composites
// on top of the loaded image.
type Config struct {
	// MaskOpacity is the opacity of the color mask overlay, in percent (0-100)
	MaskOpacity float64 `json:"mask_opacity"`
	// MaskColor is the fill color of the mask overlay, as a hex string
	MaskColor string `json:"mask_color"`
	// ImageOpacity is the opacity of the image layer, in percent (0-100)
	ImageOpacity float64 `json:"image_opacity"`
	// BlurAmount is the gaussian blur radius applied to the image layer, in pixels
	BlurAmount float64 `json:"blur_amount"`
}

// ConfigPatch is a partial Config for updates, nil fields keep their current value
type ConfigPatch struct {
	MaskOpacity  *float64 `json:"mask_opacity"`
	MaskColor    *string  `json:"mask_color"`
	ImageOpacity *float64 `json:"image_opacity"`
	BlurAmount   *float64 `json:"blur_amount"`
}

// Apply merges the patch onto cfg and returns the result
func (p ConfigPatch) Apply(cfg Config) Config {
	if p.MaskOpacity != nil {
		cfg.MaskOpacity = *p.MaskOpacity
	}

	if p.MaskColor != nil {
		cfg.MaskColor = *p.MaskColor
	}

	if p.ImageOpacity != nil {
		cfg.ImageOpacity = *p.ImageOpacity
	}

	if p.BlurAmount != nil {
		cfg.BlurAmount = *p.BlurAmount
	}

	return cfg
}

// DefaultConfig returns the adjustment defaults.
// Everything that needs a default value gets it from here.
func DefaultConfig() Config {
	return Config{
		MaskOpacity:  0,
		MaskColor:    "#000000",
		ImageOpacity: 100,
		BlurAmount:   0,
	}
}
