package editor

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/lucasb-eyer/go-colorful"
)

// Surface size before an image has been loaded
const (
	defaultSurfaceWidth  = 300
	defaultSurfaceHeight = 150
)

// renderFrame composites the source image and the adjustments into a new frame.
// Every call starts from a cleared surface, nothing carries over between passes.
// A nil source yields a blank transparent frame of the default surface size.
func renderFrame(source *image.NRGBA, cfg Config) *image.NRGBA {
	bounds := image.Rect(0, 0, defaultSurfaceWidth, defaultSurfaceHeight)
	if source != nil {
		bounds = source.Bounds()
	}

	frame := image.NewNRGBA(bounds)

	if source != nil {
		var layer image.Image = source
		if cfg.BlurAmount > 0 {
			layer = blur.Gaussian(source, cfg.BlurAmount)
		}

		drawImageLayer(frame, layer, cfg.ImageOpacity)
	}

	// The mask goes on top of the image layer and is never blurred
	if cfg.MaskOpacity > 0 {
		fillMaskLayer(frame, parseMaskColor(cfg.MaskColor), cfg.MaskOpacity)
	}

	return frame
}

// drawImageLayer draws the layer at the origin, unscaled, with the given opacity
func drawImageLayer(frame *image.NRGBA, layer image.Image, opacity float64) {
	switch alpha := opacityAlpha(opacity); alpha {
	case 0:
	case 255:
		// Full opacity onto a cleared surface is an exact pixel copy
		draw.Draw(frame, frame.Bounds(), layer, image.Point{}, draw.Src)
	default:
		mask := image.NewUniform(color.Alpha{A: alpha})
		draw.DrawMask(frame, frame.Bounds(), layer, image.Point{}, mask, image.Point{}, draw.Over)
	}
}

// fillMaskLayer fills the entire frame with a flat color at the given opacity
func fillMaskLayer(frame *image.NRGBA, fill color.Color, opacity float64) {
	alpha := opacityAlpha(opacity)
	if alpha == 0 {
		return
	}

	mask := image.NewUniform(color.Alpha{A: alpha})
	draw.DrawMask(frame, frame.Bounds(), image.NewUniform(fill), image.Point{}, mask, image.Point{}, draw.Over)
}

// opacityAlpha converts a percentage to an 8-bit alpha value.
// Out of range values are clamped here, and only here, so that
// stored config values pass through untouched.
func opacityAlpha(opacity float64) uint8 {
	switch {
	case opacity <= 0:
		return 0
	case opacity >= 100:
		return 255
	default:
		return uint8(math.Round(opacity / 100 * 255))
	}
}

// parseMaskColor parses a hex color string, falling back to the
// default mask color for values the parser rejects
func parseMaskColor(value string) color.Color {
	c, err := colorful.Hex(value)
	if err != nil {
		fallback, _ := colorful.Hex(DefaultConfig().MaskColor)
		return fallback
	}

	return c
}
