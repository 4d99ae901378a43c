package editor_test

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/DMarby/quick-pic/internal/editor"
)

func newEditorWith(t *testing.T, img image.Image) *editor.Editor {
	t.Helper()

	e := editor.New()
	loadImage(t, e, img)
	return e
}

// checkerImage returns a w by h image alternating between two colors
func checkerImage(w, h int, a, b color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, a)
			} else {
				img.SetNRGBA(x, y, b)
			}
		}
	}

	return img
}

func framesEqual(a, b *image.NRGBA) bool {
	return a.Bounds() == b.Bounds() && bytes.Equal(a.Pix, b.Pix)
}

// near reports whether got is within tolerance of want
func near(got uint8, want, tolerance float64) bool {
	return math.Abs(float64(got)-want) <= tolerance
}

func TestRenderIdentity(t *testing.T) {
	// Varied pixel values, including semi-transparent ones
	img := image.NewNRGBA(image.Rect(0, 0, 8, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 30),
				G: uint8(y * 50),
				B: uint8((x + y) * 20),
				A: uint8(255 - x*10),
			})
		}
	}

	e := newEditorWith(t, img)

	// The default adjustments are the identity
	frame, _ := e.Frame()
	if !framesEqual(frame, img) {
		t.Error("identity render does not equal the source")
	}
}

func TestRenderMaskIgnoredAtZeroOpacity(t *testing.T) {
	src := solidImage(4, 4, color.NRGBA{R: 200, G: 100, A: 255})

	plain := newEditorWith(t, src)

	masked := newEditorWith(t, src)
	masked.UpdateConfig(editor.ConfigPatch{MaskOpacity: float(0), MaskColor: str("#00ff00")})

	a, _ := plain.Frame()
	b, _ := masked.Frame()
	if !framesEqual(a, b) {
		t.Error("mask with zero opacity changed the output")
	}
}

func TestRenderMaskBlend(t *testing.T) {
	e := newEditorWith(t, solidImage(10, 10, color.NRGBA{R: 255, A: 255}))
	e.UpdateConfig(editor.ConfigPatch{MaskOpacity: float(50), MaskColor: str("#0000ff")})

	frame, _ := e.Frame()
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			px := frame.NRGBAAt(x, y)

			// A half opacity blue mask over solid red
			if !near(px.R, 127.5, 1) || !near(px.G, 0, 1) || !near(px.B, 127.5, 1) || px.A != 255 {
				t.Fatalf("wrong blend at %d,%d, %#v", x, y, px)
			}
		}
	}
}

func TestRenderImageOpacity(t *testing.T) {
	e := newEditorWith(t, solidImage(4, 4, color.NRGBA{R: 255, A: 255}))
	e.UpdateConfig(editor.ConfigPatch{ImageOpacity: float(50)})

	frame, _ := e.Frame()
	px := frame.NRGBAAt(2, 2)

	if px.R != 255 || px.G != 0 || px.B != 0 || !near(px.A, 127.5, 1) {
		t.Errorf("wrong image opacity, %#v", px)
	}
}

func TestRenderImageOpacityZero(t *testing.T) {
	e := newEditorWith(t, solidImage(4, 4, color.NRGBA{R: 255, A: 255}))
	e.UpdateConfig(editor.ConfigPatch{ImageOpacity: float(0), MaskOpacity: float(50), MaskColor: str("#0000ff")})

	// The mask applies even when the image layer is fully transparent
	frame, _ := e.Frame()
	px := frame.NRGBAAt(1, 1)

	if px.B != 255 || !near(px.A, 127.5, 1) {
		t.Errorf("mask not applied over a transparent image layer, %#v", px)
	}
}

func TestRenderBlur(t *testing.T) {
	src := checkerImage(8, 8, color.NRGBA{R: 255, A: 255}, color.NRGBA{B: 255, A: 255})

	plain := newEditorWith(t, src)
	blurred := newEditorWith(t, src)
	blurred.UpdateConfig(editor.ConfigPatch{BlurAmount: float(3)})

	a, _ := plain.Frame()
	b, _ := blurred.Frame()

	if b.Bounds() != a.Bounds() {
		t.Errorf("blur changed the frame size, %#v", b.Bounds())
	}

	if framesEqual(a, b) {
		t.Error("blur did not change the output")
	}
}

func TestRenderNegativeBlurIsInert(t *testing.T) {
	src := checkerImage(8, 8, color.NRGBA{R: 255, A: 255}, color.NRGBA{B: 255, A: 255})

	plain := newEditorWith(t, src)
	negative := newEditorWith(t, src)

	cfg := negative.UpdateConfig(editor.ConfigPatch{BlurAmount: float(-5)})
	if cfg.BlurAmount != -5 {
		t.Errorf("negative blur amount not stored, %#v", cfg)
	}

	a, _ := plain.Frame()
	b, _ := negative.Frame()
	if !framesEqual(a, b) {
		t.Error("negative blur amount changed the output")
	}
}

func TestRenderMaskOnTopOfBlur(t *testing.T) {
	src := checkerImage(8, 8, color.NRGBA{R: 255, A: 255}, color.NRGBA{B: 255, A: 255})

	e := newEditorWith(t, src)
	e.UpdateConfig(editor.ConfigPatch{BlurAmount: float(4), MaskOpacity: float(100), MaskColor: str("#00ff00")})

	// A fully opaque mask covers the image layer completely, and the
	// mask itself is never blurred
	frame, _ := e.Frame()
	want := color.NRGBA{G: 255, A: 255}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if px := frame.NRGBAAt(x, y); px != want {
				t.Fatalf("mask blurred or blended at %d,%d, %#v", x, y, px)
			}
		}
	}
}

func TestRenderMaskColorFallback(t *testing.T) {
	src := solidImage(4, 4, color.NRGBA{R: 255, A: 255})

	def := newEditorWith(t, src)
	def.UpdateConfig(editor.ConfigPatch{MaskOpacity: float(60), MaskColor: str("#000000")})

	invalid := newEditorWith(t, src)
	invalid.UpdateConfig(editor.ConfigPatch{MaskOpacity: float(60), MaskColor: str("not a color")})

	a, _ := def.Frame()
	b, _ := invalid.Frame()
	if !framesEqual(a, b) {
		t.Error("unparseable mask color does not fall back to the default")
	}
}

func TestRenderOpacityClamping(t *testing.T) {
	src := solidImage(4, 4, color.NRGBA{R: 255, A: 255})

	clamped := newEditorWith(t, src)
	clamped.UpdateConfig(editor.ConfigPatch{MaskOpacity: float(250), MaskColor: str("#0000ff"), ImageOpacity: float(-10)})

	explicit := newEditorWith(t, src)
	explicit.UpdateConfig(editor.ConfigPatch{MaskOpacity: float(100), MaskColor: str("#0000ff"), ImageOpacity: float(0)})

	a, _ := clamped.Frame()
	b, _ := explicit.Frame()
	if !framesEqual(a, b) {
		t.Error("out of range opacities do not clamp at the edges of the range")
	}
}

func TestRenderFreshFrameEveryPass(t *testing.T) {
	e := newEditorWith(t, solidImage(4, 4, color.NRGBA{R: 255, A: 255}))

	before, _ := e.Frame()
	snapshot := make([]byte, len(before.Pix))
	copy(snapshot, before.Pix)

	e.UpdateConfig(editor.ConfigPatch{MaskOpacity: float(100), MaskColor: str("#00ff00")})

	// The previously published frame is untouched by later passes
	if !bytes.Equal(before.Pix, snapshot) {
		t.Error("published frame mutated by a later render")
	}

	after, _ := e.Frame()
	if framesEqual(before, after) {
		t.Error("render pass did not produce a new frame")
	}

	// Dropping the mask again restores the original output exactly
	e.UpdateConfig(editor.ConfigPatch{MaskOpacity: float(0)})
	restored, _ := e.Frame()
	if !framesEqual(before, restored) {
		t.Error("state leaked between render passes")
	}
}
