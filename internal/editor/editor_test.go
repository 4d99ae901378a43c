package editor_test

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/DMarby/quick-pic/internal/editor"
)

// solidImage returns a w by h image filled with the given color
func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}

	return img
}

// loadImage encodes img as png and loads it into the editor
func loadImage(t *testing.T, e *editor.Editor, img image.Image) {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	if err := e.Load(&buf); err != nil {
		t.Fatal(err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, fmt.Errorf("broken pipe")
}

func float(v float64) *float64 {
	return &v
}

func str(v string) *string {
	return &v
}

func TestDefaults(t *testing.T) {
	cfg := editor.DefaultConfig()

	if cfg.MaskOpacity != 0 || cfg.MaskColor != "#000000" || cfg.ImageOpacity != 100 || cfg.BlurAmount != 0 {
		t.Errorf("wrong defaults, %#v", cfg)
	}

	if e := editor.New(); e.Config() != cfg {
		t.Errorf("new editor does not start from the defaults, %#v", e.Config())
	}
}

func TestLoad(t *testing.T) {
	e := editor.New()

	if _, ok := e.Image(); ok {
		t.Fatal("image reported before any load")
	}

	loadImage(t, e, solidImage(4, 3, color.NRGBA{R: 255, A: 255}))

	info, ok := e.Image()
	if !ok {
		t.Fatal("no image after load")
	}

	if info.Width != 4 || info.Height != 3 {
		t.Errorf("wrong image size, %#v", info)
	}

	if info.Format != "png" {
		t.Errorf("wrong format, %#v", info.Format)
	}

	if info.Fingerprint == 0 {
		t.Error("missing fingerprint")
	}

	frame, _ := e.Frame()
	if frame.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Errorf("surface did not take on the image size, %#v", frame.Bounds())
	}
}

func TestLoadReplacesImage(t *testing.T) {
	e := editor.New()

	loadImage(t, e, solidImage(4, 3, color.NRGBA{R: 255, A: 255}))
	e.UpdateConfig(editor.ConfigPatch{MaskOpacity: float(25)})

	loadImage(t, e, solidImage(2, 5, color.NRGBA{B: 255, A: 255}))

	frame, _ := e.Frame()
	if frame.Bounds() != image.Rect(0, 0, 2, 5) {
		t.Errorf("surface did not track the new image, %#v", frame.Bounds())
	}

	// Loading a new image keeps the adjustments
	if cfg := e.Config(); cfg.MaskOpacity != 25 {
		t.Errorf("adjustments did not survive the load, %#v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	e := editor.New()
	loadImage(t, e, solidImage(4, 3, color.NRGBA{R: 255, A: 255}))
	e.UpdateConfig(editor.ConfigPatch{BlurAmount: float(2)})

	cfg := e.Config()
	_, version := e.Frame()

	t.Run("read failure", func(t *testing.T) {
		err := e.Load(failingReader{})
		if !errors.Is(err, editor.ErrReadSource) {
			t.Fatalf("wrong error, %#v", err)
		}

		if errors.Is(err, editor.ErrDecode) {
			t.Fatal("read failure reported as a decode failure")
		}
	})

	t.Run("decode failure", func(t *testing.T) {
		err := e.Load(bytes.NewReader([]byte("not an image")))
		if !errors.Is(err, editor.ErrDecode) {
			t.Fatalf("wrong error, %#v", err)
		}
	})

	// A failed load leaves everything as it was
	if e.Config() != cfg {
		t.Errorf("adjustments changed after failed load, %#v", e.Config())
	}

	frame, v := e.Frame()
	if v != version {
		t.Errorf("frame version changed after failed load, %d != %d", v, version)
	}

	if frame.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Errorf("surface changed after failed load, %#v", frame.Bounds())
	}

	if info, ok := e.Image(); !ok || info.Width != 4 {
		t.Errorf("image info changed after failed load, %#v", info)
	}
}

func TestUpdateConfig(t *testing.T) {
	e := editor.New()

	cfg := e.UpdateConfig(editor.ConfigPatch{
		MaskOpacity: float(30),
		MaskColor:   str("#ff0000"),
	})

	if cfg.MaskOpacity != 30 || cfg.MaskColor != "#ff0000" {
		t.Errorf("patch not applied, %#v", cfg)
	}

	// Fields missing from the patch keep their values
	if cfg.ImageOpacity != 100 || cfg.BlurAmount != 0 {
		t.Errorf("unpatched fields changed, %#v", cfg)
	}

	cfg = e.UpdateConfig(editor.ConfigPatch{ImageOpacity: float(72)})
	if cfg.MaskOpacity != 30 || cfg.ImageOpacity != 72 {
		t.Errorf("later patch clobbered earlier fields, %#v", cfg)
	}
}

func TestUpdateConfigPassesValuesThrough(t *testing.T) {
	e := editor.New()

	// Values are stored as given, there is no validation on the way in
	tests := []struct {
		Name  string
		Patch editor.ConfigPatch
		Check func(cfg editor.Config) bool
	}{
		{"negative blur", editor.ConfigPatch{BlurAmount: float(-5)}, func(cfg editor.Config) bool { return cfg.BlurAmount == -5 }},
		{"opacity above range", editor.ConfigPatch{MaskOpacity: float(250)}, func(cfg editor.Config) bool { return cfg.MaskOpacity == 250 }},
		{"opacity below range", editor.ConfigPatch{ImageOpacity: float(-10)}, func(cfg editor.Config) bool { return cfg.ImageOpacity == -10 }},
		{"unparseable color", editor.ConfigPatch{MaskColor: str("not a color")}, func(cfg editor.Config) bool { return cfg.MaskColor == "not a color" }},
	}

	for _, test := range tests {
		cfg := e.UpdateConfig(test.Patch)
		if !test.Check(cfg) {
			t.Errorf("%s: value did not pass through, %#v", test.Name, cfg)
		}
	}
}

func TestReset(t *testing.T) {
	e := editor.New()
	loadImage(t, e, solidImage(4, 3, color.NRGBA{R: 255, A: 255}))

	e.UpdateConfig(editor.ConfigPatch{
		MaskOpacity:  float(80),
		MaskColor:    str("#123456"),
		ImageOpacity: float(10),
		BlurAmount:   float(7),
	})

	cfg := e.Reset()
	if cfg != editor.DefaultConfig() {
		t.Errorf("reset did not restore the defaults, %#v", cfg)
	}

	// The image stays loaded
	if _, ok := e.Image(); !ok {
		t.Error("reset dropped the image")
	}
}

func TestConfigIsACopy(t *testing.T) {
	e := editor.New()

	cfg := e.Config()
	cfg.MaskOpacity = 99
	cfg.MaskColor = "#ffffff"

	if e.Config() != editor.DefaultConfig() {
		t.Errorf("mutating the returned config changed the editor, %#v", e.Config())
	}

	returned := e.UpdateConfig(editor.ConfigPatch{MaskOpacity: float(10)})
	returned.MaskOpacity = 55

	if e.Config().MaskOpacity != 10 {
		t.Errorf("mutating the update result changed the editor, %#v", e.Config())
	}
}

func TestFrameVersion(t *testing.T) {
	e := editor.New()

	_, v1 := e.Frame()
	e.UpdateConfig(editor.ConfigPatch{MaskOpacity: float(10)})
	_, v2 := e.Frame()
	e.Reset()
	_, v3 := e.Frame()

	if !(v1 < v2 && v2 < v3) {
		t.Errorf("versions not increasing, %d %d %d", v1, v2, v3)
	}

	// Reads don't render
	_, v4 := e.Frame()
	if v4 != v3 {
		t.Errorf("reading the frame changed the version, %d != %d", v4, v3)
	}
}

func TestOnChange(t *testing.T) {
	e := editor.New()

	var calls []editor.Config
	remove := e.OnChange(func(cfg editor.Config) {
		calls = append(calls, cfg)
	})

	e.UpdateConfig(editor.ConfigPatch{MaskOpacity: float(40)})
	e.Reset()
	loadImage(t, e, solidImage(2, 2, color.NRGBA{A: 255}))

	if len(calls) != 3 {
		t.Fatalf("wrong number of notifications, %d", len(calls))
	}

	if calls[0].MaskOpacity != 40 {
		t.Errorf("update notification carries wrong config, %#v", calls[0])
	}

	if calls[1] != editor.DefaultConfig() {
		t.Errorf("reset notification carries wrong config, %#v", calls[1])
	}

	// Loads notify with the unchanged config
	if calls[2] != editor.DefaultConfig() {
		t.Errorf("load notification carries wrong config, %#v", calls[2])
	}

	remove()
	e.UpdateConfig(editor.ConfigPatch{MaskOpacity: float(60)})

	if len(calls) != 3 {
		t.Error("removed observer still notified")
	}
}

func TestExportBeforeLoad(t *testing.T) {
	e := editor.New()

	var buf bytes.Buffer
	if err := e.Export(&buf); err != nil {
		t.Fatal(err)
	}

	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if decoded.Bounds() != image.Rect(0, 0, 300, 150) {
		t.Errorf("wrong blank surface size, %#v", decoded.Bounds())
	}

	if _, _, _, a := decoded.At(10, 10).RGBA(); a != 0 {
		t.Error("blank surface is not transparent")
	}
}

func TestExportMatchesFrame(t *testing.T) {
	e := editor.New()
	loadImage(t, e, solidImage(6, 6, color.NRGBA{R: 255, A: 255}))
	e.UpdateConfig(editor.ConfigPatch{MaskOpacity: float(100), MaskColor: str("#00ff00")})

	var buf bytes.Buffer
	if err := e.Export(&buf); err != nil {
		t.Fatal(err)
	}

	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}

	frame, _ := e.Frame()
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			want := frame.NRGBAAt(x, y)
			r, g, b, a := decoded.At(x, y).RGBA()
			got := color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
			if got != want {
				t.Fatalf("export differs from the frame at %d,%d, %#v != %#v", x, y, got, want)
			}
		}
	}
}
