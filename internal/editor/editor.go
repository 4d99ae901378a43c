package editor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	// Decoders for the supported source formats
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/twmb/murmur3"
)

// Editor owns a single source image and composites it with the current
// adjustments into a rendered frame. All operations serialize behind one
// lock, published frames are never mutated afterwards.
type Editor struct {
	mu           sync.Mutex
	source       *image.NRGBA // nil until the first successful load
	info         ImageInfo
	config       Config
	frame        *image.NRGBA
	version      uint64
	observers    map[int]func(Config)
	nextObserver int
}

// ImageInfo describes the currently loaded source image
type ImageInfo struct {
	Width       int
	Height      int
	Format      string
	Fingerprint uint64
}

// New creates an Editor with default adjustments and a blank surface
func New() *Editor {
	e := &Editor{
		config:    DefaultConfig(),
		observers: make(map[int]func(Config)),
	}

	e.frame = renderFrame(e.source, e.config)
	e.version = 1

	return e
}

// Load reads and decodes an image, replaces the current one, and renders.
// The surface takes on the exact pixel dimensions of the new image, and the
// current adjustments stay as they are. On failure nothing changes.
func (e *Editor) Load(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrReadSource, err)
	}

	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDecode, err)
	}

	// Clone so that the editor owns the pixels, normalized to NRGBA
	source := imaging.Clone(decoded)

	info := ImageInfo{
		Width:       source.Bounds().Dx(),
		Height:      source.Bounds().Dy(),
		Format:      format,
		Fingerprint: murmur3.Sum64(data),
	}

	e.mu.Lock()
	e.source = source
	e.info = info
	cfg := e.config
	e.publish()
	observers := e.snapshotObservers()
	e.mu.Unlock()

	for _, fn := range observers {
		fn(cfg)
	}

	return nil
}

// UpdateConfig merges the patch onto the current adjustments, renders,
// and returns the merged result. Values are stored as given, out of range
// values only get clamped when drawing.
func (e *Editor) UpdateConfig(patch ConfigPatch) Config {
	return e.change(func(cfg Config) Config {
		return patch.Apply(cfg)
	})
}

// Reset restores the default adjustments and renders.
// The loaded image stays in place.
func (e *Editor) Reset() Config {
	return e.change(func(Config) Config {
		return DefaultConfig()
	})
}

// Config returns a copy of the current adjustments
func (e *Editor) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.config
}

// Image returns information about the loaded source image,
// ok is false until an image has been loaded
func (e *Editor) Image() (info ImageInfo, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.info, e.source != nil
}

// Frame returns the last rendered frame and its version. It never
// re-renders, the result is always exactly what the preview shows,
// including the blank surface before the first load.
func (e *Editor) Frame() (*image.NRGBA, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.frame, e.version
}

// Export writes the current frame as PNG, without re-rendering
func (e *Editor) Export(w io.Writer) error {
	frame, _ := e.Frame()
	return imaging.Encode(w, frame, imaging.PNG)
}

// OnChange registers fn to run after every completed render pass, with a
// copy of the config that produced it. Callbacks run outside the editor
// lock. The returned function removes the subscription.
func (e *Editor) OnChange(fn func(Config)) (remove func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextObserver
	e.nextObserver++
	e.observers[id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()

		delete(e.observers, id)
	}
}

// change applies a config mutation and renders under the lock,
// then notifies observers
func (e *Editor) change(mutate func(Config) Config) Config {
	e.mu.Lock()
	e.config = mutate(e.config)
	cfg := e.config
	e.publish()
	observers := e.snapshotObservers()
	e.mu.Unlock()

	for _, fn := range observers {
		fn(cfg)
	}

	return cfg
}

// publish renders a fresh frame and makes it current, the caller holds the lock
func (e *Editor) publish() {
	e.frame = renderFrame(e.source, e.config)
	e.version++
}

func (e *Editor) snapshotObservers() []func(Config) {
	observers := make([]func(Config), 0, len(e.observers))
	for _, fn := range e.observers {
		observers = append(observers, fn)
	}

	return observers
}

// Errors
var (
	// ErrReadSource is returned by Load when the image data cannot be read
	ErrReadSource = errors.New("failed to read image data")
	// ErrDecode is returned by Load when the image data is not a supported image
	ErrDecode = errors.New("failed to decode image")
)
