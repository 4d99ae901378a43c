package frame

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"strconv"
	"time"

	"github.com/DMarby/quick-pic/internal/cache"
	"github.com/DMarby/quick-pic/internal/editor"
	"github.com/DMarby/quick-pic/internal/logger"
	"github.com/DMarby/quick-pic/internal/queue"
	"github.com/DMarby/quick-pic/internal/tracing"

	"github.com/disintegration/imaging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/twmb/murmur3"
)

// Service delivers the editor's rendered frames as encoded PNG.
// Encoding runs on a worker queue and the encoded bytes are cached
// by frame version, so repeated preview and export requests for an
// unchanged frame encode it once.
type Service struct {
	editor     *editor.Editor
	queue      *queue.Queue
	cache      *cache.Auto
	instanceID string
}

var (
	encodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "quickpic_frame_encode_duration_seconds",
		Help: "Time taken to encode a frame as PNG",
	})
	encodeQueueSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quickpic_frame_encode_queue_size",
		Help: "Frame encodes currently queued or running",
	})
)

// New creates a frame service
func New(ctx context.Context, log *logger.Logger, tracer *tracing.Tracer, e *editor.Editor, cacheProvider cache.Provider, workers int) *Service {
	s := &Service{
		editor:     e,
		instanceID: instanceID(),
	}

	s.queue = queue.New(ctx, workers, s.encode)
	s.cache = &cache.Auto{
		Tracer:   tracer,
		Provider: cacheProvider,
		Loader:   s.load,
	}

	go s.queue.Run()
	log.Infof("starting frame encode queue with %d workers", workers)

	return s
}

// Encoded returns the current frame as PNG, along with an ETag for it.
// The ETag covers the instance id, so a restarted editor never revalidates
// a client's stale frame.
func (s *Service) Encoded(ctx context.Context) ([]byte, string, error) {
	_, version := s.editor.Frame()

	data, err := s.cache.Get(ctx, s.key(version))
	if err != nil {
		return nil, "", err
	}

	return data, fmt.Sprintf("%q", s.key(version)), nil
}

// load encodes the latest frame for the cache. When an edit lands between
// the version lookup and the encode, the newer frame gets encoded, the
// entry for the older version then simply never gets requested again.
func (s *Service) load(ctx context.Context, key string) ([]byte, error) {
	frame, _ := s.editor.Frame()

	encodeQueueSize.Inc()
	defer encodeQueueSize.Dec()

	result, err := s.queue.Process(ctx, frame)
	if err != nil {
		return nil, err
	}

	data, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("error getting result")
	}

	return data, nil
}

func (s *Service) encode(ctx context.Context, data interface{}) (interface{}, error) {
	frame, ok := data.(*image.NRGBA)
	if !ok {
		return nil, fmt.Errorf("invalid data")
	}

	timer := prometheus.NewTimer(encodeDuration)
	defer timer.ObserveDuration()

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, frame, imaging.PNG); err != nil {
		return nil, fmt.Errorf("error encoding frame: %s", err)
	}

	return buf.Bytes(), nil
}

func (s *Service) key(version uint64) string {
	return fmt.Sprintf("frame-%s-%d", s.instanceID, version)
}

// instanceID distinguishes editor instances sharing a cache backend,
// so that frames from another instance or a previous run are never served
func instanceID() string {
	hostname, _ := os.Hostname()
	seed := fmt.Sprintf("%s-%d-%d", hostname, os.Getpid(), time.Now().UnixNano())

	return strconv.FormatUint(murmur3.StringSum64(seed), 16)
}
