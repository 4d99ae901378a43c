package file

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"math/rand"
	"sync"
	"time"

	"github.com/DMarby/quick-pic/internal/library"
)

// Provider implements a file-based sample catalog
type Provider struct {
	path    string
	samples []library.Image
	random  *rand.Rand
	mu      sync.Mutex
}

// New returns a new Provider instance
func New(path string) (*Provider, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var samples []library.Image
	err = json.Unmarshal(data, &samples)
	if err != nil {
		return nil, err
	}

	source := rand.NewSource(time.Now().UnixNano())
	random := rand.New(source)

	return &Provider{
		path:    path,
		samples: samples,
		random:  random,
	}, nil
}

func (p *Provider) getSample(id string) (*library.Image, error) {
	for _, sample := range p.samples {
		if sample.ID == id {
			return &sample, nil
		}
	}

	return nil, library.ErrNotFound
}

// Get returns the metadata for a sample id
func (p *Provider) Get(ctx context.Context, id string) (i *library.Image, err error) {
	sample, err := p.getSample(id)
	if err != nil {
		return nil, err
	}

	return sample, nil
}

// GetRandom returns a random sample
func (p *Provider) GetRandom(ctx context.Context) (i *library.Image, err error) {
	p.mu.Lock()
	sample := &p.samples[p.random.Intn(len(p.samples))]
	p.mu.Unlock()
	return sample, nil
}

// ListAll returns a list of all the samples
func (p *Provider) ListAll(ctx context.Context) ([]library.Image, error) {
	return p.samples, nil
}

// List returns a list of all the samples with an offset/limit
func (p *Provider) List(ctx context.Context, offset, limit int) ([]library.Image, error) {
	samples := len(p.samples)
	if offset > samples {
		offset = samples
	}

	limit = offset + limit
	if limit > samples {
		limit = samples
	}

	return p.samples[offset:limit], nil
}

// Shutdown shuts down the provider
func (p *Provider) Shutdown() {}
