package mock

import (
	"context"
	"fmt"

	"github.com/DMarby/quick-pic/internal/library"
)

// Provider implements a mock sample catalog
type Provider struct {
}

// Get returns the metadata for a sample id
func (p *Provider) Get(ctx context.Context, id string) (i *library.Image, err error) {
	return nil, fmt.Errorf("get error")
}

// GetRandom returns a random sample
func (p *Provider) GetRandom(ctx context.Context) (i *library.Image, err error) {
	return nil, fmt.Errorf("random error")
}

// ListAll returns a list of all the samples
func (p *Provider) ListAll(ctx context.Context) ([]library.Image, error) {
	return nil, fmt.Errorf("list error")
}

// List returns a list of all the samples with an offset/limit
func (p *Provider) List(ctx context.Context, offset, limit int) ([]library.Image, error) {
	return nil, fmt.Errorf("list error")
}

// Shutdown shuts down the provider
func (p *Provider) Shutdown() {}
