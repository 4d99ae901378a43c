package mock

import (
	"context"
	"fmt"
)

// Provider implements a mock sample image storage
type Provider struct {
}

// Get returns the image data for a sample id
func (p *Provider) Get(ctx context.Context, id string) ([]byte, error) {
	return nil, fmt.Errorf("get error")
}
