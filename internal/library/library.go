package library

import (
	"context"
	"errors"
)

// Image contains metadata about a sample image in the catalog
type Image struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url"`
}

// Provider is an interface for accessing the sample image catalog
type Provider interface {
	Get(ctx context.Context, id string) (*Image, error)
	GetRandom(ctx context.Context) (*Image, error)
	ListAll(ctx context.Context) ([]Image, error)
	List(ctx context.Context, offset, limit int) ([]Image, error)
	Shutdown()
}

// ErrNotFound is used when a sample does not exist
var ErrNotFound = errors.New("Sample does not exist")
