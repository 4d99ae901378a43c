package storage

import (
	"context"
	"errors"
)

// Provider is an interface for retrieving sample image data
type Provider interface {
	Get(ctx context.Context, id string) ([]byte, error)
}

// Errors
var (
	ErrNotFound = errors.New("Sample does not exist")
)
