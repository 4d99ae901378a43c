package library

import (
	"context"

	"github.com/DMarby/quick-pic/internal/cache"
	"github.com/DMarby/quick-pic/internal/storage"
	"github.com/DMarby/quick-pic/internal/tracing"
)

// Cache caches sample image data
type Cache = cache.Auto

// NewCache instantiates a new cache
func NewCache(tracer *tracing.Tracer, cacheProvider cache.Provider, storageProvider storage.Provider) *Cache {
	return &Cache{
		Tracer:   tracer,
		Provider: cacheProvider,
		Loader: func(ctx context.Context, key string) (data []byte, err error) {
			ctx, span := tracer.Start(ctx, "library.Cache.Loader")
			defer span.End()

			return storageProvider.Get(ctx, key)
		},
	}
}
