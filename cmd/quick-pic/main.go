package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"

	"github.com/DMarby/quick-pic/internal/api"
	"github.com/DMarby/quick-pic/internal/cmd"
	"github.com/DMarby/quick-pic/internal/editor"
	"github.com/DMarby/quick-pic/internal/frame"
	"github.com/DMarby/quick-pic/internal/health"
	"github.com/DMarby/quick-pic/internal/library"
	"github.com/DMarby/quick-pic/internal/logger"
	"github.com/DMarby/quick-pic/internal/metrics"
	"github.com/DMarby/quick-pic/internal/tracing"

	"github.com/DMarby/quick-pic/internal/cache"
	"github.com/DMarby/quick-pic/internal/cache/memory"
	"github.com/DMarby/quick-pic/internal/cache/redis"

	fileLibrary "github.com/DMarby/quick-pic/internal/library/file"
	"github.com/DMarby/quick-pic/internal/library/postgresql"

	"github.com/DMarby/quick-pic/internal/storage"
	fileStorage "github.com/DMarby/quick-pic/internal/storage/file"
	"github.com/DMarby/quick-pic/internal/storage/spaces"

	"github.com/jamiealquiza/envy"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
	"tailscale.com/tsnet"
)

// Comandline flags
var (
	// Global
	listen        = flag.String("listen", ":8080", "listen address")
	metricsListen = flag.String("metrics-listen", ":8083", "metrics listen address")
	rootURL       = flag.String("root-url", "http://localhost:8080", "root url")
	loglevel      = zap.LevelFlag("log-level", zap.InfoLevel, "log level (default \"info\") (debug, info, warn, error, dpanic, panic, fatal)")

	// Frame encoding
	encodeWorkers = flag.Int("encode-workers", 2, "number of frame encode workers")

	// Tailscale
	tailscaleHostname = flag.String("tailscale-hostname", "", "if set, also serve the editor on the tailnet under this hostname")

	// Library
	libraryBackend = flag.String("library", "file", "which library backend to use (file, postgresql)")

	// Library - File
	libraryFilePath = flag.String("library-file-path", "./test/fixtures/library/metadata.json", "path to the library metadata file")

	// Library - Postgresql
	libraryPostgresqlAddress  = flag.String("library-postgresql-address", "postgresql://postgres@127.0.0.1/postgres", "postgresql address")
	libraryPostgresqlMaxConns = flag.Int("library-postgresql-max-conns", 0, "postgresql max connections")

	// Storage
	storageBackend = flag.String("storage", "file", "which storage backend to use (file, spaces)")

	// Storage - File
	storageFilePath = flag.String("storage-file-path", "./test/fixtures/library", "path to the file storage")

	// Storage - Spaces
	storageSpacesSpace          = flag.String("storage-spaces-space", "", "digitalocean space to use")
	storageSpacesEndpoint       = flag.String("storage-spaces-endpoint", "", "spaces endpoint")
	storageSpacesAccessKey      = flag.String("storage-spaces-access-key", "", "spaces access key")
	storageSpacesSecretKey      = flag.String("storage-spaces-secret-key", "", "spaces secret key")
	storageSpacesForcePathStyle = flag.Bool("storage-spaces-force-path-style", false, "use path-style object urls")

	// Cache
	cacheBackend = flag.String("cache", "memory", "which cache backend to use (memory, redis)")

	// Cache - Redis
	cacheRedisAddress  = flag.String("cache-redis-address", "redis://127.0.0.1:6379", "redis address, may contain authentication details")
	cacheRedisPoolSize = flag.Int("cache-redis-pool-size", 10, "redis connection pool size")

	// Healthcheck
	healthCheckSampleID = flag.String("health-check-sample-id", "1", "sample ID to request from the storage to check storage health")
)

func main() {
	// Parse environment variables
	envy.Parse("QUICKPIC")

	// Parse commandline flags
	flag.Parse()

	// Initialize the logger
	log := logger.New(*loglevel)
	defer log.Sync()

	// Set GOMAXPROCS
	maxprocs.Set(maxprocs.Logger(log.Infof))

	// Set up context for shutting down
	shutdownCtx, shutdown := context.WithCancel(context.Background())
	defer shutdown()

	// Initialize tracing
	tracerCtx, tracerCancel := context.WithCancel(context.Background())
	defer tracerCancel()

	tracer, err := tracing.New(tracerCtx, log, "quick-pic")
	if err != nil {
		log.Fatalf("error initializing tracing: %s", err)
	}

	// Initialize the library, storage and cache
	catalog, sampleStorage, cacheProvider, err := setupBackends(tracerCtx, tracer)
	if err != nil {
		log.Fatalf("error initializing backends: %s", err)
	}
	defer catalog.Shutdown()
	defer cacheProvider.Shutdown()

	samples, err := catalog.ListAll(tracerCtx)
	if err != nil {
		log.Fatalf("error listing the sample library: %s", err)
	}
	log.Infof("sample library contains %d images", len(samples))

	// Initialize the editor and the frame encoder
	photoEditor := editor.New()
	photoEditor.OnChange(func(config editor.Config) {
		log.Debugw("adjustments changed",
			"mask-opacity", config.MaskOpacity,
			"mask-color", config.MaskColor,
			"image-opacity", config.ImageOpacity,
			"blur-amount", config.BlurAmount,
		)
	})

	frameCtx, frameCancel := context.WithCancel(context.Background())
	defer frameCancel()

	frames := frame.New(frameCtx, log, tracer, photoEditor, cacheProvider, *encodeWorkers)

	// Initialize and start the health checker
	checkerCtx, checkerCancel := context.WithCancel(context.Background())
	defer checkerCancel()

	checker := &health.Checker{
		Ctx:      checkerCtx,
		Storage:  sampleStorage,
		SampleID: *healthCheckSampleID,
		Library:  catalog,
		Cache:    cacheProvider,
		Log:      log,
	}
	go checker.Run()

	// Serve metrics, profiling and healthchecks on a separate listener
	metricsCtx, metricsCancel := context.WithCancel(context.Background())
	defer metricsCancel()

	go metrics.Serve(metricsCtx, log, checker, *metricsListen)

	// Start and listen on http
	api := &api.API{
		Editor:         photoEditor,
		Frames:         frames,
		Library:        catalog,
		Samples:        library.NewCache(tracer, cacheProvider, sampleStorage),
		HealthChecker:  checker,
		Log:            log,
		Tracer:         tracer,
		RootURL:        *rootURL,
		HandlerTimeout: cmd.HandlerTimeout,
	}
	server := &http.Server{
		Addr:         *listen,
		Handler:      api.Router(),
		ReadTimeout:  cmd.ReadTimeout,
		WriteTimeout: cmd.WriteTimeout,
		ErrorLog:     logger.NewHTTPErrorLog(log),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.Infof("shutting down the http server: %s", err)
			shutdown()
		}
	}()

	log.Infof("http server listening on %s", *listen)

	// Optionally serve on the tailnet as well
	if *tailscaleHostname != "" {
		tailscaleServer := &tsnet.Server{
			Hostname: *tailscaleHostname,
			Logf:     log.Named("tsnet").Debugf,
		}
		defer tailscaleServer.Close()

		tailscaleListener, err := tailscaleServer.Listen("tcp", ":80")
		if err != nil {
			log.Fatalf("error listening on the tailnet: %s", err)
		}

		go func() {
			if err := server.Serve(tailscaleListener); err != nil {
				log.Infof("shutting down the tailnet listener: %s", err)
				shutdown()
			}
		}()

		log.Infof("serving on the tailnet as %s", *tailscaleHostname)
	}

	// Wait for shutdown or error
	err = cmd.WaitForInterrupt(shutdownCtx)
	log.Infof("shutting down: %s", err)

	// Shut down http server
	serverCtx, serverCancel := context.WithTimeout(context.Background(), cmd.WriteTimeout)
	defer serverCancel()
	if err := server.Shutdown(serverCtx); err != nil {
		log.Warnf("error shutting down: %s", err)
	}

	tracer.Shutdown(serverCtx)
}

func setupBackends(ctx context.Context, tracer *tracing.Tracer) (catalog library.Provider, sampleStorage storage.Provider, cacheProvider cache.Provider, err error) {
	// Library
	switch *libraryBackend {
	case "file":
		catalog, err = fileLibrary.New(*libraryFilePath)
	case "postgresql":
		catalog, err = postgresql.New(*libraryPostgresqlAddress, *libraryPostgresqlMaxConns)
	default:
		err = fmt.Errorf("invalid library backend")
	}

	if err != nil {
		return
	}

	// Storage
	switch *storageBackend {
	case "file":
		sampleStorage, err = fileStorage.New(*storageFilePath)
	case "spaces":
		sampleStorage, err = spaces.New(*storageSpacesSpace, *storageSpacesEndpoint, *storageSpacesAccessKey, *storageSpacesSecretKey, *storageSpacesForcePathStyle)
	default:
		err = fmt.Errorf("invalid storage backend")
	}

	if err != nil {
		return
	}

	// Cache
	switch *cacheBackend {
	case "memory":
		cacheProvider = memory.New()
	case "redis":
		cacheProvider, err = redis.New(ctx, tracer, *cacheRedisAddress, *cacheRedisPoolSize)
	default:
		err = fmt.Errorf("invalid cache backend")
	}

	return
}
