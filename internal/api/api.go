package api

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/DMarby/quick-pic/internal/editor"
	"github.com/DMarby/quick-pic/internal/frame"
	"github.com/DMarby/quick-pic/internal/handler"
	"github.com/DMarby/quick-pic/internal/health"
	"github.com/DMarby/quick-pic/internal/library"
	"github.com/DMarby/quick-pic/internal/logger"
	"github.com/DMarby/quick-pic/internal/tracing"
	"github.com/DMarby/quick-pic/internal/web"

	"github.com/gorilla/mux"
)

// API is a http api
type API struct {
	Editor         *editor.Editor
	Frames         *frame.Service
	Library        library.Provider
	Samples        *library.Cache
	HealthChecker  *health.Checker
	Log            *logger.Logger
	Tracer         *tracing.Tracer
	RootURL        string
	HandlerTimeout time.Duration
}

// Utility methods for logging
func (a *API) logError(r *http.Request, message string, err error) {
	a.Log.Errorw(message, handler.LogFields(r, "error", err)...)
}

// Router returns a http router
func (a *API) Router() http.Handler {
	router := mux.NewRouter()

	router.NotFoundHandler = handler.Handler(a.notFoundHandler)

	// Redirect trailing slashes
	router.StrictSlash(true)

	// Healthcheck
	router.Handle("/health", handler.Health(a.HealthChecker)).Methods("GET")

	// Source image
	router.Handle("/api/image", handler.Handler(a.uploadHandler)).Methods("POST")
	router.Handle("/api/image", handler.Handler(a.imageInfoHandler)).Methods("GET")

	// Adjustments
	router.Handle("/api/config", handler.Handler(a.configHandler)).Methods("GET")
	router.Handle("/api/config", handler.Handler(a.updateConfigHandler)).Methods("PATCH")
	router.Handle("/api/config/reset", handler.Handler(a.resetConfigHandler)).Methods("POST")
	router.Handle("/api/config/defaults", handler.Handler(a.defaultsHandler)).Methods("GET")

	// Rendered frame
	router.Handle("/api/preview", handler.Handler(a.previewHandler)).Methods("GET")
	router.Handle("/api/export", handler.Handler(a.exportHandler)).Methods("GET")

	// Query parameters:
	// ?filename={filename} - Name for the downloaded file

	// Share links
	router.Handle("/api/share", handler.Handler(a.shareHandler)).Methods("GET")

	// Sample library
	router.Handle("/api/library", handler.Handler(a.listHandler)).Methods("GET")

	// Query parameters:
	// ?page={page} - What page to display
	// ?limit={limit} - How many entries to display per page

	router.Handle("/api/library/random/open", handler.Handler(a.openRandomHandler)).Methods("POST")
	router.Handle("/api/library/{id}/open", handler.Handler(a.openHandler)).Methods("POST")

	// Editor page
	static, _ := fs.Sub(web.Static, "embed")
	router.HandleFunc("/", serveIndex(static))
	router.PathPrefix("/assets/").HandlerFunc(fileHeaders(http.FileServer(http.FS(static)).ServeHTTP))

	routeMatcher := &handler.MuxRouteMatcher{Router: router}

	// Set up handlers for adding a request id, handling panics, request logging, tracing, metrics, setting CORS headers, and handler execution timeout
	return handler.AddRequestID(handler.Recovery(a.Log, handler.Logger(a.Log, handler.Tracer(a.Tracer, handler.Metrics(handler.CORS(http.TimeoutHandler(router, a.HandlerTimeout, "Something went wrong. Timed out.")), routeMatcher), routeMatcher))))
}

// Handle not found errors
var notFoundError = &handler.Error{
	Message: "page not found",
	Code:    http.StatusNotFound,
}

func (a *API) notFoundHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	return notFoundError
}

// Set headers for static file handlers
func fileHeaders(handler func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		handler(w, r)
	}
}

// Serve the editor page. It applies shared adjustments itself, so it is
// never cached.
func serveIndex(static fs.FS) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := fs.ReadFile(static, "index.html")
		if err != nil {
			http.Error(w, "Something went wrong", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(index)
	}
}
