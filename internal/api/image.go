package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/DMarby/quick-pic/internal/editor"
	"github.com/DMarby/quick-pic/internal/handler"
	"github.com/DMarby/quick-pic/internal/params"
)

// Max size of an uploaded image
const maxUploadSize = 32 << 20

// ImageInfo contains metadata about the loaded source image
type ImageInfo struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Format      string `json:"format"`
	Fingerprint string `json:"fingerprint"`
}

// Loads a new source image from the request body, either raw or as the
// `image` field of a multipart form
func (a *API) uploadHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	source := io.Reader(r.Body)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("image")
		if err != nil {
			return handler.BadRequest("Invalid image upload")
		}
		defer file.Close()

		source = file
	}

	if err := a.Editor.Load(source); err != nil {
		switch {
		case errors.Is(err, editor.ErrDecode):
			return handler.BadRequest("Invalid image data")
		case errors.Is(err, editor.ErrReadSource):
			return handler.BadRequest("Invalid image upload")
		}

		a.logError(r, "error loading image", err)
		return handler.InternalServerError()
	}

	return a.writeImageInfo(w, r)
}

// Returns info about the loaded source image
func (a *API) imageInfoHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	return a.writeImageInfo(w, r)
}

func (a *API) writeImageInfo(w http.ResponseWriter, r *http.Request) *handler.Error {
	info, ok := a.Editor.Image()
	if !ok {
		return handler.NotFound("No image loaded")
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if err := json.NewEncoder(w).Encode(ImageInfo{
		Width:       info.Width,
		Height:      info.Height,
		Format:      info.Format,
		Fingerprint: strconv.FormatUint(info.Fingerprint, 16),
	}); err != nil {
		a.logError(r, "error encoding image info", err)
		return handler.InternalServerError()
	}

	return nil
}

// Returns the current frame as PNG
func (a *API) previewHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	data, etag, err := a.Frames.Encoded(r.Context())
	if err != nil {
		a.logError(r, "error encoding frame", err)
		return handler.InternalServerError()
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return nil
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(data)

	return nil
}

// Returns the current frame as a PNG download
func (a *API) exportHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	data, _, err := a.Frames.Encoded(r.Context())
	if err != nil {
		a.logError(r, "error encoding frame", err)
		return handler.InternalServerError()
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", params.Filename(r)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Write(data)

	return nil
}
