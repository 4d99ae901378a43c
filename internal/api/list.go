package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/DMarby/quick-pic/internal/handler"
	"github.com/DMarby/quick-pic/internal/library"
	"github.com/gorilla/mux"
)

const (
	// Default number of items per page
	defaultLimit = 30
	// Max number of items per page
	maxLimit = 100
)

// ListImage contains metadata about a sample, along with the route for opening it
type ListImage struct {
	library.Image
	OpenURL string `json:"open_url"`
}

// Paginated sample list, with `page` and `limit` query parameters
func (a *API) listHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	limit := getLimit(r)
	page := getPage(r)

	offset := limit * (page - 1)

	samples, err := a.Library.List(r.Context(), offset, limit)
	if err != nil {
		a.logError(r, "error getting sample list from library", err)
		return handler.InternalServerError()
	}

	list := []ListImage{}

	for _, sample := range samples {
		list = append(list, a.getListImage(sample))
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	// If we've ran out of items, don't include the next page in the Link header
	end := len(list) < limit
	w.Header().Set("Link", a.getLinkHeader(page, limit, end))

	if err := json.NewEncoder(w).Encode(list); err != nil {
		a.logError(r, "error encoding sample list", err)
		return handler.InternalServerError()
	}

	return nil
}

// Loads a sample into the editor
func (a *API) openHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	vars := mux.Vars(r)
	sampleID := vars["id"]

	sample, err := a.Library.Get(r.Context(), sampleID)
	if err != nil {
		if err == library.ErrNotFound {
			return &handler.Error{Message: err.Error(), Code: http.StatusNotFound}
		}

		a.logError(r, "error getting sample from library", err)
		return handler.InternalServerError()
	}

	return a.openSample(w, r, sample)
}

// Loads a random sample into the editor
func (a *API) openRandomHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	sample, err := a.Library.GetRandom(r.Context())
	if err != nil {
		a.logError(r, "error getting random sample from library", err)
		return handler.InternalServerError()
	}

	return a.openSample(w, r, sample)
}

func (a *API) openSample(w http.ResponseWriter, r *http.Request, sample *library.Image) *handler.Error {
	data, err := a.Samples.Get(r.Context(), sample.ID)
	if err != nil {
		a.logError(r, "error getting sample from storage", err)
		return handler.InternalServerError()
	}

	if err := a.Editor.Load(bytes.NewReader(data)); err != nil {
		a.logError(r, "error loading sample", err)
		return handler.InternalServerError()
	}

	return a.writeImageInfo(w, r)
}

func getLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	return limit
}

func getPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	return page
}

func (a *API) getLinkHeader(page, limit int, end bool) string {
	// This will return a next even if there's only enough items for a single page, but lets ignore that for now
	if page == 1 {
		return fmt.Sprintf("<%s/api/library?page=%d&limit=%d>; rel=\"next\"", a.RootURL, page+1, limit)
	}

	if end {
		return fmt.Sprintf("<%s/api/library?page=%d&limit=%d>; rel=\"prev\"", a.RootURL, page-1, limit)
	}

	return fmt.Sprintf("<%s/api/library?page=%d&limit=%d>; rel=\"prev\", <%s/api/library?page=%d&limit=%d>; rel=\"next\"",
		a.RootURL, page-1, limit, a.RootURL, page+1, limit,
	)
}

func (a *API) getListImage(sample library.Image) ListImage {
	return ListImage{
		Image: library.Image{
			ID:     sample.ID,
			Author: sample.Author,
			Width:  sample.Width,
			Height: sample.Height,
			URL:    sample.URL,
		},
		OpenURL: fmt.Sprintf("%s/api/library/%s/open", a.RootURL, sample.ID),
	}
}
