package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/DMarby/quick-pic/internal/handler"
	"github.com/DMarby/quick-pic/internal/params"
)

// ShareLink points at the editor with a set of adjustments applied
type ShareLink struct {
	URL string `json:"url"`
}

// Returns a link that reproduces the current adjustments
func (a *API) shareHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	query := params.BuildQuery(params.Query(a.Editor.Config()))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if err := json.NewEncoder(w).Encode(ShareLink{
		URL: fmt.Sprintf("%s/%s", a.RootURL, query),
	}); err != nil {
		a.logError(r, "error encoding share link", err)
		return handler.InternalServerError()
	}

	return nil
}
