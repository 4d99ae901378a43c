package api

import (
	"encoding/json"
	"net/http"

	"github.com/DMarby/quick-pic/internal/editor"
	"github.com/DMarby/quick-pic/internal/handler"
)

// Returns the current adjustments
func (a *API) configHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	return a.writeConfig(w, r, a.Editor.Config())
}

// Applies a partial adjustment update, leaving missing fields untouched
func (a *API) updateConfigHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	var patch editor.ConfigPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		return handler.BadRequest("Invalid adjustments")
	}

	return a.writeConfig(w, r, a.Editor.UpdateConfig(patch))
}

// Restores all adjustments to their defaults
func (a *API) resetConfigHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	return a.writeConfig(w, r, a.Editor.Reset())
}

// Returns the default adjustments without applying them
func (a *API) defaultsHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	return a.writeConfig(w, r, editor.DefaultConfig())
}

func (a *API) writeConfig(w http.ResponseWriter, r *http.Request, config editor.Config) *handler.Error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if err := json.NewEncoder(w).Encode(config); err != nil {
		a.logError(r, "error encoding adjustments", err)
		return handler.InternalServerError()
	}

	return nil
}
