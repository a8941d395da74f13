package api

import (
	"net/http"
)

type prioritiesRequest struct {
	TaskIDs []string `json:"taskIds"`
	Apply   bool     `json:"apply"`
}

type autocompleteRequest struct {
	Title string `json:"title"`
}

func (a *API) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.ai.Summary(r.Context())
	if err != nil {
		a.errors.Respond(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

func (a *API) handlePriorities(w http.ResponseWriter, r *http.Request) {
	var req prioritiesRequest
	if err := decodeJSON(r, &req); err != nil {
		a.errors.Respond(w, r, err)
		return
	}

	suggestions, err := a.ai.SuggestPriorities(r.Context(), req.TaskIDs, req.Apply)
	if err != nil {
		a.errors.Respond(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, suggestions)
}

func (a *API) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	var req autocompleteRequest
	if err := decodeJSON(r, &req); err != nil {
		a.errors.Respond(w, r, err)
		return
	}

	description, err := a.ai.AutoComplete(r.Context(), req.Title)
	if err != nil {
		a.errors.Respond(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"description": description})
}
