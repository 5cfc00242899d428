// Package handler implements the HTTP handlers for the dashboard
// configuration API: document access and editing, view resolution,
// and server-side widget rendering.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matthewbaird/dashkit/internal/appstate"
	"github.com/matthewbaird/dashkit/internal/document"
	"github.com/matthewbaird/dashkit/internal/jsonpath"
	"github.com/matthewbaird/dashkit/internal/jsontree"
)

// DocumentHandler serves the configuration documents.
type DocumentHandler struct {
	state *appstate.State
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(state *appstate.State) *DocumentHandler {
	return &DocumentHandler{state: state}
}

// parseName extracts and validates the {name} path parameter.
func parseName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := chi.URLParam(r, "name")
	if !document.ValidName(name) {
		writeError(w, http.StatusNotFound, "UNKNOWN_DOCUMENT",
			"unknown document: "+name+" (known: "+strings.Join(document.Names(), ", ")+")")
		return "", false
	}
	return name, true
}

// HandleListDocuments returns the known document names.
// GET /v1/documents
func (h *DocumentHandler) HandleListDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"documents": document.Names()})
}

// HandleGetDocument returns one document in full.
// GET /v1/documents/{name}
func (h *DocumentHandler) HandleGetDocument(w http.ResponseWriter, r *http.Request) {
	name, ok := parseName(w, r)
	if !ok {
		return
	}
	doc, err := h.state.Document(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "UNKNOWN_DOCUMENT", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// HandlePutDocument replaces one document wholesale. The in-memory
// document always takes the new value; a store failure is reported in
// the response without rolling the edit back.
// PUT /v1/documents/{name}
func (h *DocumentHandler) HandlePutDocument(w http.ResponseWriter, r *http.Request) {
	name, ok := parseName(w, r)
	if !ok {
		return
	}
	var doc map[string]any
	if err := decodeJSON(r, &doc); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "body must be a JSON object: "+err.Error())
		return
	}
	if doc == nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "body must be a JSON object")
		return
	}

	resp := map[string]any{"name": name, "persisted": true}
	if err := h.state.Set(r.Context(), name, doc); err != nil {
		resp["persisted"] = false
		resp["error"] = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// editRequest is the body of a path edit: the dotted path of the
// value to replace and its new value as a raw JSON literal.
type editRequest struct {
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

// HandleEditDocument replaces a single value inside a document by
// dotted path. The edited document shares every untouched subtree
// with its predecessor.
// POST /v1/documents/{name}/edit
func (h *DocumentHandler) HandleEditDocument(w http.ResponseWriter, r *http.Request) {
	name, ok := parseName(w, r)
	if !ok {
		return
	}
	var req editRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PATH", "path is required")
		return
	}
	var value any
	if err := json.Unmarshal(req.Value, &value); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_VALUE", "value is not valid JSON: "+err.Error())
		return
	}

	doc, err := h.state.Document(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "UNKNOWN_DOCUMENT", err.Error())
		return
	}
	updated, err := jsonpath.SetDotted(doc, req.Path, value)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_PATH", err.Error())
		return
	}

	resp := map[string]any{"name": name, "path": req.Path, "persisted": true}
	if err := h.state.Set(r.Context(), name, updated.(map[string]any)); err != nil {
		resp["persisted"] = false
		resp["error"] = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGetNode renders one node of a document as a navigable tree
// view: composite children summarized, leaves with their JSON
// literals, plus the breadcrumb trail back to the root.
// GET /v1/documents/{name}/node?path=a.b.c&expand=a,b.c
func (h *DocumentHandler) HandleGetNode(w http.ResponseWriter, r *http.Request) {
	name, ok := parseName(w, r)
	if !ok {
		return
	}
	doc, err := h.state.Document(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "UNKNOWN_DOCUMENT", err.Error())
		return
	}

	nav := jsontree.New(doc)
	if path := r.URL.Query().Get("path"); path != "" {
		if err := nav.NavigateDotted(path); err != nil {
			var invalid *jsontree.ErrInvalidPath
			if errors.As(err, &invalid) {
				writeError(w, http.StatusBadRequest, "INVALID_PATH", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "NAVIGATE_FAILED", err.Error())
			return
		}
	}
	if expand := r.URL.Query().Get("expand"); expand != "" {
		for _, p := range strings.Split(expand, ",") {
			nav.ToggleExpand(p)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"node":        nav.Render(),
		"breadcrumbs": nav.Breadcrumbs(),
	})
}
