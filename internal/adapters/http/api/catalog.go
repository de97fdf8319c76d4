package api

import (
	"net/http"

	"github.com/okian/engage/internal/domain/catalog"
	"github.com/okian/engage/internal/domain/model"
)

type catalogResponse struct {
	Events     []model.EventConfig `json:"events"`
	Surveys    []catalog.Survey    `json:"surveys"`
	Polls      []catalog.Poll      `json:"polls"`
	Sponsors   []catalog.Sponsor   `json:"sponsors"`
	Sessions   []catalog.Session   `json:"sessions"`
	Challenges []model.Challenge   `json:"challenges"`
}

// CatalogHandler serves the read-only reference data.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleGetCatalog handles GET /catalog requests.
func (h *CatalogHandler) HandleGetCatalog(w http.ResponseWriter, _ *http.Request) {
	c := h.deps.Catalog()
	if c == nil {
		writeFailure(w, NewKind("api.get_catalog", ErrUnavailable))
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse{
		Events:     c.Events(),
		Surveys:    c.Surveys(),
		Polls:      c.Polls(),
		Sponsors:   c.Sponsors(),
		Sessions:   c.Sessions(),
		Challenges: c.Challenges(),
	})
}
