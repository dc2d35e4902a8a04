package handler

import (
	"net/http"

	"github.com/userdesk/userdesk/internal/pageinfo"
)

// PageHandler serves the prerendered page data.
type PageHandler struct {
	page *pageinfo.Page
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(page *pageinfo.Page) *PageHandler {
	return &PageHandler{page: page}
}

// Load handles GET /api/v1/page?path=/.
// A missing path is treated as "/".
func (h *PageHandler) Load(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.page.Load(r.URL.Query().Get("path")))
}
