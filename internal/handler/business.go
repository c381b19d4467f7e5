package handler

import (
	"net/http"

	"github.com/storefront/storefront-go/internal/middleware"
	"github.com/storefront/storefront-go/internal/model"
	"github.com/storefront/storefront-go/internal/service"
)

// BusinessHandler handles HTTP requests for businesses.
type BusinessHandler struct {
	service *service.BusinessService
}

// NewBusinessHandler creates a new BusinessHandler.
func NewBusinessHandler(svc *service.BusinessService) *BusinessHandler {
	return &BusinessHandler{service: svc}
}

// HandleUpdate handles PUT /business/update?id= requests.
func (h *BusinessHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "Not authenticated")
		return
	}

	id, ok := parseID(w, r.URL.Query().Get("id"))
	if !ok {
		return
	}

	var req model.BusinessUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	business, err := h.service.Update(r.Context(), user, id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, okResponse(model.NewBusinessResponse(business)))
}
