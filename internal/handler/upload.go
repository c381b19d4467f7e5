package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storefront/storefront-go/internal/middleware"
	"github.com/storefront/storefront-go/internal/model"
	"github.com/storefront/storefront-go/internal/service"
)

// UploadHandler handles multipart image uploads.
type UploadHandler struct {
	service *service.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(svc *service.UploadService) *UploadHandler {
	return &UploadHandler{service: svc}
}

// HandleProfile handles POST /uploadfile/profile requests.
func (h *UploadHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "Not authenticated")
		return
	}

	h.handle(w, r, func(header *multipart.FileHeader, file io.Reader) (string, error) {
		return h.service.UploadLogo(r.Context(), user, header.Filename, file)
	})
}

// HandleProduct handles POST /uploadfile/product/{id} requests.
func (h *UploadHandler) HandleProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "Not authenticated")
		return
	}

	id, ok := parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	h.handle(w, r, func(header *multipart.FileHeader, file io.Reader) (string, error) {
		return h.service.UploadProductImage(r.Context(), user, id, header.Filename, file)
	})
}

// handle reads the "file" part and runs upload. Rejected files are reported
// with a 200 status and an error payload.
func (h *UploadHandler) handle(w http.ResponseWriter, r *http.Request, upload func(*multipart.FileHeader, io.Reader) (string, error)) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse(errBodyTooLarge.Error()))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("file is required"))
		return
	}
	defer file.Close()

	url, err := upload(header, file)
	if err != nil {
		if errors.Is(err, service.ErrExtensionNotAllowed) || errors.Is(err, service.ErrInvalidImage) {
			writeJSON(w, http.StatusOK, model.UploadResponse{Status: "error", Detail: rejectionDetail(err)})
			return
		}
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UploadResponse{Status: "ok", Filename: url})
}

func rejectionDetail(err error) string {
	if errors.Is(err, service.ErrExtensionNotAllowed) {
		return service.ErrExtensionNotAllowed.Error()
	}
	return service.ErrInvalidImage.Error()
}
