package handler

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/storefront/storefront-go/internal/middleware"
	"github.com/storefront/storefront-go/internal/model"
	"github.com/storefront/storefront-go/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

var verificationPage = template.Must(template.ParseFS(templateFS, "templates/verification.html"))

// AuthHandler handles registration, login, verification and the profile.
type AuthHandler struct {
	auth       *service.AuthService
	businesses *service.BusinessService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, businesses *service.BusinessService) *AuthHandler {
	return &AuthHandler{auth: auth, businesses: businesses}
}

// HandleRegister handles POST /registration requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, okResponse(fmt.Sprintf(
		"Hello %s, thanks for registrations.\nPlease check your email and click on the link to confirm you registrations",
		user.Username,
	)))
}

// HandleToken handles POST /token requests with an OAuth2 password form.
func (h *AuthHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid form body"))
		return
	}

	if gt := r.PostForm.Get("grant_type"); gt != "" && gt != "password" {
		writeJSON(w, http.StatusBadRequest, errorResponse("unsupported grant_type"))
		return
	}

	username, password := r.PostForm.Get("username"), r.PostForm.Get("password")
	if username == "" || password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("username and password are required"))
		return
	}

	resp, err := h.auth.Login(r.Context(), username, password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleVerification handles GET /verification?token= requests.
func (h *AuthHandler) HandleVerification(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Verify(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := verificationPage.Execute(w, struct{ Username string }{user.Username}); err != nil {
		slog.ErrorContext(r.Context(), "rendering verification page", "error", err)
	}
}

// HandleMe handles GET and POST /user/me requests.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "Not authenticated")
		return
	}

	profile, err := h.businesses.Profile(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, okResponse(profile))
}
