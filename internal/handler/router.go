package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/storefront/storefront-go/internal/middleware"
)

// Handlers groups the handlers mounted by NewRouter.
type Handlers struct {
	Auth       *AuthHandler
	Products   *ProductHandler
	Businesses *BusinessHandler
	Uploads    *UploadHandler
}

// NewRouter mounts every route. Files under staticDir are served at /static/
// when staticDir is not empty.
func NewRouter(h Handlers, auth middleware.Authenticator, staticDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"Message": "HI"})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/registration", h.Auth.HandleRegister)
	r.Post("/token", h.Auth.HandleToken)
	r.Get("/verification", h.Auth.HandleVerification)

	r.Get("/products", h.Products.HandleList)
	r.Get("/products/{id}", h.Products.HandleGet)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(auth))

		r.Get("/user/me", h.Auth.HandleMe)
		r.Post("/user/me", h.Auth.HandleMe)

		r.Post("/products/create", h.Products.HandleCreate)
		r.Put("/product/update", h.Products.HandleUpdate)
		r.Delete("/product/{id}", h.Products.HandleDelete)

		r.Put("/business/update", h.Businesses.HandleUpdate)

		r.Post("/uploadfile/profile", h.Uploads.HandleProfile)
		r.Post("/uploadfile/product/{id}", h.Uploads.HandleProduct)
	})

	if staticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}

	return r
}
