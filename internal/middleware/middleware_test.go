package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/storefront/storefront-go/internal/model"
	"github.com/storefront/storefront-go/internal/service"
)

type fakeAuthenticator map[string]*model.User

func (f fakeAuthenticator) CurrentUser(_ context.Context, token string) (*model.User, error) {
	if token == "broken-store" {
		return nil, errors.New("connection refused")
	}
	if u, ok := f[token]; ok {
		return u, nil
	}
	return nil, service.ErrInvalidToken
}

func TestAuthenticate(t *testing.T) {
	alice := &model.User{ID: 1, Username: "alice"}
	auth := fakeAuthenticator{"good": alice}

	var seen *model.User
	h := Authenticate(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   *model.User
		challenge  bool
	}{
		{name: "valid", header: "Bearer good", wantStatus: http.StatusNoContent, wantUser: alice},
		{name: "lowercase scheme", header: "bearer good", wantStatus: http.StatusNoContent, wantUser: alice},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, challenge: true},
		{name: "wrong scheme", header: "Basic Zm9vOmJhcg==", wantStatus: http.StatusUnauthorized, challenge: true},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized, challenge: true},
		{name: "invalid token", header: "Bearer bad", wantStatus: http.StatusUnauthorized, challenge: true},
		{name: "store failure", header: "Bearer broken-store", wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUser, seen)
			if tt.challenge {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
				assert.Contains(t, rec.Body.String(), `"detail"`)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := chimw.RequestID(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products", nil))

	out := buf.String()
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "bytes=15")
	assert.Contains(t, out, "path=/products")
	assert.Contains(t, out, "request_id=")
}
