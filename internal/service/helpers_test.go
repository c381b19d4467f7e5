package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/storefront/storefront-go/internal/crypto"
	"github.com/storefront/storefront-go/internal/model"
	"github.com/storefront/storefront-go/internal/repository"
	"github.com/storefront/storefront-go/internal/repository/memory"
)

const testPassword = "correct horse"

type sentVerification struct {
	user  model.User
	token string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentVerification
	err  error
}

func (n *fakeNotifier) SendVerification(user *model.User, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentVerification{user: *user, token: token})
	return nil
}

func (n *fakeNotifier) last(t *testing.T) sentVerification {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent, "no verification sent")
	return n.sent[len(n.sent)-1]
}

type fakeImages struct {
	mu    sync.Mutex
	saved map[string][]byte
	err   error
}

func (f *fakeImages) Save(_ context.Context, name string, data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.saved == nil {
		f.saved = make(map[string][]byte)
	}
	f.saved[name] = data
	return nil
}

func (f *fakeImages) URL(name string) string {
	return "http://img.test/" + name
}

func (f *fakeImages) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type testEnv struct {
	store    *memory.Store
	tokens   *crypto.TokenService
	notifier *fakeNotifier
	images   *fakeImages
	guard    *Guard

	auth       *AuthService
	products   *ProductService
	businesses *BusinessService
	uploads    *UploadService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens, err := crypto.NewTokenService("test-secret", 0)
	require.NoError(t, err)

	store := memory.NewStore()
	notifier := &fakeNotifier{}
	images := &fakeImages{}
	guard := NewGuard(tokens, store.Users(), store.Businesses(), store.Products())

	return &testEnv{
		store:      store,
		tokens:     tokens,
		notifier:   notifier,
		images:     images,
		guard:      guard,
		auth:       NewAuthService(store.Users(), tokens, notifier),
		products:   NewProductService(guard, store.Products(), store.Businesses()),
		businesses: NewBusinessService(guard, store.Businesses(), images),
		uploads:    NewUploadService(guard, store.Businesses(), store.Products(), images, time.Second),
	}
}

// register creates a user named username and returns it with its business.
func (e *testEnv) register(t *testing.T, username string) (*model.User, *model.Business) {
	t.Helper()
	ctx := context.Background()

	user, err := e.auth.Register(ctx, model.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)

	business, err := e.store.Businesses().GetByOwner(ctx, user.ID)
	require.NoError(t, err)
	return user, business
}

// businessesOwnedBy counts the stored businesses whose owner is ownerID. The
// memory store numbers businesses from 1 without gaps.
func (e *testEnv) businessesOwnedBy(t *testing.T, ownerID int64) int {
	t.Helper()
	count := 0
	for id := int64(1); ; id++ {
		b, err := e.store.Businesses().GetByID(context.Background(), id)
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return count
		}
		require.NoError(t, err)
		if b.OwnerID == ownerID {
			count++
		}
	}
}
