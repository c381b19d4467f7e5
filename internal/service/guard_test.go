package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/storefront-go/internal/crypto"
	"github.com/storefront/storefront-go/internal/model"
)

type failingUsers struct {
	UserRepository
	err error
}

func (f failingUsers) GetByID(context.Context, int64) (*model.User, error) {
	return nil, f.err
}

func TestGuard_CurrentUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, _ := env.register(t, "alice")

	resp, err := env.auth.Login(ctx, "alice", testPassword)
	require.NoError(t, err)

	user, err := env.guard.CurrentUser(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	orphan, err := env.tokens.Issue(crypto.Claims{ID: 404, Username: "gone"})
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "abc",
		"unknown user": orphan,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := env.guard.CurrentUser(ctx, token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestGuard_CurrentUser_StoreFailureNotMasked(t *testing.T) {
	env := newTestEnv(t)
	boom := errors.New("connection refused")
	guard := NewGuard(env.tokens, failingUsers{err: boom}, env.store.Businesses(), env.store.Products())

	token, err := env.tokens.Issue(crypto.Claims{ID: 1, Username: "alice"})
	require.NoError(t, err)

	_, err = guard.CurrentUser(context.Background(), token)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestGuard_Authorize(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, aliceBusiness := env.register(t, "alice")
	bob, _ := env.register(t, "bob")

	product, err := env.products.Create(ctx, alice, model.ProductCreateRequest{
		OriginalPrice: decPtr("10"),
		NewPrice:      decPtr("9"),
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		user    *model.User
		id      int64
		product bool
		wantErr error
	}{
		{name: "owner business", user: alice, id: aliceBusiness.ID},
		{name: "other business", user: bob, id: aliceBusiness.ID, wantErr: ErrForbidden},
		{name: "missing business", user: alice, id: 999, wantErr: ErrForbidden},
		{name: "owner product", user: alice, id: product.ID, product: true},
		{name: "other product", user: bob, id: product.ID, product: true, wantErr: ErrForbidden},
		{name: "missing product", user: alice, id: 999, product: true, wantErr: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.product {
				_, err = env.guard.AuthorizeProduct(ctx, tt.user, tt.id)
			} else {
				_, err = env.guard.AuthorizeBusiness(ctx, tt.user, tt.id)
			}
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
