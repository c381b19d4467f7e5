package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/storefront-go/internal/crypto"
	"github.com/storefront/storefront-go/internal/model"
)

func TestRegister_CreatesUserAndBusiness(t *testing.T) {
	env := newTestEnv(t)

	user, business := env.register(t, "alice")

	assert.NotZero(t, user.ID)
	assert.False(t, user.IsVerified)
	assert.NotEqual(t, testPassword, user.PasswordHash)
	assert.True(t, strings.HasPrefix(user.PasswordHash, "$2a$"))

	assert.Equal(t, "alice", business.Name)
	assert.Equal(t, model.DefaultLocation, business.City)
	assert.Equal(t, model.DefaultLocation, business.Region)
	assert.Equal(t, model.DefaultLogo, business.Logo)
	assert.Equal(t, user.ID, business.OwnerID)

	bob, _ := env.register(t, "bob")
	assert.Equal(t, 1, env.businessesOwnedBy(t, user.ID))
	assert.Equal(t, 1, env.businessesOwnedBy(t, bob.ID))

	require.Len(t, env.notifier.sent, 2)
	sent := env.notifier.sent[0]
	assert.Equal(t, "alice@example.com", sent.user.Email)

	claims, err := env.tokens.Validate(sent.token)
	require.NoError(t, err)
	assert.Equal(t, crypto.Claims{ID: user.ID, Username: "alice"}, claims)
}

func TestRegister_InvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		req  model.RegisterRequest
	}{
		{name: "empty username", req: model.RegisterRequest{Email: "a@example.com", Password: "pw"}},
		{name: "bad email", req: model.RegisterRequest{Username: "a", Email: "nope", Password: "pw"}},
		{name: "empty password", req: model.RegisterRequest{Username: "a", Email: "a@example.com"}},
		{name: "long username", req: model.RegisterRequest{Username: strings.Repeat("u", 31), Email: "a@example.com", Password: "pw"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.auth.Register(context.Background(), tt.req)
			assert.Error(t, err)
			assert.Empty(t, env.notifier.sent)
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	tests := []struct {
		name string
		req  model.RegisterRequest
	}{
		{name: "same username", req: model.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "pw"}},
		{name: "same email", req: model.RegisterRequest{Username: "bob", Email: "alice@example.com", Password: "pw"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrAccountExists)
		})
	}
}

func TestRegister_BusinessNameTaken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, aliceBusiness := env.register(t, "alice")

	name := "bob"
	_, err := env.businesses.Update(ctx, alice, aliceBusiness.ID, model.BusinessUpdateRequest{Name: &name})
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, model.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrBusinessNameTaken)

	_, err = env.auth.Login(ctx, "bob", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "no user row may survive a failed registration")
}

func TestRegister_NotifierFailureStillRegisters(t *testing.T) {
	env := newTestEnv(t)
	env.notifier.err = errors.New("queue closed")

	user, err := env.auth.Register(context.Background(), model.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: testPassword,
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.register(t, "alice")
	ctx := context.Background()

	resp, err := env.auth.Login(ctx, "alice", testPassword)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.Type)

	claims, err := env.tokens.Validate(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.ID)
	assert.Equal(t, "alice", claims.Username)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "alice", password: "wrong"},
		{name: "unknown user", username: "mallory", password: testPassword},
		{name: "email is not a username", username: "alice@example.com", password: testPassword},
		{name: "empty", username: "", password: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Login(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestVerify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")
	token := env.notifier.last(t).token

	user, err := env.auth.Verify(ctx, token)
	require.NoError(t, err)
	assert.True(t, user.IsVerified)

	stored, err := env.store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)

	_, err = env.auth.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken, "replayed link")
}

func TestVerify_InvalidTokens(t *testing.T) {
	env := newTestEnv(t)
	orphan, err := env.tokens.Issue(crypto.Claims{ID: 999, Username: "ghost"})
	require.NoError(t, err)

	other, err := crypto.NewTokenService("other-secret", 0)
	require.NoError(t, err)
	forged, err := other.Issue(crypto.Claims{ID: 1, Username: "alice"})
	require.NoError(t, err)

	env.register(t, "alice")

	for name, token := range map[string]string{
		"garbage":      "not.a.token",
		"empty":        "",
		"unknown user": orphan,
		"wrong secret": forged,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := env.auth.Verify(context.Background(), token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerify_ConcurrentReplaysFlipOnce(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")
	token := env.notifier.last(t).token

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.auth.Verify(context.Background(), token); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrInvalidToken)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}
