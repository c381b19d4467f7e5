package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/storefront-go/internal/model"
)

func TestBusinessUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, business := env.register(t, "alice")
	bob, _ := env.register(t, "bob")

	city, description := "Tashkent", "lamps"
	updated, err := env.businesses.Update(ctx, alice, business.ID, model.BusinessUpdateRequest{
		City:        &city,
		Description: &description,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Name)
	assert.Equal(t, "Tashkent", updated.City)
	assert.Equal(t, model.DefaultLocation, updated.Region)
	assert.Equal(t, "lamps", *updated.Description)

	taken := "bob"
	_, err = env.businesses.Update(ctx, alice, business.ID, model.BusinessUpdateRequest{Name: &taken})
	assert.ErrorIs(t, err, ErrBusinessNameTaken)

	_, err = env.businesses.Update(ctx, bob, business.ID, model.BusinessUpdateRequest{City: &city})
	assert.ErrorIs(t, err, ErrForbidden)

	empty := ""
	_, err = env.businesses.Update(ctx, alice, business.ID, model.BusinessUpdateRequest{Name: &empty})
	assert.Error(t, err)

	stored, err := env.store.Businesses().GetByID(ctx, business.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Name)
}

func TestBusinessProfile(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.register(t, "alice")

	profile, err := env.businesses.Profile(context.Background(), alice)
	require.NoError(t, err)

	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.False(t, profile.IsVerified)
	assert.Equal(t, alice.CreatedAt.Format("Jan 02 2006"), profile.CreatedAt)
	assert.Equal(t, "http://img.test/"+model.DefaultLogo, profile.Logo)
}
