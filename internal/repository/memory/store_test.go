package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/storefront-go/internal/model"
	"github.com/storefront/storefront-go/internal/repository"
)

func register(t *testing.T, s *Store, username, email string) (*model.User, *model.Business) {
	t.Helper()
	u := &model.User{Username: username, Email: email, PasswordHash: "h"}
	b := model.NewBusinessFor(u)
	require.NoError(t, s.Users().CreateWithBusiness(context.Background(), u, b))
	return u, b
}

func TestCreateWithBusiness(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	u, b := register(t, s, "alice", "alice@example.com")
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, u.ID, b.OwnerID)

	got, err := s.Businesses().GetByOwner(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)

	tests := []struct {
		name     string
		username string
		email    string
		wantErr  error
	}{
		{name: "duplicate username", username: "alice", email: "other@example.com", wantErr: repository.ErrDuplicateUser},
		{name: "duplicate email", username: "bob", email: "alice@example.com", wantErr: repository.ErrDuplicateUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &model.User{Username: tt.username, Email: tt.email}
			err := s.Users().CreateWithBusiness(ctx, u, model.NewBusinessFor(u))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBusinessNameCollisionLeavesNoUser(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, b := register(t, s, "alice", "alice@example.com")
	b.Name = "shop"
	require.NoError(t, s.Businesses().Update(ctx, b))

	u := &model.User{Username: "shop", Email: "shop@example.com"}
	err := s.Users().CreateWithBusiness(ctx, u, model.NewBusinessFor(u))
	assert.ErrorIs(t, err, repository.ErrDuplicateBusinessName)

	_, err = s.Users().GetByUsername(ctx, "shop")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestMarkVerifiedOnce(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u, _ := register(t, s, "alice", "alice@example.com")

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.Users().MarkVerified(ctx, u.ID)
		}()
	}
	wg.Wait()
	close(results)

	var ok int
	for err := range results {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, repository.ErrAlreadyVerified)
		}
	}
	assert.Equal(t, 1, ok)

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
}

func TestProducts(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.Products()

	for range 3 {
		require.NoError(t, repo.Create(ctx, &model.Product{BusinessID: 1, Image: model.DefaultProductImage}))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{list[0].ID, list[1].ID, list[2].ID})

	require.NoError(t, repo.Delete(ctx, 2))
	assert.ErrorIs(t, repo.Delete(ctx, 2), repository.ErrProductNotFound)

	_, err = repo.GetByID(ctx, 2)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	p, err := repo.GetByID(ctx, 3)
	require.NoError(t, err)
	p.Image = "new.png"
	require.NoError(t, repo.Update(ctx, p))

	p, err = repo.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "new.png", p.Image)
}
