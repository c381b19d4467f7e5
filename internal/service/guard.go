package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/storefront/storefront-go/internal/crypto"
	"github.com/storefront/storefront-go/internal/model"
	"github.com/storefront/storefront-go/internal/repository"
)

// Guard resolves bearer tokens to users and checks resource ownership.
//
// Mutating operations treat a missing resource the same as one owned by
// somebody else, so callers cannot probe for IDs they do not own.
type Guard struct {
	tokens     *crypto.TokenService
	users      UserRepository
	businesses BusinessRepository
	products   ProductRepository
}

// NewGuard creates a new Guard.
func NewGuard(tokens *crypto.TokenService, users UserRepository, businesses BusinessRepository, products ProductRepository) *Guard {
	return &Guard{
		tokens:     tokens,
		users:      users,
		businesses: businesses,
		products:   products,
	}
}

// CurrentUser validates the token and loads the user it names.
func (g *Guard) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	claims, err := g.tokens.Validate(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := g.users.GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("loading user %d: %w", claims.ID, err)
	}
	return user, nil
}

// AuthorizeBusiness returns the business if user owns it.
func (g *Guard) AuthorizeBusiness(ctx context.Context, user *model.User, businessID int64) (*model.Business, error) {
	business, err := g.businesses.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("loading business %d: %w", businessID, err)
	}
	if business.OwnerID != user.ID {
		return nil, ErrForbidden
	}
	return business, nil
}

// AuthorizeProduct returns the product if user owns the business that lists it.
func (g *Guard) AuthorizeProduct(ctx context.Context, user *model.User, productID int64) (*model.Product, error) {
	product, err := g.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("loading product %d: %w", productID, err)
	}
	if _, err := g.AuthorizeBusiness(ctx, user, product.BusinessID); err != nil {
		return nil, err
	}
	return product, nil
}

// OwnBusiness returns the business owned by user.
func (g *Guard) OwnBusiness(ctx context.Context, user *model.User) (*model.Business, error) {
	business, err := g.businesses.GetByOwner(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("loading business of user %d: %w", user.ID, err)
	}
	return business, nil
}
