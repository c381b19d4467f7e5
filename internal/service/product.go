package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/storefront/storefront-go/internal/model"
	"github.com/storefront/storefront-go/internal/repository"
)

// ProductService handles the product lifecycle.
type ProductService struct {
	guard      *Guard
	products   ProductRepository
	businesses BusinessRepository
	now        func() time.Time
}

// NewProductService creates a new ProductService.
func NewProductService(guard *Guard, products ProductRepository, businesses BusinessRepository) *ProductService {
	return &ProductService{
		guard:      guard,
		products:   products,
		businesses: businesses,
		now:        time.Now,
	}
}

// Create lists a new product under the caller's business.
func (s *ProductService) Create(ctx context.Context, user *model.User, req model.ProductCreateRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	business, err := s.guard.OwnBusiness(ctx, user)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:          req.Name,
		OriginalPrice: *req.OriginalPrice,
		NewPrice:      *req.NewPrice,
		ExpiresIn:     s.now().UTC().Truncate(time.Second),
		Image:         model.DefaultProductImage,
		BusinessID:    business.ID,
	}
	if req.PercentageDiscount != nil {
		product.PercentageDiscount = *req.PercentageDiscount
	}
	if req.ExpiresIn != nil {
		product.ExpiresIn = req.ExpiresIn.UTC()
	}
	product.RecomputeDiscount()

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}
	return product, nil
}

// List returns every product.
func (s *ProductService) List(ctx context.Context) ([]*model.Product, error) {
	return s.products.List(ctx)
}

// Get returns a product with a summary of the business that lists it.
func (s *ProductService) Get(ctx context.Context, id int64) (model.ProductDetailResponse, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return model.ProductDetailResponse{}, ErrNotFound
		}
		return model.ProductDetailResponse{}, err
	}

	business, err := s.businesses.GetByID(ctx, product.BusinessID)
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return model.ProductDetailResponse{}, ErrNotFound
		}
		return model.ProductDetailResponse{}, err
	}

	return model.ProductDetailResponse{
		ProductInformation: model.NewProductResponse(product),
		BusinessInformation: model.BusinessInformation{
			Name:        business.Name,
			City:        business.City,
			Region:      business.Region,
			Description: business.Description,
			Logo:        business.Logo,
			BusinessID:  business.ID,
			Owner:       business.OwnerID,
		},
	}, nil
}

// Update applies a partial update to a product owned by user and recomputes
// the discount from the merged prices.
func (s *ProductService) Update(ctx context.Context, user *model.User, id int64, req model.ProductUpdateRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.OriginalPrice != nil && req.OriginalPrice.IsZero() {
		return nil, ErrZeroOriginalPrice
	}

	product, err := s.guard.AuthorizeProduct(ctx, user, id)
	if err != nil {
		return nil, err
	}

	req.Apply(product)
	product.RecomputeDiscount()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("updating product %d: %w", id, err)
	}
	return product, nil
}

// Delete removes a product owned by user.
func (s *ProductService) Delete(ctx context.Context, user *model.User, id int64) error {
	if _, err := s.guard.AuthorizeProduct(ctx, user, id); err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrForbidden
		}
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	return nil
}
