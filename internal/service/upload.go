package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/storefront/storefront-go/internal/media"
	"github.com/storefront/storefront-go/internal/model"
)

// UploadService stores business logos and product images.
type UploadService struct {
	guard      *Guard
	businesses BusinessRepository
	products   ProductRepository
	images     ImageStore
	timeout    time.Duration
}

// NewUploadService creates a new UploadService. timeout bounds each write to
// the image store.
func NewUploadService(guard *Guard, businesses BusinessRepository, products ProductRepository, images ImageStore, timeout time.Duration) *UploadService {
	return &UploadService{
		guard:      guard,
		businesses: businesses,
		products:   products,
		images:     images,
		timeout:    timeout,
	}
}

// UploadLogo replaces the logo of the caller's business and returns its URL.
func (s *UploadService) UploadLogo(ctx context.Context, user *model.User, filename string, r io.Reader) (string, error) {
	ext, ok := media.AllowedExtension(filename)
	if !ok {
		return "", ErrExtensionNotAllowed
	}

	business, err := s.guard.OwnBusiness(ctx, user)
	if err != nil {
		return "", err
	}

	name, err := s.store(ctx, ext, r)
	if err != nil {
		return "", err
	}

	business.Logo = name
	if err := s.businesses.Update(ctx, business); err != nil {
		return "", fmt.Errorf("updating logo of business %d: %w", business.ID, err)
	}
	return s.images.URL(name), nil
}

// UploadProductImage replaces the image of a product owned by user and returns its URL.
func (s *UploadService) UploadProductImage(ctx context.Context, user *model.User, productID int64, filename string, r io.Reader) (string, error) {
	ext, ok := media.AllowedExtension(filename)
	if !ok {
		return "", ErrExtensionNotAllowed
	}

	product, err := s.guard.AuthorizeProduct(ctx, user, productID)
	if err != nil {
		return "", err
	}

	name, err := s.store(ctx, ext, r)
	if err != nil {
		return "", err
	}

	product.Image = name
	if err := s.products.Update(ctx, product); err != nil {
		return "", fmt.Errorf("updating image of product %d: %w", product.ID, err)
	}
	return s.images.URL(name), nil
}

func (s *UploadService) store(ctx context.Context, ext string, r io.Reader) (string, error) {
	data, err := media.Thumbnail(r, ext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	name := media.NewName(ext)
	if err := s.images.Save(ctx, name, data, media.ContentType(ext)); err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}
	return name, nil
}
