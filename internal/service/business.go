package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/storefront/storefront-go/internal/model"
	"github.com/storefront/storefront-go/internal/repository"
)

// BusinessService handles business updates and the owner's profile.
type BusinessService struct {
	guard      *Guard
	businesses BusinessRepository
	images     ImageStore
}

// NewBusinessService creates a new BusinessService.
func NewBusinessService(guard *Guard, businesses BusinessRepository, images ImageStore) *BusinessService {
	return &BusinessService{
		guard:      guard,
		businesses: businesses,
		images:     images,
	}
}

// Update applies a partial update to a business owned by user.
func (s *BusinessService) Update(ctx context.Context, user *model.User, businessID int64, req model.BusinessUpdateRequest) (*model.Business, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	business, err := s.guard.AuthorizeBusiness(ctx, user, businessID)
	if err != nil {
		return nil, err
	}

	req.Apply(business)

	if err := s.businesses.Update(ctx, business); err != nil {
		if errors.Is(err, repository.ErrDuplicateBusinessName) {
			return nil, ErrBusinessNameTaken
		}
		return nil, fmt.Errorf("updating business %d: %w", businessID, err)
	}
	return business, nil
}

// Profile describes user together with the public URL of their business logo.
func (s *BusinessService) Profile(ctx context.Context, user *model.User) (model.ProfileResponse, error) {
	business, err := s.guard.OwnBusiness(ctx, user)
	if err != nil {
		return model.ProfileResponse{}, err
	}

	return model.ProfileResponse{
		Username:   user.Username,
		Email:      user.Email,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt.Format(model.ProfileDateLayout),
		Logo:       s.images.URL(business.Logo),
	}, nil
}
