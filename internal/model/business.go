package model

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	DefaultLocation = "Unspecified"
	DefaultLogo     = "default.png"
)

// Business is the storefront owned by exactly one user.
type Business struct {
	ID          int64
	Name        string
	City        string
	Region      string
	Description *string
	Logo        string
	OwnerID     int64
}

// NewBusinessFor builds the business created alongside a new user.
func NewBusinessFor(owner *User) *Business {
	return &Business{
		Name:    owner.Username,
		City:    DefaultLocation,
		Region:  DefaultLocation,
		Logo:    DefaultLogo,
		OwnerID: owner.ID,
	}
}

// BusinessUpdateRequest carries a partial business update; nil fields are left untouched.
type BusinessUpdateRequest struct {
	Name        *string `json:"name"`
	City        *string `json:"city"`
	Region      *string `json:"region"`
	Description *string `json:"description"`
}

func (r BusinessUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.By(optionalNotBlank), validation.RuneLength(1, 120)),
		validation.Field(&r.City, validation.RuneLength(0, 120)),
		validation.Field(&r.Region, validation.RuneLength(0, 120)),
	)
}

// Apply copies the provided fields onto b.
func (r BusinessUpdateRequest) Apply(b *Business) {
	if r.Name != nil {
		b.Name = *r.Name
	}
	if r.City != nil {
		b.City = *r.City
	}
	if r.Region != nil {
		b.Region = *r.Region
	}
	if r.Description != nil {
		b.Description = r.Description
	}
}

// BusinessResponse represents a business in API responses.
type BusinessResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	City        string  `json:"city"`
	Region      string  `json:"region"`
	Description *string `json:"description"`
	Logo        string  `json:"logo"`
	OwnerID     int64   `json:"owner_id"`
}

func NewBusinessResponse(b *Business) BusinessResponse {
	return BusinessResponse{
		ID:          b.ID,
		Name:        b.Name,
		City:        b.City,
		Region:      b.Region,
		Description: b.Description,
		Logo:        b.Logo,
		OwnerID:     b.OwnerID,
	}
}

// BusinessInformation is the business summary embedded in a product detail.
type BusinessInformation struct {
	Name        string  `json:"name"`
	City        string  `json:"city"`
	Region      string  `json:"region"`
	Description *string `json:"description"`
	Logo        string  `json:"logo"`
	BusinessID  int64   `json:"business_id"`
	Owner       int64   `json:"owner"`
}
