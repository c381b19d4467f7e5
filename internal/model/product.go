package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
)

const DefaultProductImage = "default_product_img.jpg"

var hundred = decimal.NewFromInt(100)

// Product is a priced item listed by a business.
type Product struct {
	ID                 int64
	Name               *string
	OriginalPrice      decimal.Decimal
	NewPrice           decimal.Decimal
	PercentageDiscount int
	ExpiresIn          time.Time
	Image              string
	BusinessID         int64
}

// RecomputeDiscount derives the percentage discount from the prices when the
// original price is positive. Otherwise the current value is kept.
func (p *Product) RecomputeDiscount() {
	if !p.OriginalPrice.IsPositive() {
		return
	}
	p.PercentageDiscount = int(p.OriginalPrice.Sub(p.NewPrice).
		Div(p.OriginalPrice).
		Mul(hundred).
		Round(0).
		IntPart())
}

// ProductCreateRequest is the body of a product creation request.
type ProductCreateRequest struct {
	Name               *string          `json:"name"`
	OriginalPrice      *decimal.Decimal `json:"original_price"`
	NewPrice           *decimal.Decimal `json:"new_price"`
	PercentageDiscount *int             `json:"percentage_discount"`
	ExpiresIn          *time.Time       `json:"expires_in"`
}

func (r ProductCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.RuneLength(0, 120)),
		validation.Field(&r.OriginalPrice, validation.NotNil, validation.By(nonNegativeDecimal)),
		validation.Field(&r.NewPrice, validation.NotNil, validation.By(nonNegativeDecimal)),
	)
}

// ProductUpdateRequest carries a partial product update; nil fields are left untouched.
type ProductUpdateRequest struct {
	Name          *string          `json:"name"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	NewPrice      *decimal.Decimal `json:"new_price"`
	ExpiresIn     *time.Time       `json:"expires_in"`
}

func (r ProductUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.RuneLength(0, 120)),
		validation.Field(&r.OriginalPrice, validation.By(nonNegativeDecimal)),
		validation.Field(&r.NewPrice, validation.By(nonNegativeDecimal)),
	)
}

// Apply copies the provided fields onto p.
func (r ProductUpdateRequest) Apply(p *Product) {
	if r.Name != nil {
		p.Name = r.Name
	}
	if r.OriginalPrice != nil {
		p.OriginalPrice = *r.OriginalPrice
	}
	if r.NewPrice != nil {
		p.NewPrice = *r.NewPrice
	}
	if r.ExpiresIn != nil {
		p.ExpiresIn = r.ExpiresIn.UTC()
	}
}

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID                 int64           `json:"id"`
	Name               *string         `json:"name"`
	OriginalPrice      decimal.Decimal `json:"original_price"`
	NewPrice           decimal.Decimal `json:"new_price"`
	PercentageDiscount int             `json:"percentage_discount"`
	ExpiresIn          time.Time       `json:"expires_in"`
	Image              string          `json:"image"`
	BusinessID         int64           `json:"business_id"`
}

func NewProductResponse(p *Product) ProductResponse {
	return ProductResponse{
		ID:                 p.ID,
		Name:               p.Name,
		OriginalPrice:      p.OriginalPrice,
		NewPrice:           p.NewPrice,
		PercentageDiscount: p.PercentageDiscount,
		ExpiresIn:          p.ExpiresIn,
		Image:              p.Image,
		BusinessID:         p.BusinessID,
	}
}

// ProductDetailResponse combines a product with its business summary.
type ProductDetailResponse struct {
	ProductInformation  ProductResponse     `json:"product_information"`
	BusinessInformation BusinessInformation `json:"business_information"`
}
