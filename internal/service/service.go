package service

import (
	"context"
	"errors"

	"github.com/storefront/storefront-go/internal/model"
)

var (
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrForbidden           = errors.New("not authorized to perform this action")
	ErrNotFound            = errors.New("resource not found")
	ErrAccountExists       = errors.New("username or email already registered")
	ErrBusinessNameTaken   = errors.New("business name already taken")
	ErrZeroOriginalPrice   = errors.New("original_price must not be zero")
	ErrExtensionNotAllowed = errors.New("file extension not allowed")
	ErrInvalidImage        = errors.New("file is not a valid image")
)

// UserRepository is implemented by repository.UserRepository and memory.UserRepository.
type UserRepository interface {
	CreateWithBusiness(ctx context.Context, user *model.User, business *model.Business) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	MarkVerified(ctx context.Context, id int64) error
}

type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Business, error)
	GetByOwner(ctx context.Context, ownerID int64) (*model.Business, error)
	Update(ctx context.Context, b *model.Business) error
}

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	List(ctx context.Context) ([]*model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id int64) error
}

// Notifier delivers the account verification message for a newly registered user.
// Implementations must not block on the network.
type Notifier interface {
	SendVerification(user *model.User, token string) error
}

// ImageStore persists processed images and resolves their public URL.
type ImageStore interface {
	Save(ctx context.Context, name string, data []byte, contentType string) error
	URL(name string) string
}
