// Package memory provides map-backed repositories with the same contracts as
// the MySQL ones. Data lives for the lifetime of the process.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/storefront/storefront-go/internal/model"
	"github.com/storefront/storefront-go/internal/repository"
)

// Store holds every table behind one mutex so that cross-table checks, such as
// the registration cascade, are atomic.
type Store struct {
	mu sync.Mutex

	users      map[int64]model.User
	businesses map[int64]model.Business
	products   map[int64]model.Product

	nextUserID     int64
	nextBusinessID int64
	nextProductID  int64
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		users:      make(map[int64]model.User),
		businesses: make(map[int64]model.Business),
		products:   make(map[int64]model.Product),
	}
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }
func (s *Store) Businesses() *BusinessRepository { return &BusinessRepository{s: s} }
func (s *Store) Products() *ProductRepository { return &ProductRepository{s: s} }

// UserRepository is the in-memory counterpart of repository.UserRepository.
type UserRepository struct {
	s *Store
}

func (r *UserRepository) CreateWithBusiness(_ context.Context, user *model.User, business *model.Business) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicateUser
		}
	}
	if s.businessNameTaken(business.Name, 0) {
		return repository.ErrDuplicateBusinessName
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	s.nextUserID++
	user.ID = s.nextUserID
	s.users[user.ID] = *user

	s.nextBusinessID++
	business.ID = s.nextBusinessID
	business.OwnerID = user.ID
	s.businesses[business.ID] = *business

	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *UserRepository) MarkVerified(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || u.IsVerified {
		return repository.ErrAlreadyVerified
	}
	u.IsVerified = true
	r.s.users[id] = u
	return nil
}

// BusinessRepository is the in-memory counterpart of repository.BusinessRepository.
type BusinessRepository struct {
	s *Store
}

func (r *BusinessRepository) GetByID(_ context.Context, id int64) (*model.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.businesses[id]
	if !ok {
		return nil, repository.ErrBusinessNotFound
	}
	return &b, nil
}

func (r *BusinessRepository) GetByOwner(_ context.Context, ownerID int64) (*model.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, b := range r.s.businesses {
		if b.OwnerID == ownerID {
			return &b, nil
		}
	}
	return nil, repository.ErrBusinessNotFound
}

func (r *BusinessRepository) Update(_ context.Context, b *model.Business) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.businesses[b.ID]; !ok {
		return repository.ErrBusinessNotFound
	}
	if r.s.businessNameTaken(b.Name, b.ID) {
		return repository.ErrDuplicateBusinessName
	}
	r.s.businesses[b.ID] = *b
	return nil
}

// ProductRepository is the in-memory counterpart of repository.ProductRepository.
type ProductRepository struct {
	s *Store
}

func (r *ProductRepository) Create(_ context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextProductID++
	p.ID = r.s.nextProductID
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id int64) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (r *ProductRepository) List(_ context.Context) ([]*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	products := make([]*model.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		products = append(products, &p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (r *ProductRepository) Update(_ context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[p.ID]; !ok {
		return repository.ErrProductNotFound
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(r.s.products, id)
	return nil
}

// businessNameTaken reports whether another business already uses name.
// Callers must hold s.mu.
func (s *Store) businessNameTaken(name string, exceptID int64) bool {
	for id, b := range s.businesses {
		if id != exceptID && b.Name == name {
			return true
		}
	}
	return false
}
