package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/storefront/storefront-go/internal/model"
)

var (
	ErrBusinessNotFound      = errors.New("business not found")
	ErrDuplicateBusinessName = errors.New("business name already exists")
)

const businessColumns = `id, name, city, region, description, logo, owner_id`

// BusinessRepository handles business persistence operations.
type BusinessRepository struct {
	db *sql.DB
}

// NewBusinessRepository creates a new BusinessRepository.
func NewBusinessRepository(db *sql.DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

// GetByID retrieves a business by its ID.
func (r *BusinessRepository) GetByID(ctx context.Context, id int64) (*model.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = ?`
	return scanBusiness(r.db.QueryRowContext(ctx, query, id))
}

// GetByOwner retrieves the business owned by the given user.
func (r *BusinessRepository) GetByOwner(ctx context.Context, ownerID int64) (*model.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE owner_id = ?`
	return scanBusiness(r.db.QueryRowContext(ctx, query, ownerID))
}

// Update writes every mutable column of the business. Callers load the row
// first, so a missing ID is not reported.
func (r *BusinessRepository) Update(ctx context.Context, b *model.Business) error {
	query := `UPDATE businesses SET name = ?, city = ?, region = ?, description = ?, logo = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, b.Name, b.City, b.Region, b.Description, b.Logo, b.ID)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateBusinessName
		}
		return err
	}
	return nil
}

func insertBusiness(ctx context.Context, q DBTX, b *model.Business) error {
	query := `INSERT INTO businesses (name, city, region, description, logo, owner_id) VALUES (?, ?, ?, ?, ?, ?)`

	result, err := q.ExecContext(ctx, query, b.Name, b.City, b.Region, b.Description, b.Logo, b.OwnerID)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateBusinessName
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

func scanBusiness(row *sql.Row) (*model.Business, error) {
	b := &model.Business{}
	var description sql.NullString
	err := row.Scan(&b.ID, &b.Name, &b.City, &b.Region, &description, &b.Logo, &b.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	if description.Valid {
		b.Description = &description.String
	}
	return b, nil
}
