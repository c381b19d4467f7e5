package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/storefront/storefront-go/internal/model"
)

var ErrProductNotFound = errors.New("product not found")

const productColumns = `id, name, original_price, new_price, percentage_discount, expires_in, image, business_id`

// ProductRepository handles product persistence operations.
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product and sets the generated ID on the product struct.
func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	query := `INSERT INTO products (name, original_price, new_price, percentage_discount, expires_in, image, business_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		p.Name, p.OriginalPrice, p.NewPrice, p.PercentageDiscount, p.ExpiresIn, p.Image, p.BusinessID,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	p.ID = id
	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// List retrieves all products ordered by ID.
func (r *ProductRepository) List(ctx context.Context) ([]*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// Update writes every mutable column of the product.
func (r *ProductRepository) Update(ctx context.Context, p *model.Product) error {
	query := `UPDATE products SET name = ?, original_price = ?, new_price = ?, percentage_discount = ?,
		expires_in = ?, image = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query,
		p.Name, p.OriginalPrice, p.NewPrice, p.PercentageDiscount, p.ExpiresIn, p.Image, p.ID,
	)
	return err
}

// Delete removes a product by its ID.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*model.Product, error) {
	p := &model.Product{}
	var name sql.NullString
	err := s.Scan(
		&p.ID, &name, &p.OriginalPrice, &p.NewPrice, &p.PercentageDiscount, &p.ExpiresIn, &p.Image, &p.BusinessID,
	)
	if err != nil {
		return nil, err
	}
	if name.Valid {
		p.Name = &name.String
	}
	return p, nil
}
