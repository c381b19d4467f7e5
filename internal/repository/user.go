package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/storefront/storefront-go/internal/model"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("username or email already exists")

	// ErrAlreadyVerified is returned by MarkVerified when no unverified user matched.
	ErrAlreadyVerified = errors.New("user already verified")
)

const userColumns = `id, username, email, password, is_verified, created_at`

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateWithBusiness inserts the user and its business in one transaction and
// sets the generated IDs on both structs.
func (r *UserRepository) CreateWithBusiness(ctx context.Context, user *model.User, business *model.Business) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		query := `INSERT INTO users (username, email, password, is_verified, created_at) VALUES (?, ?, ?, ?, ?)`

		result, err := tx.ExecContext(ctx, query,
			user.Username, user.Email, user.PasswordHash, user.IsVerified, user.CreatedAt,
		)
		if err != nil {
			if isDuplicateEntryError(err) {
				return ErrDuplicateUser
			}
			return err
		}

		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		user.ID = id
		business.OwnerID = id

		return insertBusiness(ctx, tx, business)
	})
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByUsername retrieves a user by their username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

// MarkVerified flips is_verified for an unverified user. The conditional
// update makes a second call for the same user fail with ErrAlreadyVerified.
func (r *UserRepository) MarkVerified(ctx context.Context, id int64) error {
	query := `UPDATE users SET is_verified = TRUE WHERE id = ? AND is_verified = FALSE`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyVerified
	}
	return nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsVerified, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
