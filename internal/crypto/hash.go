package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength is the longest input bcrypt accepts, in bytes.
const MaxPasswordLength = 72

var ErrInvalidHashFormat = errors.New("invalid encoded hash format")

// hashCost is lowered in tests.
var hashCost = bcrypt.DefaultCost

// HashPassword hashes a password with bcrypt.
// The result embeds algorithm version, cost and salt, e.g. $2a$10$<salt><hash>.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the bcrypt digest.
// A wrong password is (false, nil); only a malformed digest returns an error.
func VerifyPassword(password, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrInvalidHashFormat, err)
	}
}
