package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/storefront/storefront-go/internal/crypto"
	"github.com/storefront/storefront-go/internal/model"
	"github.com/storefront/storefront-go/internal/repository"
)

// AuthService handles registration, login and email verification.
type AuthService struct {
	users    UserRepository
	tokens   *crypto.TokenService
	notifier Notifier
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserRepository, tokens *crypto.TokenService, notifier Notifier) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
	}
}

// Register creates the user together with its business and queues the
// verification email. Mail delivery failures do not fail the registration.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	business := model.NewBusinessFor(user)

	if err := s.users.CreateWithBusiness(ctx, user, business); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUser):
			return nil, ErrAccountExists
		case errors.Is(err, repository.ErrDuplicateBusinessName):
			return nil, ErrBusinessNameTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	token, err := s.tokens.Issue(claimsFor(user))
	if err != nil {
		slog.Error("issuing verification token", "user_id", user.ID, "error", err)
		return user, nil
	}
	if err := s.notifier.SendVerification(user, token); err != nil {
		slog.Warn("queueing verification email", "user_id", user.ID, "error", err)
	}

	return user, nil
}

// Authenticate looks the user up by username and checks the password.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := crypto.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password of user %d: %w", user.ID, err)
	}
	if !match {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates the user and returns a bearer token.
func (s *AuthService) Login(ctx context.Context, username, password string) (model.TokenResponse, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return model.TokenResponse{}, err
	}

	token, err := s.tokens.Issue(claimsFor(user))
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{AccessToken: token, Type: "Bearer"}, nil
}

// Verify marks the token's user as verified. A token whose user is already
// verified is rejected like any other invalid token.
func (s *AuthService) Verify(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("loading user %d: %w", claims.ID, err)
	}
	if user.IsVerified {
		return nil, ErrInvalidToken
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrAlreadyVerified) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("verifying user %d: %w", user.ID, err)
	}

	user.IsVerified = true
	return user, nil
}

func claimsFor(user *model.User) crypto.Claims {
	return crypto.Claims{ID: user.ID, Username: user.Username}
}
