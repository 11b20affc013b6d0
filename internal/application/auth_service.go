package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/rkrajat/fullstack-monorpo-starter/internal/domain/entity"
	"github.com/rkrajat/fullstack-monorpo-starter/internal/domain/repository"
	"github.com/rkrajat/fullstack-monorpo-starter/pkg/apperr"
	"github.com/rkrajat/fullstack-monorpo-starter/pkg/helpers"
)

// Deliberately identical for unknown email and wrong password so callers
// cannot enumerate accounts.
const msgInvalidCredentials = "Invalid email or password"

// AuthService orchestrates registration, login and profile fetch. It owns
// all reads and writes of the user entity and is free of HTTP concerns.
type AuthService struct {
	Repo   repository.UserRepository
	Logger *logrus.Logger
}

func NewAuthService(repo repository.UserRepository, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: repo, Logger: logger}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Profile is the client-visible projection of a user.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func toProfile(u *entity.User) *Profile {
	return &Profile{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
}

// Register creates a new account: existence check, hash, persist. Exactly one
// write on success, zero on conflict. Format validation happens upstream.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Profile, error) {
	_, err := s.Repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, apperr.Conflict("User already exists")
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperr.Internal("Failed to register user").Wrap(err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("Failed to register user").Wrap(err)
	}

	u := &entity.User{
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		// A concurrent registration can slip past the pre-check; the unique
		// index reports it here.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperr.Conflict("User already exists")
		}
		return nil, apperr.Internal("Failed to register user").Wrap(err)
	}

	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user registered")
	return toProfile(u), nil
}

// Login verifies credentials. Unknown email and wrong password return the
// same failure.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Profile, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized(msgInvalidCredentials)
		}
		return nil, apperr.Internal("Failed to log in").Wrap(err)
	}
	if !helpers.CheckPassword(u.Password, password) {
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}
	return toProfile(u), nil
}

// Profile fetches the public profile for an already-authenticated user id.
// A valid token referencing a since-deleted account yields Unauthorized.
func (s *AuthService) Profile(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("User not found")
		}
		return nil, apperr.Internal("Failed to fetch profile").Wrap(err)
	}
	return toProfile(u), nil
}
