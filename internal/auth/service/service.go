package service

import (
	"context"
	"errors"
	"time"

	"polleria_backend/internal/auth/repository"
	"polleria_backend/internal/auth/token"
	"polleria_backend/platform/apperr"
	"polleria_backend/platform/config"
	"polleria_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the persistence surface the service needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.User, error)
	Create(ctx context.Context, name, email, passwordHash, role string) (repository.User, error)
	List(ctx context.Context) ([]repository.User, error)
}

type Service struct {
	repo UserStore
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

func New(repo UserStore, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        repository.User
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.AuthEvent("login", email, false, "unknown user")
			return Session{}, apperr.Unauthorized("invalid credentials")
		}
		return Session{}, apperr.Wrap(apperr.KindInternal, "login failed", err).WithOp("auth.Login")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.AuthEvent("login", email, false, "bad password")
		return Session{}, apperr.Unauthorized("invalid credentials")
	}

	signed, expiresAt, err := token.Issue(s.cfg.GetJWTAccessSecret(), user.ID, user.Role, s.cfg.GetAccessTokenTTL())
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindInternal, "login failed", err).WithOp("auth.Login")
	}

	s.log.AuthEvent("login", email, true, "")
	return Session{AccessToken: signed, ExpiresAt: expiresAt, User: user}, nil
}

// Me returns the authenticated user's profile.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.User{}, apperr.NotFound("user not found")
		}
		return repository.User{}, apperr.Wrap(apperr.KindInternal, "lookup failed", err).WithOp("auth.Me")
	}
	return user, nil
}

// CreateUser registers a staff account. Admin only.
func (s *Service) CreateUser(ctx context.Context, name, email, password, role string) (repository.User, error) {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return repository.User{}, apperr.Conflict("email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return repository.User{}, apperr.Wrap(apperr.KindInternal, "create user failed", err).WithOp("auth.CreateUser")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return repository.User{}, apperr.Wrap(apperr.KindInternal, "create user failed", err).WithOp("auth.CreateUser")
	}

	user, err := s.repo.Create(ctx, name, email, string(hash), role)
	if err != nil {
		return repository.User{}, apperr.Wrap(apperr.KindInternal, "create user failed", err).WithOp("auth.CreateUser")
	}
	return user, nil
}

// ListUsers returns all staff accounts. Admin only.
func (s *Service) ListUsers(ctx context.Context) ([]repository.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list users failed", err).WithOp("auth.ListUsers")
	}
	return users, nil
}
