package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"bookstore-api/pkg/jwt"
	"bookstore-api/pkg/logger"
)

const defaultBcryptCost = 12

// Service is the registration and login use cases.
type Service interface {
	Register(ctx context.Context, req Credentials) error
	Login(ctx context.Context, req Credentials) (string, error)
	// EnsureAdministrator makes sure the identity exists and holds the
	// Administrator role. An existing password is left untouched.
	EnsureAdministrator(ctx context.Context, email, password string) error
}

// TokenIssuer is satisfied by *jwt.Manager.
type TokenIssuer interface {
	Issue(id jwt.Identity) (string, *jwt.Claims, error)
}

type userService struct {
	repo     Repository
	tokens   TokenIssuer
	throttle *LoginThrottle
	cost     int

	dummyOnce sync.Once
	dummyHash []byte
}

type Option func(*userService)

// WithBcryptCost overrides the hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *userService) { s.cost = cost }
}

// WithThrottle enables the failed-login lockout.
func WithThrottle(t *LoginThrottle) Option {
	return func(s *userService) { s.throttle = t }
}

func NewService(repo Repository, tokens TokenIssuer, opts ...Option) Service {
	s := &userService{
		repo:   repo,
		tokens: tokens,
		cost:   defaultBcryptCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a Customer identity.
func (s *userService) Register(ctx context.Context, req Credentials) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Email:        normalizeEmail(req.EmailAddress),
		PasswordHash: string(hash),
		Roles:        []string{RoleCustomer},
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return err
	}

	logger.Info("user registered", map[string]interface{}{"user_id": u.ID})
	return nil
}

// Login verifies the credentials and issues a token.
func (s *userService) Login(ctx context.Context, req Credentials) (string, error) {
	if ok, retryAfter := s.throttle.Attempt(ctx, req.EmailAddress); !ok {
		return "", &LockoutError{RetryAfter: retryAfter}
	}

	u, err := s.repo.FindByEmail(ctx, req.EmailAddress)
	if errors.Is(err, ErrUserNotFound) {
		// Burn the same time as a real comparison so unknown emails are
		// indistinguishable from wrong passwords.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(req.Password))
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}
	s.throttle.Reset(ctx, req.EmailAddress)

	token, _, err := s.tokens.Issue(jwt.Identity{
		UserID:   strconv.FormatInt(u.ID, 10),
		Email:    u.Email,
		UserName: u.Email,
		Roles:    u.Roles,
	})
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *userService) EnsureAdministrator(ctx context.Context, email, password string) error {
	u, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		admin := &User{
			Email:        normalizeEmail(email),
			PasswordHash: string(hash),
			Roles:        []string{RoleAdministrator},
		}
		if err := s.repo.Create(ctx, admin); err != nil {
			return fmt.Errorf("create administrator: %w", err)
		}
		logger.Info("administrator created", map[string]interface{}{"user_id": admin.ID})
		return nil

	case err != nil:
		return err

	case u.HasRole(RoleAdministrator):
		return nil

	default:
		if err := s.repo.AddRole(ctx, u.ID, RoleAdministrator); err != nil {
			return err
		}
		logger.Info("administrator role granted", map[string]interface{}{"user_id": u.ID})
		return nil
	}
}

func (s *userService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	})
	return s.dummyHash
}
