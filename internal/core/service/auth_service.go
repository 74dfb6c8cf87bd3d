package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskstack/task-tracker/internal/core/domain"
	"github.com/taskstack/task-tracker/internal/core/ports"
)

const minPasswordLength = 6

// LoginThrottle abstracts the failed-attempt counter (Redis).
type LoginThrottle interface {
	TooManyFailures(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// AuthService implements registration and login.
type AuthService struct {
	repo       ports.AuthRepository
	throttle   LoginThrottle // optional, nil disables throttling
	jwtSecret  string
	tokenTTL   time.Duration
	bcryptCost int
	log        zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, throttle LoginThrottle, jwtSecret string, tokenTTL time.Duration, bcryptCost int, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		repo:       repo,
		throttle:   throttle,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// Register creates a new account and returns a freshly signed token for it.
// Input constraints are checked before any store access.
func (s *AuthService) Register(ctx context.Context, username, password string) (string, *domain.User, error) {
	var msgs []string
	if username == "" {
		msgs = append(msgs, "username must not be empty")
	}
	if password == "" {
		msgs = append(msgs, "password must not be empty")
	} else if len(password) < minPasswordLength {
		msgs = append(msgs, "password must be at least 6 characters")
	}
	if len(msgs) > 0 {
		return "", nil, domain.NewValidationError(msgs...)
	}

	// Fast-path duplicate check. The unique index on username is the real
	// guard; Create maps a duplicate-key insert to the same error.
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return "", nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(created)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("username", created.Username).Msg("user registered")
	return token, created, nil
}

// Login verifies credentials and returns a freshly signed token. A missing
// user and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		blocked, err := s.throttle.TooManyFailures(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("throttle check failed, continuing")
		} else if blocked {
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, username)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, username)
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to reset throttle counter")
		}
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
	}
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
