package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Service implements registration and credential verification.
type Service struct {
	store Store
	cost  int
	log   zerolog.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

// NewService returns a Service hashing with the given bcrypt cost.
// A cost of zero selects bcrypt.DefaultCost.
func NewService(store Store, cost int, log zerolog.Logger) *Service {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		store: store,
		cost:  cost,
		log:   log.With().Str("component", "account").Logger(),
	}
}

// Register hashes password and stores a new user.
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password is longer than 72 bytes", ErrInvalidInput)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.Create(ctx, username, string(hash))
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Verify checks password against the stored hash for username. Unknown users
// fail with ErrNotFound, bad passwords with ErrWrongPassword.
func (s *Service) Verify(ctx context.Context, username, password string) (*User, error) {
	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Keep response time close to the wrong-password path.
			_ = bcrypt.CompareHashAndPassword(s.placeholderHash(), []byte(password))
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}
	return user, nil
}

func (s *Service) placeholderHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("placeholder"), s.cost)
	})
	return s.dummyHash
}
