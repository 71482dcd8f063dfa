package weather

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// Service validates lookup input and delegates to a Provider.
type Service struct {
	provider Provider
	log      zerolog.Logger
}

// NewService creates a new Service.
func NewService(provider Provider, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		log:      log.With().Str("component", "weather").Logger(),
	}
}

// Lookup fetches the current weather for city. A blank city fails with
// ErrEmptyCity without contacting the provider.
func (s *Service) Lookup(ctx context.Context, city string) (Record, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return Record{}, ErrEmptyCity
	}

	rec, err := s.provider.Fetch(ctx, city)
	if err != nil {
		ev := s.log.Warn()
		if errors.Is(err, ErrCityNotFound) {
			ev = s.log.Debug()
		}
		ev.Err(err).Str("provider", s.provider.Name()).Str("city", city).Msg("weather lookup failed")
		return Record{}, err
	}

	s.log.Debug().Str("provider", s.provider.Name()).Str("city", city).Msg("weather lookup succeeded")
	return rec, nil
}
