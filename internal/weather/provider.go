package weather

import (
	"context"
	"errors"
)

var (
	// ErrEmptyCity is returned before any network call when the city is blank.
	ErrEmptyCity = errors.New("city is empty")
	// ErrCityNotFound is returned when the provider reports a non-success code.
	ErrCityNotFound = errors.New("city not found")
	// ErrUpstream covers transport failures and unusable provider responses.
	ErrUpstream = errors.New("weather provider unavailable")
)

// Provider abstracts a current-weather data source.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, city string) (Record, error)
}
