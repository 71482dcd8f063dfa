package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-history/internal/common"
	"github.com/i474232898/weather-history/internal/weather"
)

const (
	defaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/weather"
	maxResponseBytes      = 1 << 20
)

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name     string
	apiKey   string
	baseURL  string
	client   *http.Client
	circuit  *gobreaker.CircuitBreaker
	validate *validator.Validate
}

func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = defaultOpenWeatherURL
	}
	return &OpenWeatherProvider{
		name:     "openweathermap",
		apiKey:   apiKey,
		baseURL:  baseURL,
		client:   client,
		circuit:  newCircuitBreaker("openweather"),
		validate: validator.New(),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// statusCode decodes the provider's "cod" field, which is a number on
// success and a string on errors.
type statusCode int

func (c *statusCode) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid cod %s", b)
	}
	*c = statusCode(n)
	return nil
}

type currentWeatherPayload struct {
	Cod     statusCode `json:"cod"`
	Message string     `json:"message"`
	Name    string     `json:"name" validate:"required"`
	Sys     struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main *struct {
		Temp     *float64 `json:"temp" validate:"required"`
		Humidity *float64 `json:"humidity" validate:"required"`
	} `json:"main" validate:"required"`
	Wind *struct {
		Speed *float64 `json:"speed" validate:"required"`
	} `json:"wind" validate:"required"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description" validate:"required"`
		Icon        string `json:"icon" validate:"required"`
	} `json:"weather" validate:"required,min=1,dive"`
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, city string) (weather.Record, error) {
	if p.apiKey == "" {
		return weather.Record{}, fmt.Errorf("%w: openweather api key is not configured", weather.ErrUpstream)
	}

	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return weather.Record{}, fmt.Errorf("%w: %v", weather.ErrUpstream, err)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return weather.Record{}, fmt.Errorf("%w: %w", weather.ErrUpstream, err)
	}
	defer resp.Body.Close()

	var payload currentWeatherPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return weather.Record{}, fmt.Errorf("%w: decode response: %v", weather.ErrUpstream, err)
	}

	if payload.Cod != http.StatusOK {
		return weather.Record{}, fmt.Errorf("%w: cod=%d %s", weather.ErrCityNotFound, payload.Cod, payload.Message)
	}

	if err := p.validate.Struct(payload); err != nil {
		return weather.Record{}, fmt.Errorf("%w: incomplete response: %v", weather.ErrUpstream, err)
	}

	w := payload.Weather[0]
	return weather.Record{
		City:         payload.Name,
		Country:      payload.Sys.Country,
		TemperatureC: *payload.Main.Temp,
		HumidityPct:  *payload.Main.Humidity,
		WindSpeed:    *payload.Wind.Speed,
		Description:  common.TitleCase(w.Description),
		Icon:         w.Icon,
		Condition:    weather.ConditionFor(w.Main, w.Description),
	}, nil
}
