// Package endpoints holds the monitored API list: the built-in defaults and
// an optional YAML file that replaces them.
package endpoints

import (
	"net/http"
	"time"

	"github.com/arun-gupta/api-status-dashboard/internal/domain"
)

// Secrets are per-endpoint credentials supplied by the deployment.
// Empty values are replaced by placeholders so the probe still runs; the
// upstream rejection is itself useful signal.
type Secrets struct {
	OpenAIKey      string
	StripeKey      string
	OpenWeatherKey string
}

const (
	placeholderOpenAI      = "sk-test"
	placeholderStripe      = "sk_test_"
	placeholderOpenWeather = "test"
)

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Default returns the built-in registry.
func Default(s Secrets) []domain.Endpoint {
	const timeout = 10 * time.Second
	return []domain.Endpoint{
		{
			Name:           "OpenAI",
			URL:            "https://api.openai.com/v1/models",
			Method:         http.MethodGet,
			Headers:        map[string]string{"Authorization": "Bearer " + orDefault(s.OpenAIKey, placeholderOpenAI)},
			ExpectedFields: []string{"object", "data"},
			Timeout:        timeout,
		},
		{
			Name:    "GitHub",
			URL:     "https://api.github.com/zen",
			Method:  http.MethodGet,
			Timeout: timeout,
		},
		{
			Name:           "Stripe",
			URL:            "https://api.stripe.com/v1/balance",
			Method:         http.MethodGet,
			Headers:        map[string]string{"Authorization": "Bearer " + orDefault(s.StripeKey, placeholderStripe)},
			ExpectedFields: []string{"object", "available"},
			Timeout:        timeout,
		},
		{
			Name:    "HuggingFace",
			URL:     "https://huggingface.co/api/models",
			Method:  http.MethodGet,
			Timeout: timeout,
		},
		{
			Name:           "DockerHub",
			URL:            "https://hub.docker.com/v2/repositories/library/",
			Method:         http.MethodGet,
			ExpectedFields: []string{"count", "results"},
			Timeout:        timeout,
		},
		{
			Name:           "OpenWeatherMap",
			URL:            "https://api.openweathermap.org/data/2.5/weather?q=London&appid=" + orDefault(s.OpenWeatherKey, placeholderOpenWeather),
			Method:         http.MethodGet,
			ExpectedFields: []string{"weather", "main"},
			Timeout:        timeout,
		},
	}
}

// Names returns endpoint names in registry order. The read path only needs
// names, so it never depends on secrets.
func Names(eps []domain.Endpoint) []string {
	out := make([]string, len(eps))
	for i, e := range eps {
		out[i] = e.Name
	}
	return out
}
