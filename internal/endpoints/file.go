package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arun-gupta/api-status-dashboard/internal/domain"
)

// File is the YAML registry format:
//
//	endpoints:
//	  - name: OpenAI
//	    url: https://api.openai.com/v1/models
//	    headers:
//	      Authorization: "Bearer ${OPENAI_API_KEY:-sk-test}"
//	    expected_fields: [object, data]
//	    timeout: 10s
type File struct {
	Endpoints []EndpointConfig `yaml:"endpoints"`
}

type EndpointConfig struct {
	Name           string            `yaml:"name"`
	URL            string            `yaml:"url"`
	Method         string            `yaml:"method"`
	Headers        map[string]string `yaml:"headers"`
	Body           string            `yaml:"body"`
	ExpectedFields []string          `yaml:"expected_fields"`
	Timeout        Duration          `yaml:"timeout"`
}

// Duration accepts "10s", "500ms" and friends.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// envVarPattern matches ${VAR} and ${VAR:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnv substitutes ${VAR} / ${VAR:-default}. An unset variable without
// a default becomes the empty string: a missing secret must not stop startup.
func expandEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		if v, ok := os.LookupEnv(m[1]); ok {
			return v
		}
		if m[2] != "" {
			return m[3]
		}
		return ""
	})
}

// Load reads a YAML registry file.
func Load(path string) ([]domain.Endpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read endpoints file: %w", err)
	}
	return Parse(data)
}

// Parse decodes, expands and validates a YAML registry.
func Parse(data []byte) ([]domain.Endpoint, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse endpoints yaml: %w", err)
	}
	if len(f.Endpoints) == 0 {
		return nil, errors.New("endpoints file lists no endpoints")
	}

	seen := make(map[string]bool, len(f.Endpoints))
	out := make([]domain.Endpoint, 0, len(f.Endpoints))
	for i, c := range f.Endpoints {
		ep, err := c.toEndpoint()
		if err != nil {
			return nil, fmt.Errorf("endpoints[%d]: %w", i, err)
		}
		if seen[ep.Name] {
			return nil, fmt.Errorf("endpoints[%d]: duplicate name %q", i, ep.Name)
		}
		seen[ep.Name] = true
		out = append(out, ep)
	}
	return out, nil
}

func (c EndpointConfig) toEndpoint() (domain.Endpoint, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return domain.Endpoint{}, errors.New("name is required")
	}

	method := strings.ToUpper(strings.TrimSpace(c.Method))
	if method == "" {
		method = http.MethodGet
	}
	if method != http.MethodGet && method != http.MethodPost {
		return domain.Endpoint{}, fmt.Errorf("%s: method must be GET or POST, got %q", name, c.Method)
	}

	raw := expandEnv(c.URL)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.Endpoint{}, fmt.Errorf("%s: url must be absolute http(s), got %q", name, c.URL)
	}

	if c.Timeout < 0 {
		return domain.Endpoint{}, fmt.Errorf("%s: timeout must not be negative", name)
	}

	var headers map[string]string
	if len(c.Headers) > 0 {
		headers = make(map[string]string, len(c.Headers))
		for k, v := range c.Headers {
			headers[k] = expandEnv(v)
		}
	}

	return domain.Endpoint{
		Name:           name,
		URL:            raw,
		Method:         method,
		Headers:        headers,
		Body:           expandEnv(c.Body),
		ExpectedFields: c.ExpectedFields,
		Timeout:        time.Duration(c.Timeout),
	}, nil
}
