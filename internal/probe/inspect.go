package probe

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/arun-gupta/api-status-dashboard/internal/domain"
)

const errParseJSON = "Failed to parse JSON response"

// Classify maps an HTTP status code to an availability state.
func Classify(code int) domain.Status {
	switch {
	case code >= 200 && code < 300:
		return domain.StatusUp
	case code >= 500:
		return domain.StatusDown
	default:
		return domain.StatusDegraded
	}
}

// ExtractRateLimit reads x-ratelimit-* headers, falling back to the
// unprefixed ratelimit-* variants. It returns nil when none are present.
func ExtractRateLimit(h http.Header) *domain.RateLimit {
	pick := func(field string) *string {
		if v := h.Get("X-Ratelimit-" + field); v != "" {
			return &v
		}
		if v := h.Get("Ratelimit-" + field); v != "" {
			return &v
		}
		return nil
	}
	rl := domain.RateLimit{
		Limit:     pick("Limit"),
		Remaining: pick("Remaining"),
		Reset:     pick("Reset"),
	}
	if rl.Limit == nil && rl.Remaining == nil && rl.Reset == nil {
		return nil
	}
	return &rl
}

// ValidateContent checks that body is a JSON value carrying every expected
// top-level field. Missing fields are reported in declaration order.
// For an array, "length" and in-range indices count as present; scalars
// and null count as unparsable.
func ValidateContent(body []byte, expected []string) domain.ContentValidation {
	var doc any
	if body == nil || json.Unmarshal(body, &doc) != nil {
		return domain.ContentValidation{Valid: false, Errors: []string{errParseJSON}}
	}

	var has func(field string) bool
	switch v := doc.(type) {
	case map[string]any:
		has = func(f string) bool {
			_, ok := v[f]
			return ok
		}
	case []any:
		has = func(f string) bool { return arrayHas(v, f) }
	default:
		return domain.ContentValidation{Valid: false, Errors: []string{errParseJSON}}
	}

	errs := []string{}
	for _, f := range expected {
		if !has(f) {
			errs = append(errs, "Missing field: "+f)
		}
	}
	return domain.ContentValidation{Valid: len(errs) == 0, Errors: errs}
}

func arrayHas(arr []any, field string) bool {
	if field == "length" {
		return true
	}
	i, err := strconv.Atoi(field)
	// canonical indices only: "01" and "+1" are not keys of an array
	return err == nil && i >= 0 && i < len(arr) && strconv.Itoa(i) == field
}

// readBody returns up to maxBodyBytes of the body, or nil on a read error.
func readBody(resp *http.Response) []byte {
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil
	}
	return b
}
