package domain

import (
	"encoding/json"
	"time"
)

// MaxHistory is how many results are kept per endpoint (one per hour for a day).
const MaxHistory = 24

// DefaultTimeout applies to endpoints that leave Timeout unset.
const DefaultTimeout = 10 * time.Second

type Status string

const (
	StatusUp       Status = "up"
	StatusDegraded Status = "degraded"
	StatusDown     Status = "down"
)

// Endpoint is a monitored third-party API. It is built once at startup and
// never mutated afterwards.
type Endpoint struct {
	Name           string
	URL            string
	Method         string // GET or POST
	Headers        map[string]string
	Body           string
	ExpectedFields []string
	Timeout        time.Duration
}

// EffectiveTimeout returns Timeout, or DefaultTimeout when unset.
func (e Endpoint) EffectiveTimeout() time.Duration {
	if e.Timeout <= 0 {
		return DefaultTimeout
	}
	return e.Timeout
}

type RateLimit struct {
	Limit     *string `json:"limit,omitempty"`
	Remaining *string `json:"remaining,omitempty"`
	Reset     *string `json:"reset,omitempty"`
}

type ContentValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ProbeResult is the outcome of one probe of one endpoint.
type ProbeResult struct {
	Name              string
	Timestamp         time.Time
	Status            Status
	HTTPStatus        int
	Latency           time.Duration
	RateLimit         *RateLimit
	ContentValidation ContentValidation
	Error             *string
}

// probeResultJSON is the stored and served shape: unix-ms timestamp and
// millisecond latency, which is what the dashboard script reads.
type probeResultJSON struct {
	Name              string            `json:"name"`
	Timestamp         int64             `json:"timestamp"`
	Status            Status            `json:"status"`
	HTTPStatus        int               `json:"httpStatus"`
	Latency           int64             `json:"latency"`
	RateLimit         *RateLimit        `json:"rateLimit,omitempty"`
	ContentValidation ContentValidation `json:"contentValidation"`
	Error             *string           `json:"error,omitempty"`
}

func (r ProbeResult) MarshalJSON() ([]byte, error) {
	cv := r.ContentValidation
	if cv.Errors == nil {
		cv.Errors = []string{}
	}
	return json.Marshal(probeResultJSON{
		Name:              r.Name,
		Timestamp:         r.Timestamp.UnixMilli(),
		Status:            r.Status,
		HTTPStatus:        r.HTTPStatus,
		Latency:           r.Latency.Milliseconds(),
		RateLimit:         r.RateLimit,
		ContentValidation: cv,
		Error:             r.Error,
	})
}

func (r *ProbeResult) UnmarshalJSON(b []byte) error {
	var w probeResultJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.ContentValidation.Errors == nil {
		w.ContentValidation.Errors = []string{}
	}
	*r = ProbeResult{
		Name:              w.Name,
		Timestamp:         time.UnixMilli(w.Timestamp).UTC(),
		Status:            w.Status,
		HTTPStatus:        w.HTTPStatus,
		Latency:           time.Duration(w.Latency) * time.Millisecond,
		RateLimit:         w.RateLimit,
		ContentValidation: w.ContentValidation,
		Error:             w.Error,
	}
	return nil
}

// History maps endpoint name to its results, newest first.
type History map[string][]ProbeResult

// Prepend puts r in front of list and drops everything past MaxHistory.
// The input slice is not modified.
func Prepend(list []ProbeResult, r ProbeResult) []ProbeResult {
	keep := len(list)
	if keep > MaxHistory-1 {
		keep = MaxHistory - 1
	}
	out := make([]ProbeResult, 0, keep+1)
	out = append(out, r)
	return append(out, list[:keep]...)
}
