package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/arun-gupta/api-status-dashboard/internal/domain"
)

func TestProbeAll_OneResultPerEndpointInOrder(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(80 * time.Millisecond)
		w.WriteHeader(200)
	}))
	defer slow.Close()
	fast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(503)
	}))
	defer fast.Close()

	eps := []domain.Endpoint{
		{Name: "slow", URL: slow.URL},
		{Name: "dead", URL: "http://127.0.0.1:1/", Timeout: 200 * time.Millisecond},
		{Name: "fast", URL: fast.URL},
	}
	out := NewProber(zap.NewNop()).ProbeAll(context.Background(), eps)
	if len(out) != len(eps) {
		t.Fatalf("want %d results, got %d", len(eps), len(out))
	}
	for i, ep := range eps {
		if out[i].Name != ep.Name {
			t.Fatalf("pos %d: want %s got %s", i, ep.Name, out[i].Name)
		}
	}
	if out[0].Status != domain.StatusUp || out[1].Status != domain.StatusDown || out[2].Status != domain.StatusDown {
		t.Fatalf("unexpected statuses: %s %s %s", out[0].Status, out[1].Status, out[2].Status)
	}
	if out[1].Error == nil || out[2].Error != nil {
		t.Fatalf("only the unreachable endpoint should carry an error")
	}
}

func TestProbeAll_RunsConcurrently(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(150 * time.Millisecond)
		w.WriteHeader(200)
	}))
	defer s.Close()

	eps := make([]domain.Endpoint, 4)
	for i := range eps {
		eps[i] = domain.Endpoint{Name: string(rune('a' + i)), URL: s.URL}
	}
	start := time.Now()
	NewProber(nil).ProbeAll(context.Background(), eps)
	if d := time.Since(start); d > 500*time.Millisecond {
		t.Fatalf("probes look sequential: took %v", d)
	}
}

type panicTransport struct{}

func (panicTransport) RoundTrip(*http.Request) (*http.Response, error) { panic("boom") }

func TestProbeAll_RecoversPanic(t *testing.T) {
	p := NewProber(nil)
	p.Client = &http.Client{Transport: panicTransport{}}

	out := p.ProbeAll(context.Background(), []domain.Endpoint{{Name: "x", URL: "http://example.invalid"}})
	if len(out) != 1 || out[0].Status != domain.StatusDown || out[0].Error == nil {
		t.Fatalf("want a down result with error, got %+v", out)
	}
	if out[0].Name != "x" {
		t.Fatalf("name lost: %q", out[0].Name)
	}
}

func TestProbeAll_Empty(t *testing.T) {
	if out := NewProber(nil).ProbeAll(context.Background(), nil); len(out) != 0 {
		t.Fatalf("want no results, got %d", len(out))
	}
}
