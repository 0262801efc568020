package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func strp(s string) *string { return &s }

func TestProbeResult_WireFormat(t *testing.T) {
	r := ProbeResult{
		Name:       "GitHub",
		Timestamp:  time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC),
		Status:     StatusUp,
		HTTPStatus: 200,
		Latency:    123 * time.Millisecond,
		RateLimit:  &RateLimit{Remaining: strp("10")},
		ContentValidation: ContentValidation{
			Valid: true,
		},
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{
		`"timestamp":1755518400000`,
		`"latency":123`,
		`"httpStatus":200`,
		`"rateLimit":{"remaining":"10"}`,
		`"errors":[]`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %s in %s", want, s)
		}
	}
	if strings.Contains(s, `"error"`) {
		t.Fatalf("error field should be omitted: %s", s)
	}

	var got ProbeResult
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.Timestamp.Equal(r.Timestamp) || got.Latency != r.Latency || *got.RateLimit.Remaining != "10" {
		t.Fatalf("mismatch after decode: %+v", got)
	}
	if got.RateLimit.Limit != nil || got.RateLimit.Reset != nil {
		t.Fatalf("absent rate-limit fields should stay nil: %+v", got.RateLimit)
	}
}

func TestProbeResult_DownCarriesError(t *testing.T) {
	r := ProbeResult{Name: "X", Status: StatusDown, Error: strp("dial tcp: refused")}
	b, _ := json.Marshal(r)
	if !strings.Contains(string(b), `"error":"dial tcp: refused"`) {
		t.Fatalf("want error in %s", b)
	}
	if strings.Contains(string(b), "rateLimit") {
		t.Fatalf("rateLimit should be omitted: %s", b)
	}
}

func TestPrepend_CapsAtMaxHistory(t *testing.T) {
	var list []ProbeResult
	for i := 0; i < 30; i++ {
		list = Prepend(list, ProbeResult{Name: "A", HTTPStatus: i})
		if len(list) > MaxHistory {
			t.Fatalf("len=%d after %d appends", len(list), i+1)
		}
	}
	if len(list) != MaxHistory {
		t.Fatalf("want %d entries, got %d", MaxHistory, len(list))
	}
	// newest first: 29, 28, ..., 6
	for i, r := range list {
		if r.HTTPStatus != 29-i {
			t.Fatalf("pos %d: want %d got %d", i, 29-i, r.HTTPStatus)
		}
	}
}

func TestPrepend_DoesNotAliasInput(t *testing.T) {
	in := []ProbeResult{{HTTPStatus: 1}, {HTTPStatus: 2}}
	out := Prepend(in, ProbeResult{HTTPStatus: 0})
	out[1].HTTPStatus = 99
	if in[0].HTTPStatus != 1 {
		t.Fatalf("input modified")
	}
}

func TestEndpoint_EffectiveTimeout(t *testing.T) {
	if (Endpoint{}).EffectiveTimeout() != DefaultTimeout {
		t.Fatalf("zero timeout should default")
	}
	if (Endpoint{Timeout: time.Second}).EffectiveTimeout() != time.Second {
		t.Fatalf("explicit timeout ignored")
	}
}
