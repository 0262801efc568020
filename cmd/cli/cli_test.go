package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arun-gupta/api-status-dashboard/internal/domain"
)

func TestRenderTable(t *testing.T) {
	msg := "dial tcp: timeout"
	ts := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	h := domain.History{
		"Stripe": {{Name: "Stripe", Timestamp: ts, Status: domain.StatusDown, Latency: 10 * time.Second,
			ContentValidation: domain.ContentValidation{Errors: []string{}}, Error: &msg}},
		"GitHub": {{Name: "GitHub", Timestamp: ts, Status: domain.StatusUp, HTTPStatus: 200, Latency: 87 * time.Millisecond,
			ContentValidation: domain.ContentValidation{Valid: true, Errors: []string{}}}},
		"Empty": {},
	}
	var buf bytes.Buffer
	require.NoError(t, renderTable(&buf, h))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "API"))
	assert.True(t, strings.HasPrefix(lines[1], "GitHub"))
	assert.Contains(t, lines[1], "87ms")
	assert.True(t, strings.HasPrefix(lines[2], "Stripe"))
	assert.Contains(t, lines[2], "dial tcp: timeout")
}

func TestRenderTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderTable(&buf, domain.History{}))
	assert.Equal(t, "no results yet\n", buf.String())
}

func TestClient_StatusAndTrigger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/status":
			w.Write([]byte(`{"GitHub":[{"name":"GitHub","timestamp":1755518400000,"status":"up","httpStatus":200,"latency":50,"contentValidation":{"valid":true,"errors":[]}}]}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/trigger":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"Failed to trigger monitoring"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL+"/", time.Second)
	h, err := c.Status(context.Background())
	require.NoError(t, err)
	require.Len(t, h["GitHub"], 1)
	assert.Equal(t, domain.StatusUp, h["GitHub"][0].Status)
	assert.Equal(t, 50*time.Millisecond, h["GitHub"][0].Latency)

	_, err = c.Trigger(context.Background())
	var apiErr *apiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 500, apiErr.Code)
	assert.Equal(t, "Failed to trigger monitoring", apiErr.Msg)
}

func TestFilterEndpoints(t *testing.T) {
	eps := []domain.Endpoint{{Name: "GitHub"}, {Name: "Stripe"}, {Name: "OpenAI"}}

	got, err := filterEndpoints(eps, nil)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = filterEndpoints(eps, []string{"Stripe", "GitHub"})
	require.NoError(t, err)
	assert.Equal(t, "Stripe", got[0].Name)
	assert.Equal(t, "GitHub", got[1].Name)

	_, err = filterEndpoints(eps, []string{"Nope"})
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "apistatus dev (none)\n", buf.String())
}
