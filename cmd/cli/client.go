package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/arun-gupta/api-status-dashboard/internal/domain"
)

type apiClient struct {
	base string
	http *http.Client
}

func newAPIClient(base string, timeout time.Duration) *apiClient {
	return &apiClient{base: strings.TrimRight(base, "/"), http: &http.Client{Timeout: timeout}}
}

type apiError struct {
	Code int
	Msg  string
}

func (e *apiError) Error() string { return fmt.Sprintf("api returned %d: %s", e.Code, e.Msg) }

func (c *apiClient) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &apiError{Code: resp.StatusCode, Msg: msg}
	}
	return json.Unmarshal(body, out)
}

func (c *apiClient) Status(ctx context.Context) (domain.History, error) {
	var h domain.History
	if err := c.do(ctx, http.MethodGet, "/api/status", &h); err != nil {
		return nil, err
	}
	return h, nil
}

type triggerReply struct {
	Message string `json:"message"`
	CycleID string `json:"cycleId"`
	Results int    `json:"results"`
}

func (c *apiClient) Trigger(ctx context.Context) (triggerReply, error) {
	var r triggerReply
	err := c.do(ctx, http.MethodPost, "/api/trigger", &r)
	return r, err
}

// renderTable prints the newest result of each API, sorted by name.
func renderTable(w io.Writer, h domain.History) error {
	names := make([]string, 0, len(h))
	for n, list := range h {
		if len(list) > 0 {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		_, err := fmt.Fprintln(w, "no results yet")
		return err
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "API\tSTATUS\tHTTP\tLATENCY\tVALID\tCHECKED\tDETAIL")
	for _, n := range names {
		r := h[n][0]
		detail := strings.Join(r.ContentValidation.Errors, "; ")
		if r.Error != nil {
			detail = *r.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%dms\t%t\t%s\t%s\n",
			n, r.Status, r.HTTPStatus, r.Latency.Milliseconds(),
			r.ContentValidation.Valid, r.Timestamp.Format(time.RFC3339), detail)
	}
	return tw.Flush()
}
