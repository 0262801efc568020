// cmd/preflight/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/arun-gupta/api-status-dashboard/internal/config"
	"github.com/arun-gupta/api-status-dashboard/internal/repo/backend"
)

func main() {
	cfg := config.FromEnv()
	connect := len(os.Args) > 1 && os.Args[1] == "-connect"
	if !preflight(cfg, connect, os.Stdout, os.Stderr) {
		os.Exit(1)
	}
}

// preflight reports on cfg and returns false if the API would not start.
// With connect it also opens the configured store.
func preflight(cfg config.Config, connect bool, out, errOut io.Writer) bool {
	passed := true
	fail := func(msg string) {
		fmt.Fprintln(errOut, "✖", msg)
		passed = false
	}
	warn := func(msg string) { fmt.Fprintln(errOut, "⚠", msg) }
	ok := func(msg string) { fmt.Fprintln(out, "✔", msg) }

	ok("API_ADDR=" + cfg.Addr)

	// these keys only feed the built-in registry
	if cfg.EndpointsFile == "" {
		for _, s := range []struct{ name, val string }{
			{"OPENAI_API_KEY", cfg.Secrets.OpenAIKey},
			{"STRIPE_API_KEY", cfg.Secrets.StripeKey},
			{"OPENWEATHER_API_KEY", cfg.Secrets.OpenWeatherKey},
		} {
			if strings.TrimSpace(s.val) == "" {
				warn(s.name + " is empty; a placeholder key is sent and that API will likely report down.")
			} else {
				ok(s.name + " present")
			}
		}
	}

	eps, err := cfg.Endpoints()
	switch {
	case err != nil:
		fail("endpoint registry: " + err.Error())
	case cfg.EndpointsFile != "":
		ok(fmt.Sprintf("ENDPOINTS_FILE=%s (%d endpoints)", cfg.EndpointsFile, len(eps)))
	default:
		ok(fmt.Sprintf("built-in registry (%d endpoints)", len(eps)))
	}

	switch driver := cfg.StoreDriver(); driver {
	case config.DriverMemory:
		warn("DATABASE_URL and SQLITE_PATH empty; history is kept in memory and lost on restart.")
	default:
		ok("store driver: " + driver)
	}
	if connect {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, closeStore, err := backend.Open(ctx, cfg, nil); err != nil {
			fail("store: " + err.Error())
		} else {
			closeStore()
			ok("store reachable")
		}
	}

	if cfg.CheckInterval == 0 {
		warn("CHECK_INTERVAL_MS=0; scheduled checks are off, only POST /api/trigger runs cycles.")
	} else {
		ok("check interval " + cfg.CheckInterval.String())
	}

	if cfg.TriggerRPM == 0 {
		warn("TRIGGER_RPM=0; /api/trigger is not rate limited.")
	}

	if len(cfg.AllowedOrigins) == 0 {
		ok("ALLOWED_ORIGINS empty; CORS allows any origin.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}

	if passed {
		ok("preflight passed")
	}
	return passed
}
