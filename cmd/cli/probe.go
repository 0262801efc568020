package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arun-gupta/api-status-dashboard/internal/config"
	"github.com/arun-gupta/api-status-dashboard/internal/domain"
	"github.com/arun-gupta/api-status-dashboard/internal/monitor"
	"github.com/arun-gupta/api-status-dashboard/internal/probe"
	"github.com/arun-gupta/api-status-dashboard/internal/repo"
	"github.com/arun-gupta/api-status-dashboard/internal/repo/memory"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Probe the registry from this machine and print the results",
	Long: `Run one probe cycle locally, without a server or a persistent store.

The registry comes from ENDPOINTS_FILE or the built-in list, with secrets
read from the environment like the server does.

Example:
  apistatus probe
  apistatus probe --only GitHub --only Stripe -v`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().StringSlice("only", nil, "probe only these endpoint names")
	probeCmd.Flags().BoolP("verbose", "v", false, "log probe details to stderr")
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	eps, err := cfg.Endpoints()
	if err != nil {
		return err
	}
	only, _ := cmd.Flags().GetStringSlice("only")
	if eps, err = filterEndpoints(eps, only); err != nil {
		return err
	}

	logger := zap.NewNop()
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer logger.Sync()
	}

	mon := monitor.New(logger, probe.NewProber(logger), repo.NewHistoryRepo(memory.New()), eps, monitor.Options{})
	c, err := mon.RunCycle(cmd.Context())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(c.Results)
}

func filterEndpoints(eps []domain.Endpoint, only []string) ([]domain.Endpoint, error) {
	if len(only) == 0 {
		return eps, nil
	}
	byName := make(map[string]domain.Endpoint, len(eps))
	for _, ep := range eps {
		byName[ep.Name] = ep
	}
	out := make([]domain.Endpoint, 0, len(only))
	for _, n := range only {
		ep, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("unknown endpoint %q", n)
		}
		out = append(out, ep)
	}
	return out, nil
}
