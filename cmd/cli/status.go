package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the latest result for each API",
	Long: `Fetch GET /api/status and print the newest result per API.

Example:
  apistatus status
  apistatus status --api http://127.0.0.1:8080 --json`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().Bool("json", false, "print the full history as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	c := clientFromFlags(cmd)
	h, err := c.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch status: %w", err)
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(h)
	}
	return renderTable(cmd.OutOrStdout(), h)
}

func clientFromFlags(cmd *cobra.Command) *apiClient {
	base, _ := cmd.Flags().GetString("api")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	return newAPIClient(base, timeout)
}
