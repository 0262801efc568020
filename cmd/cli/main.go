// Command apistatus talks to a running status API or probes the registry
// locally.
//
// Usage:
//
//	apistatus status            # latest result per API
//	apistatus trigger           # run a cycle on the server
//	apistatus probe             # run a cycle here and print JSON
//	apistatus version
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// set via -ldflags "-X main.version=..."
var (
	version = "dev"
	commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:           "apistatus",
	Short:         "API status dashboard client",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "apistatus %s (%s)\n", version, commit)
	},
}

func init() {
	base := os.Getenv("API_BASE")
	if base == "" {
		base = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().String("api", base, "base URL of the status API")
	rootCmd.PersistentFlags().Duration("timeout", 2*time.Minute, "request timeout")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
