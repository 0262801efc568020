package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var triggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Run a probe cycle on the server now",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := clientFromFlags(cmd).Trigger(cmd.Context())
		if err != nil {
			return fmt.Errorf("trigger: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (cycle %s, %d results)\n", r.Message, r.CycleID, r.Results)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(triggerCmd)
}
