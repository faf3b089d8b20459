package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/okian/surfcast/internal/probe"
	"github.com/spf13/cobra"
)

const defaultProbeDeadline = 2 * time.Minute

func newProbeCmd(c *cli) *cobra.Command {
	cfg := &probe.Config{}
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check a running server's rankings end to end",
		Long: `Calls /healthz and /spots on a running server, then ranks every skill
level and checks each response: one entry per registered spot, scores within
0..100 and ordered best first.

Example:
  surfcast probe --url http://localhost:9080 --requests 10 --workers 4`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), defaultProbeDeadline)
			defer cancel()

			cfg.Logger = c.log.Named("probe")
			stats, err := probe.Run(ctx, cfg)
			if stats != nil {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				_ = enc.Encode(stats)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the service")
	cmd.Flags().IntVar(&cfg.Requests, "requests", 1, "rank requests per skill level")
	cmd.Flags().IntVar(&cfg.Workers, "workers", 4, "concurrent workers")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "HTTP request timeout")
	cmd.Flags().StringVar(&cfg.OutputFile, "output", "", "write a JSON report to this file")
	return cmd
}
