package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"jobmate/recruiter-service/internal/access"
	"jobmate/recruiter-service/internal/dashboard"
	"jobmate/recruiter-service/internal/logger"
	"jobmate/recruiter-service/internal/scheduler"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Build the dashboard once, publish its digest and print it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return digest(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(digestCmd)
}

// digestAggregator returns an aggregator over svc's store that runs with the
// service's own authority.
func digestAggregator(svc *services) *dashboard.Aggregator {
	return svc.dashboard.WithAuthorizer(access.Static(true))
}

func digest(ctx context.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	svc, err := newServices(ctx, cfg, access.Static(true), log)
	if err != nil {
		return err
	}
	defer svc.Close()

	d, err := scheduler.New(svc.dashboard, svc.publisher, cfg.DigestSpec, cfg.Location(), logger.Component(log, "scheduler")).
		RunDigest(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
