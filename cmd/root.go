// Package cmd is the recruiter-service command line.
package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"jobmate/recruiter-service/internal/config"
	"jobmate/recruiter-service/internal/logger"
)

const app = "recruiter-service"

var (
	// Used for flags.
	cfgFile string

	v *viper.Viper

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "recruiter-service serves the recruiter operations dashboard, job lifecycle and correction ledger",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	var err error
	v, err = config.NewViper()
	if err != nil {
		log.Fatalf("init config: %v", err)
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a YAML config file (optional; environment variables take precedence)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	v.BindPFlag("log-json", rootCmd.PersistentFlags().Lookup("json"))
}

// setup loads the configuration and builds the logger shared by every
// subcommand.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, nil, err
	}
	l, err := logger.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		return nil, nil, err
	}
	return cfg, l.Named(app), nil
}
