package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/iwvelando/property-pnl/internal/config"
	"github.com/iwvelando/property-pnl/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "property-pnl",
		Short: "Purchase, loan and rental profit summary for a property",
		Long: `property-pnl values a property purchase: discounted price, loan sizing,
monthly repayment, stamp duty, total cash required and monthly rental profit,
with every amount also shown in a foreign currency.

Inputs come from a YAML config file with PROPERTY_PNL_* environment overrides.
A .env file next to the config is loaded first. Pass --config - to read the
config from standard input.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to configuration file, or - for standard input")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(
		newCalculateCmd(opts),
		newRateCmd(opts),
		newServeCmd(opts),
	)

	return rootCmd
}

// loadConfiguration reads the config file. The default file is optional; an
// explicitly named one is not.
func (o *rootOptions) loadConfiguration(cmd *cobra.Command) (*config.Configuration, error) {
	path := o.configPath
	if path == "-" {
		if err := config.LoadDotEnv(".env"); err != nil {
			return nil, err
		}
		return config.LoadConfigurationFromReader(cmd.InOrStdin())
	}
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	return config.LoadConfiguration(path)
}

// setup loads the configuration and builds the logger from it.
func (o *rootOptions) setup(cmd *cobra.Command) (*config.Configuration, *zap.Logger, error) {
	conf, err := o.loadConfiguration(cmd)
	if err != nil {
		return nil, nil, err
	}

	logger, err := initializeLogger(conf.Logging, o.logLevel)
	if err != nil {
		return nil, nil, err
	}
	return conf, logger, nil
}
