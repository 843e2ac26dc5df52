package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRateCmd(root *rootOptions) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Show the exchange rate the calculation would use",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, err := root.setup(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			resolver, closeResolver := conf.FX.NewResolver(logger, offline)
			defer func() {
				_ = closeResolver()
			}()

			quote := resolver.Resolve(cmd.Context(), conf.FX.Base, conf.FX.Quote)
			fmt.Fprintf(cmd.OutOrStdout(), "1 %s = %.4f %s (%s)\n", quote.Base, quote.Rate, quote.Quote, quote.Source)
			if quote.Warning != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "!!! %s\n", quote.Warning)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "do not look up a live exchange rate")
	return cmd
}
