// Command fsmctl runs, exports and serves the bundled fsmx machines.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/comalice/fsmx/internal/config"
)

var (
	envFiles []string
	cfg      config.Config
	logger   zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "fsmctl",
	Short:         "Run and inspect fsmx state machines",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFiles...)
		if err != nil {
			return err
		}
		logger, err = cfg.Logger(os.Stderr)
		return err
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func main() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load before parsing FSM_* variables")
	rootCmd.AddCommand(orderCmd(), trafficCmd(), exportCmd(), serveCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
