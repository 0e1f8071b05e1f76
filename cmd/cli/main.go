package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bobler41/EV-Parking-Simulation/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var level string
	root := &cobra.Command{
		Use:           "evsim",
		Short:         "EV charging park simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logger.SetLevel(level)
		},
	}
	root.PersistentFlags().StringVar(&level, "log-level", "warn", "log level (debug, info, warn, error)")
	root.AddCommand(newRunCmd(), newSweepCmd(), newExportCmd())
	return root
}
