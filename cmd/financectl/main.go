package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"finance-dashboard-go/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	log := logger.NewFromEnvTo(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(log).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(log logger.Logger) *cobra.Command {
	env := &environment{log: log}
	rootCmd := &cobra.Command{
		Use:           "financectl",
		Short:         "Operator tasks for the finance dashboard database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newMigrateCmd(env),
		newSeedUsersCmd(env),
		newReportCmd(env),
		newExportCmd(env),
	)
	return rootCmd
}
