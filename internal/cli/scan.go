package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/buemura/recon/internal/output"
	"github.com/buemura/recon/internal/scanner"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [target]",
	Short: "Scan a target and print the report",
	Long: `Resolves the target, probes HTTP, common TCP ports and robots.txt
concurrently under one deadline, and prints the scored report.

The target may be a hostname, host:port, or an http(s) URL. It can be given
as an argument, with --target, or as default_target in the config file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	target := targetFlag
	if len(args) == 1 {
		target = args[0]
	}
	if target == "" {
		return fmt.Errorf("a target is required (argument or --target/-t)")
	}

	formatter, err := output.GetFormatter(outputFlag)
	if err != nil {
		return err
	}

	opts, err := appConfig.ScanOptions()
	if err != nil {
		return err
	}
	engine, err := scanner.New(opts, appLogger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := engine.Scan(ctx, target)
	if err != nil {
		return err
	}

	return formatter.Format(cmd.OutOrStdout(), result)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
