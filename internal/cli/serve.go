package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/buemura/recon/internal/scanner"
	"github.com/buemura/recon/internal/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownGrace = 10 * time.Second

var addrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recon HTTP API",
	Long:  "Serves POST /scan for browser front-ends plus the /api/v1/scans job API.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", ":8000", "listen address (host:port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	opts, err := appConfig.ScanOptions()
	if err != nil {
		return err
	}
	engine, err := scanner.New(opts, appLogger)
	if err != nil {
		return err
	}

	// Requests outlive the scan deadline so the engine always answers first.
	s := web.NewServer(appConfig.ListenAddr, engine, opts.ScanTimeout+30*time.Second, appLogger)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()
	fmt.Fprintf(cmd.OutOrStdout(), "recon API listening on %s\n", appConfig.ListenAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info("shutting down", zap.Duration("grace", shutdownGrace))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}
