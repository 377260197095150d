package cli

import (
	"github.com/buemura/recon/internal/scanner"
	"github.com/buemura/recon/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch interactive TUI mode",
	Long:  "Start a terminal UI that prompts for a target, runs the scan and shows the scored report.",
	Args:  cobra.NoArgs,
	RunE:  runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	opts, err := appConfig.ScanOptions()
	if err != nil {
		return err
	}
	// The TUI owns the terminal, so engine logs are dropped.
	engine, err := scanner.New(opts, zap.NewNop())
	if err != nil {
		return err
	}

	return tui.Run(commandContext(cmd), engine, targetFlag)
}
