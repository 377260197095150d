package cli

import (
	"fmt"
	"time"

	"github.com/buemura/recon/internal/config"
	"github.com/buemura/recon/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

var (
	targetFlag   string
	outputFlag   string
	verboseFlag  bool
	timeoutFlag  time.Duration
	configFlag   string
	logLevelFlag string
)

// appConfig and appLogger are available after PersistentPreRunE.
var (
	appConfig *config.Config
	appLogger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "recon",
	Short: "recon — quick reconnaissance scans for web targets",
	Long: `recon resolves a target, fingerprints its HTTP service, checks a
handful of common TCP ports and its robots.txt, and condenses the
findings into a low/medium/high risk verdict with hints.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var (
			cfg *config.Config
			err error
		)
		if configFlag != "" {
			cfg, err = config.LoadFromFile(configFlag)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		config.ApplyFlags(cfg, cmd)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger, err := logging.New(cfg.LogLevel)
		if err != nil {
			return err
		}

		// Sync config values back to flag variables so commands pick up
		// config-file and env-var defaults transparently.
		targetFlag = cfg.DefaultTarget
		outputFlag = cfg.OutputFormat
		timeoutFlag = cfg.ScanTimeout

		appConfig = cfg
		appLogger = logger
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appLogger != nil {
			_ = appLogger.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&targetFlag, "target", "t", "", "target host, IP, or URL")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "table", "output format: table, json, markdown, html")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "debug logging (same as --log-level debug)")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 20*time.Second, "overall scan deadline")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default ~/.recon.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "log level: debug, info, warn, error")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(versionCmd)
}
