package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfgFile string

// rootCmd is the base command for mavbridge.
var rootCmd = &cobra.Command{
	Use:   "mavbridge",
	Short: "Bridge MAVLink traffic between serial, UDP and TCP links",
	Long: `mavbridge opens the configured links and forwards every decoded
frame from each link to all the others. A flight controller on a
serial port can this way feed a ground station over UDP and a log
collector over TCP at the same time. Frames are forwarded as raw
bytes, sequence numbers and checksums pass through untouched.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer logger.Sync()
		return runBridge(cfg, logger)
	},
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("bad log level %q: %w", level, err)
		}
		cfg.Level = lvl
	}
	return cfg.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "mavbridge.yaml", "config file")
}
