package cmd

import (
	"fmt"
	"os"

	"voucher-extractor/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "voucher-extractor",
	Short: "Voucher Extractor",
	Long: `Voucher Extractor joins barcode assignments with order ownership records.
It reports the vouchers per customer and order, the top customers and the unused barcodes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// debug forces the debug log level for every command.
var debug bool

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// Console format with the development config gives ISO8601 timestamps
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}
