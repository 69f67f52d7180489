package cmd

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"voucher-extractor/core/config"
	"voucher-extractor/core/database"
	"voucher-extractor/core/logger"
	"voucher-extractor/core/storage"
	"voucher-extractor/feature/vouchers"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Join orders and barcodes and write the voucher report",
	Long: `Reads the orders and barcodes CSV files, assigns every barcode to its order
and writes the top customers, the unused barcode count and the voucher list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(cmd.Context(), cmd.Flags())
	},
}

func init() {
	f := extractCmd.Flags()
	f.String("orders-file", "", "orders CSV (order_id,customer_id)")
	f.String("barcodes-file", "", "barcodes CSV (barcode,order_id)")
	f.String("output-dir", "", "directory for the voucher file")
	f.Int("top", 0, "number of top customers to report")
	f.String("source", "", "where the CSV files are read from: file or s3")
	f.Bool("json", false, "also write the full report as JSON")
	f.Bool("upload", false, "upload the voucher file to the storage bucket")
	f.Bool("export", false, "export matched barcodes to the database")
	RootCmd.AddCommand(extractCmd)
}

// applyExtractFlags overrides loaded settings with the flags that were set.
func applyExtractFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("orders-file") {
		cfg.Extract.OrdersFile, _ = flags.GetString("orders-file")
	}
	if flags.Changed("barcodes-file") {
		cfg.Extract.BarcodesFile, _ = flags.GetString("barcodes-file")
	}
	if flags.Changed("output-dir") {
		cfg.Extract.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("top") {
		cfg.Extract.TopCustomers, _ = flags.GetInt("top")
	}
	if flags.Changed("source") {
		cfg.Extract.Source, _ = flags.GetString("source")
	}
	if flags.Changed("json") {
		cfg.Extract.JSON, _ = flags.GetBool("json")
	}
	if flags.Changed("upload") {
		cfg.Extract.Upload, _ = flags.GetBool("upload")
	}
	if flags.Changed("export") {
		cfg.Extract.Export, _ = flags.GetBool("export")
	}
	if debug {
		cfg.Log.Level = "debug"
	}
}

func runExtract(ctx context.Context, flags *pflag.FlagSet) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyExtractFlags(flags, cfg)

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logg.Sync()

	if err := cfg.Extract.Validate(); err != nil {
		return err
	}

	var client storage.Client
	if cfg.Extract.Source == vouchers.SourceS3 || cfg.Extract.Upload {
		if client, err = storage.NewClient(cfg.Storage); err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
	}

	repo := newRepository(cfg, client, logg)
	writers, err := buildWriters(ctx, cfg, client, logg)
	if err != nil {
		return err
	}

	logg.Debug("Starting extraction",
		zap.String("orders", cfg.Extract.OrdersFile),
		zap.String("barcodes", cfg.Extract.BarcodesFile),
		zap.String("source", cfg.Extract.Source),
		zap.Int("writers", len(writers)))

	return vouchers.NewExtractor(repo, cfg.Extract.TopCustomers, logg, writers...).Run(ctx)
}

// newRepository builds the repository for the configured source.
// client is only used for the s3 source.
func newRepository(cfg *config.Config, client storage.Client, logg *zap.Logger) *vouchers.Repository {
	var reader vouchers.RecordSource = vouchers.NewCSVReader(logg)
	if cfg.Extract.Source == vouchers.SourceS3 {
		reader = vouchers.NewObjectReader(client, cfg.Storage.Bucket, logg)
	}
	return vouchers.NewRepository(reader, cfg.Extract.OrdersFile, cfg.Extract.BarcodesFile, logg,
		vouchers.WithDuplicateOrders(cfg.Extract.ConflictPolicy()))
}

// buildWriters returns the enabled report writers. All file based writers
// share one timestamp so their names match.
func buildWriters(ctx context.Context, cfg *config.Config, client storage.Client, logg *zap.Logger) ([]vouchers.Writer, error) {
	runAt := time.Now()
	now := func() time.Time { return runAt }

	var writers []vouchers.Writer
	if cfg.Extract.Stdout {
		writers = append(writers, vouchers.NewStdoutWriter(os.Stdout))
	}
	if cfg.Extract.WriteFile {
		writers = append(writers, vouchers.NewFileWriter(cfg.Extract.OutputDir, now))
	}
	if cfg.Extract.JSON {
		writers = append(writers, vouchers.NewJSONWriter(cfg.Extract.OutputDir, now))
	}
	if cfg.Extract.Upload {
		writers = append(writers, vouchers.NewObjectWriter(client, cfg.Storage.Bucket, cfg.Storage.Region, cfg.Extract.UploadPrefix, now))
		logg.Info("Uploading voucher file",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.String("object", path.Join(cfg.Extract.UploadPrefix, vouchers.VoucherFileName(runAt))))
	}
	if cfg.Extract.Export {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to export database: %w", err)
		}
		exporter := vouchers.NewDatabaseWriter(db)
		if err := exporter.Migrate(ctx); err != nil {
			return nil, err
		}
		logg.Info("Exporting vouchers", zap.String("driver", cfg.Database.Driver), zap.String("run_id", exporter.RunID()))
		writers = append(writers, exporter)
	}
	return writers, nil
}
