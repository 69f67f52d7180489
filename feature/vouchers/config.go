package vouchers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"voucher-extractor/core/joinstore"
)

// Source kinds.
const (
	SourceFile = "file"
	SourceS3   = "s3"
)

// Config holds configuration for the voucher extraction.
type Config struct {
	// OrdersFile is the orders CSV (order_id,customer_id).
	OrdersFile string `mapstructure:"orders_file" default:"data/orders.csv"`
	// BarcodesFile is the barcodes CSV (barcode,order_id).
	BarcodesFile string `mapstructure:"barcodes_file" default:"data/barcodes.csv"`
	// OutputDir is where voucher files are written.
	OutputDir string `mapstructure:"output_dir" default:"output"`
	// Source selects where the CSV files are read from: file or s3.
	Source string `mapstructure:"source" default:"file"`
	// TopCustomers is the size of the customer ranking.
	TopCustomers int `mapstructure:"top_customers" default:"5"`
	// DuplicateOrders is the policy for repeated order ids: last, first or reject.
	DuplicateOrders string `mapstructure:"duplicate_orders" default:"last"`
	// Stdout enables the console summary.
	Stdout bool `mapstructure:"stdout" default:"true"`
	// WriteFile enables the voucher log file in OutputDir.
	WriteFile bool `mapstructure:"write_file" default:"true"`
	// JSON enables the full JSON report in OutputDir.
	JSON bool `mapstructure:"json" default:"false"`
	// Upload sends the voucher file to the storage bucket.
	Upload bool `mapstructure:"upload" default:"false"`
	// UploadPrefix is the object prefix for uploaded reports.
	UploadPrefix string `mapstructure:"upload_prefix" default:"reports"`
	// Export writes matched barcodes to the database.
	Export bool `mapstructure:"export" default:"false"`
}

// Validate checks the source settings before anything is read.
func (c Config) Validate() error {
	if c.TopCustomers < 0 {
		return fmt.Errorf("top customers must not be negative, got %d", c.TopCustomers)
	}
	if _, err := joinstore.ParseConflictPolicy(c.DuplicateOrders); err != nil {
		return err
	}

	switch c.Source {
	case SourceFile, SourceS3:
	default:
		return fmt.Errorf("unknown source %q (want %s or %s)", c.Source, SourceFile, SourceS3)
	}

	for _, path := range []string{c.OrdersFile, c.BarcodesFile} {
		if c.Source == SourceFile {
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("file not found: %s", path)
			}
		}
		if strings.ToLower(filepath.Ext(path)) != ".csv" {
			return fmt.Errorf("invalid file format: %s. Expected a CSV file", path)
		}
	}
	return nil
}

// ConflictPolicy returns the parsed duplicate order policy.
func (c Config) ConflictPolicy() joinstore.ConflictPolicy {
	p, _ := joinstore.ParseConflictPolicy(c.DuplicateOrders)
	return p
}
