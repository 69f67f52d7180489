package vouchers

import (
	"context"
	"fmt"

	"voucher-extractor/feature/vouchers/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const exportBatchSize = 500

// DatabaseWriter stores every matched barcode as one row tagged with a run id.
type DatabaseWriter struct {
	db    *gorm.DB
	runID string
}

// NewDatabaseWriter creates an exporter. Each writer gets its own run id.
func NewDatabaseWriter(db *gorm.DB) *DatabaseWriter {
	return &DatabaseWriter{db: db, runID: uuid.NewString()}
}

// RunID returns the id stamped on every exported row.
func (d *DatabaseWriter) RunID() string {
	return d.runID
}

// Migrate creates or updates the export table.
func (d *DatabaseWriter) Migrate(ctx context.Context) error {
	if err := d.db.WithContext(ctx).AutoMigrate(&models.VoucherBarcode{}); err != nil {
		return fmt.Errorf("failed to migrate voucher_barcodes: %w", err)
	}
	return nil
}

func (d *DatabaseWriter) Name() string { return "database" }

func (d *DatabaseWriter) Write(ctx context.Context, out *models.Output) error {
	rows := exportRows(d.runID, out.Vouchers)
	if len(rows) == 0 {
		return nil
	}

	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(rows, exportBatchSize).Error; err != nil {
			return fmt.Errorf("failed to export vouchers: %w", err)
		}
		return nil
	})
}

func exportRows(runID string, vouchers []models.Voucher) []models.VoucherBarcode {
	var rows []models.VoucherBarcode
	for _, v := range vouchers {
		for i, barcode := range v.Barcodes {
			rows = append(rows, models.VoucherBarcode{
				RunID:      runID,
				CustomerID: v.CustomerID,
				OrderID:    v.OrderID,
				Barcode:    barcode,
				Position:   i,
			})
		}
	}
	return rows
}
