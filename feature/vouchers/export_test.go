package vouchers

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"voucher-extractor/feature/vouchers/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestDatabaseWriter_Write(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	w := NewDatabaseWriter(db)

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec(regexp.QuoteMeta("INSERT INTO `voucher_barcodes`")).
		WillReturnResult(sqlmock.NewResult(1, 3))
	sqlMock.ExpectCommit()

	require.NoError(t, w.Write(context.Background(), sampleOutput()))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
	assert.Equal(t, "database", w.Name())
}

func TestDatabaseWriter_RollsBackOnError(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	w := NewDatabaseWriter(db)

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec(regexp.QuoteMeta("INSERT INTO `voucher_barcodes`")).
		WillReturnError(errors.New("deadlock"))
	sqlMock.ExpectRollback()

	err := w.Write(context.Background(), sampleOutput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to export vouchers")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestDatabaseWriter_NothingToExport(t *testing.T) {
	db, sqlMock := setupMockDB(t)

	require.NoError(t, NewDatabaseWriter(db).Write(context.Background(), &models.Output{}))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestExportRows(t *testing.T) {
	rows := exportRows("run-1", sampleOutput().Vouchers)

	require.Len(t, rows, 3)
	assert.Equal(t, models.VoucherBarcode{RunID: "run-1", CustomerID: 10, OrderID: 1, Barcode: "a", Position: 0}, rows[0])
	assert.Equal(t, models.VoucherBarcode{RunID: "run-1", CustomerID: 10, OrderID: 1, Barcode: "b", Position: 1}, rows[1])
	assert.Equal(t, models.VoucherBarcode{RunID: "run-1", CustomerID: 60, OrderID: 2, Barcode: "c", Position: 0}, rows[2])
}

func TestDatabaseWriter_RunIDsDiffer(t *testing.T) {
	db, _ := setupMockDB(t)

	a, b := NewDatabaseWriter(db), NewDatabaseWriter(db)
	assert.NotEmpty(t, a.RunID())
	assert.NotEqual(t, a.RunID(), b.RunID())
}
