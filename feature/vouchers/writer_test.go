package vouchers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"voucher-extractor/core/storage/mocks"
	"voucher-extractor/feature/vouchers/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 1, 31, 13, 45, 7, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func sampleOutput() *models.Output {
	return &models.Output{
		TopCustomers: []models.CustomerCount{
			{CustomerID: 10, Orders: 3},
			{CustomerID: 60, Orders: 2},
		},
		UnusedBarcodes: []string{"u1", "u2", "u3"},
		Vouchers: []models.Voucher{
			{CustomerID: 10, OrderID: 1, Barcodes: []string{"a", "b"}},
			{CustomerID: 60, OrderID: 2, Barcodes: []string{"c"}},
		},
	}
}

func TestFormatSummary(t *testing.T) {
	assert.Equal(t, "Top customers:\n10, 3\n60, 2\nUnused barcodes: '3'\n", FormatSummary(sampleOutput()))
	assert.Equal(t, "Top customers:\n\nUnused barcodes: '0'\n", FormatSummary(&models.Output{}))
}

func TestFormatVouchers(t *testing.T) {
	assert.Equal(t, "10,1,[a,b]\n60,2,[c]", FormatVouchers(sampleOutput().Vouchers))
	assert.Equal(t, "", FormatVouchers(nil))
}

func TestVoucherFileName(t *testing.T) {
	assert.Equal(t, "output_2024-01-31-13:45:07.log", VoucherFileName(fixedTime))
}

func TestStdoutWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewStdoutWriter(&buf)

	require.NoError(t, w.Write(context.Background(), sampleOutput()))
	assert.Equal(t, "stdout", w.Name())
	assert.Equal(t, FormatSummary(sampleOutput()), buf.String())
}

func TestFileWriter_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")
	w := NewFileWriter(dir, fixedNow)

	require.NoError(t, w.Write(context.Background(), sampleOutput()))

	data, err := os.ReadFile(filepath.Join(dir, "output_2024-01-31-13:45:07.log"))
	require.NoError(t, err)
	assert.Equal(t, "10,1,[a,b]\n60,2,[c]", string(data))
}

func TestJSONWriter(t *testing.T) {
	dir := t.TempDir()
	w := NewJSONWriter(dir, fixedNow)

	require.NoError(t, w.Write(context.Background(), sampleOutput()))

	data, err := os.ReadFile(filepath.Join(dir, "report_2024-01-31-13:45:07.json"))
	require.NoError(t, err)

	var got models.Output
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, *sampleOutput(), got)
}

func TestObjectWriter(t *testing.T) {
	t.Run("CreatesBucketAndUploads", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "vouchers").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "vouchers", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)
		client.On("PutObject", mock.Anything, "vouchers", "reports/output_2024-01-31-13:45:07.log", mock.Anything, int64(len("10,1,[a,b]\n60,2,[c]")), mock.Anything).
			Return(minio.UploadInfo{}, nil)

		w := NewObjectWriter(client, "vouchers", "us-east-1", "reports", fixedNow)
		require.NoError(t, w.Write(context.Background(), sampleOutput()))
		client.AssertExpectations(t)
	})

	t.Run("UploadFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "vouchers").Return(true, nil)
		client.On("PutObject", mock.Anything, "vouchers", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, errors.New("access denied"))

		w := NewObjectWriter(client, "vouchers", "", "reports", fixedNow)
		err := w.Write(context.Background(), sampleOutput())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access denied")
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})
}
