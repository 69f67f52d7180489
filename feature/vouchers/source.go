package vouchers

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"voucher-extractor/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// RecordSource reads the data rows of a named CSV source.
// A source that does not exist yields no rows and no error.
type RecordSource interface {
	ReadRows(ctx context.Context, name string) ([][]string, error)
}

// CSVReader reads CSV files from the local filesystem.
type CSVReader struct {
	logger *zap.Logger
}

// NewCSVReader creates a reader for local CSV files.
func NewCSVReader(logger *zap.Logger) *CSVReader {
	return &CSVReader{logger: logger}
}

// ReadRows returns every row after the header of the file at path.
func (r *CSVReader) ReadRows(ctx context.Context, path string) ([][]string, error) {
	r.logger.Debug("Reading rows", zap.String("file", path))

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Error("File not found", zap.String("file", path))
			return [][]string{}, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := parseRows(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}

// ObjectReader reads CSV objects from a storage bucket.
type ObjectReader struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewObjectReader creates a reader for CSV objects in bucket.
func NewObjectReader(client storage.Client, bucket string, logger *zap.Logger) *ObjectReader {
	return &ObjectReader{client: client, bucket: bucket, logger: logger}
}

// ReadRows returns every row after the header of the object named objectName.
func (r *ObjectReader) ReadRows(ctx context.Context, objectName string) ([][]string, error) {
	r.logger.Debug("Reading rows", zap.String("bucket", r.bucket), zap.String("object", objectName))

	if _, err := r.client.StatObject(ctx, r.bucket, objectName, minio.StatObjectOptions{}); err != nil {
		if storage.IsNotFound(err) {
			r.logger.Error("Object not found", zap.String("bucket", r.bucket), zap.String("object", objectName))
			return [][]string{}, nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", objectName, err)
	}

	obj, err := r.client.GetObject(ctx, r.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", objectName, err)
	}
	defer obj.Close()

	rows, err := parseRows(ctx, obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", objectName, err)
	}
	return rows, nil
}

// parseRows skips the header row and returns the remaining records.
// Field counts are not enforced here; the ingestion pipeline checks them.
func parseRows(ctx context.Context, r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return [][]string{}, nil
		}
		return nil, err
	}

	rows := [][]string{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}
