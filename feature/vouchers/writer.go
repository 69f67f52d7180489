package vouchers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"voucher-extractor/core/storage"
	"voucher-extractor/feature/vouchers/models"

	"github.com/minio/minio-go/v7"
)

// TimestampLayout names report files, e.g. output_2024-01-31-13:45:00.log.
const TimestampLayout = "2006-01-02-15:04:05"

// Writer delivers a finished report somewhere.
type Writer interface {
	Name() string
	Write(ctx context.Context, out *models.Output) error
}

// FormatSummary renders the console summary of the top customers and the
// number of unused barcodes.
func FormatSummary(out *models.Output) string {
	lines := make([]string, 0, len(out.TopCustomers))
	for _, c := range out.TopCustomers {
		lines = append(lines, fmt.Sprintf("%d, %d", c.CustomerID, c.Orders))
	}
	return fmt.Sprintf("Top customers:\n%s\nUnused barcodes: '%d'\n", strings.Join(lines, "\n"), len(out.UnusedBarcodes))
}

// FormatVouchers renders one customerId,orderId,[b1,b2] line per voucher.
// The result has no trailing newline.
func FormatVouchers(vouchers []models.Voucher) string {
	lines := make([]string, 0, len(vouchers))
	for _, v := range vouchers {
		var b strings.Builder
		b.WriteString(strconv.Itoa(v.CustomerID))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(v.OrderID))
		b.WriteString(",[")
		b.WriteString(strings.Join(v.Barcodes, ","))
		b.WriteByte(']')
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// VoucherFileName returns the voucher file name for a run started at t.
func VoucherFileName(t time.Time) string {
	return "output_" + t.Format(TimestampLayout) + ".log"
}

// StdoutWriter prints the summary.
type StdoutWriter struct {
	w io.Writer
}

// NewStdoutWriter creates a summary writer on w.
func NewStdoutWriter(w io.Writer) *StdoutWriter {
	return &StdoutWriter{w: w}
}

func (s *StdoutWriter) Name() string { return "stdout" }

func (s *StdoutWriter) Write(_ context.Context, out *models.Output) error {
	_, err := io.WriteString(s.w, FormatSummary(out))
	return err
}

// FileWriter writes the voucher list to a timestamped file in dir.
type FileWriter struct {
	dir string
	now func() time.Time
}

// NewFileWriter creates a voucher file writer. now defaults to time.Now.
func NewFileWriter(dir string, now func() time.Time) *FileWriter {
	if now == nil {
		now = time.Now
	}
	return &FileWriter{dir: dir, now: now}
}

func (f *FileWriter) Name() string { return "file" }

func (f *FileWriter) Write(_ context.Context, out *models.Output) error {
	name := filepath.Join(f.dir, VoucherFileName(f.now()))
	return writeFile(name, []byte(FormatVouchers(out.Vouchers)))
}

// JSONWriter writes the whole report as indented JSON next to the voucher file.
type JSONWriter struct {
	dir string
	now func() time.Time
}

// NewJSONWriter creates a JSON report writer. now defaults to time.Now.
func NewJSONWriter(dir string, now func() time.Time) *JSONWriter {
	if now == nil {
		now = time.Now
	}
	return &JSONWriter{dir: dir, now: now}
}

func (j *JSONWriter) Name() string { return "json" }

func (j *JSONWriter) Write(_ context.Context, out *models.Output) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	name := filepath.Join(j.dir, "report_"+j.now().Format(TimestampLayout)+".json")
	return writeFile(name, data)
}

func writeFile(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// ObjectWriter uploads the voucher list to a storage bucket.
type ObjectWriter struct {
	client storage.Client
	bucket string
	region string
	prefix string
	now    func() time.Time
}

// NewObjectWriter creates an uploader for bucket. Objects are stored under prefix.
func NewObjectWriter(client storage.Client, bucket, region, prefix string, now func() time.Time) *ObjectWriter {
	if now == nil {
		now = time.Now
	}
	return &ObjectWriter{client: client, bucket: bucket, region: region, prefix: prefix, now: now}
}

func (o *ObjectWriter) Name() string { return "upload" }

func (o *ObjectWriter) Write(ctx context.Context, out *models.Output) error {
	if err := storage.EnsureBucket(ctx, o.client, o.bucket, o.region); err != nil {
		return err
	}

	data := []byte(FormatVouchers(out.Vouchers))
	objectName := path.Join(o.prefix, VoucherFileName(o.now()))
	_, err := o.client.PutObject(ctx, o.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/plain",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	return nil
}
