package vouchers

import (
	"context"
	"errors"
	"sync"
	"testing"

	"voucher-extractor/feature/vouchers/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingWriter struct {
	name string
	err  error

	mu  sync.Mutex
	got []*models.Output
}

func (r *recordingWriter) Name() string { return r.name }

func (r *recordingWriter) Write(_ context.Context, out *models.Output) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, out)
	return r.err
}

func TestExtractor_Extract(t *testing.T) {
	repo, _ := newSampleRepository(t)

	out, err := NewExtractor(repo, 5, zap.NewNop()).Extract(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &models.Output{
		TopCustomers: []models.CustomerCount{
			{CustomerID: 101, Orders: 1},
			{CustomerID: 456, Orders: 1},
		},
		UnusedBarcodes: []string{"22222222222"},
		Vouchers: []models.Voucher{
			{CustomerID: 456, OrderID: 123, Barcodes: []string{"11111111232", "11111111549"}},
		},
	}, out)
}

func TestExtractor_RunFansOut(t *testing.T) {
	repo, _ := newSampleRepository(t)
	a := &recordingWriter{name: "a"}
	b := &recordingWriter{name: "b"}

	require.NoError(t, NewExtractor(repo, 5, zap.NewNop(), a, b).Run(context.Background()))

	require.Len(t, a.got, 1)
	require.Len(t, b.got, 1)
	assert.Same(t, a.got[0], b.got[0])
}

func TestExtractor_RunWriterFailure(t *testing.T) {
	repo, _ := newSampleRepository(t)
	ok := &recordingWriter{name: "ok"}
	broken := &recordingWriter{name: "broken", err: errors.New("disk full")}

	err := NewExtractor(repo, 5, zap.NewNop(), ok, broken).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken writer")
	assert.Contains(t, err.Error(), "disk full")
}

func TestExtractor_RunLoadFailure(t *testing.T) {
	src := new(mockSource)
	src.On("ReadRows", mock.Anything, mock.Anything).Return([][]string{{"1"}}, nil)
	repo := NewRepository(src, "orders.csv", "barcodes.csv", zap.NewNop())
	w := &recordingWriter{name: "w"}

	err := NewExtractor(repo, 5, zap.NewNop(), w).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extraction failed")
	assert.Empty(t, w.got)
}
