package vouchers

import (
	"context"
	"fmt"
	"time"

	"voucher-extractor/core/joinstore"
	"voucher-extractor/feature/vouchers/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Querier answers the report queries. *Repository implements it.
type Querier interface {
	Load(ctx context.Context) error
	Vouchers(ctx context.Context) ([]models.Voucher, error)
	UnusedBarcodes(ctx context.Context) ([]string, error)
	TopCustomers(ctx context.Context, n int) ([]models.CustomerCount, error)
	Stats(ctx context.Context) (joinstore.Stats, error)
}

// Extractor builds the report and hands it to every writer.
type Extractor struct {
	repo    Querier
	writers []Writer
	logger  *zap.Logger
	topN    int
}

// NewExtractor creates an extractor ranking the topN customers.
func NewExtractor(repo Querier, topN int, logger *zap.Logger, writers ...Writer) *Extractor {
	return &Extractor{repo: repo, writers: writers, logger: logger, topN: topN}
}

// Extract loads the data and builds the consolidated report.
func (e *Extractor) Extract(ctx context.Context) (*models.Output, error) {
	if err := e.repo.Load(ctx); err != nil {
		return nil, err
	}

	top, err := e.repo.TopCustomers(ctx, e.topN)
	if err != nil {
		return nil, err
	}
	unused, err := e.repo.UnusedBarcodes(ctx)
	if err != nil {
		return nil, err
	}
	vouchers, err := e.repo.Vouchers(ctx)
	if err != nil {
		return nil, err
	}

	return &models.Output{
		TopCustomers:   top,
		UnusedBarcodes: unused,
		Vouchers:       vouchers,
	}, nil
}

// Run extracts the report and writes it with all writers concurrently.
// The first writer error is returned once every writer has finished.
func (e *Extractor) Run(ctx context.Context) error {
	start := time.Now()

	out, err := e.Extract(ctx)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range e.writers {
		w := w
		g.Go(func() error {
			if err := w.Write(gctx, out); err != nil {
				e.logger.Error("Writer failed", zap.String("writer", w.Name()), zap.Error(err))
				return fmt.Errorf("%s writer: %w", w.Name(), err)
			}
			e.logger.Debug("Writer finished", zap.String("writer", w.Name()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	e.logger.Info("Extraction completed",
		zap.Int("vouchers", len(out.Vouchers)),
		zap.Int("unused_barcodes", len(out.UnusedBarcodes)),
		zap.Int("writers", len(e.writers)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
