package vouchers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"voucher-extractor/core/joinstore"
	"voucher-extractor/feature/vouchers/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const loadKey = "load"

// Repository loads orders and barcodes once and answers report queries.
type Repository struct {
	reader         RecordSource
	ordersSource   string
	barcodesSource string
	logger         *zap.Logger
	policy         joinstore.ConflictPolicy

	mu    sync.RWMutex
	store *joinstore.Store
	sf    singleflight.Group
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithDuplicateOrders sets the duplicate order policy of the underlying store.
func WithDuplicateOrders(p joinstore.ConflictPolicy) RepositoryOption {
	return func(r *Repository) {
		r.policy = p
	}
}

// NewRepository creates a repository reading both sources through reader.
func NewRepository(reader RecordSource, ordersSource, barcodesSource string, logger *zap.Logger, opts ...RepositoryOption) *Repository {
	r := &Repository{
		reader:         reader,
		ordersSource:   ordersSource,
		barcodesSource: barcodesSource,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load reads both sources and joins them. Only the first successful call does
// any work; concurrent callers wait for it and share its result. A caller whose
// ctx ends stops waiting without cancelling the shared load. A failed load
// leaves nothing behind, so the next call starts over.
func (r *Repository) Load(ctx context.Context) error {
	_, err := r.loaded(ctx)
	return err
}

func (r *Repository) loaded(ctx context.Context) (*joinstore.Store, error) {
	// Fast path: already loaded
	r.mu.RLock()
	store := r.store
	r.mu.RUnlock()
	if store != nil {
		return store, nil
	}

	// The shared load must not die with whichever caller started it.
	loadCtx := context.WithoutCancel(ctx)
	ch := r.sf.DoChan(loadKey, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		r.mu.RLock()
		store := r.store
		r.mu.RUnlock()
		if store != nil {
			return store, nil
		}

		store, err := r.load(loadCtx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.store = store
		r.mu.Unlock()
		return store, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*joinstore.Store), nil
	}
}

func (r *Repository) load(ctx context.Context) (*joinstore.Store, error) {
	start := time.Now()

	var orders, barcodes [][]string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.reader.ReadRows(gctx, r.ordersSource)
		if err != nil {
			return fmt.Errorf("failed to read orders: %w", err)
		}
		orders = rows
		return nil
	})
	g.Go(func() error {
		rows, err := r.reader.ReadRows(gctx, r.barcodesSource)
		if err != nil {
			return fmt.Errorf("failed to read barcodes: %w", err)
		}
		barcodes = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	store := joinstore.New(joinstore.WithConflictPolicy(r.policy))
	next, err := joinstore.NewPipeline(store).IngestOrders(orders)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.ordersSource, err)
	}
	stats, err := next.IngestBarcodes(barcodes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.barcodesSource, err)
	}

	r.logger.Info("Vouchers loaded",
		zap.Int("orders", stats.Orders),
		zap.Int("vouchers", stats.Vouchers),
		zap.Int("used_barcodes", stats.Used),
		zap.Int("unused_barcodes", stats.Unused),
		zap.Int("dropped_barcodes", stats.Dropped),
		zap.Int("duplicate_barcodes", stats.Duplicates),
		zap.Int("order_conflicts", stats.OrderConflicts),
		zap.Duration("elapsed", time.Since(start)),
	)
	if stats.OrderConflicts > 0 {
		r.logger.Warn("Duplicate order ids in source",
			zap.Int("count", stats.OrderConflicts),
			zap.String("policy", r.policy.String()))
	}
	return store, nil
}

// Vouchers returns every voucher keyed by customer and order, in match order.
func (r *Repository) Vouchers(ctx context.Context) ([]models.Voucher, error) {
	store, err := r.loaded(ctx)
	if err != nil {
		return nil, err
	}

	entries := store.Entries()
	out := make([]models.Voucher, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.Voucher{
			CustomerID: e.Key.CustomerID,
			OrderID:    e.Key.OrderID,
			Barcodes:   e.Barcodes,
		})
	}
	return out, nil
}

// UnusedBarcodes returns the barcodes submitted without an order, sorted.
func (r *Repository) UnusedBarcodes(ctx context.Context) ([]string, error) {
	store, err := r.loaded(ctx)
	if err != nil {
		return nil, err
	}

	set := store.UnusedBarcodes()
	out := make([]string, 0, len(set))
	for barcode := range set {
		out = append(out, barcode)
	}
	sort.Strings(out)
	return out, nil
}

// TopCustomers returns the n customers with the most orders. Equal counts are
// ordered by ascending customer id.
func (r *Repository) TopCustomers(ctx context.Context, n int) ([]models.CustomerCount, error) {
	store, err := r.loaded(ctx)
	if err != nil {
		return nil, err
	}
	return rankCustomers(store.CustomerCounts(), n), nil
}

// Stats returns the load summary.
func (r *Repository) Stats(ctx context.Context) (joinstore.Stats, error) {
	store, err := r.loaded(ctx)
	if err != nil {
		return joinstore.Stats{}, err
	}
	return store.Stats(), nil
}

func rankCustomers(counts map[int]int, n int) []models.CustomerCount {
	if n <= 0 {
		return []models.CustomerCount{}
	}

	ranking := make([]models.CustomerCount, 0, len(counts))
	for customerID, orders := range counts {
		ranking = append(ranking, models.CustomerCount{CustomerID: customerID, Orders: orders})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Orders != ranking[j].Orders {
			return ranking[i].Orders > ranking[j].Orders
		}
		return ranking[i].CustomerID < ranking[j].CustomerID
	})

	if len(ranking) > n {
		ranking = ranking[:n]
	}
	return ranking
}
