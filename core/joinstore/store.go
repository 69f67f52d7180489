package joinstore

import (
	"fmt"
	"sync"

	"voucher-extractor/core/utils"
)

// Store joins order records and barcode records into vouchers.
// Every method runs under a single mutex, so a barcode is always classified
// against a settled order index.
type Store struct {
	mu     sync.Mutex
	policy ConflictPolicy
	frozen bool

	orders       map[int]int // order id -> customer id
	vouchers     map[OrderKey][]string
	voucherOrder []OrderKey
	used         map[string]struct{}
	unused       map[string]struct{}

	dropped    int
	duplicates int
	conflicts  int
}

// Option configures a Store.
type Option func(*Store)

// WithConflictPolicy sets how duplicate order ids are handled.
func WithConflictPolicy(p ConflictPolicy) Option {
	return func(s *Store) {
		s.policy = p
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		orders:   make(map[int]int),
		vouchers: make(map[OrderKey][]string),
		used:     make(map[string]struct{}),
		unused:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordOrder maps an order to the customer that placed it.
func (s *Store) RecordOrder(orderID, customerID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen {
		return ErrFrozen
	}

	if _, exists := s.orders[orderID]; exists {
		s.conflicts++
		switch s.policy {
		case FirstWriteWins:
			return nil
		case RejectDuplicates:
			return fmt.Errorf("%w: order %d", ErrDuplicateOrder, orderID)
		}
	}

	s.orders[orderID] = customerID
	return nil
}

// RecordBarcode classifies a barcode against the current order index.
//
// An empty orderToken marks the barcode unused. A token naming an order that
// is not in the index drops the barcode without recording it anywhere. A
// barcode that was already classified is ignored. Errors come with
// OutcomeRejected.
func (s *Store) RecordBarcode(barcode, orderToken string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen {
		return OutcomeRejected, ErrFrozen
	}

	if _, ok := s.used[barcode]; ok {
		s.duplicates++
		return OutcomeDuplicate, nil
	}
	if _, ok := s.unused[barcode]; ok {
		s.duplicates++
		return OutcomeDuplicate, nil
	}

	if orderToken == "" {
		s.unused[barcode] = struct{}{}
		return OutcomeUnused, nil
	}

	orderID, err := utils.ParseID(orderToken)
	if err != nil {
		return OutcomeRejected, fmt.Errorf("%w: barcode %s: %v", ErrInvalidID, barcode, err)
	}

	customerID, ok := s.orders[orderID]
	if !ok {
		s.dropped++
		return OutcomeDropped, nil
	}

	key := OrderKey{OrderID: orderID, CustomerID: customerID}
	if _, exists := s.vouchers[key]; !exists {
		s.voucherOrder = append(s.voucherOrder, key)
	}
	s.vouchers[key] = append(s.vouchers[key], barcode)
	s.used[barcode] = struct{}{}
	return OutcomeMatched, nil
}

// Freeze rejects all further mutations.
func (s *Store) Freeze() {
	s.mu.Lock()
	s.frozen = true
	s.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (s *Store) Frozen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frozen
}

// Vouchers returns a copy of the voucher index.
func (s *Store) Vouchers() map[OrderKey][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[OrderKey][]string, len(s.vouchers))
	for key, barcodes := range s.vouchers {
		out[key] = append([]string(nil), barcodes...)
	}
	return out
}

// Entries returns a copy of the voucher index in the order keys were first matched.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.voucherOrder))
	for _, key := range s.voucherOrder {
		out = append(out, Entry{
			Key:      key,
			Barcodes: append([]string(nil), s.vouchers[key]...),
		})
	}
	return out
}

// UnusedBarcodes returns a copy of the unused-barcode set.
func (s *Store) UnusedBarcodes() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]struct{}, len(s.unused))
	for barcode := range s.unused {
		out[barcode] = struct{}{}
	}
	return out
}

// UsedCount returns the number of matched barcodes.
func (s *Store) UsedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.used)
}

// Orders returns a copy of the order -> customer index.
func (s *Store) Orders() map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int]int, len(s.orders))
	for orderID, customerID := range s.orders {
		out[orderID] = customerID
	}
	return out
}

// CustomerCounts returns the number of orders per customer.
func (s *Store) CustomerCounts() map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[int]int)
	for _, customerID := range s.orders {
		counts[customerID]++
	}
	return counts
}

// Stats returns a summary of the store.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Orders:         len(s.orders),
		Vouchers:       len(s.vouchers),
		Used:           len(s.used),
		Unused:         len(s.unused),
		Dropped:        s.dropped,
		Duplicates:     s.duplicates,
		OrderConflicts: s.conflicts,
	}
}
