package joinstore

import (
	"fmt"
	"sync"

	"voucher-extractor/core/utils"
)

// OrderPhase is the first step of a load: it accepts order rows only.
// IngestOrders hands back the BarcodePhase, so barcodes cannot be ingested
// before the order index is complete.
type OrderPhase struct {
	store *Store
	once  sync.Once
}

// BarcodePhase is the second step of a load. It is only obtainable from a
// completed OrderPhase.
type BarcodePhase struct {
	store *Store
	once  sync.Once
}

// NewPipeline starts a two-phase load into s.
func NewPipeline(s *Store) *OrderPhase {
	return &OrderPhase{store: s}
}

// IngestOrders records every [orderId, customerId] row.
// Row numbers in errors are 1-based and exclude the header.
func (p *OrderPhase) IngestOrders(rows [][]string) (*BarcodePhase, error) {
	if !p.claim() {
		return nil, ErrPhaseConsumed
	}

	for i, row := range rows {
		if len(row) != 2 {
			return nil, fmt.Errorf("orders row %d: %w: want 2 fields, got %d", i+1, ErrMalformedRow, len(row))
		}
		orderID, err := utils.ParseID(row[0])
		if err != nil {
			return nil, fmt.Errorf("orders row %d: %w: order id: %v", i+1, ErrInvalidID, err)
		}
		customerID, err := utils.ParseID(row[1])
		if err != nil {
			return nil, fmt.Errorf("orders row %d: %w: customer id: %v", i+1, ErrInvalidID, err)
		}
		if err := p.store.RecordOrder(orderID, customerID); err != nil {
			return nil, fmt.Errorf("orders row %d: %w", i+1, err)
		}
	}

	return &BarcodePhase{store: p.store}, nil
}

func (p *OrderPhase) claim() bool {
	claimed := false
	p.once.Do(func() {
		claimed = true
	})
	return claimed
}

// IngestBarcodes records every [barcode, orderId] row and freezes the store.
func (p *BarcodePhase) IngestBarcodes(rows [][]string) (Stats, error) {
	if !p.claim() {
		return Stats{}, ErrPhaseConsumed
	}

	for i, row := range rows {
		if len(row) != 2 {
			return Stats{}, fmt.Errorf("barcodes row %d: %w: want 2 fields, got %d", i+1, ErrMalformedRow, len(row))
		}
		if _, err := p.store.RecordBarcode(row[0], row[1]); err != nil {
			return Stats{}, fmt.Errorf("barcodes row %d: %w", i+1, err)
		}
	}

	p.store.Freeze()
	return p.store.Stats(), nil
}

func (p *BarcodePhase) claim() bool {
	claimed := false
	p.once.Do(func() {
		claimed = true
	})
	return claimed
}
