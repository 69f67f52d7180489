// Package joinstore implements the in-memory join engine that matches barcode
// assignments to order ownership records.
//
// # Structures
//
// A Store owns four structures for its whole lifetime:
//   - the order index (order id -> customer id)
//   - the voucher index ((order id, customer id) -> barcodes in match order)
//   - the used-barcode set (barcodes matched to an order)
//   - the unused-barcode set (barcodes submitted without an order)
//
// # Matching rule
//
// A barcode is classified once, when it is recorded, against the order index
// as it is at that instant. Orders ingested later never re-classify it. A
// barcode that names an order id missing from the index is dropped: it is
// counted in Stats but lands in neither the voucher index nor the unused set.
//
// # Loading
//
// NewPipeline returns an OrderPhase whose IngestOrders yields the BarcodePhase.
// The type flow guarantees that barcodes are matched against the complete
// order index. IngestBarcodes freezes the store; frozen stores reject every
// mutation with ErrFrozen.
//
// # Concurrency
//
// All methods, reads included, serialize on one mutex per store. Snapshots are
// deep copies and can be modified by callers.
//
// # Usage
//
//	store := joinstore.New()
//	barcodes, err := joinstore.NewPipeline(store).IngestOrders(orderRows)
//	if err != nil {
//	    return err
//	}
//	stats, err := barcodes.IngestBarcodes(barcodeRows)
package joinstore
