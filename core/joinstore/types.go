package joinstore

import "fmt"

// OrderKey identifies a voucher: the order and the customer owning it.
type OrderKey struct {
	OrderID    int
	CustomerID int
}

// Entry is one voucher with its barcodes in match order.
type Entry struct {
	Key      OrderKey
	Barcodes []string
}

// Outcome reports how RecordBarcode classified a barcode.
type Outcome int

const (
	// OutcomeRejected is returned with an error; the barcode was not classified.
	OutcomeRejected Outcome = iota
	// OutcomeMatched means the barcode was appended to a voucher.
	OutcomeMatched
	// OutcomeUnused means the barcode had no claiming order.
	OutcomeUnused
	// OutcomeDuplicate means the barcode was already classified; nothing changed.
	OutcomeDuplicate
	// OutcomeDropped means the claimed order is unknown; the barcode is not recorded.
	OutcomeDropped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRejected:
		return "rejected"
	case OutcomeMatched:
		return "matched"
	case OutcomeUnused:
		return "unused"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeDropped:
		return "dropped"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ConflictPolicy decides what RecordOrder does with an order id it has already seen.
type ConflictPolicy int

const (
	// LastWriteWins replaces the previous customer mapping.
	LastWriteWins ConflictPolicy = iota
	// FirstWriteWins keeps the first customer mapping and ignores later ones.
	FirstWriteWins
	// RejectDuplicates fails the second record with ErrDuplicateOrder.
	RejectDuplicates
)

// ParseConflictPolicy maps a configuration value (last, first, reject) to a policy.
func ParseConflictPolicy(name string) (ConflictPolicy, error) {
	switch name {
	case "", "last":
		return LastWriteWins, nil
	case "first":
		return FirstWriteWins, nil
	case "reject":
		return RejectDuplicates, nil
	default:
		return LastWriteWins, fmt.Errorf("unknown duplicate order policy %q (want last, first or reject)", name)
	}
}

func (p ConflictPolicy) String() string {
	switch p {
	case LastWriteWins:
		return "last"
	case FirstWriteWins:
		return "first"
	case RejectDuplicates:
		return "reject"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Stats summarizes the store contents and what ingestion did.
type Stats struct {
	// Orders is the number of distinct order ids.
	Orders int `json:"orders"`
	// Vouchers is the number of (order, customer) keys with at least one barcode.
	Vouchers int `json:"vouchers"`
	// Used is the number of matched barcodes.
	Used int `json:"used"`
	// Unused is the number of barcodes submitted without an order.
	Unused int `json:"unused"`
	// Dropped counts barcodes whose order id was never ingested.
	Dropped int `json:"dropped"`
	// Duplicates counts barcode resubmissions that were ignored.
	Duplicates int `json:"duplicates"`
	// OrderConflicts counts order records that hit an existing order id.
	OrderConflicts int `json:"order_conflicts"`
}
