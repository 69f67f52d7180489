package joinstore

import "errors"

var (
	// ErrInvalidID indicates an order or customer identifier that is not an integer.
	ErrInvalidID = errors.New("invalid identifier")

	// ErrMalformedRow indicates a source row with the wrong number of fields.
	ErrMalformedRow = errors.New("malformed row")

	// ErrDuplicateOrder is returned by RecordOrder under RejectDuplicates
	// when the order id is already mapped to a customer.
	ErrDuplicateOrder = errors.New("duplicate order")

	// ErrFrozen is returned by mutations once the store has been frozen.
	ErrFrozen = errors.New("store is frozen")

	// ErrPhaseConsumed is returned when a pipeline phase is run twice.
	ErrPhaseConsumed = errors.New("pipeline phase already consumed")
)
