package services

import "errors"

// Sentinel errors surfaced by the order flow. Handlers map these onto HTTP
// statuses; none of them is fatal to the process.
var (
	ErrEmptyCart              = errors.New("at least one item is required")
	ErrInvalidQuantity        = errors.New("quantity must be a positive integer")
	ErrInvalidPaymentType     = errors.New("payment type must be 'cash' or 'touch_n_go'")
	ErrItemNotFound           = errors.New("item not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrAlreadyRefunded        = errors.New("order is already refunded")
	ErrOrderPersistenceFailed = errors.New("failed to persist order")
)
