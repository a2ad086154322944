package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment types accepted at the register.
const (
	PaymentCash     = "cash"
	PaymentTouchNGo = "touch_n_go"
)

// Order lifecycle states. An order is created paid and may transition to
// refunded exactly once; there are no other transitions.
const (
	OrderStatusPaid     = "paid"
	OrderStatusRefunded = "refunded"
)

// Order is an immutable sales ledger entry. TotalAmount is computed from the
// line-item price snapshots at creation time and never recomputed.
type Order struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	CompanyID   uuid.UUID       `json:"company_id" db:"company_id"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaymentType string          `json:"payment_type" db:"payment_type"`
	Status      string          `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	CreatedBy   uuid.UUID       `json:"created_by" db:"created_by"`
	RefundedAt  *time.Time      `json:"refunded_at" db:"refunded_at"`
	RefundedBy  *uuid.UUID      `json:"refunded_by" db:"refunded_by"`
}

// OrderWithItems pairs an order with its line items for reporting and the
// register's transaction log.
type OrderWithItems struct {
	Order
	Items []*OrderItem `json:"order_items"`
}

// CartLine is one register input line: an item reference and a quantity.
// Pricing always comes from the catalog at order time, never from the caller.
type CartLine struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
}
