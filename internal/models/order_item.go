package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is an immutable order line. ItemNameSnapshot and
// ItemPriceSnapshot freeze the catalog state at sale time so reports always
// reflect prices as charged, regardless of later catalog edits. ItemID is
// nullable because the referenced item may be deleted after the sale.
type OrderItem struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	OrderID           uuid.UUID       `json:"order_id" db:"order_id"`
	ItemID            *uuid.UUID      `json:"item_id" db:"item_id"`
	ItemNameSnapshot  string          `json:"item_name_snapshot" db:"item_name_snapshot"`
	ItemPriceSnapshot decimal.Decimal `json:"item_price_snapshot" db:"item_price_snapshot"`
	Quantity          int             `json:"quantity" db:"quantity"`
}

// LineTotal is the snapshot price multiplied by quantity.
func (oi *OrderItem) LineTotal() decimal.Decimal {
	return oi.ItemPriceSnapshot.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}
