package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a sellable catalog entry owned by a company. Items are never
// hard-deleted; a soft-deleted or inactive item is ineligible for new orders
// but its price/name snapshots on past orders stay valid.
type Item struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	CompanyID uuid.UUID       `json:"company_id" db:"company_id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	IsActive  bool            `json:"is_active" db:"is_active"`
	CreatedBy uuid.UUID       `json:"created_by" db:"created_by"`
	UpdatedBy uuid.UUID       `json:"updated_by" db:"updated_by"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time      `json:"deleted_at" db:"deleted_at"`
}
