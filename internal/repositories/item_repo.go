package repositories

import (
	"context"

	"posmart/internal/models"

	"github.com/google/uuid"
)

// ItemRepository is the read-only catalog surface the order and register
// flows need. Item CRUD lives with the catalog admin tooling, not here.
type ItemRepository interface {
	GetByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]*models.Item, error)
	ListActive(ctx context.Context, companyID uuid.UUID) ([]*models.Item, error)
}

type itemRepo struct {
	db Database
}

func NewItemRepo(db Database) ItemRepository {
	return &itemRepo{db: db}
}

// GetByIDs fetches catalog items by id scoped to the company. Soft-deleted
// rows are excluded; is_active is deliberately not checked so a
// just-deactivated item can still be rung up mid-transaction.
func (r *itemRepo) GetByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]*models.Item, error) {
	query := `
		SELECT id, company_id, name, price, is_active, created_by, updated_by, created_at, updated_at, deleted_at
		FROM items
		WHERE company_id = $1 AND id = ANY($2) AND deleted_at IS NULL
	`
	rows, err := r.db.Query(ctx, query, companyID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item := &models.Item{}
		if err := rows.Scan(&item.ID, &item.CompanyID, &item.Name, &item.Price, &item.IsActive, &item.CreatedBy, &item.UpdatedBy, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListActive returns the sellable catalog for the register screen.
func (r *itemRepo) ListActive(ctx context.Context, companyID uuid.UUID) ([]*models.Item, error) {
	query := `
		SELECT id, company_id, name, price, is_active, created_by, updated_by, created_at, updated_at, deleted_at
		FROM items
		WHERE company_id = $1 AND is_active = TRUE AND deleted_at IS NULL
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item := &models.Item{}
		if err := rows.Scan(&item.ID, &item.CompanyID, &item.Name, &item.Price, &item.IsActive, &item.CreatedBy, &item.UpdatedBy, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
