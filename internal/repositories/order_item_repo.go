package repositories

import (
	"context"
	"fmt"
	"strings"

	"posmart/internal/models"

	"github.com/google/uuid"
)

type OrderItemRepository interface {
	CreateBatch(ctx context.Context, items []*models.OrderItem) error
	ListByOrderIDs(ctx context.Context, companyID uuid.UUID, orderIDs []uuid.UUID) (map[uuid.UUID][]*models.OrderItem, error)
}

type orderItemRepo struct {
	db Database
}

func NewOrderItemRepo(db Database) OrderItemRepository {
	return &orderItemRepo{db: db}
}

// CreateBatch inserts all line items of an order in one statement so the
// order's lines land atomically or not at all. Line items are immutable; no
// update path exists.
func (r *orderItemRepo) CreateBatch(ctx context.Context, items []*models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(items))
	args := make([]any, 0, len(items)*6)
	for i, item := range items {
		base := i * 6
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		args = append(args, item.ID, item.OrderID, item.ItemID, item.ItemNameSnapshot, item.ItemPriceSnapshot, item.Quantity)
	}

	query := fmt.Sprintf(`
		INSERT INTO order_items (id, order_id, item_id, item_name_snapshot, item_price_snapshot, quantity)
		VALUES %s
	`, strings.Join(placeholders, ", "))

	_, err := r.db.Exec(ctx, query, args...)
	return err
}

// ListByOrderIDs fetches line items for a set of orders, keyed by order id.
// Tenant scoping rides on the join: order_items carries no company_id of its
// own, so ownership is always derived from the parent order.
func (r *orderItemRepo) ListByOrderIDs(ctx context.Context, companyID uuid.UUID, orderIDs []uuid.UUID) (map[uuid.UUID][]*models.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.item_id, oi.item_name_snapshot, oi.item_price_snapshot, oi.quantity
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.company_id = $1 AND oi.order_id = ANY($2)
		ORDER BY oi.id ASC
	`
	rows, err := r.db.Query(ctx, query, companyID, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byOrder := make(map[uuid.UUID][]*models.OrderItem, len(orderIDs))
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ItemID, &item.ItemNameSnapshot, &item.ItemPriceSnapshot, &item.Quantity); err != nil {
			return nil, err
		}
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	return byOrder, rows.Err()
}
