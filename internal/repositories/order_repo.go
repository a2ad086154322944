package repositories

import (
	"context"
	"time"

	"posmart/internal/models"

	"github.com/google/uuid"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Order, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	MarkRefunded(ctx context.Context, companyID, id, actorID uuid.UUID, at time.Time) (int64, error)
	ListByDateRange(ctx context.Context, companyID uuid.UUID, start, end time.Time) ([]*models.Order, error)
}

type orderRepo struct {
	db Database
}

func NewOrderRepo(db Database) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, company_id, total_amount, payment_type, status, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, order.ID, order.CompanyID, order.TotalAmount, order.PaymentType, order.Status, order.CreatedAt, order.CreatedBy)
	return err
}

func (r *orderRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Order, error) {
	order := &models.Order{}
	query := `
		SELECT id, company_id, total_amount, payment_type, status, created_at, created_by, refunded_at, refunded_by
		FROM orders
		WHERE company_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, companyID, id).Scan(&order.ID, &order.CompanyID, &order.TotalAmount, &order.PaymentType, &order.Status, &order.CreatedAt, &order.CreatedBy, &order.RefundedAt, &order.RefundedBy)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes an order header. Only the compensating rollback in order
// creation uses it; refunded orders stay in the ledger forever.
func (r *orderRepo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	query := `DELETE FROM orders WHERE company_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, companyID, id)
	return err
}

// MarkRefunded flips a paid order to refunded in a single conditional update
// and reports the affected row count. The status predicate makes concurrent
// refund attempts race-free: exactly one update wins, the rest see 0 rows.
func (r *orderRepo) MarkRefunded(ctx context.Context, companyID, id, actorID uuid.UUID, at time.Time) (int64, error) {
	query := `
		UPDATE orders
		SET status = $1, refunded_at = $2, refunded_by = $3
		WHERE company_id = $4 AND id = $5 AND status = $6
	`
	tag, err := r.db.Exec(ctx, query, models.OrderStatusRefunded, at, actorID, companyID, id, models.OrderStatusPaid)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListByDateRange returns company orders with created_at in [start, end],
// both ends inclusive, newest first.
func (r *orderRepo) ListByDateRange(ctx context.Context, companyID uuid.UUID, start, end time.Time) ([]*models.Order, error) {
	query := `
		SELECT id, company_id, total_amount, payment_type, status, created_at, created_by, refunded_at, refunded_by
		FROM orders
		WHERE company_id = $1 AND created_at BETWEEN $2 AND $3
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, companyID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.CompanyID, &order.TotalAmount, &order.PaymentType, &order.Status, &order.CreatedAt, &order.CreatedBy, &order.RefundedAt, &order.RefundedBy); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
