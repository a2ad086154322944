package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"posmart/internal/caching"
	"posmart/internal/models"
	"posmart/internal/repositories"
	"posmart/internal/timezone"
)

// OrderServiceInterface defines the order flow: ringing up a cart at the
// register, marking the ledger refunded, and the register's today view.
type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, companyID, actorID uuid.UUID, lines []models.CartLine, paymentType string) (*models.Order, error)
	RefundOrder(ctx context.Context, companyID, actorID, orderID uuid.UUID) error
	ListTodayOrders(ctx context.Context, companyID uuid.UUID) ([]*models.OrderWithItems, error)
}

type orderService struct {
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	itemRepo      repositories.ItemRepository
	cacheSvc      caching.CacheService
	clock         *timezone.Clock
}

// NewOrderService creates a new order service instance
func NewOrderService(orderRepo repositories.OrderRepository, orderItemRepo repositories.OrderItemRepository, itemRepo repositories.ItemRepository, cacheSvc caching.CacheService, clock *timezone.Clock) OrderServiceInterface {
	return &orderService{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		itemRepo:      itemRepo,
		cacheSvc:      cacheSvc,
		clock:         clock,
	}
}

// CreateOrder validates the cart, re-prices it from the current catalog, and
// persists the order header plus line items. Each line freezes the item's
// name and price so later catalog edits never rewrite history. The header and
// line inserts are two statements; if the second fails the header is deleted
// again so readers can never observe a partial order.
func (s *orderService) CreateOrder(ctx context.Context, companyID, actorID uuid.UUID, lines []models.CartLine, paymentType string) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if paymentType != models.PaymentCash && paymentType != models.PaymentTouchNGo {
		return nil, ErrInvalidPaymentType
	}

	seen := make(map[uuid.UUID]bool, len(lines))
	itemIDs := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %s", ErrInvalidQuantity, line.ItemID)
		}
		if !seen[line.ItemID] {
			seen[line.ItemID] = true
			itemIDs = append(itemIDs, line.ItemID)
		}
	}

	items, err := s.itemRepo.GetByIDs(ctx, companyID, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}
	itemsByID := make(map[uuid.UUID]*models.Item, len(items))
	for _, item := range items {
		itemsByID[item.ID] = item
	}

	// Resolve every line before any write so a bad cart aborts cleanly.
	totalAmount := decimal.Zero
	orderID := uuid.New()
	orderItems := make([]*models.OrderItem, 0, len(lines))
	for _, line := range lines {
		item, ok := itemsByID[line.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, line.ItemID)
		}

		itemID := item.ID
		orderItems = append(orderItems, &models.OrderItem{
			ID:                uuid.New(),
			OrderID:           orderID,
			ItemID:            &itemID,
			ItemNameSnapshot:  item.Name,
			ItemPriceSnapshot: item.Price,
			Quantity:          line.Quantity,
		})
		totalAmount = totalAmount.Add(item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	order := &models.Order{
		ID:          orderID,
		CompanyID:   companyID,
		TotalAmount: totalAmount,
		PaymentType: paymentType,
		Status:      models.OrderStatusPaid,
		CreatedAt:   time.Now().UTC(),
		CreatedBy:   actorID,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderPersistenceFailed, err)
	}

	if err := s.orderItemRepo.CreateBatch(ctx, orderItems); err != nil {
		// Compensating rollback: no transaction spans the two inserts, so
		// delete the orphaned header before surfacing the failure.
		if delErr := s.orderRepo.Delete(ctx, companyID, orderID); delErr != nil {
			log.Printf("ERROR: failed to roll back order %s after line-item insert failure: %v", orderID, delErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrOrderPersistenceFailed, err)
	}

	s.invalidateCache(ctx, companyID)
	return order, nil
}

// RefundOrder transitions a paid order to refunded exactly once. The
// conditional update in the repository carries the status predicate, so a
// racing second attempt sees zero affected rows and is classified by a
// follow-up read: missing order vs already refunded.
func (s *orderService) RefundOrder(ctx context.Context, companyID, actorID, orderID uuid.UUID) error {
	affected, err := s.orderRepo.MarkRefunded(ctx, companyID, orderID, actorID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("refund order: %w", err)
	}
	if affected == 0 {
		order, err := s.orderRepo.GetByID(ctx, companyID, orderID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("refund order: %w", err)
		}
		if order.Status == models.OrderStatusRefunded {
			return ErrAlreadyRefunded
		}
		return ErrOrderNotFound
	}

	s.invalidateCache(ctx, companyID)
	return nil
}

// ListTodayOrders returns all of today's orders (refunded included — the
// register log shows both) with line items, newest first. "Today" is the
// business-local calendar day converted to a UTC range.
func (s *orderService) ListTodayOrders(ctx context.Context, companyID uuid.UUID) ([]*models.OrderWithItems, error) {
	now := time.Now().UTC()
	start := s.clock.StartOfDay(now)
	end := s.clock.EndOfDay(now)

	orders, err := s.orderRepo.ListByDateRange(ctx, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(orders) == 0 {
		return []*models.OrderWithItems{}, nil
	}

	orderIDs := make([]uuid.UUID, len(orders))
	for i, order := range orders {
		orderIDs[i] = order.ID
	}
	itemsByOrder, err := s.orderItemRepo.ListByOrderIDs(ctx, companyID, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}

	result := make([]*models.OrderWithItems, len(orders))
	for i, order := range orders {
		result[i] = &models.OrderWithItems{
			Order: *order,
			Items: itemsByOrder[order.ID],
		}
	}
	return result, nil
}

func (s *orderService) invalidateCache(ctx context.Context, companyID uuid.UUID) {
	if err := s.cacheSvc.InvalidateCompanyCache(ctx, companyID); err != nil {
		log.Printf("WARN: failed to invalidate cache for company %s: %v", companyID, err)
	}
}
