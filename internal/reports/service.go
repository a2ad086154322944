package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"posmart/internal/models"
	"posmart/internal/repositories"
	"posmart/internal/services"
	"posmart/internal/timezone"
)

// downloadURLExpiry is how long an exported report link stays valid.
const downloadURLExpiry = 15 * time.Minute

// Report is a date-range sales report: the paid orders with their line items,
// newest first, plus window totals. Refunded orders are excluded entirely.
type Report struct {
	Orders        []*models.OrderWithItems `json:"orders"`
	TotalRevenue  decimal.Decimal          `json:"total_revenue"`
	TotalOrders   int                      `json:"total_orders"`
	CashCount     int                      `json:"cash_count"`
	TouchNGoCount int                      `json:"touch_n_go_count"`
}

// Service builds date-range reports and exports them as CSV files.
type Service struct {
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	storage       services.StorageService
	clock         *timezone.Clock
}

func NewService(orderRepo repositories.OrderRepository, orderItemRepo repositories.OrderItemRepository, storage services.StorageService, clock *timezone.Clock) *Service {
	return &Service{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		storage:       storage,
		clock:         clock,
	}
}

// ReportData parses the wall-clock range per the business timezone rules and
// assembles the report for it.
func (s *Service) ReportData(ctx context.Context, companyID uuid.UUID, startDate, endDate string) (*Report, error) {
	utcStart, utcEnd, err := s.clock.ParseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListByDateRange(ctx, companyID, utcStart, utcEnd)
	if err != nil {
		return nil, fmt.Errorf("fetch report orders: %w", err)
	}

	report := &Report{
		Orders:       []*models.OrderWithItems{},
		TotalRevenue: decimal.Zero,
	}

	var paidIDs []uuid.UUID
	for _, order := range orders {
		if order.Status != models.OrderStatusPaid {
			continue
		}
		paidIDs = append(paidIDs, order.ID)
		report.TotalRevenue = report.TotalRevenue.Add(order.TotalAmount)
		report.TotalOrders++
		switch order.PaymentType {
		case models.PaymentCash:
			report.CashCount++
		case models.PaymentTouchNGo:
			report.TouchNGoCount++
		}
	}
	if len(paidIDs) == 0 {
		return report, nil
	}

	itemsByOrder, err := s.orderItemRepo.ListByOrderIDs(ctx, companyID, paidIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch report order items: %w", err)
	}
	for _, order := range orders {
		if order.Status != models.OrderStatusPaid {
			continue
		}
		report.Orders = append(report.Orders, &models.OrderWithItems{
			Order: *order,
			Items: itemsByOrder[order.ID],
		})
	}

	return report, nil
}

// Export encodes the range's report as CSV, stores it, and returns a
// presigned download URL. The object name is company-scoped so exports never
// collide across tenants.
func (s *Service) Export(ctx context.Context, companyID uuid.UUID, startDate, endDate string) (string, error) {
	report, err := s.ReportData(ctx, companyID, startDate, endDate)
	if err != nil {
		return "", err
	}

	content := EncodeCSV(s.clock, report.Orders)
	objectName := fmt.Sprintf("%s/sales-report-%s.csv", companyID, uuid.New())
	if err := s.storage.UploadReport(ctx, objectName, []byte(content)); err != nil {
		return "", fmt.Errorf("store report: %w", err)
	}

	url, err := s.storage.ReportDownloadURL(ctx, objectName, downloadURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign report: %w", err)
	}
	return url, nil
}
