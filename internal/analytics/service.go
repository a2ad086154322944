package analytics

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"posmart/internal/caching"
	"posmart/internal/models"
	"posmart/internal/repositories"
	"posmart/internal/timezone"
)

// Bucketing selects how a date range is reduced into revenue buckets.
type Bucketing string

const (
	BucketNone  Bucketing = "none"
	BucketDay   Bucketing = "day"
	BucketWeek  Bucketing = "week"
	BucketMonth Bucketing = "month"
)

// metricsCacheTTL bounds dashboard staleness between the write-path
// invalidations and the background refresh.
const metricsCacheTTL = 5 * time.Minute

// Bucket is one revenue data point keyed by a business-local day, ISO week,
// or month.
type Bucket struct {
	Key     string          `json:"key"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Totals summarizes the paid orders of a window. Refunded orders are
// excluded outright, not subtracted.
type Totals struct {
	Revenue       decimal.Decimal `json:"revenue"`
	OrderCount    int             `json:"order_count"`
	CashCount     int             `json:"cash_count"`
	TouchNGoCount int             `json:"touch_n_go_count"`
}

// Aggregation is the full reduction of a window: sparse ascending buckets
// plus window totals.
type Aggregation struct {
	Buckets []Bucket `json:"buckets"`
	Totals  Totals   `json:"totals"`
}

// DashboardMetrics is the register dashboard's "today" summary.
type DashboardMetrics struct {
	TodayRevenue  decimal.Decimal `json:"today_revenue"`
	OrdersToday   int             `json:"orders_today"`
	CashCount     int             `json:"cash_count"`
	TouchNGoCount int             `json:"touch_n_go_count"`
	LastUpdated   time.Time       `json:"last_updated"`
}

// Service reduces persisted orders into revenue time series and summary
// counters. It is read-only; the durable store is the single source of truth.
type Service struct {
	orderRepo repositories.OrderRepository
	cacheSvc  caching.CacheService
	clock     *timezone.Clock
}

func NewService(orderRepo repositories.OrderRepository, cacheSvc caching.CacheService, clock *timezone.Clock) *Service {
	return &Service{
		orderRepo: orderRepo,
		cacheSvc:  cacheSvc,
		clock:     clock,
	}
}

// Aggregate reads company orders with created_at in [utcStart, utcEnd]
// (inclusive both ends) and reduces the paid ones into buckets and totals.
// Buckets with no matching orders are omitted; callers needing a dense series
// fill gaps themselves. Output is deterministic: buckets sort ascending by key.
func (s *Service) Aggregate(ctx context.Context, companyID uuid.UUID, utcStart, utcEnd time.Time, bucketing Bucketing) (*Aggregation, error) {
	orders, err := s.orderRepo.ListByDateRange(ctx, companyID, utcStart, utcEnd)
	if err != nil {
		return nil, fmt.Errorf("aggregate orders: %w", err)
	}

	agg := &Aggregation{
		Buckets: []Bucket{},
		Totals:  Totals{Revenue: decimal.Zero},
	}
	revenueByKey := make(map[string]decimal.Decimal)

	for _, order := range orders {
		if order.Status != models.OrderStatusPaid {
			continue
		}

		agg.Totals.Revenue = agg.Totals.Revenue.Add(order.TotalAmount)
		agg.Totals.OrderCount++
		switch order.PaymentType {
		case models.PaymentCash:
			agg.Totals.CashCount++
		case models.PaymentTouchNGo:
			agg.Totals.TouchNGoCount++
		}

		if bucketing == BucketNone {
			continue
		}
		key := s.bucketKey(order.CreatedAt, bucketing)
		if existing, ok := revenueByKey[key]; ok {
			revenueByKey[key] = existing.Add(order.TotalAmount)
		} else {
			revenueByKey[key] = order.TotalAmount
		}
	}

	for key, revenue := range revenueByKey {
		agg.Buckets = append(agg.Buckets, Bucket{Key: key, Revenue: revenue})
	}
	sort.Slice(agg.Buckets, func(i, j int) bool { return agg.Buckets[i].Key < agg.Buckets[j].Key })

	return agg, nil
}

func (s *Service) bucketKey(t time.Time, bucketing Bucketing) string {
	switch bucketing {
	case BucketWeek:
		return s.clock.WeekKey(t)
	case BucketMonth:
		return s.clock.MonthKey(t)
	default:
		return s.clock.DateKey(t)
	}
}

// DashboardMetrics returns today's paid-order summary, served from cache
// when warm.
func (s *Service) DashboardMetrics(ctx context.Context, companyID uuid.UUID) (*DashboardMetrics, error) {
	key := caching.DashboardMetricsKey(companyID)
	cached := &DashboardMetrics{}
	if hit, err := s.cacheSvc.GetJSON(ctx, key, cached); err != nil {
		log.Printf("WARN: dashboard metrics cache read failed for company %s: %v", companyID, err)
	} else if hit {
		return cached, nil
	}
	return s.RefreshDashboardMetrics(ctx, companyID)
}

// RefreshDashboardMetrics recomputes today's summary and rewrites the cache.
// The background scheduler calls this to keep dashboards warm.
func (s *Service) RefreshDashboardMetrics(ctx context.Context, companyID uuid.UUID) (*DashboardMetrics, error) {
	now := time.Now().UTC()
	agg, err := s.Aggregate(ctx, companyID, s.clock.StartOfDay(now), s.clock.EndOfDay(now), BucketNone)
	if err != nil {
		return nil, err
	}

	metrics := &DashboardMetrics{
		TodayRevenue:  agg.Totals.Revenue,
		OrdersToday:   agg.Totals.OrderCount,
		CashCount:     agg.Totals.CashCount,
		TouchNGoCount: agg.Totals.TouchNGoCount,
		LastUpdated:   now,
	}
	if err := s.cacheSvc.SetJSON(ctx, caching.DashboardMetricsKey(companyID), metrics, metricsCacheTTL); err != nil {
		log.Printf("WARN: dashboard metrics cache write failed for company %s: %v", companyID, err)
	}
	return metrics, nil
}

// DailySales returns a sparse per-day revenue series covering the last
// `days` business-local calendar days up to now.
func (s *Service) DailySales(ctx context.Context, companyID uuid.UUID, days int) ([]Bucket, error) {
	return s.trailingSeries(ctx, companyID, -days, 0, BucketDay)
}

// WeeklySales returns a sparse per-ISO-week revenue series covering the last
// `weeks` weeks up to now.
func (s *Service) WeeklySales(ctx context.Context, companyID uuid.UUID, weeks int) ([]Bucket, error) {
	return s.trailingSeries(ctx, companyID, -weeks*7, 0, BucketWeek)
}

// MonthlySales returns a sparse per-month revenue series covering the last
// `months` months up to now.
func (s *Service) MonthlySales(ctx context.Context, companyID uuid.UUID, months int) ([]Bucket, error) {
	return s.trailingSeries(ctx, companyID, 0, -months, BucketMonth)
}

func (s *Service) trailingSeries(ctx context.Context, companyID uuid.UUID, dayOffset, monthOffset int, bucketing Bucketing) ([]Bucket, error) {
	now := time.Now().UTC()
	start := s.clock.StartOfDay(now.In(s.clock.Location()).AddDate(0, monthOffset, dayOffset))
	agg, err := s.Aggregate(ctx, companyID, start, now, bucketing)
	if err != nil {
		return nil, err
	}
	return agg.Buckets, nil
}
