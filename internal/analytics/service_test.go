package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"posmart/internal/models"
	"posmart/internal/timezone"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

func (m *MockOrderRepository) MarkRefunded(ctx context.Context, companyID, id, actorID uuid.UUID, at time.Time) (int64, error) {
	args := m.Called(ctx, companyID, id, actorID, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) ListByDateRange(ctx context.Context, companyID uuid.UUID, start, end time.Time) ([]*models.Order, error) {
	args := m.Called(ctx, companyID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateCompanyCache(ctx context.Context, companyID uuid.UUID) error {
	args := m.Called(ctx, companyID)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type AnalyticsServiceTestSuite struct {
	suite.Suite
	mockOrderRepo *MockOrderRepository
	mockCache     *MockCacheService
	service       *Service
	clock         *timezone.Clock
	companyID     uuid.UUID
}

func (suite *AnalyticsServiceTestSuite) SetupTest() {
	suite.mockOrderRepo = &MockOrderRepository{}
	suite.mockCache = &MockCacheService{}

	clock, err := timezone.New("")
	suite.Require().NoError(err)
	suite.clock = clock

	suite.service = NewService(suite.mockOrderRepo, suite.mockCache, clock)
	suite.companyID = uuid.New()
}

func (suite *AnalyticsServiceTestSuite) TearDownTest() {
	suite.mockOrderRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestAnalyticsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsServiceTestSuite))
}

func (suite *AnalyticsServiceTestSuite) paidOrder(amount string, paymentType string, createdAt time.Time) *models.Order {
	return &models.Order{
		ID:          uuid.New(),
		CompanyID:   suite.companyID,
		TotalAmount: decimal.RequireFromString(amount),
		PaymentType: paymentType,
		Status:      models.OrderStatusPaid,
		CreatedAt:   createdAt,
	}
}

func (suite *AnalyticsServiceTestSuite) TestAggregate_ExcludesRefundedOrders() {
	day := time.Date(2024, 5, 10, 4, 0, 0, 0, time.UTC)
	refunded := suite.paidOrder("30.00", models.PaymentCash, day)
	refunded.Status = models.OrderStatusRefunded

	orders := []*models.Order{
		suite.paidOrder("20.00", models.PaymentCash, day),
		refunded,
	}
	start := suite.clock.StartOfDay(day)
	end := suite.clock.EndOfDay(day)
	suite.mockOrderRepo.On("ListByDateRange", mock.Anything, suite.companyID, start, end).Return(orders, nil)

	agg, err := suite.service.Aggregate(context.Background(), suite.companyID, start, end, BucketDay)

	suite.NoError(err)
	// Refunded revenue is left out entirely, never subtracted.
	suite.Equal("20.00", agg.Totals.Revenue.StringFixed(2))
	suite.Equal(1, agg.Totals.OrderCount)
	suite.Equal(1, agg.Totals.CashCount)
	suite.Equal(0, agg.Totals.TouchNGoCount)
	suite.Require().Len(agg.Buckets, 1)
	suite.Equal("2024-05-10", agg.Buckets[0].Key)
	suite.Equal("20.00", agg.Buckets[0].Revenue.StringFixed(2))
}

func (suite *AnalyticsServiceTestSuite) TestAggregate_BucketsByLocalDay() {
	// 16:30 UTC on Jan 1 is already Jan 2 in Kuala Lumpur.
	lateNight := time.Date(2024, 1, 1, 16, 30, 0, 0, time.UTC)
	afternoon := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	orders := []*models.Order{
		suite.paidOrder("10.00", models.PaymentCash, lateNight),
		suite.paidOrder("15.00", models.PaymentTouchNGo, afternoon),
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	suite.mockOrderRepo.On("ListByDateRange", mock.Anything, suite.companyID, start, end).Return(orders, nil)

	agg, err := suite.service.Aggregate(context.Background(), suite.companyID, start, end, BucketDay)

	suite.NoError(err)
	suite.Require().Len(agg.Buckets, 2)
	// Buckets come back ascending by key.
	suite.Equal("2024-01-01", agg.Buckets[0].Key)
	suite.Equal("15.00", agg.Buckets[0].Revenue.StringFixed(2))
	suite.Equal("2024-01-02", agg.Buckets[1].Key)
	suite.Equal("10.00", agg.Buckets[1].Revenue.StringFixed(2))
}

func (suite *AnalyticsServiceTestSuite) TestAggregate_WeekAndMonthKeys() {
	// Sunday Dec 31 2023 and Monday Jan 1 2024 land in different ISO weeks
	// and different months.
	sunday := time.Date(2023, 12, 31, 4, 0, 0, 0, time.UTC)
	monday := time.Date(2024, 1, 1, 4, 0, 0, 0, time.UTC)
	orders := []*models.Order{
		suite.paidOrder("10.00", models.PaymentCash, sunday),
		suite.paidOrder("20.00", models.PaymentCash, monday),
	}
	start := time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)

	suite.mockOrderRepo.On("ListByDateRange", mock.Anything, suite.companyID, start, end).Return(orders, nil).Twice()

	weekly, err := suite.service.Aggregate(context.Background(), suite.companyID, start, end, BucketWeek)
	suite.NoError(err)
	suite.Require().Len(weekly.Buckets, 2)
	suite.Equal("2023-W52", weekly.Buckets[0].Key)
	suite.Equal("2024-W01", weekly.Buckets[1].Key)

	monthly, err := suite.service.Aggregate(context.Background(), suite.companyID, start, end, BucketMonth)
	suite.NoError(err)
	suite.Require().Len(monthly.Buckets, 2)
	suite.Equal("2023-12", monthly.Buckets[0].Key)
	suite.Equal("2024-01", monthly.Buckets[1].Key)
}

func (suite *AnalyticsServiceTestSuite) TestAggregate_EmptyWindow() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	suite.mockOrderRepo.On("ListByDateRange", mock.Anything, suite.companyID, start, end).Return([]*models.Order{}, nil)

	agg, err := suite.service.Aggregate(context.Background(), suite.companyID, start, end, BucketDay)

	suite.NoError(err)
	suite.Empty(agg.Buckets)
	suite.Equal("0.00", agg.Totals.Revenue.StringFixed(2))
	suite.Equal(0, agg.Totals.OrderCount)
}

func (suite *AnalyticsServiceTestSuite) TestDashboardMetrics_CacheHit() {
	suite.mockCache.On("GetJSON", mock.Anything, "pos:metrics:"+suite.companyID.String(), mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*DashboardMetrics)
			dest.TodayRevenue = decimal.RequireFromString("42.00")
			dest.OrdersToday = 3
		}).
		Return(true, nil)

	metrics, err := suite.service.DashboardMetrics(context.Background(), suite.companyID)

	suite.NoError(err)
	suite.Equal("42.00", metrics.TodayRevenue.StringFixed(2))
	suite.Equal(3, metrics.OrdersToday)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "ListByDateRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AnalyticsServiceTestSuite) TestDashboardMetrics_CacheMissRecomputes() {
	now := time.Now().UTC()
	orders := []*models.Order{
		suite.paidOrder("12.50", models.PaymentCash, now),
		suite.paidOrder("7.50", models.PaymentTouchNGo, now),
	}

	suite.mockCache.On("GetJSON", mock.Anything, "pos:metrics:"+suite.companyID.String(), mock.Anything).Return(false, nil)
	suite.mockOrderRepo.On("ListByDateRange", mock.Anything, suite.companyID, mock.Anything, mock.Anything).Return(orders, nil)
	suite.mockCache.On("SetJSON", mock.Anything, "pos:metrics:"+suite.companyID.String(), mock.Anything, metricsCacheTTL).Return(nil)

	metrics, err := suite.service.DashboardMetrics(context.Background(), suite.companyID)

	suite.NoError(err)
	suite.Equal("20.00", metrics.TodayRevenue.StringFixed(2))
	suite.Equal(2, metrics.OrdersToday)
	suite.Equal(1, metrics.CashCount)
	suite.Equal(1, metrics.TouchNGoCount)
}
