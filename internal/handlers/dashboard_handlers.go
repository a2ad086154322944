package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"posmart/internal/analytics"
	"posmart/internal/common"
)

// DashboardHandlers serves the admin dashboard's revenue summaries and
// time-series charts.
type DashboardHandlers struct {
	analyticsSvc *analytics.Service
}

func NewDashboardHandlers(analyticsSvc *analytics.Service) *DashboardHandlers {
	return &DashboardHandlers{analyticsSvc: analyticsSvc}
}

// Metrics handles GET /dashboard/metrics
func (h *DashboardHandlers) Metrics(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendClientError(c, "User must be assigned to a company")
	}

	metrics, err := h.analyticsSvc.DashboardMetrics(ctx, companyID)
	if err != nil {
		return common.SendServerError(c, "Failed to compute dashboard metrics")
	}
	return c.JSON(http.StatusOK, metrics)
}

// DailySales handles GET /dashboard/sales/daily?days=30
func (h *DashboardHandlers) DailySales(c echo.Context) error {
	return h.salesSeries(c, "days", 30, h.analyticsSvc.DailySales)
}

// WeeklySales handles GET /dashboard/sales/weekly?weeks=12
func (h *DashboardHandlers) WeeklySales(c echo.Context) error {
	return h.salesSeries(c, "weeks", 12, h.analyticsSvc.WeeklySales)
}

// MonthlySales handles GET /dashboard/sales/monthly?months=12
func (h *DashboardHandlers) MonthlySales(c echo.Context) error {
	return h.salesSeries(c, "months", 12, h.analyticsSvc.MonthlySales)
}

func (h *DashboardHandlers) salesSeries(c echo.Context, param string, defaultPeriods int, fetch func(context.Context, uuid.UUID, int) ([]analytics.Bucket, error)) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendClientError(c, "User must be assigned to a company")
	}

	periods := defaultPeriods
	if raw := c.QueryParam(param); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return common.SendValidationError(c, param, "must be an integer")
		}
		if err := common.ValidatePositiveInteger(parsed, param, 366); err != nil {
			return common.SendValidationError(c, param, err.Error())
		}
		periods = parsed
	}

	buckets, err := fetch(ctx, companyID, periods)
	if err != nil {
		return common.SendServerError(c, "Failed to compute sales series")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"buckets": buckets,
	})
}
