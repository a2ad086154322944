package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"posmart/internal/common"
	"posmart/internal/reports"
	"posmart/internal/timezone"
)

// ReportHandlers serves date-range sales reports and their CSV exports.
type ReportHandlers struct {
	reportSvc *reports.Service
}

func NewReportHandlers(reportSvc *reports.Service) *ReportHandlers {
	return &ReportHandlers{reportSvc: reportSvc}
}

// GetReport handles GET /reports?start_date=...&end_date=...
func (h *ReportHandlers) GetReport(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendClientError(c, "User must be assigned to a company")
	}

	startDate := c.QueryParam("start_date")
	endDate := c.QueryParam("end_date")
	if startDate == "" || endDate == "" {
		return common.SendValidationError(c, "date_range", "start_date and end_date are required")
	}

	report, err := h.reportSvc.ReportData(ctx, companyID, startDate, endDate)
	if err != nil {
		if errors.Is(err, timezone.ErrInvalidDate) {
			return common.SendClientError(c, err.Error())
		}
		return common.SendServerError(c, "Failed to build report")
	}
	return c.JSON(http.StatusOK, report)
}

// ExportReport handles GET /reports/export?start_date=...&end_date=...
// The export lands in object storage; the response carries a short-lived
// download URL rather than the CSV bytes.
func (h *ReportHandlers) ExportReport(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendClientError(c, "User must be assigned to a company")
	}

	startDate := c.QueryParam("start_date")
	endDate := c.QueryParam("end_date")
	if startDate == "" || endDate == "" {
		return common.SendValidationError(c, "date_range", "start_date and end_date are required")
	}

	url, err := h.reportSvc.Export(ctx, companyID, startDate, endDate)
	if err != nil {
		if errors.Is(err, timezone.ErrInvalidDate) {
			return common.SendClientError(c, err.Error())
		}
		return common.SendServerError(c, "Failed to export report")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"download_url": url,
	})
}
