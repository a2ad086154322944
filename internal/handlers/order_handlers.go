package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"posmart/internal/common"
	"posmart/internal/models"
	"posmart/internal/services"
)

// OrderHandlers handles HTTP requests for the register's order flow
type OrderHandlers struct {
	orderService services.OrderServiceInterface
}

// NewOrderHandlers creates a new order handlers instance
func NewOrderHandlers(orderService services.OrderServiceInterface) *OrderHandlers {
	return &OrderHandlers{
		orderService: orderService,
	}
}

// CreateOrder handles POST /orders
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendClientError(c, "User must be assigned to a company")
	}
	actorID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Items       []models.CartLine `json:"items"`
		PaymentType string            `json:"payment_type"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	order, err := h.orderService.CreateOrder(ctx, companyID, actorID, req.Items, req.PaymentType)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			return common.SendValidationError(c, "items", err.Error())
		case errors.Is(err, services.ErrInvalidQuantity):
			return common.SendValidationError(c, "quantity", err.Error())
		case errors.Is(err, services.ErrInvalidPaymentType):
			return common.SendValidationError(c, "payment_type", err.Error())
		case errors.Is(err, services.ErrItemNotFound):
			return common.SendNotFoundError(c, "Item")
		default:
			return common.SendServerError(c, "Failed to create order")
		}
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Order created successfully",
		"order":   order,
	})
}

// RefundOrder handles POST /orders/:id/refund
func (h *OrderHandlers) RefundOrder(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendClientError(c, "User must be assigned to a company")
	}
	actorID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.orderService.RefundOrder(ctx, companyID, actorID, orderID); err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			return common.SendNotFoundError(c, "Order")
		case errors.Is(err, services.ErrAlreadyRefunded):
			return common.SendConflictError(c, "Order is already refunded")
		default:
			return common.SendServerError(c, "Failed to refund order")
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Order refunded successfully",
	})
}

// ListTodayOrders handles GET /orders
func (h *OrderHandlers) ListTodayOrders(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendClientError(c, "User must be assigned to a company")
	}

	orders, err := h.orderService.ListTodayOrders(ctx, companyID)
	if err != nil {
		return common.SendServerError(c, "Failed to fetch orders")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
	})
}
