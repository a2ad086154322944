package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"posmart/internal/common"
	"posmart/internal/repositories"
)

// ItemHandlers serves the register's read-only catalog view. Item CRUD is
// administered elsewhere; the register only needs the sellable list.
type ItemHandlers struct {
	itemRepo repositories.ItemRepository
}

func NewItemHandlers(itemRepo repositories.ItemRepository) *ItemHandlers {
	return &ItemHandlers{itemRepo: itemRepo}
}

// ListItems handles GET /items
func (h *ItemHandlers) ListItems(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendClientError(c, "User must be assigned to a company")
	}

	items, err := h.itemRepo.ListActive(ctx, companyID)
	if err != nil {
		return common.SendServerError(c, "Failed to fetch items")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
	})
}
