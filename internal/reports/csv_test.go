package reports

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posmart/internal/models"
	"posmart/internal/timezone"
)

func testClock(t *testing.T) *timezone.Clock {
	t.Helper()
	clock, err := timezone.New("")
	require.NoError(t, err)
	return clock
}

func orderWithItems(amount string, paymentType string, createdAt time.Time, items ...*models.OrderItem) *models.OrderWithItems {
	return &models.OrderWithItems{
		Order: models.Order{
			ID:          uuid.New(),
			TotalAmount: decimal.RequireFromString(amount),
			PaymentType: paymentType,
			Status:      models.OrderStatusPaid,
			CreatedAt:   createdAt,
		},
		Items: items,
	}
}

func lineItem(name, price string, qty int) *models.OrderItem {
	return &models.OrderItem{
		ID:                uuid.New(),
		ItemNameSnapshot:  name,
		ItemPriceSnapshot: decimal.RequireFromString(price),
		Quantity:          qty,
	}
}

func TestEncodeCSV_Empty(t *testing.T) {
	out := EncodeCSV(testClock(t), nil)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Time,Item Name,Quantity,Unit Price,Item Total,Payment Type,Order Total", lines[0])
	assert.Equal(t, `"","","","","","","TOTAL","0.00"`, lines[1])
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestEncodeCSV_OrderColumnsOnlyOnFirstItemRow(t *testing.T) {
	// 2024-05-10 06:30:15 UTC is 14:30:15 local.
	createdAt := time.Date(2024, 5, 10, 6, 30, 15, 0, time.UTC)
	order := orderWithItems("25.50", models.PaymentCash, createdAt,
		lineItem("Kopi O", "10.00", 1),
		lineItem("Roti Bakar", "7.75", 2),
	)

	out := EncodeCSV(testClock(t), []*models.OrderWithItems{order})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, `"10/05/2024","14:30:15","Kopi O","1","10.00","10.00","cash","25.50"`, lines[1])
	// Subsequent rows leave the order-level columns blank.
	assert.Equal(t, `"","","Roti Bakar","2","7.75","15.50","",""`, lines[2])
	assert.Equal(t, `"","","","","","","TOTAL","25.50"`, lines[3])
}

func TestEncodeCSV_OrderWithoutItemsGetsOneRow(t *testing.T) {
	createdAt := time.Date(2024, 5, 10, 1, 0, 0, 0, time.UTC) // 09:00 local
	order := orderWithItems("5.00", models.PaymentTouchNGo, createdAt)

	out := EncodeCSV(testClock(t), []*models.OrderWithItems{order})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, `"10/05/2024","09:00:00","","","","","touch_n_go","5.00"`, lines[1])
	assert.Equal(t, `"","","","","","","TOTAL","5.00"`, lines[2])
}

func TestEncodeCSV_TotalRowSumsAllOrders(t *testing.T) {
	createdAt := time.Date(2024, 5, 10, 6, 0, 0, 0, time.UTC)
	orders := []*models.OrderWithItems{
		orderWithItems("100.00", models.PaymentCash, createdAt, lineItem("Nasi Lemak", "50.00", 2)),
		orderWithItems("50.00", models.PaymentTouchNGo, createdAt, lineItem("Teh Tarik", "25.00", 2)),
	}

	out := EncodeCSV(testClock(t), orders)
	lines := strings.Split(out, "\n")

	last := lines[len(lines)-1]
	assert.Equal(t, `"","","","","","","TOTAL","150.00"`, last)
}

func TestEncodeCSV_CellsQuotedWithoutEscaping(t *testing.T) {
	createdAt := time.Date(2024, 5, 10, 6, 0, 0, 0, time.UTC)
	// Commas inside a cell stay inside its quotes; quotes are not escaped.
	order := orderWithItems("8.00", models.PaymentCash, createdAt,
		lineItem("Mee Goreng, Extra Pedas", "8.00", 1),
	)

	out := EncodeCSV(testClock(t), []*models.OrderWithItems{order})

	assert.Contains(t, out, `"Mee Goreng, Extra Pedas"`)
}
