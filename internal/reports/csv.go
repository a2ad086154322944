package reports

import (
	"strings"

	"github.com/shopspring/decimal"

	"posmart/internal/models"
	"posmart/internal/timezone"
)

var csvHeader = []string{
	"Date", "Time", "Item Name", "Quantity", "Unit Price", "Item Total", "Payment Type", "Order Total",
}

// EncodeCSV flattens orders and their line items into the export format: one
// row per line item, with the order-level Date/Time/Payment Type/Order Total
// columns printed only on each order's first row, a single row for orders
// without line items, and a trailing TOTAL row summing total_amount over all
// included orders.
//
// Every cell is wrapped in double quotes with no internal quote escaping,
// matching the historical exporter byte for byte. A literal quote inside an
// item name corrupts the output; consumers to date have never produced one.
func EncodeCSV(clock *timezone.Clock, orders []*models.OrderWithItems) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(csvHeader, ","))

	totalSum := decimal.Zero
	for _, order := range orders {
		local := order.CreatedAt.In(clock.Location())
		dateStr := local.Format("02/01/2006")
		timeStr := local.Format("15:04:05")
		totalSum = totalSum.Add(order.TotalAmount)

		if len(order.Items) == 0 {
			writeRow(&sb, []string{dateStr, timeStr, "", "", "", "", order.PaymentType, order.TotalAmount.StringFixed(2)})
			continue
		}

		for i, item := range order.Items {
			row := []string{
				"", "",
				item.ItemNameSnapshot,
				decimal.NewFromInt(int64(item.Quantity)).String(),
				item.ItemPriceSnapshot.StringFixed(2),
				item.LineTotal().StringFixed(2),
				"", "",
			}
			if i == 0 {
				row[0] = dateStr
				row[1] = timeStr
				row[6] = order.PaymentType
				row[7] = order.TotalAmount.StringFixed(2)
			}
			writeRow(&sb, row)
		}
	}

	writeRow(&sb, []string{"", "", "", "", "", "", "TOTAL", totalSum.StringFixed(2)})
	return sb.String()
}

func writeRow(sb *strings.Builder, cells []string) {
	sb.WriteByte('\n')
	for i, cell := range cells {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(cell)
		sb.WriteByte('"')
	}
}
