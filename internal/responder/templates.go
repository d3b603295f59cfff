package responder

import (
	"fmt"

	"github.com/gold-assistant-go/internal/models"
)

// priceTemplateData pre-formats the quote figures for the price template.
// The numbers are passed exactly as supplied by the price adapter, only
// formatted, never recomputed.
func priceTemplateData(q *models.PriceQuote) map[string]interface{} {
	direction := "📉 down"
	if q.Change24h > 0 {
		direction = "📈 up"
	}

	trend := "Sideways movement"
	switch {
	case q.Change24h > 0:
		trend = "Bullish trend"
	case q.Change24h < -10:
		trend = "Bearish trend"
	}

	return map[string]interface{}{
		"Price":         fmt.Sprintf("%.2f", q.CurrentPrice),
		"Unit":          q.Unit,
		"Currency":      q.Currency,
		"Direction":     direction,
		"Change":        fmt.Sprintf("%+.2f", q.Change24h),
		"ChangePercent": fmt.Sprintf("%+.2f", q.ChangePercent),
		"Low":           fmt.Sprintf("%.2f", q.Low24h),
		"High":          fmt.Sprintf("%.2f", q.High24h),
		"Trend":         trend,
		"UpdatedAt":     q.LastUpdated.Format("15:04:05"),
	}
}
