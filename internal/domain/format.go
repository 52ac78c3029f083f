package domain

import (
	"fmt"
	"time"
)

const displayDateLayout = "2006-01-02 15:04"

// FormatDate renders an epoch-millisecond timestamp for display.
func FormatDate(millis int64) string {
	if millis <= 0 {
		return "Invalid Date"
	}
	return time.UnixMilli(millis).Format(displayDateLayout)
}

// FormatCurrency renders a dollar amount for display.
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// FormatTotal renders an order's total as currency, tolerating nil.
func FormatTotal(o *Order) string {
	if o == nil {
		return "$0.00"
	}
	return FormatCurrency(o.Total())
}
