package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// External producers disagree on tag names, so every logical field is
// extracted through an ordered fallback chain: first tag with a
// non-empty value wins.
var (
	typeTags           = []string{"type", "order_type", "restaurant_type", "category"}
	sourceTags         = []string{"source", "restaurant", "restaurant_name", "provider", "vendor"}
	dateTags           = []string{"order_date", "date", "timestamp", "created_at"}
	itemsContainerTags = []string{"items", "order_items", "products", "menu_items"}
	itemTags           = []string{"item", "order_item", "product", "menu_item"}
	itemNameTags       = []string{"name", "item_name", "product_name", "description"}
	quantityTags       = []string{"quantity", "qty", "count"}
	priceTags          = []string{"price", "unit_price", "cost"}
)

// maxEpochMillis is roughly the year 2100. Numeric date values at or
// beyond it are treated as not-a-timestamp.
const maxEpochMillis = 4102444800000

// dateLayouts are tried in order after the numeric epoch parse fails.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006 15:04",
	"02/01/2006 15:04",
	"2006-01-02",
	time.RFC3339,
}

// timeNow is a test hook for the "unparsable date resolves to now"
// leniency rule.
var timeNow = time.Now

// textWithFallbacks walks the tag chain and returns the first
// non-empty trimmed text, or fallback when no tag matches.
func textWithFallbacks(el *xmlElement, tags []string, fallback string) string {
	for _, tag := range tags {
		if text := el.childText(tag); text != "" {
			return text
		}
	}
	return fallback
}

// findContainer returns the first matching container element from the
// tag chain, falling back to the element itself.
func findContainer(el *xmlElement, tags []string) *xmlElement {
	for _, tag := range tags {
		if found := el.findFirst(tag); found != nil {
			return found
		}
	}
	return el
}

// parseEpochMillis parses a numeric epoch-millisecond value, returning
// 0 when the text is not numeric or out of the plausible range.
func parseEpochMillis(s string) int64 {
	millis, err := strconv.ParseInt(s, 10, 64)
	if err != nil || millis <= 0 || millis >= maxEpochMillis {
		return 0
	}
	return millis
}

// parseDateMillis resolves a date string to epoch milliseconds: numeric
// epoch first, then each textual layout in order. Returns 0 when
// nothing matches.
func parseDateMillis(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if millis := parseEpochMillis(s); millis > 0 {
		return millis
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}

// resolveOrderDate applies the leniency policy: a date that cannot be
// parsed resolves to the current wall-clock time rather than rejecting
// the order.
func resolveOrderDate(s string) int64 {
	if millis := parseDateMillis(s); millis > 0 {
		return millis
	}
	return timeNow().UnixMilli()
}

// parseQuantity parses an item quantity, defaulting to 1 on anything
// non-numeric and clamping the result to at least one unit.
func parseQuantity(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1
	}
	quantity, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return max(quantity, 1)
}

var priceJunk = regexp.MustCompile(`[^\d.-]`)

// parsePrice strips currency symbols and separators, parses the rest
// as a decimal and clamps to a non-negative value. Non-numeric input
// defaults to 0.0.
func parsePrice(s string) float64 {
	cleaned := strings.TrimSpace(priceJunk.ReplaceAllString(s, ""))
	if cleaned == "" {
		return 0.0
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0.0
	}
	return max(price, 0.0)
}
