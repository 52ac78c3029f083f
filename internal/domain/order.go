package domain

import (
	"encoding/json"
	"strings"
)

// Status represents the workflow state of an order.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// ParseStatus maps a status string to a Status, defaulting to PENDING
// for anything it does not recognize.
func ParseStatus(s string) Status {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(StatusInProgress):
		return StatusInProgress
	case string(StatusCompleted):
		return StatusCompleted
	default:
		return StatusPending
	}
}

// Item is a single order line. Fields are unexported so that the
// normalization rules (trimmed non-blank name, non-negative quantity
// and price) hold after every assignment, not just at construction.
type Item struct {
	name     string
	quantity int
	price    float64
}

// DefaultItemName is used whenever an item name is missing or blank.
const DefaultItemName = "Unknown Item"

// NewItem creates an item, applying the normalization rules.
func NewItem(name string, quantity int, price float64) Item {
	var it Item
	it.SetName(name)
	it.SetQuantity(quantity)
	it.SetPrice(price)
	return it
}

func (it *Item) SetName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultItemName
	}
	it.name = name
}

func (it *Item) SetQuantity(quantity int) {
	it.quantity = max(quantity, 0)
}

func (it *Item) SetPrice(price float64) {
	it.price = max(price, 0.0)
}

func (it Item) Name() string { return it.name }
func (it Item) Quantity() int { return it.quantity }
func (it Item) Price() float64 { return it.price }

// LineTotal is quantity times unit price, recomputed on every call.
func (it Item) LineTotal() float64 {
	return float64(it.quantity) * it.price
}

// Equal reports structural equality over name, quantity and price.
func (it Item) Equal(other Item) bool {
	return it.name == other.name && it.quantity == other.quantity && it.price == other.price
}

type itemJSON struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// MarshalJSON encodes the item with its plain wire field names.
func (it Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemJSON{Name: it.name, Quantity: it.quantity, Price: it.price})
}

// UnmarshalJSON decodes the item and re-applies the normalization
// rules. Missing and null fields fall back to defaults rather than
// failing.
func (it *Item) UnmarshalJSON(data []byte) error {
	var raw itemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	it.SetName(raw.Name)
	it.SetQuantity(raw.Quantity)
	it.SetPrice(raw.Price)
	return nil
}

// Order is a restaurant order moving through the
// pending -> in-progress -> completed workflow.
//
// OrderDate is an epoch-millisecond timestamp; zero means unset.
// Type and Source are free text, with "" meaning absent; readers that
// need a display value go through TypeOrDefault / SourceOrDefault.
type Order struct {
	Type      string `json:"type,omitempty"`
	Source    string `json:"source,omitempty"`
	OrderDate int64  `json:"order_date"`
	Items     []Item `json:"items"`
	Status    Status `json:"status,omitempty"`
}

// TypeOrDefault returns the trimmed order type, or "Unknown" when blank.
func (o *Order) TypeOrDefault() string {
	if t := strings.TrimSpace(o.Type); t != "" {
		return t
	}
	return "Unknown"
}

// SourceOrDefault returns the order source, or "Unknown" when blank.
func (o *Order) SourceOrDefault() string {
	if o.Source != "" {
		return o.Source
	}
	return "Unknown"
}

// ItemsOrEmpty returns the item list, treating nil as empty.
func (o *Order) ItemsOrEmpty() []Item {
	if o.Items == nil {
		return []Item{}
	}
	return o.Items
}

// Total sums quantity times price over all items. It is recomputed on
// every call, never cached.
func (o *Order) Total() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.LineTotal()
	}
	return total
}

// Valid reports whether the order is well-formed: a positive order
// date and at least one item. Parsers reject orders that fail this
// before they enter the pipeline.
func (o *Order) Valid() bool {
	return o.OrderDate > 0 && len(o.Items) > 0
}

// Equal reports full structural equality: SameOrder plus matching
// workflow status.
func (o *Order) Equal(other *Order) bool {
	if !o.SameOrder(other) {
		return false
	}
	return o == other || o.Status == other.Status
}

// SameOrder reports whether two orders describe the same logical
// order: equal type, source, date and item list, ignoring workflow
// status. Deduplication uses this so a re-imported file cannot
// resurrect an order that has already moved columns.
func (o *Order) SameOrder(other *Order) bool {
	if o == other {
		return true
	}
	if other == nil {
		return false
	}
	if o.OrderDate != other.OrderDate || o.Type != other.Type || o.Source != other.Source {
		return false
	}
	if len(o.Items) != len(other.Items) {
		return false
	}
	for i := range o.Items {
		if !o.Items[i].Equal(other.Items[i]) {
			return false
		}
	}
	return true
}

// ContainsOrder reports whether orders holds an entry describing the
// same logical order as target, whatever its current status.
func ContainsOrder(orders []*Order, target *Order) bool {
	for _, o := range orders {
		if o.SameOrder(target) {
			return true
		}
	}
	return false
}
