package domain

import (
	"encoding/json"
	"testing"
)

func TestItemNormalization(t *testing.T) {
	tests := []struct {
		name         string
		itemName     string
		quantity     int
		price        float64
		wantName     string
		wantQuantity int
		wantPrice    float64
	}{
		{
			name:         "plain values pass through",
			itemName:     "Burger",
			quantity:     2,
			price:        5.0,
			wantName:     "Burger",
			wantQuantity: 2,
			wantPrice:    5.0,
		},
		{
			name:         "name is trimmed",
			itemName:     "  Fries  ",
			quantity:     1,
			price:        2.5,
			wantName:     "Fries",
			wantQuantity: 1,
			wantPrice:    2.5,
		},
		{
			name:         "blank name defaults",
			itemName:     "   ",
			quantity:     1,
			price:        1.0,
			wantName:     DefaultItemName,
			wantQuantity: 1,
			wantPrice:    1.0,
		},
		{
			name:         "negative quantity and price clamp to zero",
			itemName:     "Soda",
			quantity:     -3,
			price:        -1.25,
			wantName:     "Soda",
			wantQuantity: 0,
			wantPrice:    0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := NewItem(tt.itemName, tt.quantity, tt.price)
			if it.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", it.Name(), tt.wantName)
			}
			if it.Quantity() != tt.wantQuantity {
				t.Errorf("Quantity() = %d, want %d", it.Quantity(), tt.wantQuantity)
			}
			if it.Price() != tt.wantPrice {
				t.Errorf("Price() = %v, want %v", it.Price(), tt.wantPrice)
			}
		})
	}
}

func TestItemClampHoldsAfterReassignment(t *testing.T) {
	it := NewItem("Burger", 2, 5.0)

	it.SetQuantity(-1)
	if it.Quantity() != 0 {
		t.Errorf("Quantity() after negative set = %d, want 0", it.Quantity())
	}

	it.SetPrice(-0.01)
	if it.Price() != 0.0 {
		t.Errorf("Price() after negative set = %v, want 0", it.Price())
	}

	it.SetName("")
	if it.Name() != DefaultItemName {
		t.Errorf("Name() after blank set = %q, want %q", it.Name(), DefaultItemName)
	}
}

func TestItemLineTotal(t *testing.T) {
	it := NewItem("Burger", 3, 4.5)
	if got := it.LineTotal(); got != 13.5 {
		t.Errorf("LineTotal() = %v, want 13.5", got)
	}
}

func TestOrderTotalRecomputed(t *testing.T) {
	o := &Order{
		OrderDate: 1700000000000,
		Items: []Item{
			NewItem("Burger", 2, 5.0),
			NewItem("Fries", 1, 2.5),
		},
	}
	if got := o.Total(); got != 12.5 {
		t.Errorf("Total() = %v, want 12.5", got)
	}

	o.Items[0].SetQuantity(3)
	if got := o.Total(); got != 17.5 {
		t.Errorf("Total() after mutation = %v, want 17.5", got)
	}
}

func TestOrderValid(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		want  bool
	}{
		{
			name:  "date and items present",
			order: Order{OrderDate: 1, Items: []Item{NewItem("Burger", 1, 1)}},
			want:  true,
		},
		{
			name:  "zero date",
			order: Order{Items: []Item{NewItem("Burger", 1, 1)}},
			want:  false,
		},
		{
			name:  "no items",
			order: Order{OrderDate: 1},
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.order.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrderEqual(t *testing.T) {
	base := func() *Order {
		return &Order{
			Type:      "pickup",
			Source:    "Diner A",
			OrderDate: 1700000000000,
			Status:    StatusPending,
			Items: []Item{
				NewItem("Burger", 2, 5.0),
				NewItem("Fries", 1, 2.5),
			},
		}
	}

	a, b := base(), base()
	if !a.Equal(b) {
		t.Fatal("identical orders should be equal")
	}

	b = base()
	b.Source = "Diner B"
	if a.Equal(b) {
		t.Error("different source should not be equal")
	}

	b = base()
	b.Items[1].SetQuantity(2)
	if a.Equal(b) {
		t.Error("different item quantity should not be equal")
	}

	b = base()
	b.Items = b.Items[:1]
	if a.Equal(b) {
		t.Error("different item count should not be equal")
	}

	b = base()
	b.Status = StatusCompleted
	if a.Equal(b) {
		t.Error("different status should not be equal")
	}

	if a.Equal(nil) {
		t.Error("nil should not be equal")
	}
}

func TestSameOrderIgnoresStatus(t *testing.T) {
	a := &Order{
		Source:    "Diner A",
		OrderDate: 1700000000000,
		Status:    StatusPending,
		Items:     []Item{NewItem("Burger", 1, 5.0)},
	}
	b := &Order{
		Source:    "Diner A",
		OrderDate: 1700000000000,
		Status:    StatusCompleted,
		Items:     []Item{NewItem("Burger", 1, 5.0)},
	}

	if !a.SameOrder(b) {
		t.Error("same logical order with different status should match")
	}
	if a.Equal(b) {
		t.Error("Equal should still be status-sensitive")
	}

	b.OrderDate++
	if a.SameOrder(b) {
		t.Error("different date should not match")
	}
	if !ContainsOrder([]*Order{a}, a) {
		t.Error("ContainsOrder should find the order itself")
	}
}

func TestItemJSONRoundTrip(t *testing.T) {
	in := NewItem("Burger", 2, 5.0)
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out Item
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !in.Equal(out) {
		t.Errorf("round trip changed item: %+v != %+v", in, out)
	}
}

func TestItemUnmarshalNormalizes(t *testing.T) {
	var it Item
	if err := json.Unmarshal([]byte(`{"name":"  ","quantity":-2,"price":-1}`), &it); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if it.Name() != DefaultItemName || it.Quantity() != 0 || it.Price() != 0.0 {
		t.Errorf("unmarshal did not normalize: %+v", it)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"PENDING", StatusPending},
		{"IN_PROGRESS", StatusInProgress},
		{"completed", StatusCompleted},
		{"bogus", StatusPending},
		{"", StatusPending},
	}
	for _, tt := range tests {
		if got := ParseStatus(tt.in); got != tt.want {
			t.Errorf("ParseStatus(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
