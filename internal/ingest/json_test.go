package ingest

import (
	"strings"
	"testing"
)

func TestReadJSONOrder(t *testing.T) {
	doc := `{
  "order": {
    "type": "Burger",
    "source": "Patty Shack",
    "order_date": 1700000000000,
    "items": [
      {"name": "Cheeseburger", "quantity": 1, "price": 8.50},
      {"name": "Fries", "quantity": 2, "price": 2.00}
    ]
  }
}`

	order, err := ReadJSONOrder(writeFile(t, t.TempDir(), "order.json", doc))
	if err != nil {
		t.Fatalf("ReadJSONOrder: %v", err)
	}
	if order.Type != "Burger" || order.Source != "Patty Shack" {
		t.Errorf("order = %s/%s", order.Type, order.Source)
	}
	if got := order.Total(); got != 12.50 {
		t.Errorf("Total = %v, want 12.50", got)
	}
}

func TestReadJSONOrderNormalizesItems(t *testing.T) {
	doc := `{
  "order": {
    "type": "Deli",
    "source": "Corner",
    "order_date": 1700000000000,
    "items": [
      {"name": "  ", "quantity": 0, "price": -4}
    ]
  }
}`

	order, err := ReadJSONOrder(writeFile(t, t.TempDir(), "order.json", doc))
	if err != nil {
		t.Fatalf("ReadJSONOrder: %v", err)
	}
	item := order.Items[0]
	if item.Name() == "" || item.Name() == "  " {
		t.Errorf("blank name not defaulted: %q", item.Name())
	}
	if item.Quantity() != 1 {
		t.Errorf("Quantity = %d, want clamp to 1", item.Quantity())
	}
	if item.Price() != 0 {
		t.Errorf("Price = %v, want clamp to 0", item.Price())
	}
}

func TestReadJSONOrderErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "malformed json",
			content: `{"order": {`,
			wantErr: "parse JSON order",
		},
		{
			name:    "missing wrapper",
			content: `{"type": "Burger"}`,
			wantErr: "invalid order data",
		},
		{
			name:    "null order",
			content: `{"order": null}`,
			wantErr: "invalid order data",
		},
		{
			name:    "no items",
			content: `{"order": {"type": "Burger", "source": "X", "order_date": 1700000000000, "items": []}}`,
			wantErr: "invalid order data",
		},
		{
			name:    "zero date",
			content: `{"order": {"type": "Burger", "source": "X", "order_date": 0, "items": [{"name": "A", "quantity": 1, "price": 1}]}}`,
			wantErr: "invalid order data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSONOrder(writeFile(t, t.TempDir(), "bad.json", tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestReadOrderFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "order.json",
		`{"order": {"type": "Sushi", "source": "Kenji", "order_date": 1700000000000, "items": [{"name": "Nigiri", "quantity": 1, "price": 4}]}}`)
	xmlPath := writeFile(t, dir, "order.xml",
		`<orders><order><type>Thai</type><source>Lemongrass</source><order_date>1700000000000</order_date><items><item><name>Pad Thai</name><quantity>1</quantity><price>11</price></item></items></order></orders>`)
	txtPath := writeFile(t, dir, "note.txt", "not an order")

	if order, err := ReadOrderFile(jsonPath); err != nil || order.Source != "Kenji" {
		t.Errorf("json dispatch: order=%v err=%v", order, err)
	}
	if order, err := ReadOrderFile(xmlPath); err != nil || order.Source != "Lemongrass" {
		t.Errorf("xml dispatch: order=%v err=%v", order, err)
	}
	if _, err := ReadOrderFile(txtPath); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := ReadOrderFile(dir + "/missing.json"); err == nil {
		t.Error("expected error for missing file")
	}
}
