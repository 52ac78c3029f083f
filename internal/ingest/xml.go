package ingest

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"orderdesk/internal/domain"
)

// ImportResult is the outcome of importing one XML file. Partial
// success is a first-class result: orders that parsed cleanly are
// returned alongside per-element error strings for those that did not.
type ImportResult struct {
	Orders     []*domain.Order
	Errors     []string
	SourceFile string
}

// HasErrors reports whether any order element failed.
func (r ImportResult) HasErrors() bool { return len(r.Errors) > 0 }

// SuccessCount returns the number of imported orders.
func (r ImportResult) SuccessCount() int { return len(r.Orders) }

// ImportXML reads every <order> element from the document at path.
// Each element is decoded independently, so a failure inside one
// element is recorded as an error string without discarding orders
// that already parsed.
func ImportXML(path string) ImportResult {
	result := ImportResult{SourceFile: filepath.Base(path)}

	f, err := os.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to process XML file: %v", err))
		return result
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	index := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to process XML file: %v", err))
			break
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "order" {
			continue
		}

		index++
		el, err := decodeElement(dec, start)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("error parsing order #%d: %v", index, err))
			// The decoder cannot resync past malformed markup, so
			// later siblings are unreachable.
			break
		}
		result.Orders = append(result.Orders, orderFromElement(el))
	}

	return result
}

// orderFromElement builds an order from an <order> element using the
// fallback tag chains. The result always satisfies the validity
// invariant: the date resolves to now when unparsable and a default
// item is synthesized when none are found.
func orderFromElement(el *xmlElement) *domain.Order {
	order := &domain.Order{
		Status: domain.StatusPending,
	}

	if t := textWithFallbacks(el, typeTags, ""); t != "" {
		order.Type = t
	} else {
		order.Type = "Unknown"
	}
	order.Source = textWithFallbacks(el, sourceTags, "Unknown")
	order.OrderDate = resolveOrderDate(textWithFallbacks(el, dateTags, ""))
	order.Items = itemsFromElement(el)

	return order
}

// itemsFromElement locates the items container, collects item elements
// under every known item tag name, and synthesizes a single default
// item when none are found.
func itemsFromElement(el *xmlElement) []domain.Item {
	container := findContainer(el, itemsContainerTags)

	var items []domain.Item
	for _, tag := range itemTags {
		for _, itemEl := range container.findAll(tag) {
			items = append(items, itemFromElement(itemEl))
		}
	}

	if len(items) == 0 {
		items = append(items, domain.NewItem(domain.DefaultItemName, 1, 0.0))
	}
	return items
}

func itemFromElement(el *xmlElement) domain.Item {
	name := textWithFallbacks(el, itemNameTags, domain.DefaultItemName)
	quantity := parseQuantity(textWithFallbacks(el, quantityTags, ""))
	price := parsePrice(textWithFallbacks(el, priceTags, ""))
	return domain.NewItem(name, quantity, price)
}
