package ingest

import (
	"encoding/xml"
	"strings"
)

// xmlElement is a minimal in-memory XML element: just enough structure
// to support ordered fallback lookups by tag name over arbitrary,
// schema-less order documents.
type xmlElement struct {
	name     string
	text     string
	children []*xmlElement
}

// decodeElement reads the subtree opened by start from dec and builds
// the element tree. It consumes tokens up to and including the matching
// end element.
func decodeElement(dec *xml.Decoder, start xml.StartElement) (*xmlElement, error) {
	el := &xmlElement{name: start.Name.Local}
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(dec, t)
			if err != nil {
				return nil, err
			}
			el.children = append(el.children, child)
		case xml.EndElement:
			el.text = strings.TrimSpace(text.String())
			return el, nil
		case xml.CharData:
			text.Write(t)
		}
	}
}

// findFirst returns the first descendant with the given tag name, in
// document order, or nil.
func (el *xmlElement) findFirst(name string) *xmlElement {
	for _, child := range el.children {
		if child.name == name {
			return child
		}
		if found := child.findFirst(name); found != nil {
			return found
		}
	}
	return nil
}

// findAll collects every descendant with the given tag name, in
// document order.
func (el *xmlElement) findAll(name string) []*xmlElement {
	var found []*xmlElement
	for _, child := range el.children {
		if child.name == name {
			found = append(found, child)
		}
		found = append(found, child.findAll(name)...)
	}
	return found
}

// childText returns the trimmed text of the first descendant with the
// given tag name, or "" when absent or empty.
func (el *xmlElement) childText(name string) string {
	if found := el.findFirst(name); found != nil {
		return found.text
	}
	return ""
}
