package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"orderdesk/internal/domain"
)

// orderWrapper mirrors the external JSON order envelope. Unknown
// fields at any level are ignored.
type orderWrapper struct {
	Order *domain.Order `json:"order"`
}

// ReadJSONOrder reads a single wrapped order from a JSON file. It
// returns an error for unreadable or unparsable files and for orders
// that fail the validity invariant.
func ReadJSONOrder(path string) (*domain.Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var wrapper orderWrapper
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parse JSON order from %s: %w", path, err)
	}
	if wrapper.Order == nil || !wrapper.Order.Valid() {
		return nil, fmt.Errorf("invalid order data in JSON file %s", path)
	}
	return wrapper.Order, nil
}

// ReadOrderFile dispatches on the file extension: .json files hold a
// single wrapped order, .xml files may hold several (the first valid
// one is returned). Anything else is an error.
func ReadOrderFile(path string) (*domain.Order, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReadJSONOrder(path)
	case ".xml":
		result := ImportXML(path)
		if result.SuccessCount() == 0 {
			return nil, fmt.Errorf("no valid orders found in XML file %s: %s",
				path, strings.Join(result.Errors, "; "))
		}
		return result.Orders[0], nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
}
