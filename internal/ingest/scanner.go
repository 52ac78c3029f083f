package ingest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"orderdesk/internal/domain"
)

// resolveScanDir returns the first existing directory among dir and
// the fallbacks, or "" when none exist.
func resolveScanDir(dir string, fallbacks []string) string {
	candidates := append([]string{dir}, fallbacks...)
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return ""
}

// scanDirectory enumerates dir once and parses every order file not
// yet in the ledger. JSON files are marked processed on a successful
// parse; XML files only when they produce at least one order, so a
// file that yields nothing stays eligible for retry after it is
// corrected.
func scanDirectory(dir string, fallbacks []string, reserved string, ledger *Ledger, logger *log.Logger) []*domain.Order {
	resolved := resolveScanDir(dir, fallbacks)
	if resolved == "" {
		logger.Error("orders directory not found", "dir", dir)
		return nil
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		logger.Error("reading orders directory", "dir", resolved, "err", err)
		return nil
	}

	var orders []*domain.Order
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(resolved, name)

		switch strings.ToLower(filepath.Ext(name)) {
		case ".json":
			if strings.EqualFold(name, reserved) || ledger.Contains(name) {
				continue
			}
			order, err := ReadJSONOrder(path)
			if err != nil {
				logger.Error("skipping JSON order file", "file", name, "err", err)
				continue
			}
			orders = append(orders, order)
			ledger.Add(name)

		case ".xml":
			if ledger.Contains(name) {
				continue
			}
			result := ImportXML(path)
			for _, importErr := range result.Errors {
				logger.Error("XML import error", "file", name, "err", importErr)
			}
			orders = append(orders, result.Orders...)
			if result.SuccessCount() > 0 {
				ledger.Add(name)
			}
		}
	}

	return orders
}
