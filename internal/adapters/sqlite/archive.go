// Package sqlite stores canceled orders in a local SQLite database so
// the history survives restarts and stays queryable.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"orderdesk/internal/domain"
	"orderdesk/internal/ports"
)

// Archive implements ports.CanceledArchive on SQLite.
type Archive struct {
	db   *sql.DB
	path string
}

var _ ports.CanceledArchive = (*Archive)(nil)

// Open creates or opens the archive database at path.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS canceled_orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT,
			order_type TEXT,
			order_date INTEGER NOT NULL,
			total REAL NOT NULL,
			payload TEXT NOT NULL,
			canceled_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_canceled_source ON canceled_orders(source);
		CREATE INDEX IF NOT EXISTS idx_canceled_date ON canceled_orders(order_date);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup archive database: %w", err)
	}

	return &Archive{db: db, path: path}, nil
}

// Append records one canceled order.
func (a *Archive) Append(order *domain.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode canceled order: %w", err)
	}
	_, err = a.db.Exec(
		`INSERT INTO canceled_orders (source, order_type, order_date, total, payload, canceled_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		order.SourceOrDefault(), order.TypeOrDefault(), order.OrderDate,
		order.Total(), string(payload), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert canceled order: %w", err)
	}
	return nil
}

// List returns every canceled order, most recently canceled first.
func (a *Archive) List() ([]*domain.Order, error) {
	rows, err := a.db.Query(`SELECT payload FROM canceled_orders ORDER BY canceled_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query canceled orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan canceled order: %w", err)
		}
		var order domain.Order
		if err := json.Unmarshal([]byte(payload), &order); err != nil {
			return nil, fmt.Errorf("decode canceled order: %w", err)
		}
		orders = append(orders, &order)
	}
	return orders, rows.Err()
}

// Count returns the number of archived orders.
func (a *Archive) Count() (int, error) {
	var count int
	if err := a.db.QueryRow(`SELECT COUNT(*) FROM canceled_orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count canceled orders: %w", err)
	}
	return count, nil
}

// Clear removes every archived order.
func (a *Archive) Clear() error {
	if _, err := a.db.Exec(`DELETE FROM canceled_orders`); err != nil {
		return fmt.Errorf("clear canceled orders: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}
