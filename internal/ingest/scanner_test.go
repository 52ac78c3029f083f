package ingest

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

const validOrderJSON = `{"order": {"type": "Sushi", "source": "Kenji", "order_date": 1700000000000, "items": [{"name": "Nigiri", "quantity": 1, "price": 4}]}}`

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", validOrderJSON)
	writeFile(t, dir, "b.xml",
		`<orders><order><type>Thai</type><source>Lemongrass</source><order_date>1700000001000</order_date><items><item><name>Pad Thai</name><quantity>1</quantity><price>11</price></item></items></order></orders>`)
	writeFile(t, dir, "orders_state.json", `{"pending_orders": []}`)
	// Even a parsable order under the reserved name (any casing) must
	// stay out of the pipeline.
	writeFile(t, dir, "ORDERS_STATE.JSON", validOrderJSON)
	writeFile(t, dir, "notes.txt", "ignore me")
	writeFile(t, dir, "broken.json", `{"order": {`)

	ledger := NewLedger()
	orders := scanDirectory(dir, nil, "orders_state.json", ledger, testLogger())

	if len(orders) != 2 {
		t.Fatalf("got %d orders, want 2", len(orders))
	}
	if !ledger.Contains("a.json") || !ledger.Contains("b.xml") {
		t.Error("parsed files should be in the ledger")
	}
	if ledger.Contains("orders_state.json") || ledger.Contains("ORDERS_STATE.JSON") {
		t.Error("reserved snapshot file must never be ingested")
	}
	if ledger.Contains("broken.json") {
		t.Error("failed files must stay out of the ledger")
	}

	// Second scan with no new files yields nothing.
	if again := scanDirectory(dir, nil, "orders_state.json", ledger, testLogger()); len(again) != 0 {
		t.Errorf("second scan got %d orders, want 0", len(again))
	}

	// A new file is picked up.
	writeFile(t, dir, "c.json",
		`{"order": {"type": "Cafe", "source": "Beans", "order_date": 1700000002000, "items": [{"name": "Espresso", "quantity": 1, "price": 3}]}}`)
	if third := scanDirectory(dir, nil, "orders_state.json", ledger, testLogger()); len(third) != 1 {
		t.Errorf("third scan got %d orders, want 1", len(third))
	}
}

func TestScanDirectoryZeroOrderXMLRetried(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.xml", `<orders><order><broken></orders>`)

	ledger := NewLedger()
	if orders := scanDirectory(dir, nil, "orders_state.json", ledger, testLogger()); len(orders) != 0 {
		t.Fatalf("got %d orders from broken file", len(orders))
	}
	if ledger.Contains("bad.xml") {
		t.Fatal("file with zero orders must not be marked processed")
	}

	// Fix the file in place; the next scan imports it.
	if err := os.WriteFile(path,
		[]byte(`<orders><order><type>Thai</type><source>Lemongrass</source><order_date>1700000000000</order_date><items><item><name>Pad Thai</name></item></items></order></orders>`),
		0o644); err != nil {
		t.Fatal(err)
	}
	if orders := scanDirectory(dir, nil, "orders_state.json", ledger, testLogger()); len(orders) != 1 {
		t.Errorf("got %d orders after fix, want 1", len(orders))
	}
	if !ledger.Contains("bad.xml") {
		t.Error("fixed file should now be in the ledger")
	}
}

func TestResolveScanDirFallbacks(t *testing.T) {
	base := t.TempDir()
	fallback := filepath.Join(base, "orders")
	if err := os.Mkdir(fallback, 0o755); err != nil {
		t.Fatal(err)
	}

	missing := filepath.Join(base, "uploads")
	if got := resolveScanDir(missing, []string{fallback}); got != fallback {
		t.Errorf("resolveScanDir = %q, want fallback %q", got, fallback)
	}

	if got := resolveScanDir(missing, []string{filepath.Join(base, "also-missing")}); got != "" {
		t.Errorf("resolveScanDir = %q, want empty", got)
	}

	// The primary wins when it exists.
	if err := os.Mkdir(missing, 0o755); err != nil {
		t.Fatal(err)
	}
	if got := resolveScanDir(missing, []string{fallback}); got != missing {
		t.Errorf("resolveScanDir = %q, want primary %q", got, missing)
	}
}
