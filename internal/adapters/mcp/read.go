// Package mcp exposes read-only order queries as MCP tools, working
// off the persisted snapshot so it can run alongside the desktop app.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"orderdesk/internal/domain"
	"orderdesk/internal/ports"
)

// RegisterReadTools adds all read-only order tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, store ports.SnapshotStore, archive ports.CanceledArchive) {
	s.AddTool(listOrdersTool(), listOrdersHandler(store))
	s.AddTool(searchOrdersTool(), searchOrdersHandler(store))
	s.AddTool(orderTotalsTool(), orderTotalsHandler(store))
	if archive != nil {
		s.AddTool(canceledOrdersTool(), canceledOrdersHandler(archive))
	}
}

// --- list_orders ---

func listOrdersTool() mcp.Tool {
	return mcp.NewTool("list_orders",
		mcp.WithDescription("List tracked orders. Without arguments lists every order; with a status lists only PENDING, IN_PROGRESS or COMPLETED orders."),
		mcp.WithString("status",
			mcp.Description("Status filter: PENDING, IN_PROGRESS or COMPLETED. Omit for all."),
		),
	)
}

func listOrdersHandler(store ports.SnapshotStore) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snap, err := loadSnapshot(store)
		if err != nil {
			return toolError(err)
		}

		var orders []*domain.Order
		switch strings.ToUpper(req.GetString("status", "")) {
		case "":
			orders = allOrders(snap)
		case string(domain.StatusPending):
			orders = snap.Pending
		case string(domain.StatusInProgress):
			orders = snap.InProgress
		case string(domain.StatusCompleted):
			orders = snap.Completed
		default:
			return toolError(fmt.Errorf("invalid status %q (expected PENDING, IN_PROGRESS or COMPLETED)", req.GetString("status", "")))
		}

		if len(orders) == 0 {
			return mcp.NewToolResultText("No orders."), nil
		}
		var sb strings.Builder
		for _, o := range orders {
			writeOrderLine(&sb, o)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- search_orders ---

func searchOrdersTool() mcp.Tool {
	return mcp.NewTool("search_orders",
		mcp.WithDescription("Search orders by keyword over type, source and item names."),
		mcp.WithString("query",
			mcp.Description("Search query"),
			mcp.Required(),
		),
	)
}

func searchOrdersHandler(store ports.SnapshotStore) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := strings.ToLower(req.GetString("query", ""))
		if query == "" {
			return toolError(fmt.Errorf("query is required"))
		}

		snap, err := loadSnapshot(store)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		matches := 0
		for _, o := range allOrders(snap) {
			if orderMatches(o, query) {
				writeOrderLine(&sb, o)
				matches++
			}
		}
		if matches == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func orderMatches(o *domain.Order, query string) bool {
	if strings.Contains(strings.ToLower(o.TypeOrDefault()), query) ||
		strings.Contains(strings.ToLower(o.SourceOrDefault()), query) {
		return true
	}
	for _, it := range o.Items {
		if strings.Contains(strings.ToLower(it.Name()), query) {
			return true
		}
	}
	return false
}

// --- order_totals ---

func orderTotalsTool() mcp.Tool {
	return mcp.NewTool("order_totals",
		mcp.WithDescription("Summarize order counts and dollar totals per workflow status."),
	)
}

func orderTotalsHandler(store ports.SnapshotStore) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snap, err := loadSnapshot(store)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		writeStatusSummary(&sb, "pending", snap.Pending)
		writeStatusSummary(&sb, "in-progress", snap.InProgress)
		writeStatusSummary(&sb, "completed", snap.Completed)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func writeStatusSummary(sb *strings.Builder, label string, orders []*domain.Order) {
	var total float64
	for _, o := range orders {
		total += o.Total()
	}
	fmt.Fprintf(sb, "%s: %d orders, %s\n", label, len(orders), domain.FormatCurrency(total))
}

// --- canceled_orders ---

func canceledOrdersTool() mcp.Tool {
	return mcp.NewTool("canceled_orders",
		mcp.WithDescription("List canceled orders from the archive, most recent first."),
	)
}

func canceledOrdersHandler(archive ports.CanceledArchive) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		orders, err := archive.List()
		if err != nil {
			return toolError(err)
		}
		if len(orders) == 0 {
			return mcp.NewToolResultText("No canceled orders."), nil
		}
		var sb strings.Builder
		for _, o := range orders {
			writeOrderLine(&sb, o)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func loadSnapshot(store ports.SnapshotStore) (*ports.Snapshot, error) {
	snap, err := store.Load()
	if err != nil {
		return nil, err
	}
	if snap == nil {
		snap = &ports.Snapshot{}
	}
	return snap, nil
}

func allOrders(snap *ports.Snapshot) []*domain.Order {
	all := make([]*domain.Order, 0, len(snap.Pending)+len(snap.InProgress)+len(snap.Completed))
	all = append(all, snap.Pending...)
	all = append(all, snap.InProgress...)
	all = append(all, snap.Completed...)
	return all
}

func writeOrderLine(sb *strings.Builder, o *domain.Order) {
	fmt.Fprintf(sb, "%s  %s  %s  %s  %d items\n",
		o.Status, o.TypeOrDefault(), o.SourceOrDefault(),
		domain.FormatTotal(o), len(o.Items))
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
