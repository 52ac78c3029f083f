package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "orderdesk/internal/adapters/mcp"
	"orderdesk/internal/adapters/sqlite"
	"orderdesk/internal/adapters/statefile"
	"orderdesk/internal/config"
	"orderdesk/internal/ports"
)

func main() {
	defaults := config.Default()
	snapshotFlag := flag.String("snapshot", defaults.SnapshotFile, "path to the order state snapshot")
	archiveFlag := flag.String("archive", defaults.ArchiveFile, "path to the canceled-order archive")
	flag.Parse()

	store := statefile.New(*snapshotFlag)

	var archive ports.CanceledArchive
	if a, err := sqlite.Open(*archiveFlag); err != nil {
		log.Printf("orderdesk-mcp: archive unavailable: %v", err)
	} else {
		archive = a
		defer a.Close()
	}

	mcpServer := server.NewMCPServer(
		"orderdesk-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check — returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, store, archive)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("orderdesk-mcp: %v", err)
	}
}
