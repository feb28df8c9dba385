package main

import (
	"log"

	"github.com/clinical/chestpain-copilot/internal/mcp"
)

func main() {
	mcpServer := mcp.New()

	log.Println("chest-pain clinical MCP server starting on stdio")
	if err := mcpServer.Serve(); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}
