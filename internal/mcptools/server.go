package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewAuditMCPServer creates an MCP server with the audit_document and
// check_backend tools registered.
func NewAuditMCPServer(svc *AuditService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "snipaudit",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "audit_document",
		Description: "Audit a renovation plan against building-code (SNiP) rules. Runs every configured agent on the same input and returns one result per agent, in agent order; failed agents are reported, not dropped.",
	}, svc.AuditDocument)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_backend",
		Description: "Check whether the Ollama server is reachable and the audit model is installed.",
	}, svc.CheckBackend)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
