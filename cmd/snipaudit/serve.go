package main

import (
	"context"

	"github.com/dusk-indust/snipaudit/internal/mcptools"
)

// serveMCP exposes the audit over MCP on stdio until ctx is done.
func (a *app) serveMCP(ctx context.Context) error {
	ctx = a.context(ctx)
	svc := mcptools.NewAuditService(a.fanout(), a.loader(), a.client)
	a.logger.Info("serving MCP on stdio", "agents", a.cfg.Agents)
	return mcptools.RunStdio(ctx, mcptools.NewAuditMCPServer(svc))
}
