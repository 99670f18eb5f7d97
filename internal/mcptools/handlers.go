package mcptools

import (
	"context"
	"fmt"
	"time"

	"github.com/dusk-indust/snipaudit/internal/orchestrator"
	"github.com/dusk-indust/snipaudit/internal/report"
	"github.com/dusk-indust/snipaudit/internal/source"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Backend is the part of the Ollama client the check_backend tool needs.
type Backend interface {
	Ping(ctx context.Context) error
	HasModel(ctx context.Context) (bool, error)
	Model() string
	BaseURL() string
}

// AuditService handles MCP tool calls by running the fan-out.
type AuditService struct {
	fanout  *orchestrator.FanOut
	loader  *source.Loader
	backend Backend
}

// NewAuditService creates an AuditService. A nil loader reads from the local
// file system. backend may be nil, in which case check_backend reports that
// no backend is configured.
func NewAuditService(fanout *orchestrator.FanOut, loader *source.Loader, backend Backend) *AuditService {
	if loader == nil {
		loader = source.NewLoader(nil)
	}
	return &AuditService{fanout: fanout, loader: loader, backend: backend}
}

// AuditDocument runs every agent on the given rules and document.
func (s *AuditService) AuditDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AuditDocumentInput,
) (*mcp.CallToolResult, AuditDocumentOutput, error) {
	task, err := s.task(ctx, input)
	if err != nil {
		return nil, AuditDocumentOutput{}, err
	}

	runID := uuid.NewString()
	results, err := s.fanout.Run(orchestrator.WithRunID(ctx, runID), task)
	if err != nil {
		return nil, AuditDocumentOutput{}, err
	}

	export := report.Export(runID, results, time.Now())
	return nil, AuditDocumentOutput{
		RunID:     export.RunID,
		Agents:    export.Agents,
		Succeeded: export.Succeeded,
		Failed:    export.Failed,
		Results:   export.Results,
	}, nil
}

// task builds the Task from inline text, reading through the loader any
// source given only as a path.
func (s *AuditService) task(ctx context.Context, input AuditDocumentInput) (*orchestrator.Task, error) {
	rules, err := s.text(ctx, orchestrator.SourceRules, input.Rules, input.RulesPath)
	if err != nil {
		return nil, err
	}
	document, err := s.text(ctx, orchestrator.SourceDocument, input.Document, input.DocumentPath)
	if err != nil {
		return nil, err
	}
	return orchestrator.NewTask(rules, document)
}

func (s *AuditService) text(ctx context.Context, name, inline, path string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	return s.loader.Read(ctx, name, path)
}

// CheckBackend reports whether the analysis backend is up and has the model.
func (s *AuditService) CheckBackend(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ CheckBackendInput,
) (*mcp.CallToolResult, CheckBackendOutput, error) {
	if s.backend == nil {
		return nil, CheckBackendOutput{Message: "no backend configured"}, nil
	}

	out := CheckBackendOutput{BaseURL: s.backend.BaseURL(), Model: s.backend.Model()}
	if err := s.backend.Ping(ctx); err != nil {
		out.Message = err.Error()
		return nil, out, nil
	}
	out.Running = true

	ok, err := s.backend.HasModel(ctx)
	if err != nil {
		out.Message = fmt.Sprintf("list models: %v", err)
		return nil, out, nil
	}
	out.ModelAvailable = ok
	if !ok {
		out.Message = fmt.Sprintf("model %q not found on server", out.Model)
	}
	return nil, out, nil
}
