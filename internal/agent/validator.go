package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dusk-indust/snipaudit/internal/ctxlog"
)

// Compile-time interface check.
var _ Analyzer = (*Validator)(nil)

// ErrEmptyReport is returned when the model answers with nothing.
var ErrEmptyReport = errors.New("model returned an empty report")

// Validator audits a work plan against building-code rules with a language
// model. It holds no per-call state and is safe for concurrent use.
type Validator struct {
	gen Generator
}

// NewValidator creates a Validator backed by gen.
func NewValidator(gen Generator) *Validator {
	return &Validator{gen: gen}
}

// Analyze renders the audit prompt and returns the model's report.
// Its signature matches orchestrator.AnalyzeFunc.
func (v *Validator) Analyze(ctx context.Context, rules, document string) (string, error) {
	log := ctxlog.FromContext(ctx)

	prompt, err := RenderPrompt(rules, document)
	if err != nil {
		return "", err
	}

	log.Debug("agent started analysis", "prompt_bytes", len(prompt))
	start := time.Now()

	report, err := v.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("validator: %w", err)
	}
	if strings.TrimSpace(report) == "" {
		return "", ErrEmptyReport
	}

	log.Debug("agent finished analysis", "elapsed", time.Since(start))
	return report, nil
}
