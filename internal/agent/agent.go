// Package agent holds the validation agent: it turns a (rules, document)
// pair into an audit prompt and asks a language model for the report.
package agent

import "context"

// Generator produces a completion for a prompt. *ollama.Client implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Analyzer audits a document against a set of rules.
type Analyzer interface {
	Analyze(ctx context.Context, rules, document string) (string, error)
}
