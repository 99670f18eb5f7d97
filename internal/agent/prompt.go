package agent

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

// NoViolations is the answer the model is told to give for a clean plan.
const NoViolations = "No violations found."

// auditPrompt is the prompt template, rendered with promptData.
//
//go:embed prompts/audit.tmpl
var auditPrompt string

var promptTemplate = template.Must(template.New("audit").Parse(auditPrompt))

type promptData struct {
	Rules        string
	Document     string
	NoViolations string
}

// RenderPrompt builds the audit prompt for rules and document.
func RenderPrompt(rules, document string) (string, error) {
	var sb strings.Builder
	err := promptTemplate.Execute(&sb, promptData{
		Rules:        rules,
		Document:     document,
		NoViolations: NoViolations,
	})
	if err != nil {
		return "", fmt.Errorf("render audit prompt: %w", err)
	}
	return sb.String(), nil
}
