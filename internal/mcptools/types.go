package mcptools

import "github.com/dusk-indust/snipaudit/internal/report"

// AuditDocumentInput is the input for the audit_document MCP tool. Inline
// text takes precedence over a path for the same source.
type AuditDocumentInput struct {
	Rules        string `json:"rules,omitempty" jsonschema:"the building-code rules text"`
	Document     string `json:"document,omitempty" jsonschema:"the renovation plan text to audit"`
	RulesPath    string `json:"rulesPath,omitempty" jsonschema:"path or URL of the rules file, used when rules is empty"`
	DocumentPath string `json:"documentPath,omitempty" jsonschema:"path or URL of the plan file, used when document is empty"`
}

// AuditDocumentOutput is the result of the audit_document MCP tool.
type AuditDocumentOutput struct {
	RunID     string                `json:"runId"`
	Agents    int                   `json:"agents"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
	Results   []report.ResultExport `json:"results"`
}

// CheckBackendInput is the (empty) input for the check_backend MCP tool.
type CheckBackendInput struct{}

// CheckBackendOutput is the result of the check_backend MCP tool.
type CheckBackendOutput struct {
	BaseURL        string `json:"baseUrl"`
	Model          string `json:"model"`
	Running        bool   `json:"running"`
	ModelAvailable bool   `json:"modelAvailable"`
	Message        string `json:"message,omitempty"`
}
