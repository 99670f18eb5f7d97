package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dusk-indust/snipaudit/internal/ollama"
	"github.com/dusk-indust/snipaudit/internal/orchestrator"
	"gopkg.in/yaml.v3"
)

// Default file names, resolved against the config directory.
const (
	DefaultRulesFile    = "SNiP.md"
	DefaultDocumentFile = "doc.md"
	DefaultUpdateLog    = "update_log.txt"
)

// ProjectConfig holds settings loaded from snipaudit.yml.
type ProjectConfig struct {
	Model        string   `yaml:"model,omitempty"`
	OllamaURL    string   `yaml:"ollamaURL,omitempty"`
	Temperature  *float64 `yaml:"temperature,omitempty"`
	Agents       int      `yaml:"agents,omitempty"`
	RulesFile    string   `yaml:"rulesFile,omitempty"`
	DocumentFile string   `yaml:"documentFile,omitempty"`
	LogLevel     string   `yaml:"logLevel,omitempty"`
	LogFormat    string   `yaml:"logFormat,omitempty"`
	TraceFile    string   `yaml:"traceFile,omitempty"`
	UpdateLog    string   `yaml:"updateLog,omitempty"`
}

// Load attempts to read snipaudit.yml or snipaudit.yaml from dir. A missing
// file is not an error: the defaults are returned. Relative file paths are
// resolved against dir.
func Load(dir string) (*ProjectConfig, error) {
	cfg := &ProjectConfig{}
	for _, name := range []string{"snipaudit.yml", "snipaudit.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		break
	}
	cfg.applyDefaults(dir)
	return cfg, nil
}

func (c *ProjectConfig) applyDefaults(dir string) {
	if c.Model == "" {
		c.Model = ollama.DefaultModel
	}
	if c.OllamaURL == "" {
		c.OllamaURL = ollama.DefaultBaseURL
	}
	if c.Temperature == nil {
		t := ollama.DefaultTemperature
		c.Temperature = &t
	}
	if c.Agents == 0 {
		c.Agents = orchestrator.DefaultWorkers
	}
	if c.RulesFile == "" {
		c.RulesFile = DefaultRulesFile
	}
	if c.DocumentFile == "" {
		c.DocumentFile = DefaultDocumentFile
	}
	if c.UpdateLog == "" {
		c.UpdateLog = DefaultUpdateLog
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	c.RulesFile = resolve(dir, c.RulesFile)
	c.DocumentFile = resolve(dir, c.DocumentFile)
	c.UpdateLog = resolve(dir, c.UpdateLog)
	if c.TraceFile != "" {
		c.TraceFile = resolve(dir, c.TraceFile)
	}
}

// resolve joins relative local paths onto dir and leaves absolute paths and
// URLs (scheme://...) alone.
func resolve(dir, p string) string {
	if filepath.IsAbs(p) || strings.Contains(p, "://") {
		return p
	}
	return filepath.Join(dir, p)
}

// Validate reports every invalid setting at once. The agent count is left
// to the fan-out, which rejects it with a LaunchError.
func (c *ProjectConfig) Validate() error {
	var errs []error
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		errs = append(errs, fmt.Errorf("temperature must be within [0, 2], got %g", *c.Temperature))
	}
	if err := checkServerURL(c.OllamaURL); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logLevel must be one of debug, info, warn, error, got %q", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logFormat must be text or json, got %q", c.LogFormat))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// checkServerURL accepts only absolute http(s) URLs. Without a scheme the
// HTTP client fails every request with an error that does not look like a
// connection problem.
func checkServerURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("ollamaURL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("ollamaURL must be an http or https URL such as %s, got %q", ollama.DefaultBaseURL, raw)
	}
	return nil
}
