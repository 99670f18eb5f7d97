// Package source loads the rules and document texts of an audit task from
// any location an afs storage service can read (local paths, file://,
// mem://, cloud buckets).
package source

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dusk-indust/snipaudit/internal/orchestrator"
	"github.com/viant/afs"
)

var (
	// ErrNoLocation means no URL was configured for a source.
	ErrNoLocation = errors.New("no location configured")

	// ErrNotFound means the configured location holds nothing.
	ErrNotFound = errors.New("not found")

	// ErrNotUTF8 means the source is not valid UTF-8 text.
	ErrNotUTF8 = errors.New("not valid UTF-8 text")
)

// Loader reads task sources through an afs.Service.
type Loader struct {
	fs afs.Service
}

// NewLoader creates a Loader. A nil fs uses afs.New().
func NewLoader(fs afs.Service) *Loader {
	if fs == nil {
		fs = afs.New()
	}
	return &Loader{fs: fs}
}

// Load reads both sources and builds the Task. Any missing, empty or
// unreadable source is reported as *orchestrator.PreconditionError; the
// rules source is checked first.
func (l *Loader) Load(ctx context.Context, rulesURL, documentURL string) (*orchestrator.Task, error) {
	rules, err := l.Read(ctx, orchestrator.SourceRules, rulesURL)
	if err != nil {
		return nil, err
	}
	document, err := l.Read(ctx, orchestrator.SourceDocument, documentURL)
	if err != nil {
		return nil, err
	}
	return orchestrator.NewTask(rules, document)
}

// Read returns the text of one source. source names it in errors
// (orchestrator.SourceRules or orchestrator.SourceDocument).
func (l *Loader) Read(ctx context.Context, source, URL string) (string, error) {
	fail := func(err error) error {
		return &orchestrator.PreconditionError{Source: source, URL: URL, Err: err}
	}

	if strings.TrimSpace(URL) == "" {
		return "", fail(ErrNoLocation)
	}
	exists, err := l.fs.Exists(ctx, URL)
	if err != nil {
		return "", fail(err)
	}
	if !exists {
		return "", fail(ErrNotFound)
	}

	data, err := l.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return "", fail(err)
	}
	if !utf8.Valid(data) {
		return "", fail(ErrNotUTF8)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", fail(orchestrator.ErrEmptySource)
	}
	return text, nil
}
