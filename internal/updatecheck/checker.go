// Package updatecheck records scheduled checks for newer versions of the
// rules knowledge base. No remote source is configured yet, so a check only
// appends a line to the update log.
package updatecheck

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// Checker appends check records to a log stored anywhere afs can write.
type Checker struct {
	fs      afs.Service
	logURL  string
	subject string
	now     func() time.Time
}

// Option configures a Checker.
type Option func(*Checker)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Checker) {
		c.now = now
	}
}

// New creates a Checker for the rules file subject, logging to logURL.
func New(fs afs.Service, logURL, subject string, opts ...Option) *Checker {
	if fs == nil {
		fs = afs.New()
	}
	c := &Checker{
		fs:      fs,
		logURL:  logURL,
		subject: path.Base(subject),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check builds the record for this check, appends it to the log and
// returns it.
func (c *Checker) Check(ctx context.Context) (string, error) {
	record := fmt.Sprintf("[%s] - Scheduled update check for %s started. "+
		"No external data source configured. Check complete.",
		c.now().Format("2006-01-02 15:04:05"), c.subject)

	if err := c.appendLine(ctx, record); err != nil {
		return record, fmt.Errorf("updatecheck: write %s: %w", c.logURL, err)
	}
	return record, nil
}

// appendLine rewrites the log with line added; afs has no append mode.
func (c *Checker) appendLine(ctx context.Context, line string) error {
	var buf bytes.Buffer

	exists, err := c.fs.Exists(ctx, c.logURL)
	if err != nil {
		return err
	}
	if exists {
		data, err := c.fs.DownloadWithURL(ctx, c.logURL)
		if err != nil {
			return err
		}
		buf.Write(data)
	}
	buf.WriteString(line)
	buf.WriteByte('\n')

	return c.fs.Upload(ctx, c.logURL, file.DefaultFileOsMode, &buf)
}
