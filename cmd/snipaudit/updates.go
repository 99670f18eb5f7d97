package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dusk-indust/snipaudit/internal/updatecheck"
)

// checkUpdates records a scheduled update check of the rules file.
func (a *app) checkUpdates(ctx context.Context, stdout io.Writer) error {
	ctx = a.context(ctx)

	checker := updatecheck.New(a.fs, a.cfg.UpdateLog, a.cfg.RulesFile)
	record, err := checker.Check(ctx)
	fmt.Fprintln(stdout, record)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Check recorded in %s\n", a.cfg.UpdateLog)
	return nil
}
