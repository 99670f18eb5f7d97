package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dusk-indust/snipaudit/internal/orchestrator"
	"github.com/dusk-indust/snipaudit/internal/report"
	"github.com/google/uuid"
)

// audit loads the task, runs every agent on it and prints the results.
func (a *app) audit(ctx context.Context, stdout io.Writer) error {
	ctx = a.context(ctx)

	task, err := a.loader().Load(ctx, a.cfg.RulesFile, a.cfg.DocumentFile)
	if err != nil {
		return err
	}
	a.logger.Info("rules and document loaded", "rules", a.cfg.RulesFile, "document", a.cfg.DocumentFile)

	var opts []orchestrator.Option
	var wg sync.WaitGroup
	if a.flags.Verbose {
		progress := orchestrator.NewProgressReporter(a.cfg.Agents)
		opts = append(opts, orchestrator.WithProgress(progress.Emit))
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ev := range progress.Subscribe() {
				fmt.Fprintln(a.stderr, orchestrator.FormatProgress(ev))
			}
		}()
		defer func() {
			progress.Close()
			wg.Wait()
		}()
	}

	fanout := a.fanout(opts...)
	runID := uuid.NewString()
	a.logger.Info("starting agents for parallel analysis", "agents", fanout.Workers(), "run", runID)

	results, err := fanout.Run(orchestrator.WithRunID(ctx, runID), task)
	if err != nil {
		return err
	}

	rep := report.New(stdout, report.WithColor(a.flags.Color))
	if a.flags.Format == "json" {
		return rep.JSON(runID, results, time.Now())
	}
	return rep.Text(results)
}
