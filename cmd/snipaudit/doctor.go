package main

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var errBackendNotReady = errors.New("analysis backend is not ready")

// doctor checks that the Ollama server answers and has the configured model.
func (a *app) doctor(ctx context.Context, stdout io.Writer) error {
	ctx = a.context(ctx)

	fmt.Fprintf(stdout, "Ollama server: %s\n", a.client.BaseURL())
	if err := a.client.Ping(ctx); err != nil {
		fmt.Fprintf(stdout, "  ✗ not reachable: %v\n", err)
		fmt.Fprintln(stdout, "  "+a.connectivityHint())
		return errBackendNotReady
	}
	fmt.Fprintln(stdout, "  ✓ running")

	fmt.Fprintf(stdout, "Model: %s\n", a.client.Model())
	ok, err := a.client.HasModel(ctx)
	if err != nil {
		fmt.Fprintf(stdout, "  ✗ cannot list models: %v\n", err)
		return errBackendNotReady
	}
	if !ok {
		fmt.Fprintf(stdout, "  ✗ not installed (run `ollama pull %s`)\n", a.client.Model())
		return errBackendNotReady
	}
	fmt.Fprintln(stdout, "  ✓ available")
	return nil
}
