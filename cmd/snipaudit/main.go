package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dusk-indust/snipaudit/internal/orchestrator"
)

// CLI flags parsed from command line.
type cliFlags struct {
	ConfigDir string
	Format    string
	Color     bool
	Verbose   bool
	ServeMCP  bool
	Version   bool
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	ctx, stop := notifyInterrupt(context.Background(), os.Stderr, os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// notifyInterrupt returns a context canceled by the first of sigs. The
// signals are released right after, so a second one gets the default
// handling and terminates the process even while agents are still blocked
// on the backend.
func notifyInterrupt(parent context.Context, warn io.Writer, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	done := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
			cancel()
		})
	}

	go func() {
		select {
		case sig := <-ch:
			signal.Stop(ch)
			fmt.Fprintf(warn, "received %v: waiting for agents; interrupt again to abort\n", sig)
			cancel()
		case <-done:
		}
	}()
	return ctx, stop
}

// exitCode maps a top-level error to the process exit status. Slot failures
// never reach here: a completed run exits 0.
func exitCode(err error) int {
	var pre *orchestrator.PreconditionError
	if errors.As(err, &pre) {
		return 2
	}
	var launch *orchestrator.LaunchError
	if errors.As(err, &launch) {
		return 3
	}
	return 1
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var flags cliFlags

	fs := flag.NewFlagSet("snipaudit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&flags.ConfigDir, "config-dir", ".", "directory holding snipaudit.yml; relative file paths resolve against it")
	fs.StringVar(&flags.Format, "format", "text", "report format: text or json")
	fs.BoolVar(&flags.Color, "color", false, "color the text report")
	fs.BoolVar(&flags.Verbose, "verbose", false, "print per-agent progress to stderr")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as an MCP server on stdio")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Fprintln(stdout, version)
		return nil
	}

	if flags.Format != "text" && flags.Format != "json" {
		return fmt.Errorf("invalid -format %q: must be text or json", flags.Format)
	}

	app, err := newApp(flags, stderr)
	if err != nil {
		return err
	}
	defer app.close()

	if flags.ServeMCP {
		return app.serveMCP(ctx)
	}

	switch cmd := fs.Arg(0); cmd {
	case "":
		return app.audit(ctx, stdout)
	case "doctor":
		return app.doctor(ctx, stdout)
	case "check-updates":
		return app.checkUpdates(ctx, stdout)
	default:
		return fmt.Errorf("unknown command %q (want doctor or check-updates)", cmd)
	}
}
