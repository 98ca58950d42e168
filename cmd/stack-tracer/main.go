// stack-tracer reconstructs function-call stack traces for an unmodified
// binary by automating an interactive debugger session over pipes.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mrzor/stack-tracer/internal/breakpoints"
	"github.com/mrzor/stack-tracer/internal/classify"
	"github.com/mrzor/stack-tracer/internal/config"
	"github.com/mrzor/stack-tracer/internal/otel"
	"github.com/mrzor/stack-tracer/internal/render"
	"github.com/mrzor/stack-tracer/internal/session"
	"github.com/mrzor/stack-tracer/internal/stack"
	"github.com/mrzor/stack-tracer/internal/symbols"
)

// Version information injected by GoReleaser at build time.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// setupOutput opens the report destination, defaulting to stdout.
func setupOutput(cfg *config.Config) (io.Writer, func(), error) {
	if cfg.Output == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(cfg.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	cleanup := func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing output file: %v", err)
		}
	}
	return f, cleanup, nil
}

// resolveBreakpoints runs the symbol extractor and builds the
// address-ascending install queue.
func resolveBreakpoints(ctx context.Context, cfg *config.Config, tools *config.ToolConfig) (*breakpoints.Queue, error) {
	src, err := symbols.NewSource(tools.NM, cfg.Filter)
	if err != nil {
		return nil, err
	}
	syms, err := src.Resolve(ctx, cfg.Binary)
	if err != nil {
		return nil, err
	}
	log.Printf("resolved %d function symbols from %s", len(syms), cfg.Binary)
	return breakpoints.NewQueue(syms), nil
}

// renderReport writes the dump collection in the configured format.
func renderReport(w io.Writer, cfg *config.Config, dumps []*stack.Dump) error {
	switch cfg.Format {
	case "html":
		return render.HTML(w, dumps, cfg.BaseURL)
	case "dot":
		return render.DOT(w, dumps)
	default:
		return render.Text(w, dumps)
	}
}

// exportSpans ships the dump collection to the configured OTLP endpoint.
func exportSpans(cfg *config.Config, dumps []*stack.Dump) error {
	otelCfg, err := config.ParseOTELConfig()
	if err != nil {
		return err
	}
	tp, err := otel.InitProvider(otelCfg, cfg.Binary, strings.Join(cfg.FullCommand(), " "))
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otel.ShutdownProvider(tp, shutdownCtx); err != nil {
			log.Printf("Error shutting down OTEL provider: %v", err)
		}
	}()

	exporter := render.NewSpanExporter(tp.Tracer("stack-tracer"))
	exporter.Export(context.Background(), dumps)
	return nil
}

func run() error {
	cfg, err := config.ParseArgs(os.Args)
	if err != nil {
		return err
	}
	tools, err := config.ParseToolConfig()
	if err != nil {
		return err
	}

	log.Printf("Starting stack-tracer %s (commit: %s)", version, commit)

	// An interrupt must kill the debugger child immediately, bypassing
	// the graceful quit phase.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	queue, err := resolveBreakpoints(ctx, cfg, tools)
	if err != nil {
		return err
	}

	sess, err := session.New(session.Options{
		GDBPath:      tools.GDB,
		Binary:       cfg.Binary,
		TargetArgs:   cfg.Args,
		TargetStdout: cfg.TargetStdout,
		Classifier:   classify.New(cfg.StripPrefix),
		Queue:        queue,
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	result, err := sess.Run(ctx)
	if err != nil {
		return err
	}

	out, cleanupOut, err := setupOutput(cfg)
	if err != nil {
		return err
	}
	defer cleanupOut()

	if err := renderReport(out, cfg, result.Dumps); err != nil {
		return err
	}

	if cfg.OTELExport {
		if err := exportSpans(cfg, result.Dumps); err != nil {
			return err
		}
	}

	if !result.Completed {
		return fmt.Errorf("debugger session ended before the target ran to completion")
	}
	return nil
}
