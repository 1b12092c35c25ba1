package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/google/uuid"
	"github.com/ledgerlab/exchange/internal/batch"
	"github.com/ledgerlab/exchange/internal/core/ledger"
	"github.com/ledgerlab/exchange/internal/ingest"
	"github.com/ledgerlab/exchange/internal/logger"
	"github.com/ledgerlab/exchange/internal/report"
	"github.com/ledgerlab/exchange/internal/trace"
)

var build = "develop"

func main() {
	log := logger.New("Exchange").With("run_id", uuid.NewString())

	if err := run(log); err != nil {
		log.Error("startup", "ERROR", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx := context.Background()

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Args   conf.Args
		Env    string `conf:"default:DEV"`
		Input  string `conf:"help:transactions CSV path; first positional argument also works"`
		Output string `conf:"help:report path; stdout when empty"`
		Trace  struct {
			Endpoint       string  `conf:"default:localhost:4317"`
			SampleFraction float64 `conf:"default:1"`
			Discard        bool    `conf:"default:true"`
		}
	}{
		Version: conf.Version{
			Build: build,
		},
	}

	const prefix = "EXCHANGE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	input := cfg.Input
	if input == "" {
		input = cfg.Args.Num(0)
	}
	if input == "" {
		return errors.New("no input file: pass a transactions CSV path")
	}

	// =========================================================================
	// App Starting

	log.Info("starting run", "version", build)
	defer log.Info("run complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Info("startup", "config", out)

	// =========================================================================
	// Tracing Support

	provider, err := trace.NewProvider(ctx, trace.Config{
		Env:            cfg.Env,
		Endpoint:       cfg.Trace.Endpoint,
		Service:        "exchange",
		SampleFraction: cfg.Trace.SampleFraction,
		DiscardTraces:  cfg.Trace.Discard,
	})
	if err != nil {
		return fmt.Errorf("starting tracer provider: %w", err)
	}
	defer provider.Shutdown(context.Background())

	tracer := provider.Tracer("exchange")
	ctx, span := tracer.Start(ctx, "batch")
	defer span.End()

	v := batch.Values{
		TraceID: span.SpanContext().TraceID().String(),
		Tracer:  tracer,
		Started: time.Now().UTC(),
	}
	ctx = batch.SetValues(ctx, &v)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// =========================================================================
	// Process Transactions

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	exchange := ledger.NewExchange(log)
	if err := processStream(ctx, log, exchange, f); err != nil {
		return err
	}

	// =========================================================================
	// Report

	w := io.Writer(os.Stdout)
	if cfg.Output != "" {
		of, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer of.Close()
		w = of
	}

	if err := report.Write(w, exchange.Accounts()); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	return nil
}

// processStream feeds every input record to the exchange in arrival order.
// Undecodable rows are logged and skipped; only a stream-level failure or
// cancellation ends the run early.
func processStream(ctx context.Context, log *slog.Logger, exchange *ledger.Exchange, src io.Reader) error {
	ctx, span := batch.AddSpan(ctx, "processStream")
	defer span.End()

	r, err := ingest.NewReader(src)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run canceled: %w", err)
		}

		t, err := r.Next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			if errors.Is(err, ingest.ErrBadRow) {
				log.InfoContext(ctx, "skipping row", "ERROR", err)
				continue
			}
			return fmt.Errorf("reading input: %w", err)
		}

		// Outcomes are already logged by the exchange; nothing here
		// branches on them, a rejected record just leaves no trace
		// on the balances.
		exchange.Ingest(ctx, t)
	}
}
