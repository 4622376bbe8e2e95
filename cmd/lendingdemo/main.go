// Command lendingdemo plays through a day at the library: books and members are added,
// books are borrowed and returned, and refused requests are printed.
// The status report is printed after each step that changes the state.
//
// Usage:
//
//	lendingdemo [-store=memory|postgres] [-create-schema]
//
// The postgres store is configured with the LENDING_* environment variables, see package config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AntonStoeckl/lending-tracker-go/eventstore/memoryengine"
	"github.com/AntonStoeckl/lending-tracker-go/eventstore/oteladapters"
	"github.com/AntonStoeckl/lending-tracker-go/eventstore/postgresengine"
	"github.com/AntonStoeckl/lending-tracker-go/shell"
	"github.com/AntonStoeckl/lending-tracker-go/shell/config"
)

const (
	storeMemory   = "memory"
	storePostgres = "postgres"

	instrumentationName = "github.com/AntonStoeckl/lending-tracker-go/cmd/lendingdemo"
)

var errUnknownStore = errors.New("unknown store, use memory or postgres")

type flags struct {
	store        string
	createSchema bool
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("lending demo failed: %v", err)
	}
}

func run() error {
	f := parseFlags()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}

	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(instrumentationName, logHandler)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	providers, err := cfg.NewObservabilityProviders(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up observability: %w", err)
	}
	defer shutdown(providers)

	metrics := oteladapters.NewMetricsCollector(providers.MeterProvider.Meter(instrumentationName))
	tracing := oteladapters.NewTracingCollector(providers.TracerProvider.Tracer(instrumentationName))

	eventStore, closeStore, err := openEventStore(ctx, cfg, f, logger, metrics, tracing)
	if err != nil {
		return err
	}
	defer closeStore()

	d, err := newDemo(cfg.LibraryName, eventStore, os.Stdout, logger, metrics, tracing)
	if err != nil {
		return err
	}

	return d.run(ctx)
}

func parseFlags() flags {
	f := flags{}

	flag.StringVar(&f.store, "store", storeMemory, "event store: memory or postgres")
	flag.BoolVar(&f.createSchema, "create-schema", false, "create the events table before running (postgres only)")
	flag.Parse()

	return f
}

func openEventStore(
	ctx context.Context,
	cfg config.Config,
	f flags,
	logger shell.ContextualLogger,
	metrics shell.MetricsCollector,
	tracing shell.TracingCollector,
) (shell.EventStore, func(), error) {

	switch f.store {
	case storeMemory:
		return memoryengine.NewEventStore(memoryengine.WithContextualLogger(logger)), func() {}, nil

	case storePostgres:
		eventStore, closeStore, err := cfg.OpenEventStore(ctx,
			postgresengine.WithContextualLogger(logger),
			postgresengine.WithMetrics(metrics),
			postgresengine.WithTracing(tracing),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open the postgres event store: %w", err)
		}

		if f.createSchema {
			if err = eventStore.CreateSchema(ctx); err != nil {
				closeStore()
				return nil, nil, fmt.Errorf("failed to create the schema: %w", err)
			}
		}

		return eventStore, closeStore, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", errUnknownStore, f.store)
}

func shutdown(providers *config.ObservabilityProviders) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := providers.Shutdown(ctx); err != nil {
		log.Printf("observability shutdown failed: %v", err)
	}
}
