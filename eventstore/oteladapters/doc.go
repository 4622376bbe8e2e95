// Package oteladapters plugs OpenTelemetry into the observability interfaces of the event store
// and of the lending command and query handlers.
//
//	tracer := otel.Tracer("lending-tracker")
//	meter := otel.Meter("lending-tracker")
//
//	es, err := postgresengine.NewEventStoreFromPGXPool(pool,
//		postgresengine.WithTracing(oteladapters.NewTracingCollector(tracer)),
//		postgresengine.WithMetrics(oteladapters.NewMetricsCollector(meter)),
//		postgresengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger("lending-tracker")),
//	)
package oteladapters
