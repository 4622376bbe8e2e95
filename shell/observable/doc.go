// Package observable decorates command and query handlers with metrics, tracing and logging,
// so the handlers in features/ stay pure Query -> Decide -> Append workflows.
//
// Wrapping happens where the application is wired:
//
//	coreHandler := borrowbook.NewCommandHandler(eventStore)
//
//	handler, err := observable.NewCommandWrapper[borrowbook.Command](
//		coreHandler,
//		observable.WithCommandMetrics[borrowbook.Command](metricsCollector),
//		observable.WithCommandTracing[borrowbook.Command](tracingCollector),
//		observable.WithCommandContextualLogging[borrowbook.Command](contextualLogger),
//	)
//
// Tests of business logic use the core handlers directly.
package observable
