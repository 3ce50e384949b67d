/*
Package observability provides lifecycle hooks for monitoring the courier engine.

  - Metrics records plans, emitted steps, deliveries and notices as Prometheus collectors.
  - LoggingHooks writes every event to a slog.Logger.
  - Aggregator keeps an in-process Snapshot, served by the HTTP adapter.

Hooks compose with domain.MergeHooks:

	hooks := domain.MergeHooks(
		observability.NewMetrics(prometheus.DefaultRegisterer).Hooks(),
		observability.LoggingHooks(logger),
	)
	eng := courier.New(courier.WithLifecycleHooks(hooks))
*/
package observability
