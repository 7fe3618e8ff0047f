// Package inspect serves a run's passes over HTTP while it happens.
//
// A Hub records each pass published to it by a scenario runner and streams
// the pass frames (journal, errors, snapshot) over websockets. Clients that
// connect late get the earlier passes first, flagged as replay, so every
// client sees the full sequence. The Server adds JSON views of the passes,
// the latest container markup and the Prometheus metrics of the process.
//
//	hub := inspect.NewHub(logger)
//	srv := inspect.NewServer(hub, inspect.WithLogger(logger))
//	go srv.ListenAndServe(ctx, "localhost:7070")
//	runner := scenario.NewRunner(scenario.WithObserver(hub.Publish))
package inspect
