// Package runtime drives commit passes.
//
// A Runtime owns the container a tree is mounted into and is the
// vdom.Context its components see. Each call to Commit sweeps the given
// deletions, commits the root, drains the resulting tasks and then runs the
// lifecycle effects the walk queued, returning the journalled mutations:
//
//	rt := runtime.New(doc.Body(), runtime.WithMetrics(runtime.NewMetrics()))
//	res, err := rt.Commit(ctx, root)
//	if err != nil {
//	    return err
//	}
//	for _, m := range res.Mutations {
//	    fmt.Println(m)
//	}
//
// Deciding when to render is left to the caller: Pending reports the nodes
// that asked for an update since the last pass.
package runtime
