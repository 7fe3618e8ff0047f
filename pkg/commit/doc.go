// Package commit applies an effect-tagged virtual tree to a platform
// document.
//
// The walker visits the tree depth-first, child before sibling, and returns
// deferred Tasks instead of recursing, so arbitrarily deep trees commit on a
// bounded call stack. A driver drains the tasks and then runs the lifecycle
// effects the walk queued on the context:
//
//	tasks := commit.CommitWork(ctx, root, container, nil)
//	commit.Drain(ctx, tasks)
//
// Per node the walker places detached or PLACEMENT-tagged targets next to
// the closest attached sibling, reconciles UPDATE-tagged host nodes against
// their previous props, and hands DELETION-tagged nodes to CommitDeletion.
// Afterwards the node's tag is cleared and it snapshots itself as Prev for
// the next pass.
//
// Prop reconciliation issues only the mutations needed to move a node from
// its previous props to its next ones. Event handlers are *dom.Listener
// values compared by identity, boolean attributes are presence flags and
// structured styles are merged property by property.
package commit
