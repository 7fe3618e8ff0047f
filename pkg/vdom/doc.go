// Package vdom provides the virtual node tree that vcommit commits to a
// live document.
//
// # Core Types
//
// VNode is one position in the UI tree. Nodes are linked as a
// first-child/next-sibling tree through Parent, Child and Sibling, so the
// commit walker can search sideways and upward for insertion anchors without
// re-deriving positions from child arrays. Each node carries an EffectTag set
// by the scheduler and a one-deep Prev snapshot used as the diff baseline.
//
// A node is exactly one of: a text node, a host element, a component node
// (backed by an Instance with lifecycle methods) or a function node (backed
// by hook records).
//
// # Element API
//
// Trees are built with variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    P("Content"),
//	    OnClick(func(e *dom.Event) { ... }),
//	)
//
// Children passed to a factory are linked into the parent's child chain in
// argument order.
//
// # Components
//
// Component instances embed BaseComponent and opt into lifecycle callbacks by
// implementing Mounter, Updater or Unmounter. An instance refers back to its
// owning node weakly, so a discarded subtree is not kept alive by a component
// that outlives it.
package vdom
