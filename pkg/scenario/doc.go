// Package scenario replays scripted trees through the commit runtime.
//
// A scenario is a list of passes. Each pass names the whole tree to commit;
// nodes keep their identity across passes through their id, or their
// position under their parent when they have none. Between two passes a
// reused node is tagged for placement when it changed parent or index, and
// for update when its props changed. Nodes that disappear from the tree are
// deleted, before the tree is committed.
//
//	name: list
//	passes:
//	  - tree:
//	      tag: ul
//	      children:
//	        - {id: a, tag: li, children: [{text: A}]}
//	        - {id: b, tag: li, props: {className: done}, children: [{text: B}]}
//	  - delete: [a]
//	    tree:
//	      tag: ul
//	      children:
//	        - {id: b, tag: li, props: {className: done}, children: [{text: B}]}
//
// A node that moved and changed props in the same pass is tagged for
// placement; its props are reconciled by an effect once the walk is done.
// The effect tag can be forced per node with effect: placement, update or
// none.
//
// Component nodes are backed by a component that logs its lifecycle; function
// nodes register the named cleanup hooks. Event props with string values
// become listeners that log the label when an event is dispatched.
package scenario
