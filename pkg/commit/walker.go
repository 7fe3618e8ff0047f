package commit

import (
	"log/slog"

	"github.com/vango-dev/vcommit/internal/errors"
	"github.com/vango-dev/vcommit/pkg/dom"
	"github.com/vango-dev/vcommit/pkg/vdom"
)

// Task is a deferred unit of commit work. Running it returns follow-up
// tasks in tree order.
type Task func(ctx vdom.Context) []Task

// Reporter is implemented by contexts that collect structural errors.
// Without one, errors are logged with slog.Default().
type Reporter interface {
	ReportError(err error)
}

// Documenter is implemented by contexts that own the committed document.
// It is consulted when a host node needs a platform node and no resolved
// parent names one.
type Documenter interface {
	Document() *dom.Document
}

// CommitWork commits node against parent, the expected platform parent, and
// prevDom, the platform node of the previously committed sibling. Both may
// be nil. The returned tasks commit the node's child and then its sibling.
func CommitWork(ctx vdom.Context, node *vdom.VNode, parent, prevDom *dom.Node) []Task {
	if node == nil {
		return nil
	}

	if node.EffectTag == vdom.EffectDeletion {
		return CommitDeletion(node)
	}

	target := findDom(node)
	created := false
	if target == nil && node.IsHost() {
		doc := documentFor(ctx, node, parent)
		if doc == nil {
			report(ctx, errors.New("E101").WithNode(node.String()).WithPath(pathOf(node)))
			return siblingTask(node, parent, prevDom)
		}
		target = CreateDom(doc, node)
		created = true
	}

	if target != nil && needsPlacement(node, target) {
		resolved, ok := place(ctx, node, target, parent, prevDom)
		if !ok {
			return siblingTask(node, parent, prevDom)
		}
		parent = resolved
	}
	if node.EffectTag == vdom.EffectUpdate && node.Dom != nil && !created {
		UpdateDom(node, node.Dom)
	}

	var tasks []Task
	if child := node.Child; child != nil {
		// Dom-less nodes mount their children where they were mounted.
		childParent := node.Dom
		if childParent == nil {
			childParent = parent
		}
		tasks = append(tasks, func(ctx vdom.Context) []Task {
			return commitInTree(ctx, child, childParent, nil)
		})
	}
	if sib := node.Sibling; sib != nil {
		tasks = append(tasks, func(ctx vdom.Context) []Task {
			return commitInTree(ctx, sib, parent, target)
		})
	}

	if inst := node.Instance; inst != nil {
		if node.Prev == nil {
			if m, ok := inst.(vdom.Mounter); ok {
				ctx.QueueEffect(m.ComponentDidMount)
			}
		} else if node.EffectTag == vdom.EffectUpdate {
			if u, ok := inst.(vdom.Updater); ok {
				ctx.QueueEffect(u.ComponentDidUpdate)
			}
		}
	}

	if ref, ok := node.Props["ref"].(*vdom.Ref); ok && ref != nil && target != nil {
		ref.Current = target
	}

	node.EffectTag = vdom.EffectNone
	node.Prev = node.Snapshot()
	return tasks
}

// commitInTree commits a node reached through its parent's traversal.
// A deletion marker still linked into the tree is swept and the walk moves
// on to its sibling with the same parent and hint.
func commitInTree(ctx vdom.Context, node *vdom.VNode, parent, prevDom *dom.Node) []Task {
	if node == nil || node.EffectTag != vdom.EffectDeletion {
		return CommitWork(ctx, node, parent, prevDom)
	}
	tasks := CommitDeletion(node)
	if sib := node.Sibling; sib != nil {
		tasks = append(tasks, func(ctx vdom.Context) []Task {
			return commitInTree(ctx, sib, parent, prevDom)
		})
	}
	return tasks
}

// Drain runs tasks depth-first until none remain and returns how many ran.
func Drain(ctx vdom.Context, tasks []Task) int {
	stack := make([]Task, 0, len(tasks))
	push := func(ts []Task) {
		for i := len(ts) - 1; i >= 0; i-- {
			stack = append(stack, ts[i])
		}
	}
	push(tasks)

	ran := 0
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(t(ctx))
		ran++
	}
	return ran
}

// Commit commits the tree rooted at root and drains all follow-up work.
// It returns how many follow-up tasks ran.
func Commit(ctx vdom.Context, root *vdom.VNode, parent *dom.Node) int {
	return Drain(ctx, CommitWork(ctx, root, parent, nil))
}

func siblingTask(node *vdom.VNode, parent, prevDom *dom.Node) []Task {
	sib := node.Sibling
	if sib == nil {
		return nil
	}
	return []Task{func(ctx vdom.Context) []Task {
		return commitInTree(ctx, sib, parent, prevDom)
	}}
}

// findDom resolves the node's platform target: its own dom, else the root
// dom of its component instance.
func findDom(node *vdom.VNode) *dom.Node {
	if node.Dom != nil {
		return node.Dom
	}
	if node.Instance != nil {
		return node.Instance.RootDom()
	}
	return nil
}

// parentDom resolves the platform node an ancestor mounts its children in.
// A component's root dom takes precedence.
func parentDom(node *vdom.VNode) *dom.Node {
	if node.Instance != nil {
		if root := node.Instance.RootDom(); root != nil {
			return root
		}
	}
	return node.Dom
}

func needsPlacement(node *vdom.VNode, target *dom.Node) bool {
	if !target.IsConnected() {
		return true
	}
	if node.EffectTag != vdom.EffectPlacement {
		return false
	}
	return node.Instance == nil || node.Instance.RootDom() == nil
}

// place inserts target into the document and returns the parent it used.
func place(ctx vdom.Context, node *vdom.VNode, target, parent, prevDom *dom.Node) (*dom.Node, bool) {
	if parent == nil {
		parent = mountParent(node, target)
	}
	if parent == nil {
		report(ctx, errors.New("E101").WithNode(node.String()).WithPath(pathOf(node)))
		return nil, false
	}

	var anchor *dom.Node
	if prevDom == nil {
		anchor = findAnchor(node)
	}

	var err error
	switch {
	case prevDom != nil && prevDom.Parent() == parent:
		if prevDom.NextSibling() != target {
			err = prevDom.After(target)
		}
	case anchor != nil && anchor.Parent() == parent:
		if target.Parent() != parent || target.NextSibling() != anchor {
			err = parent.InsertBefore(target, anchor)
		}
	default:
		if target.Parent() != parent || parent.LastChild() != target {
			err = parent.AppendChild(target)
		}
	}
	if err != nil {
		report(ctx, errors.New("E102").WithNode(node.String()).WithPath(pathOf(node)).Wrap(err))
		return nil, false
	}
	return parent, true
}

// mountParent climbs from the node's parent, or its previous parent, to the
// first ancestor that resolves to a platform node other than target.
func mountParent(node *vdom.VNode, target *dom.Node) *dom.Node {
	p := node.Parent
	if p == nil && node.Prev != nil {
		p = node.Prev.Parent
	}
	for ; p != nil; p = p.Parent {
		if d := parentDom(p); d != nil && d != target {
			return d
		}
	}
	return nil
}

// findAnchor locates the attached platform node the target should precede:
// the immediate sibling's dom, then the rest of the sibling chain, then each
// ancestor's following siblings. The first attached dom found wins.
func findAnchor(node *vdom.VNode) *dom.Node {
	if sib := node.Sibling; sib != nil && sib.Dom != nil && sib.Dom.IsConnected() {
		return sib.Dom
	}
	if d := findConnectedDom(node.Sibling); d != nil {
		return d
	}
	for p := node.Parent; p != nil; p = p.Parent {
		if d := findConnectedDom(p.Sibling); d != nil {
			return d
		}
	}
	return nil
}

// findConnectedDom scans start, its descendants and its following siblings
// depth-first for an attached dom. Subtrees under a detached dom are skipped.
func findConnectedDom(start *vdom.VNode) *dom.Node {
	if start == nil {
		return nil
	}
	stack := []*vdom.VNode{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Sibling != nil {
			stack = append(stack, n.Sibling)
		}
		if n.Dom != nil {
			if n.Dom.IsConnected() {
				return n.Dom
			}
			continue
		}
		if n.Child != nil {
			stack = append(stack, n.Child)
		}
	}
	return nil
}

// documentFor finds the document a new platform node belongs to.
func documentFor(ctx vdom.Context, node *vdom.VNode, parent *dom.Node) *dom.Document {
	if parent != nil {
		return parent.Document()
	}
	if d, ok := ctx.(Documenter); ok {
		if doc := d.Document(); doc != nil {
			return doc
		}
	}
	for p := node.Parent; p != nil; p = p.Parent {
		if d := parentDom(p); d != nil {
			return d.Document()
		}
	}
	return nil
}

func pathOf(node *vdom.VNode) []string {
	var path []string
	for n := node; n != nil; n = n.Parent {
		path = append([]string{n.String()}, path...)
	}
	return path
}

func report(ctx vdom.Context, err error) {
	if r, ok := ctx.(Reporter); ok {
		r.ReportError(err)
		return
	}
	slog.Default().Error("commit: structural error", "error", err)
}
