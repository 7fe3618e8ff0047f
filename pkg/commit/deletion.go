package commit

import "github.com/vango-dev/vcommit/pkg/vdom"

// CommitDeletion tears down node and its subtree. Unmount callbacks and
// hook cleanups run synchronously, before the node's dom is detached.
// The node's own siblings are left alone; descendants are swept by the
// returned tasks.
func CommitDeletion(node *vdom.VNode) []Task {
	return sweep(node, true)
}

func sweep(node *vdom.VNode, root bool) []Task {
	switch {
	case node.Instance != nil:
		if u, ok := node.Instance.(vdom.Unmounter); ok {
			u.ComponentWillUnmount()
		}
	case node.Kind == vdom.KindFunction:
		for len(node.Hooks) > 0 {
			last := len(node.Hooks) - 1
			h := node.Hooks[last]
			node.Hooks = node.Hooks[:last]
			vdom.RunCleanup(h)
		}
	}

	if d := node.Dom; d != nil {
		// A component's root dom belongs to the child that created it.
		if d.IsConnected() && (node.Instance == nil || node.Instance.RootDom() != d) {
			d.Remove()
		}
		node.Dom = nil
	}

	var tasks []Task
	if child := node.Child; child != nil {
		tasks = append(tasks, func(vdom.Context) []Task { return sweep(child, false) })
	}
	if sib := node.Sibling; sib != nil && !root {
		tasks = append(tasks, func(vdom.Context) []Task { return sweep(sib, false) })
	}
	return tasks
}
