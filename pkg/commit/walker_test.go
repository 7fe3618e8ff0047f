package commit

import (
	"testing"

	"github.com/vango-dev/vcommit/internal/errors"
	"github.com/vango-dev/vcommit/pkg/dom"
	"github.com/vango-dev/vcommit/pkg/vdom"
)

type testContext struct {
	effects []func()
	updates []*vdom.VNode
	errs    []error
}

func (c *testContext) RequestUpdate(node *vdom.VNode) { c.updates = append(c.updates, node) }
func (c *testContext) QueueEffect(fn func())          { c.effects = append(c.effects, fn) }
func (c *testContext) ReportError(err error)          { c.errs = append(c.errs, err) }

func (c *testContext) flush() {
	effects := c.effects
	c.effects = nil
	for _, fn := range effects {
		fn()
	}
}

type lifecycleRecorder struct {
	vdom.BaseComponent
	calls []string
}

func (p *lifecycleRecorder) ComponentDidMount()    { p.calls = append(p.calls, "mount") }
func (p *lifecycleRecorder) ComponentDidUpdate()   { p.calls = append(p.calls, "update") }
func (p *lifecycleRecorder) ComponentWillUnmount() { p.calls = append(p.calls, "unmount") }

// mount commits a fresh tree into a new document's body.
func mount(t *testing.T, root *vdom.VNode) (*dom.Document, *testContext) {
	t.Helper()
	doc := dom.NewDocument()
	ctx := &testContext{}
	root.EffectTag = vdom.EffectPlacement
	Commit(ctx, root, doc.Body())
	if len(ctx.errs) != 0 {
		t.Fatalf("mount errors: %v", ctx.errs)
	}
	return doc, ctx
}

func TestCommitMountsTree(t *testing.T) {
	root := vdom.Div(vdom.ID("app"),
		vdom.H1("Title"),
		vdom.Ul(vdom.Li("one"), vdom.Li("two")),
	)
	doc, _ := mount(t, root)

	want := `<div id="app"><h1>Title</h1><ul><li>one</li><li>two</li></ul></div>`
	if got := doc.Body().InnerHTML(); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
	vdom.Walk(root, func(n *vdom.VNode) bool {
		if n.EffectTag != vdom.EffectNone {
			t.Errorf("%v tag = %v, want None", n, n.EffectTag)
		}
		if n.Prev == nil || n.Prev.Prev != nil {
			t.Errorf("%v should hold a depth-1 snapshot", n)
		}
		return true
	})
}

func TestCommitIdempotent(t *testing.T) {
	root := vdom.Div(
		vdom.Span(vdom.Class("a"), "x"),
		vdom.Func("list", vdom.P("y"), vdom.P("z")),
	)
	doc, ctx := mount(t, root)
	before := doc.MutationCount()

	Commit(ctx, root, doc.Body())

	if got := doc.MutationCount(); got != before {
		t.Errorf("MutationCount() = %d after untagged commit, want %d", got, before)
	}
}

func TestCommitUpdate(t *testing.T) {
	label := vdom.Span(vdom.Class("old"), "x")
	root := vdom.Div(label)
	doc, ctx := mount(t, root)
	doc.TakeRecords()

	label.Props = vdom.Props{"class": "new"}
	label.EffectTag = vdom.EffectUpdate
	Commit(ctx, root, doc.Body())

	records := doc.TakeRecords()
	if len(records) != 1 || records[0].Op != dom.MutSetAttr {
		t.Fatalf("records = %v, want one SetAttr", records)
	}
	if got, _ := label.Dom.GetAttribute("class"); got != "new" {
		t.Errorf("class = %q, want new", got)
	}
}

func TestPlacementAnchoring(t *testing.T) {
	a := vdom.Li(vdom.Key("a"), "A")
	list := vdom.Ul(a)
	doc, ctx := mount(t, list)

	b := vdom.Li(vdom.Key("b"), "B")
	b.EffectTag = vdom.EffectPlacement
	list.SetChildren(b, a)
	Commit(ctx, list, doc.Body())

	children := list.Dom.Children()
	if len(children) != 2 || children[0] != b.Dom || children[1] != a.Dom {
		t.Errorf("ul = %s, want B before A", list.Dom.OuterHTML())
	}
}

func TestPlacementAfterPreviousSibling(t *testing.T) {
	a, c := vdom.Li("A"), vdom.Li("C")
	list := vdom.Ul(a, c)
	doc, ctx := mount(t, list)

	b := vdom.Li("B")
	b.EffectTag = vdom.EffectPlacement
	list.SetChildren(a, b, c)
	Commit(ctx, list, doc.Body())

	if got := list.Dom.InnerHTML(); got != "<li>A</li><li>B</li><li>C</li>" {
		t.Errorf("ul = %s", got)
	}
}

func TestPlacementThroughFunctionNode(t *testing.T) {
	tail := vdom.P("tail")
	group := vdom.Func("group")
	root := vdom.Div(group, tail)
	doc, ctx := mount(t, root)

	x, y := vdom.Span("x"), vdom.Span("y")
	x.EffectTag = vdom.EffectPlacement
	y.EffectTag = vdom.EffectPlacement
	group.SetChildren(x, y)
	group.EffectTag = vdom.EffectUpdate
	Commit(ctx, root, doc.Body())

	want := "<span>x</span><span>y</span><p>tail</p>"
	if got := root.Dom.InnerHTML(); got != want {
		t.Errorf("div = %s, want %s", got, want)
	}
}

func TestPlacementMoveSkipsNoop(t *testing.T) {
	a, b := vdom.Li("A"), vdom.Li("B")
	list := vdom.Ul(a, b)
	doc, ctx := mount(t, list)
	doc.TakeRecords()

	a.EffectTag = vdom.EffectPlacement
	b.EffectTag = vdom.EffectPlacement
	Commit(ctx, list, doc.Body())

	if records := doc.TakeRecords(); len(records) != 0 {
		t.Errorf("records = %v, want none for nodes already in position", records)
	}
}

func TestPlacementMovesNode(t *testing.T) {
	a, b := vdom.Li("A"), vdom.Li("B")
	list := vdom.Ul(a, b)
	doc, ctx := mount(t, list)
	doc.TakeRecords()

	a.EffectTag = vdom.EffectPlacement
	list.SetChildren(b, a)
	Commit(ctx, list, doc.Body())

	if got := list.Dom.InnerHTML(); got != "<li>B</li><li>A</li>" {
		t.Errorf("ul = %s", got)
	}
	if got := countOps(doc.TakeRecords(), dom.MutInsert); got != 1 {
		t.Errorf("inserts = %d, want 1", got)
	}
}

func TestNoMountParentReported(t *testing.T) {
	doc := dom.NewDocument()
	ctx := &testContext{}
	orphan := vdom.Div()
	CreateDom(doc, orphan)
	orphan.EffectTag = vdom.EffectPlacement

	tasks := CommitWork(ctx, orphan, nil, nil)

	if tasks != nil {
		t.Errorf("tasks = %d, want none", len(tasks))
	}
	if len(ctx.errs) != 1 || errors.Code(ctx.errs[0]) != "E101" {
		t.Fatalf("errs = %v, want one E101", ctx.errs)
	}
	if orphan.EffectTag != vdom.EffectPlacement {
		t.Error("abandoned node should keep its tag")
	}
}

func TestFailedPlacementContinuesSiblings(t *testing.T) {
	doc := dom.NewDocument()
	ctx := &testContext{}
	orphan := vdom.Div()
	CreateDom(doc, orphan)
	sib := vdom.Span()
	sib.Dom = doc.CreateElement("span")
	doc.Body().AppendChild(sib.Dom)
	orphan.Sibling = sib

	Drain(ctx, CommitWork(ctx, orphan, nil, nil))

	if sib.Prev == nil {
		t.Error("sibling of an abandoned node should still be committed")
	}
}

func TestMountVersusUpdateDispatch(t *testing.T) {
	ctx := &testContext{}
	inst := &lifecycleRecorder{}
	comp := vdom.Component("Recorder", inst, ctx, nil, vdom.Span("x"))
	root := vdom.Div(comp)

	doc := dom.NewDocument()
	root.EffectTag = vdom.EffectPlacement
	Commit(ctx, root, doc.Body())
	if len(inst.calls) != 0 {
		t.Fatal("lifecycle callbacks must not run inside the walk")
	}
	ctx.flush()
	if len(inst.calls) != 1 || inst.calls[0] != "mount" {
		t.Fatalf("calls = %v, want [mount]", inst.calls)
	}

	comp.EffectTag = vdom.EffectUpdate
	Commit(ctx, root, doc.Body())
	ctx.flush()
	if len(inst.calls) != 2 || inst.calls[1] != "update" {
		t.Errorf("calls = %v, want [mount update]", inst.calls)
	}

	Commit(ctx, root, doc.Body())
	ctx.flush()
	if len(inst.calls) != 2 {
		t.Errorf("untagged commit queued %v", inst.calls[2:])
	}
}

func TestRefTiming(t *testing.T) {
	ref := vdom.NewRef()
	stale := dom.NewDocument().CreateElement("div")
	ref.Current = stale
	input := vdom.Input(ref)

	mount(t, vdom.Form(input))

	if ref.Current != input.Dom || ref.Current == nil {
		t.Errorf("ref = %v, want %v", ref.Current, input.Dom)
	}
}

func TestComponentRootDom(t *testing.T) {
	ctx := &testContext{}
	inst := &lifecycleRecorder{}
	child := vdom.Section("body")
	comp := vdom.Component("Recorder", inst, ctx, nil, child)
	after := vdom.Footer()
	root := vdom.Main(comp, after)

	doc := dom.NewDocument()
	Commit(ctx, root, doc.Body())
	inst.SetRootDom(child.Dom)

	if mountParent(child, child.Dom) != root.Dom {
		t.Error("mount parent should skip an ancestor resolving to the node's own dom")
	}
	before := doc.MutationCount()
	Commit(ctx, root, doc.Body())
	if doc.MutationCount() != before {
		t.Error("settled component root should not be re-placed")
	}
}

func TestDeletionScope(t *testing.T) {
	ctx := &testContext{}
	inst := &lifecycleRecorder{}
	a := vdom.Li("A")
	b := vdom.Li(vdom.Component("Recorder", inst, ctx, nil, vdom.Span("B")))
	c := vdom.Li("C")
	list := vdom.Ul(a, b, c)

	doc := dom.NewDocument()
	Commit(ctx, list, doc.Body())
	ctx.flush()
	bDom := b.Dom
	doc.TakeRecords()

	b.EffectTag = vdom.EffectDeletion
	Commit(ctx, list, doc.Body())

	if got := list.Dom.InnerHTML(); got != "<li>A</li><li>C</li>" {
		t.Errorf("ul = %s", got)
	}
	if b.Dom != nil || bDom.IsConnected() {
		t.Error("deleted node should be detached and cleared")
	}
	if !a.Dom.IsConnected() || !c.Dom.IsConnected() {
		t.Error("siblings of a deleted node must stay attached")
	}
	if got := countOps(doc.TakeRecords(), dom.MutRemove); got != 1 {
		t.Errorf("removes = %d, want 1 for the subtree root", got)
	}
	if len(inst.calls) != 2 || inst.calls[1] != "unmount" {
		t.Errorf("calls = %v, want [mount unmount]", inst.calls)
	}
}

func TestCommitDeletionLeavesRootSiblings(t *testing.T) {
	a, b := vdom.Li("A"), vdom.Li("B")
	list := vdom.Ul(a, b)
	mount(t, list)

	Drain(nil, CommitDeletion(a))

	if b.Dom == nil || !b.Dom.IsConnected() {
		t.Error("CommitDeletion must not sweep the root's siblings")
	}
	if got := list.Dom.InnerHTML(); got != "<li>B</li>" {
		t.Errorf("ul = %s", got)
	}
}

func TestDeletionRunsCleanupsInReverse(t *testing.T) {
	var order []string
	fn := vdom.Func("effects", vdom.Span("x"))
	fn.UseCleanup("first", func() { order = append(order, "first") })
	fn.UseCleanup("second", func() { order = append(order, "second") })
	mount(t, vdom.Div(fn))

	Drain(nil, CommitDeletion(fn))

	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("order = %v, want [second first]", order)
	}
	if len(fn.Hooks) != 0 {
		t.Errorf("Hooks = %d, want 0", len(fn.Hooks))
	}
}

func TestDeletionKeepsComponentRootForChild(t *testing.T) {
	ctx := &testContext{}
	inst := &lifecycleRecorder{}
	child := vdom.Section()
	comp := vdom.Component("Recorder", inst, ctx, nil, child)
	root := vdom.Div(comp)
	doc := dom.NewDocument()
	Commit(ctx, root, doc.Body())
	inst.SetRootDom(child.Dom)
	doc.TakeRecords()

	Drain(ctx, CommitDeletion(comp))

	if got := countOps(doc.TakeRecords(), dom.MutRemove); got != 1 {
		t.Errorf("removes = %d, want 1", got)
	}
	if root.Dom.FirstChild() != nil {
		t.Error("component subtree should be detached")
	}
}

func TestCommitWorkOnDeletionRootStopsAtSubtree(t *testing.T) {
	a, b := vdom.Li("A"), vdom.Li(vdom.Class("old"), "B")
	list := vdom.Ul(a, b)
	doc, ctx := mount(t, list)
	doc.TakeRecords()

	b.Props["class"] = "new"
	b.EffectTag = vdom.EffectUpdate
	a.EffectTag = vdom.EffectDeletion
	Drain(ctx, CommitWork(ctx, a, nil, nil))

	records := doc.TakeRecords()
	if len(records) != 1 || records[0].Op != dom.MutRemove {
		t.Errorf("records = %v, want one Remove", records)
	}
	if got, _ := b.Dom.GetAttribute("class"); got != "old" {
		t.Errorf("sibling class = %q, want old", got)
	}
	if b.EffectTag != vdom.EffectUpdate {
		t.Errorf("sibling EffectTag = %v, want Update left for the next pass", b.EffectTag)
	}
}

func TestPlacementAnchorPrefersSiblingChain(t *testing.T) {
	x := vdom.Li("X")
	group := vdom.Func("group", x)
	list := vdom.Ul(group)
	root := vdom.Div(list, vdom.P("tail"))
	doc, ctx := mount(t, root)

	n := vdom.Li("N")
	n.EffectTag = vdom.EffectPlacement
	list.SetChildren(n, group)
	Commit(ctx, root, doc.Body())

	// The dom-less group's child anchors N; climbing to the list's sibling
	// first would find <p>, outside the list, and append N after X.
	if got := list.Dom.InnerHTML(); got != "<li>N</li><li>X</li>" {
		t.Errorf("ul = %s, want N before X", got)
	}
}

func TestFindAnchor(t *testing.T) {
	doc := dom.NewDocument()
	body := doc.Body()
	attached := func() *dom.Node {
		n := doc.CreateElement("i")
		body.AppendChild(n)
		return n
	}

	t.Run("immediate sibling", func(t *testing.T) {
		sib := vdom.Span()
		sib.Dom = attached()
		node := vdom.Span()
		vdom.Div(node, sib)
		if findAnchor(node) != sib.Dom {
			t.Error("anchor should be the attached immediate sibling")
		}
	})

	t.Run("later sibling", func(t *testing.T) {
		fresh, later := vdom.Span(), vdom.Span()
		later.Dom = attached()
		node := vdom.Span()
		vdom.Div(node, fresh, later)
		if findAnchor(node) != later.Dom {
			t.Error("anchor should skip unplaced siblings")
		}
	})

	t.Run("sibling chain before ancestors", func(t *testing.T) {
		inner := vdom.Func("inner", vdom.B())
		inner.Child.Dom = attached()
		uncle := vdom.Span()
		uncle.Dom = attached()
		node := vdom.Span()
		vdom.Div(vdom.Div(node, inner), uncle)
		if findAnchor(node) != inner.Child.Dom {
			t.Error("anchor should come from the sibling chain before any ancestor sibling")
		}
	})

	t.Run("ancestor sibling", func(t *testing.T) {
		uncle := vdom.Func("group", vdom.B())
		uncle.Child.Dom = attached()
		node := vdom.Span()
		vdom.Div(vdom.Func("inner", node), uncle)
		if findAnchor(node) != uncle.Child.Dom {
			t.Error("anchor should come from the first ancestor sibling subtree")
		}
	})

	t.Run("detached subtree skipped", func(t *testing.T) {
		detached := vdom.Span(vdom.B())
		detached.Dom = doc.CreateElement("span")
		detached.Child.Dom = attached()
		node := vdom.Span()
		vdom.Div(node, detached)
		if findAnchor(node) != nil {
			t.Error("children of a detached dom should not be anchors")
		}
	})
}

func TestDrainOrder(t *testing.T) {
	var order []string
	leaf := func(name string) Task {
		return func(vdom.Context) []Task {
			order = append(order, name)
			return nil
		}
	}
	parent := func(name string, children ...Task) Task {
		return func(vdom.Context) []Task {
			order = append(order, name)
			return children
		}
	}

	ran := Drain(nil, []Task{
		parent("a", leaf("a1"), leaf("a2")),
		leaf("b"),
	})

	want := []string{"a", "a1", "a2", "b"}
	if ran != len(want) {
		t.Errorf("ran = %d, want %d", ran, len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
			break
		}
	}
}
