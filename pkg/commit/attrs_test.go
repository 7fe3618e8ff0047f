package commit

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/vcommit/pkg/dom"
	"github.com/vango-dev/vcommit/pkg/vdom"
)

func countOps(records []dom.Mutation, op dom.MutationOp) int {
	n := 0
	for _, r := range records {
		if r.Op == op {
			n++
		}
	}
	return n
}

func TestPropToAttr(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"className", "class"},
		{"htmlFor", "for"},
		{"tabIndex", "tabindex"},
		{"readOnly", "readonly"},
		{"crossOrigin", "crossorigin"},
		{"ariaLabel", "aria-label"},
		{"ariaHidden", "aria-hidden"},
		{"aria-label", "aria-label"},
		{"strokeWidth", "stroke-width"},
		{"xmlnsXlink", "xmlns:xlink"},
		{"viewBox", "viewBox"},
		{"data-id", "data-id"},
		{"title", "title"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := PropToAttr(tt.key); got != tt.want {
				t.Errorf("PropToAttr(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestApplyAttribute(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		value       any
		attr        string
		wantPresent bool
		wantValue   string
	}{
		{"string", "title", "Hello", "title", true, "Hello"},
		{"class name", "className", "card", "class", true, "card"},
		{"number", "tabIndex", 3, "tabindex", true, "3"},
		{"aria", "ariaLabel", "Close", "aria-label", true, "Close"},
		{"kebab", "strokeWidth", 2, "stroke-width", true, "2"},
		{"non-boolean false", "ariaHidden", false, "aria-hidden", true, "false"},
		{"boolean true", "readOnly", true, "readonly", true, ""},
		{"boolean truthy", "hidden", "yes", "hidden", true, ""},
		{"boolean false", "disabled", false, "disabled", false, ""},
		{"nil", "title", nil, "title", false, ""},
		{"func", "title", func() {}, "title", false, ""},
		{"chan", "title", make(chan int), "title", false, ""},
		{"nil pointer", "title", (*int)(nil), "title", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := dom.NewDocument()
			n := doc.CreateElement("input")
			n.SetAttribute(tt.attr, "old")

			ApplyAttribute(n, tt.key, tt.value)

			got, ok := n.GetAttribute(tt.attr)
			if ok != tt.wantPresent {
				t.Fatalf("present = %v, want %v", ok, tt.wantPresent)
			}
			if got != tt.wantValue {
				t.Errorf("%s = %q, want %q", tt.attr, got, tt.wantValue)
			}
		})
	}
}

func TestUpdatePropsRoundTrip(t *testing.T) {
	doc := dom.NewDocument()
	n := doc.CreateElement("div")
	props := vdom.Props{
		"id":        "main",
		"className": "card",
		"disabled":  true,
		"style":     vdom.Style{"color": "red"},
		"onclick":   dom.NewListener(nil),
		"children":  []string{"ignored"},
	}

	UpdateProps(n, nil, props)
	first := doc.MutationCount()

	UpdateProps(n, props, props)
	if got := doc.MutationCount(); got != first {
		t.Errorf("MutationCount() = %d after re-applying, want %d", got, first)
	}
	if n.HasAttribute("children") {
		t.Error("children should never reach the platform node")
	}
}

func TestBooleanAttributeLaw(t *testing.T) {
	tests := []struct {
		name  string
		steps []any
		want  bool
	}{
		{"true", []any{true}, true},
		{"false after true", []any{true, false}, false},
		{"true after false", []any{false, true}, true},
		{"removed", []any{true, nil}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := dom.NewDocument()
			n := doc.CreateElement("input")
			var prev vdom.Props
			for _, v := range tt.steps {
				next := vdom.Props{"checked": v}
				UpdateProps(n, prev, next)
				prev = next
			}
			got, ok := n.GetAttribute("checked")
			if ok != tt.want {
				t.Errorf("checked present = %v, want %v", ok, tt.want)
			}
			if ok && got != "" {
				t.Errorf("checked = %q, want empty", got)
			}
		})
	}
}

func TestStyleMergeLaw(t *testing.T) {
	doc := dom.NewDocument()
	n := doc.CreateElement("div")
	prev := vdom.Props{"style": vdom.Style{"color": "red", "fontSize": "12px"}}
	next := vdom.Props{"style": vdom.Style{"color": "blue"}}

	UpdateProps(n, nil, prev)
	doc.TakeRecords()
	UpdateProps(n, prev, next)

	st := n.Style()
	if got := st.GetPropertyValue("color"); got != "blue" {
		t.Errorf("color = %q, want blue", got)
	}
	if got := st.GetPropertyValue("font-size"); got != "" {
		t.Errorf("font-size = %q, want empty", got)
	}
	records := doc.TakeRecords()
	if countOps(records, dom.MutRemoveStyle) != 1 || countOps(records, dom.MutSetStyle) != 1 {
		t.Errorf("records = %v, want one remove and one set", records)
	}
}

func TestStyleTransitions(t *testing.T) {
	tests := []struct {
		name string
		prev any
		next any
		want string
	}{
		{"string verbatim", nil, "color: red;", "color: red;"},
		{"map after string", "margin: 0;", map[string]any{"color": "red"}, "color: red;"},
		{"string after map", vdom.Style{"color": "red"}, "top: 0;", "top: 0;"},
		{"nil clears", vdom.Style{"color": "red"}, nil, ""},
		{"number clears", "color: red;", 5, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := dom.NewDocument()
			n := doc.CreateElement("div")
			prev := vdom.Props{"style": tt.prev}
			UpdateProps(n, nil, prev)
			UpdateProps(n, prev, vdom.Props{"style": tt.next})

			got, _ := n.GetAttribute("style")
			if got != tt.want {
				t.Errorf("style = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEventSwapLaw(t *testing.T) {
	doc := dom.NewDocument()
	n := doc.CreateElement("button")
	fnA, fnB := dom.NewListener(nil), dom.NewListener(nil)

	UpdateProps(n, nil, vdom.Props{"onClick": fnA})
	doc.TakeRecords()

	UpdateProps(n, vdom.Props{"onClick": fnA}, vdom.Props{"onClick": fnB})
	records := doc.TakeRecords()
	if got := countOps(records, dom.MutRemoveListener); got != 1 {
		t.Errorf("removes = %d, want 1", got)
	}
	if got := countOps(records, dom.MutAddListener); got != 1 {
		t.Errorf("adds = %d, want 1", got)
	}
	listeners := n.Listeners("click")
	if len(listeners) != 1 || listeners[0] != fnB {
		t.Errorf("click listeners = %v, want [fnB]", listeners)
	}

	UpdateProps(n, vdom.Props{"onClick": fnB}, vdom.Props{"onClick": fnB})
	if records := doc.TakeRecords(); len(records) != 0 {
		t.Errorf("unchanged handler issued %v", records)
	}

	UpdateProps(n, vdom.Props{"onClick": fnB}, vdom.Props{})
	if len(n.Listeners("click")) != 0 {
		t.Error("removed handler should be unregistered")
	}
}

func TestEventPropWithoutListenerIsLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	doc := dom.NewDocument()
	n := doc.CreateElement("button")
	UpdateProps(n, nil, vdom.Props{"onClick": func(*dom.Event) {}})

	if got := len(n.Listeners("click")); got != 0 {
		t.Errorf("click listeners = %d, want 0", got)
	}
	out := buf.String()
	if !strings.Contains(out, "event prop ignored") || !strings.Contains(out, "event=click") {
		t.Errorf("log = %q, want the ignored click handler", out)
	}
}

func TestUpdatePropsTextNode(t *testing.T) {
	doc := dom.NewDocument()
	n := doc.CreateTextNode("")

	UpdateProps(n, nil, vdom.Props{vdom.TextProp: "hello"})
	UpdateProps(n, vdom.Props{vdom.TextProp: "hello"}, vdom.Props{vdom.TextProp: "world"})

	if n.Text() != "world" {
		t.Errorf("Text() = %q, want world", n.Text())
	}
	if n.HasAttribute(vdom.TextProp) {
		t.Error("text props should bypass attributes")
	}
}

func TestSameValue(t *testing.T) {
	fn := func() {}
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil vs value", nil, "x", false},
		{"equal strings", "x", "x", true},
		{"different types", 1, "1", false},
		{"same func", fn, fn, false},
		{"equal maps", vdom.Style{"a": "1"}, vdom.Style{"a": "1"}, true},
		{"different maps", vdom.Style{"a": "1"}, vdom.Style{"a": "2"}, false},
		{"equal slices", []int{1}, []int{1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sameValue(tt.a, tt.b); got != tt.want {
				t.Errorf("sameValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateDom(t *testing.T) {
	doc := dom.NewDocument()

	svg := vdom.Svg(vdom.ViewBox("0 0 10 10"))
	n := CreateDom(doc, svg)
	if svg.Dom != n {
		t.Error("CreateDom should record the node on Dom")
	}
	if n.Namespace() != "svg" {
		t.Errorf("Namespace() = %q, want svg", n.Namespace())
	}
	if v, _ := n.GetAttribute("viewBox"); v != "0 0 10 10" {
		t.Errorf("viewBox = %q", v)
	}

	div := vdom.Div(vdom.Class("x"))
	div.Prev = &vdom.VNode{Props: vdom.Props{"class": "x"}}
	if d := CreateDom(doc, div); d.Namespace() != "" || !d.HasAttribute("class") {
		t.Error("CreateDom should apply every prop regardless of Prev")
	}

	text := vdom.Text("hi")
	if d := CreateDom(doc, text); !d.IsText() || d.Text() != "hi" {
		t.Errorf("text dom = %v", d)
	}

	if CreateDom(doc, vdom.Func("f")) != nil {
		t.Error("function nodes have no platform node")
	}
}
