package dom

import (
	"errors"
	"testing"
)

func TestNewDocumentSkeleton(t *testing.T) {
	doc := NewDocument()
	body := doc.Body()
	if body == nil {
		t.Fatal("Body() = nil")
	}
	if !body.IsConnected() {
		t.Error("body should be connected")
	}
	if got, want := doc.HTML(), "<html><head></head><body></body></html>"; got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
	if len(doc.TakeRecords()) != 0 {
		t.Error("skeleton construction should not be journalled")
	}
}

func TestInsertAndMove(t *testing.T) {
	doc := NewDocument()
	body := doc.Body()
	a := doc.CreateElement("p")
	b := doc.CreateElement("span")
	doc.TakeRecords()

	if err := body.AppendChild(a); err != nil {
		t.Fatalf("AppendChild: %v", err)
	}
	if err := body.InsertBefore(b, a); err != nil {
		t.Fatalf("InsertBefore: %v", err)
	}
	if got, want := body.InnerHTML(), "<span></span><p></p>"; got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}

	// Moving an attached node detaches it from its old position.
	if err := a.After(b); err != nil {
		t.Fatalf("After: %v", err)
	}
	if got, want := body.InnerHTML(), "<p></p><span></span>"; got != want {
		t.Errorf("InnerHTML() after move = %q, want %q", got, want)
	}

	records := doc.TakeRecords()
	if len(records) != 3 {
		t.Fatalf("records = %v, want 3 inserts", records)
	}
	for _, r := range records {
		if r.Op != MutInsert {
			t.Errorf("Op = %v, want Insert", r.Op)
		}
	}
	if records[1].Before != a.ID() {
		t.Errorf("Before = %d, want %d", records[1].Before, a.ID())
	}
}

func TestInsertErrors(t *testing.T) {
	doc := NewDocument()
	other := NewDocument()
	parent := doc.CreateElement("div")
	child := doc.CreateElement("span")
	stranger := doc.CreateElement("b")
	text := doc.CreateTextNode("x")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"ref not a child", parent.InsertBefore(child, stranger), ErrNotChild},
		{"wrong document", parent.AppendChild(other.CreateElement("i")), ErrWrongDocument},
		{"text container", text.AppendChild(child), ErrNotContainer},
		{"nil child", parent.AppendChild(nil), ErrNilNode},
		{"into itself", parent.AppendChild(parent), ErrHierarchy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("err = %v, want %v", tt.err, tt.want)
			}
		})
	}
}

func TestIsConnectedAndRemove(t *testing.T) {
	doc := NewDocument()
	outer := doc.CreateElement("div")
	inner := doc.CreateElement("span")
	outer.AppendChild(inner)

	if inner.IsConnected() {
		t.Error("detached subtree should not be connected")
	}
	doc.Body().AppendChild(outer)
	if !inner.IsConnected() {
		t.Error("inner should be connected after attaching outer")
	}
	if !doc.Body().Contains(inner) {
		t.Error("body should contain inner")
	}

	doc.TakeRecords()
	outer.Remove()
	if inner.IsConnected() {
		t.Error("inner should be disconnected after removing outer")
	}
	outer.Remove()
	if n := len(doc.TakeRecords()); n != 1 {
		t.Errorf("records = %d, want 1 (second Remove is a no-op)", n)
	}
}

func TestAttributes(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("input")
	el.SetAttribute("type", "text")
	el.SetAttribute("type", "email")

	if v, ok := el.GetAttribute("type"); !ok || v != "email" {
		t.Errorf("GetAttribute(type) = %q, %v, want email, true", v, ok)
	}
	el.RemoveAttribute("type")
	if el.HasAttribute("type") {
		t.Error("type should be removed")
	}

	doc.TakeRecords()
	el.RemoveAttribute("missing")
	if n := len(doc.TakeRecords()); n != 0 {
		t.Errorf("removing an absent attribute journalled %d records", n)
	}
}

func TestStyle(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	style := el.Style()

	style.SetProperty("color", "red")
	style.SetProperty("fontSize", "12px")
	if got, want := style.CSSText(), "color: red; font-size: 12px;"; got != want {
		t.Errorf("CSSText() = %q, want %q", got, want)
	}
	if got := style.GetPropertyValue("font-size"); got != "12px" {
		t.Errorf("GetPropertyValue(font-size) = %q, want 12px", got)
	}

	style.SetProperty("fontSize", "")
	if got := style.GetPropertyValue("fontSize"); got != "" {
		t.Errorf("fontSize = %q after clearing, want empty", got)
	}
	if style.Len() != 1 {
		t.Errorf("Len() = %d, want 1", style.Len())
	}

	// Verbatim CSS text is visible through the declaration view.
	el.SetAttribute("style", "margin: 0; --gap: 4px")
	if got := style.GetPropertyValue("--gap"); got != "4px" {
		t.Errorf("--gap = %q, want 4px", got)
	}
}

func TestStyleValuesWithSemicolons(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	el.SetAttribute("style", `background: url(data:image/png;base64,AAAA); content: "a;b"; color: red`)
	style := el.Style()

	tests := []struct {
		name string
		want string
	}{
		{"background", "url(data:image/png;base64,AAAA)"},
		{"content", `"a;b"`},
		{"color", "red"},
	}
	for _, tt := range tests {
		if got := style.GetPropertyValue(tt.name); got != tt.want {
			t.Errorf("GetPropertyValue(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
	if style.Len() != 3 {
		t.Errorf("Len() = %d, want 3", style.Len())
	}
}

func TestStyleRemovesEmptyAttribute(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	style := el.Style()

	style.SetProperty("color", "red")
	style.RemoveProperty("color")

	if el.HasAttribute("style") {
		t.Errorf("style attribute = %q, want it removed", el.OuterHTML())
	}
	if got := el.OuterHTML(); got != "<div></div>" {
		t.Errorf("OuterHTML() = %q, want <div></div>", got)
	}
}

func TestCSSPropertyName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"color", "color"},
		{"fontSize", "font-size"},
		{"borderTopLeftRadius", "border-top-left-radius"},
		{"font-size", "font-size"},
		{"--brandColor", "--brandColor"},
	}
	for _, tt := range tests {
		if got := CSSPropertyName(tt.in); got != tt.want {
			t.Errorf("CSSPropertyName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestListeners(t *testing.T) {
	doc := NewDocument()
	outer := doc.CreateElement("div")
	button := doc.CreateElement("button")
	outer.AppendChild(button)

	var calls []string
	inner := NewListener(func(e *Event) { calls = append(calls, "button:"+e.Type) })
	bubble := NewListener(func(e *Event) { calls = append(calls, "div:"+e.CurrentTarget.TagName()) })

	button.AddEventListener("click", inner)
	button.AddEventListener("click", inner)
	outer.AddEventListener("click", bubble)

	if n := len(button.Listeners("click")); n != 1 {
		t.Fatalf("listeners = %d, want 1 (duplicate add ignored)", n)
	}

	button.Dispatch(&Event{Type: "click"})
	if len(calls) != 2 || calls[0] != "button:click" || calls[1] != "div:div" {
		t.Errorf("calls = %v", calls)
	}

	button.RemoveEventListener("click", NewListener(nil))
	if n := len(button.Listeners("click")); n != 1 {
		t.Errorf("removing an unknown listener changed the list")
	}
	button.RemoveEventListener("click", inner)
	if n := len(button.Listeners("click")); n != 0 {
		t.Errorf("listeners = %d after removal, want 0", n)
	}
}

func TestStopPropagation(t *testing.T) {
	doc := NewDocument()
	outer := doc.CreateElement("div")
	inner := doc.CreateElement("span")
	outer.AppendChild(inner)

	reached := false
	inner.AddEventListener("click", NewListener(func(e *Event) { e.StopPropagation() }))
	outer.AddEventListener("click", NewListener(func(e *Event) { reached = true }))
	inner.Dispatch(&Event{Type: "click"})
	if reached {
		t.Error("event should not reach the parent after StopPropagation")
	}
}

func TestTextProperties(t *testing.T) {
	doc := NewDocument()
	text := doc.CreateTextNode("hello")
	text.SetProperty("nodeValue", "world")
	if text.Text() != "world" {
		t.Errorf("Text() = %q, want world", text.Text())
	}
	text.SetProperty("custom", 42)
	if text.Property("custom") != 42 {
		t.Errorf("Property(custom) = %v, want 42", text.Property("custom"))
	}
	text.SetProperty("nodeValue", nil)
	if text.Text() != "" {
		t.Errorf("Text() = %q, want empty for nil", text.Text())
	}
}

func TestCreateElementNS(t *testing.T) {
	doc := NewDocument()
	svg := doc.CreateElementNS(NamespaceSVG, "svg")
	if svg.Namespace() != "svg" {
		t.Errorf("Namespace() = %q, want svg", svg.Namespace())
	}
	records := doc.TakeRecords()
	if len(records) != 1 || records[0].Value != "svg" {
		t.Errorf("records = %v", records)
	}
}

func TestParse(t *testing.T) {
	doc, err := ParseString(`<div id="app"><p>hi</p></div>`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	app := doc.GetElementByID("app")
	if app == nil {
		t.Fatal("GetElementByID(app) = nil")
	}
	if got := app.InnerHTML(); got != "<p>hi</p>" {
		t.Errorf("InnerHTML() = %q", got)
	}
	if app.ID() == 0 || app.FirstChild().ID() == app.ID() {
		t.Error("parsed nodes should receive distinct IDs")
	}
	if got := app.Text(); got != "hi" {
		t.Errorf("Text() = %q, want hi", got)
	}
}

func TestObserve(t *testing.T) {
	doc := NewDocument()
	var seen []MutationOp
	doc.Observe(func(m Mutation) { seen = append(seen, m.Op) })
	el := doc.CreateElement("div")
	el.SetAttribute("id", "x")
	if len(seen) != 2 || seen[0] != MutCreateElement || seen[1] != MutSetAttr {
		t.Errorf("seen = %v", seen)
	}
	if doc.MutationCount() != 2 {
		t.Errorf("MutationCount() = %d, want 2", doc.MutationCount())
	}
}

func TestMutationString(t *testing.T) {
	tests := []struct {
		m    Mutation
		want string
	}{
		{Mutation{Op: MutCreateElement, Target: 4, Key: "div"}, "CreateElement #4 div"},
		{Mutation{Op: MutInsert, Target: 4, Parent: 3}, "Insert #4 into #3"},
		{Mutation{Op: MutInsert, Target: 4, Parent: 3, Before: 5}, "Insert #4 into #3 before #5"},
		{Mutation{Op: MutSetAttr, Target: 4, Key: "class", Value: "card"}, `SetAttr #4 class="card"`},
		{Mutation{Op: MutRemoveAttr, Target: 4, Key: "class"}, "RemoveAttr #4 class"},
		{Mutation{Op: MutationOp(0xFF), Target: 1}, "Unknown #1 "},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
