package vdom

import "github.com/vango-dev/vcommit/pkg/dom"

// EventHandler represents an event handler prop.
type EventHandler struct {
	Event   string        // "onclick", "oninput", etc.
	Handler *dom.Listener // Compared by identity during commit
}

// event creates an EventHandler with the given name and handler.
// The name is prefixed with "on" (e.g., "click" becomes "onclick").
// Each call wraps fn in a fresh listener; reuse a *dom.Listener through On
// to keep the same registration across renders.
func event(name string, fn func(*dom.Event)) EventHandler {
	return EventHandler{Event: "on" + name, Handler: dom.NewListener(fn)}
}

// On attaches an existing listener to the named event.
func On(name string, l *dom.Listener) EventHandler {
	return EventHandler{Event: "on" + name, Handler: l}
}

// OnClick handles click events.
func OnClick(fn func(*dom.Event)) EventHandler { return event("click", fn) }

// OnDblClick handles double-click events.
func OnDblClick(fn func(*dom.Event)) EventHandler { return event("dblclick", fn) }

// OnInput handles input events.
func OnInput(fn func(*dom.Event)) EventHandler { return event("input", fn) }

// OnChange handles change events.
func OnChange(fn func(*dom.Event)) EventHandler { return event("change", fn) }

// OnSubmit handles form submit events.
func OnSubmit(fn func(*dom.Event)) EventHandler { return event("submit", fn) }

// OnKeyDown handles keydown events.
func OnKeyDown(fn func(*dom.Event)) EventHandler { return event("keydown", fn) }

// OnFocus handles focus events.
func OnFocus(fn func(*dom.Event)) EventHandler { return event("focus", fn) }

// OnBlur handles blur events.
func OnBlur(fn func(*dom.Event)) EventHandler { return event("blur", fn) }

// OnMouseEnter handles mouseenter events.
func OnMouseEnter(fn func(*dom.Event)) EventHandler { return event("mouseenter", fn) }

// OnMouseLeave handles mouseleave events.
func OnMouseLeave(fn func(*dom.Event)) EventHandler { return event("mouseleave", fn) }
