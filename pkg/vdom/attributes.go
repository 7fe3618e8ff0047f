package vdom

import (
	"maps"
	"strings"
)

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Prop sets an arbitrary property. The commit engine translates property
// spellings (className, htmlFor, strokeWidth) to attribute names.
func Prop(key string, value any) Attr { return attr(key, value) }

// Key sets the reconciliation key.
func Key(key string) Attr { return attr("key", key) }

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// ClassIf adds a class conditionally.
func ClassIf(condition bool, class string) Attr {
	if condition {
		return attr("class", class)
	}
	return Attr{} // Empty attr, will be ignored
}

// Style is a structured inline style. Keys use DOM property spelling
// (fontSize) or CSS spelling (font-size).
type Style map[string]string

// StyleAttr sets the style attribute from pre-serialized CSS text.
func StyleAttr(css string) Attr { return attr("style", css) }

// StyleMap sets the style attribute from a structured style.
func StyleMap(s Style) Attr { return attr("style", maps.Clone(s)) }

// Data creates a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Accessibility attributes

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("ariaLabel", label) }

// AriaHidden sets the aria-hidden attribute.
func AriaHidden(hidden bool) Attr { return attr("ariaHidden", hidden) }

// TabIndex sets the tabindex attribute.
func TabIndex(index int) Attr { return attr("tabIndex", index) }

// Link attributes

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Target sets the target attribute.
func Target(target string) Attr { return attr("target", target) }

// Form attributes

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Value sets the value attribute.
func Value(value string) Attr { return attr("value", value) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// For sets the for attribute (for labels).
func For(id string) Attr { return attr("htmlFor", id) }

// Boolean attributes take a flag so a re-render can switch them off.

// Disabled sets the disabled attribute.
func Disabled(on bool) Attr { return attr("disabled", on) }

// Checked sets the checked attribute.
func Checked(on bool) Attr { return attr("checked", on) }

// ReadOnly sets the readonly attribute.
func ReadOnly(on bool) Attr { return attr("readOnly", on) }

// Required sets the required attribute.
func Required(on bool) Attr { return attr("required", on) }

// Hidden sets the hidden attribute.
func Hidden(on bool) Attr { return attr("hidden", on) }

// Selected sets the selected attribute.
func Selected(on bool) Attr { return attr("selected", on) }

// SVG presentation attributes

// ViewBox sets the viewBox attribute.
func ViewBox(v string) Attr { return attr("viewBox", v) }

// Fill sets the fill attribute.
func Fill(color string) Attr { return attr("fill", color) }

// StrokeWidth sets the stroke-width attribute.
func StrokeWidth(w any) Attr { return attr("strokeWidth", w) }
