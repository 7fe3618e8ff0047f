package dom

import (
	"strings"
	"unicode"
)

// Style is the inline style declaration block of an element. It reads and
// writes the element's style attribute, so CSS text set verbatim through
// SetAttribute is visible here and vice versa.
type Style struct {
	node *Node
}

type declaration struct {
	name  string
	value string
}

// Style returns the inline style view of n.
func (n *Node) Style() *Style {
	return &Style{node: n}
}

// CSSPropertyName converts a camel-case property name (fontSize) to its CSS
// spelling (font-size). Custom properties and already-hyphenated names pass
// through unchanged.
func CSSPropertyName(name string) string {
	if strings.HasPrefix(name, "--") || strings.ContainsRune(name, '-') {
		return name
	}
	var sb strings.Builder
	for _, r := range name {
		if unicode.IsUpper(r) {
			sb.WriteByte('-')
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (s *Style) declarations() []declaration {
	text, _ := s.node.GetAttribute("style")
	var out []declaration
	for _, part := range splitDeclarations(text) {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, declaration{name: name, value: strings.TrimSpace(value)})
	}
	return out
}

// splitDeclarations splits CSS text on the semicolons that end
// declarations. Semicolons inside quotes or parentheses, as in
// url(data:image/png;base64,...), belong to the value.
func splitDeclarations(text string) []string {
	var parts []string
	depth := 0
	var quote rune
	start := 0
	for i, r := range text {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ';' && depth == 0:
			parts = append(parts, text[start:i])
			start = i + 1
		}
	}
	return append(parts, text[start:])
}

// write serializes decls into the style attribute. With no declarations
// left the attribute is removed.
func (s *Style) write(decls []declaration) {
	if len(decls) == 0 {
		s.node.removeAttr("style")
		return
	}
	var sb strings.Builder
	for i, d := range decls {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(d.name)
		sb.WriteString(": ")
		sb.WriteString(d.value)
		sb.WriteByte(';')
	}
	s.node.setAttr("style", sb.String())
}

// GetPropertyValue returns the declared value of a property, or "".
func (s *Style) GetPropertyValue(name string) string {
	name = CSSPropertyName(name)
	for _, d := range s.declarations() {
		if d.name == name {
			return d.value
		}
	}
	return ""
}

// Len returns the number of declarations.
func (s *Style) Len() int {
	return len(s.declarations())
}

// CSSText returns the serialized declaration block.
func (s *Style) CSSText() string {
	text, _ := s.node.GetAttribute("style")
	return text
}

// SetProperty declares a property. An empty value removes it, matching
// assignment of "" to a CSSStyleDeclaration field.
func (s *Style) SetProperty(name, value string) {
	if value == "" {
		s.RemoveProperty(name)
		return
	}
	name = CSSPropertyName(name)
	decls := s.declarations()
	found := false
	for i := range decls {
		if decls[i].name == name {
			decls[i].value = value
			found = true
			break
		}
	}
	if !found {
		decls = append(decls, declaration{name: name, value: value})
	}
	s.write(decls)
	s.node.doc.record(Mutation{Op: MutSetStyle, Target: s.node.id, Key: name, Value: value})
}

// RemoveProperty removes a declared property. Absent properties are not
// journalled.
func (s *Style) RemoveProperty(name string) {
	name = CSSPropertyName(name)
	decls := s.declarations()
	for i := range decls {
		if decls[i].name == name {
			s.write(append(decls[:i], decls[i+1:]...))
			s.node.doc.record(Mutation{Op: MutRemoveStyle, Target: s.node.id, Key: name})
			return
		}
	}
}
