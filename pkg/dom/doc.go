// Package dom provides the live platform document that vcommit mutates.
//
// The document is an in-memory tree backed by golang.org/x/net/html nodes.
// It supports the subset of the browser DOM the commit engine needs: node
// creation, insertion and removal, attributes, inline style declarations,
// event listeners and plain properties.
//
// # Mutation Journal
//
// Every mutating call is recorded as a Mutation on the owning Document.
// The journal is the source of truth for tests that assert on mutation
// counts and for the wire encoder that ships passes to remote mirrors:
//
//	doc := dom.NewDocument()
//	div := doc.CreateElement("div")
//	div.SetAttribute("class", "card")
//	doc.Body().AppendChild(div)
//
//	for _, m := range doc.TakeRecords() {
//	    fmt.Println(m)
//	}
//	// CreateElement #4 div
//	// SetAttr #4 class="card"
//	// Insert #4 into #3
//
// A Document is not safe for concurrent use. The commit engine is its only
// writer, and only within a commit pass.
package dom
