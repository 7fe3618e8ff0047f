// Package errors provides structured, actionable error messages for vcommit.
//
// Every error carries a code, a category and a short message, and can be
// enriched with the offending virtual node, a longer explanation and a hint.
//
// # Error Categories
//
// Errors are organized into categories:
//   - commit: structural problems found while committing a tree
//   - document: invalid operations against the platform document
//   - protocol: malformed mutation journal frames
//   - scenario: invalid scenario files
//   - config: invalid vcommit.json
//   - archive: journal archive failures
//   - cli: command-line usage errors
//
// # Usage
//
//	err := errors.New("E101").
//	    WithNode(node.String()).
//	    WithSuggestion("Attach the tree's root to a container before committing")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E101: No mount parent for placement
//	//
//	//   node: <li key="b">
//	//
//	//   A node needed to be placed but neither the caller nor any ancestor
//	//   resolved to a platform node.
//	//
//	//   Hint: Attach the tree's root to a container before committing
package errors
