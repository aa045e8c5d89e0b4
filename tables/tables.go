// Package tables makes tables in rich text content scrollable on small
// screens.  Rich text cannot carry component markers, so this runs over the
// whole document instead: every table inside a `.rte` element is wrapped in a
// `div.table-wrapper`.
package tables

import (
	"github.com/mook/pagewire/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	richTextClass = "rte"
	wrapperClass  = "table-wrapper"
)

func isWrapper(n *html.Node) bool {
	return dom.HasClass(n, wrapperClass)
}

// The tables inside rich text content, in document order.
func richTextTables(doc *html.Node) []*html.Node {
	var result []*html.Node
	seen := make(map[*html.Node]bool)
	for _, rte := range dom.FindByClass(doc, richTextClass) {
		for _, table := range dom.FindByTag(rte, atom.Table) {
			if !seen[table] {
				seen[table] = true
				result = append(result, table)
			}
		}
	}
	return result
}

// Wrap every rich text table not already inside a wrapper, returning the
// number of tables wrapped.
func Wrap(doc *html.Node) int {
	count := 0
	for _, table := range richTextTables(doc) {
		if dom.Closest(table, isWrapper) != nil {
			continue
		}
		dom.Wrap(table, dom.Element(atom.Div, "class", wrapperClass))
		count++
	}
	return count
}

// Unwrap removes the wrappers added by [Wrap], returning the number of tables
// unwrapped.
func Unwrap(doc *html.Node) int {
	count := 0
	for _, table := range richTextTables(doc) {
		if !isWrapper(table.Parent) {
			continue
		}
		dom.Unwrap(table)
		count++
	}
	return count
}
