// Package dom has small helpers for working with parsed HTML documents; the
// component runtime operates on these trees instead of a live browser DOM.
package dom

import (
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse an HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return doc, nil
}

// Render the tree rooted at n.
func Render(w io.Writer, n *html.Node) error {
	if err := html.Render(w, n); err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}
	return nil
}

// Elements iterates over the element descendants of root in document order
// (pre-order).  The root itself is not included.  The tree must not be
// modified during iteration.
func Elements(root *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		walk(root, func(n *html.Node) (bool, bool) {
			return yield(n), true
		})
	}
}

// Walk visits the element descendants of root in document order.  The visit
// function returns whether to continue at all, and whether to descend into
// the children of the given element.
func Walk(root *html.Node, visit func(n *html.Node) (cont, descend bool)) {
	walk(root, visit)
}

func walk(n *html.Node, visit func(*html.Node) (bool, bool)) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		descend := true
		if c.Type == html.ElementNode {
			var cont bool
			cont, descend = visit(c)
			if !cont {
				return false
			}
		}
		if descend && !walk(c, visit) {
			return false
		}
	}
	return true
}

// Attr returns the value of the named attribute.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets the named attribute, replacing any existing value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr removes the named attribute if it is present.
func RemoveAttr(n *html.Node, key string) {
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == key
	})
}

func classes(n *html.Node) []string {
	v, _ := Attr(n, "class")
	return strings.Fields(v)
}

// HasClass reports whether the element carries the given class.
func HasClass(n *html.Node, class string) bool {
	return n != nil && n.Type == html.ElementNode && slices.Contains(classes(n), class)
}

// AddClass adds a class to the element; it is a no-op if already present.
func AddClass(n *html.Node, class string) {
	list := classes(n)
	if slices.Contains(list, class) {
		return
	}
	SetAttr(n, "class", strings.Join(append(list, class), " "))
}

// RemoveClass removes a class from the element.
func RemoveClass(n *html.Node, class string) {
	list := classes(n)
	if !slices.Contains(list, class) {
		return
	}
	list = slices.DeleteFunc(list, func(c string) bool { return c == class })
	if len(list) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(list, " "))
}

// FindByClass returns the descendants of root carrying the class, in
// document order.
func FindByClass(root *html.Node, class string) []*html.Node {
	var result []*html.Node
	for n := range Elements(root) {
		if HasClass(n, class) {
			result = append(result, n)
		}
	}
	return result
}

// FindByTag returns the descendants of root with the given tag.
func FindByTag(root *html.Node, tag atom.Atom) []*html.Node {
	var result []*html.Node
	for n := range Elements(root) {
		if n.DataAtom == tag {
			result = append(result, n)
		}
	}
	return result
}

// NextElement returns the next sibling of n that is an element, or nil.
func NextElement(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// Closest returns the nearest ancestor of n (excluding n) matching the
// predicate, or nil.
func Closest(n *html.Node, match func(*html.Node) bool) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && match(p) {
			return p
		}
	}
	return nil
}

// Detach removes n from its parent, if it has one.
func Detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// InsertAfter moves n to be the next sibling of ref.
func InsertAfter(ref, n *html.Node) {
	if ref == n {
		return
	}
	Detach(n)
	ref.Parent.InsertBefore(n, ref.NextSibling)
}

// Empty removes all children of n.
func Empty(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// Clone returns a deep copy of n, detached from any tree.
func Clone(n *html.Node) *html.Node {
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      slices.Clone(n.Attr),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clone.AppendChild(Clone(c))
	}
	return clone
}

// Wrap places wrapper where n is in the tree and moves n inside it.
func Wrap(n, wrapper *html.Node) {
	n.Parent.InsertBefore(wrapper, n)
	n.Parent.RemoveChild(n)
	wrapper.AppendChild(n)
}

// Unwrap removes the parent of n, keeping all of the parent's children in
// its place.
func Unwrap(n *html.Node) {
	p := n.Parent
	if p == nil || p.Parent == nil {
		return
	}
	for p.FirstChild != nil {
		c := p.FirstChild
		p.RemoveChild(c)
		p.Parent.InsertBefore(c, p)
	}
	p.Parent.RemoveChild(p)
}

// Text returns the concatenated text content of n.
func Text(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}

// Element creates a new element node with the given attributes, given as
// alternating keys and values.
func Element(tag atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: tag, Data: tag.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// TextNode creates a text node.
func TextNode(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}
