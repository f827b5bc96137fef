// Package dom is the in-memory document the catalog core renders into.
// Elements are golang.org/x/net/html nodes carrying a stable data-el identity,
// so the host can route events back to the exact element that produced them.
package dom

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"vetrina-catalogo/models"
)

// IdentityAttr is the attribute holding an element's identity
const IdentityAttr = "data-el"

// Document owns every element created for a session and the handlers bound to them
type Document struct {
	nextID   int
	elements map[string]*Element
	byNode   map[*html.Node]*Element
	handlers map[string]map[models.EventType]Handler
	body     *Element
	focus    *Element
}

// NewDocument creates an empty document with a body element
func NewDocument() *Document {
	d := &Document{
		elements: make(map[string]*Element),
		byNode:   make(map[*html.Node]*Element),
		handlers: make(map[string]map[models.EventType]Handler),
	}
	d.body = d.CreateElement("body")
	return d
}

// Body returns the document body
func (d *Document) Body() *Element {
	return d.body
}

// CreateElement creates a detached element with a fresh identity
func (d *Document) CreateElement(tag string) *Element {
	d.nextID++
	id := "el-" + strconv.Itoa(d.nextID)

	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
		Attr:     []html.Attribute{{Key: IdentityAttr, Val: id}},
	}
	el := &Element{doc: d, node: n, id: id}
	d.elements[id] = el
	d.byNode[n] = el
	return el
}

// Lookup returns the live element with the given identity
func (d *Document) Lookup(id string) (*Element, bool) {
	el, ok := d.elements[id]
	return el, ok
}

// Len returns the number of live elements, the body included
func (d *Document) Len() int {
	return len(d.elements)
}

// Focus moves the focus to el
func (d *Document) Focus(el *Element) {
	d.focus = el
}

// ActiveElement returns the focused element, nil when nothing has focus
func (d *Document) ActiveElement() *Element {
	return d.focus
}

// release forgets el and its whole subtree: identities, handlers and focus
func (d *Document) release(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.release(c)
	}
	el, ok := d.byNode[n]
	if !ok {
		return
	}
	delete(d.byNode, n)
	delete(d.elements, el.id)
	delete(d.handlers, el.id)
	if d.focus == el {
		d.focus = nil
	}
}

// Element is a handle to a node of the document
type Element struct {
	doc  *Document
	node *html.Node
	id   string
}

// ID returns the element identity
func (e *Element) ID() string {
	return e.id
}

// Tag returns the element tag name
func (e *Element) Tag() string {
	return e.node.Data
}

// Attr returns the value of attribute key
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets attribute key, replacing any previous value
func (e *Element) SetAttr(key, val string) *Element {
	for i, a := range e.node.Attr {
		if a.Key == key {
			e.node.Attr[i].Val = val
			return e
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: val})
	return e
}

// RemoveAttr removes attribute key
func (e *Element) RemoveAttr(key string) *Element {
	if key == IdentityAttr {
		return e
	}
	attrs := e.node.Attr[:0]
	for _, a := range e.node.Attr {
		if a.Key != key {
			attrs = append(attrs, a)
		}
	}
	e.node.Attr = attrs
	return e
}

// Classes returns the element class list
func (e *Element) Classes() []string {
	v, _ := e.Attr("class")
	return strings.Fields(v)
}

// HasClass reports whether the class list contains name
func (e *Element) HasClass(name string) bool {
	for _, c := range e.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass adds one or more classes
func (e *Element) AddClass(names ...string) *Element {
	classes := e.Classes()
	for _, name := range names {
		if name == "" || e.HasClass(name) {
			continue
		}
		classes = append(classes, name)
		e.SetAttr("class", strings.Join(classes, " "))
	}
	return e
}

// RemoveClass removes a class
func (e *Element) RemoveClass(name string) *Element {
	classes := e.Classes()
	kept := classes[:0]
	for _, c := range classes {
		if c != name {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return e.RemoveAttr("class")
	}
	return e.SetAttr("class", strings.Join(kept, " "))
}

// ToggleClass adds name when on is true and removes it otherwise
func (e *Element) ToggleClass(name string, on bool) *Element {
	if on {
		return e.AddClass(name)
	}
	return e.RemoveClass(name)
}

// SetHidden hides or shows the element
func (e *Element) SetHidden(hidden bool) *Element {
	if hidden {
		return e.SetAttr("hidden", "")
	}
	return e.RemoveAttr("hidden")
}

// Hidden reports whether the element is hidden
func (e *Element) Hidden() bool {
	_, ok := e.Attr("hidden")
	return ok
}

// SetText replaces the element content with a text node
func (e *Element) SetText(text string) *Element {
	e.Clear()
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return e
}

// Text returns the concatenated text content of the element
func (e *Element) Text() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return b.String()
}

// Append attaches children at the end of the element
func (e *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		if c.node.Parent != nil {
			c.node.Parent.RemoveChild(c.node)
		}
		e.node.AppendChild(c.node)
	}
	return e
}

// InsertAfter places el right after e under the same parent
func (e *Element) InsertAfter(el *Element) *Element {
	parent := e.node.Parent
	if parent == nil {
		return e
	}
	if el.node.Parent != nil {
		el.node.Parent.RemoveChild(el.node)
	}
	parent.InsertBefore(el.node, e.node.NextSibling)
	return e
}

// AppendRaw parses trusted HTML and appends the resulting nodes.
// Parsed nodes get no identity and cannot be event targets.
func (e *Element) AppendRaw(fragment string) error {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return fmt.Errorf("failed to parse fragment: %w", err)
	}
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

// Parent returns the parent element, nil for detached or root elements
func (e *Element) Parent() *Element {
	if e.node.Parent == nil {
		return nil
	}
	return e.doc.byNode[e.node.Parent]
}

// Children returns the element children that carry an identity
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if el, ok := e.doc.byNode[c]; ok {
			out = append(out, el)
		}
	}
	return out
}

// Contains reports whether other is e or one of its descendants
func (e *Element) Contains(other *Element) bool {
	for n := other.node; n != nil; n = n.Parent {
		if n == e.node {
			return true
		}
	}
	return false
}

// Clear removes and releases every child of the element
func (e *Element) Clear() *Element {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		e.doc.release(c)
		c = next
	}
	return e
}

// Remove detaches the element and releases its subtree
func (e *Element) Remove() {
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
	e.doc.release(e.node)
}

// OuterHTML renders the element and its subtree
func (e *Element) OuterHTML() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, e.node); err != nil {
		return "", fmt.Errorf("failed to render element %s: %w", e.id, err)
	}
	return buf.String(), nil
}
