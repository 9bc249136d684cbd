// Package hosttree models the host application's element tree: a small
// DOM-like structure with attributes, classes, visibility, click dispatch
// and document-scoped mutation observation. The host owns part of the tree
// and may rewrite it at any time; overlay code attaches its own nodes next
// to the host's but never removes or reparents host-owned ones.
package hosttree

import "sync"

// Document is the root container of an element tree. Mutation observers and
// document-level click listeners are registered here.
//
// The tree itself is not internally synchronized: handlers and observers run
// on the mutating goroutine. Goroutines that touch the tree concurrently
// (rebuild timers, filesystem watchers, snapshot readers) must hold the
// document lock around their whole read or write pass.
type Document struct {
	mu             sync.Mutex
	root           *Node
	observers      []func()
	clickListeners []*clickListener
	notifying      bool
	pending        bool
}

type clickListener struct {
	fn func(target *Node)
}

// NewDocument creates a document with an empty root element.
func NewDocument() *Document {
	d := &Document{}
	d.root = NewElement("root")
	d.root.doc = d
	return d
}

// Root returns the document's root element.
func (d *Document) Root() *Node {
	return d.root
}

// Lock acquires the document lock. Observers and interaction handlers are
// invoked under the caller's lock and must not re-acquire it.
func (d *Document) Lock() {
	d.mu.Lock()
}

// Unlock releases the document lock.
func (d *Document) Unlock() {
	d.mu.Unlock()
}

// Observe registers a mutation observer. The observer is invoked once per
// mutating call on any attached node. Observers registered while a
// notification is in flight do not receive that notification.
func (d *Document) Observe(fn func()) {
	d.observers = append(d.observers, fn)
}

// OnAnyClick registers a document-level click listener and returns a
// function that removes it. Listeners registered during a click dispatch do
// not see the dispatch that registered them.
func (d *Document) OnAnyClick(fn func(target *Node)) (remove func()) {
	l := &clickListener{fn: fn}
	d.clickListeners = append(d.clickListeners, l)
	return func() {
		for i, cur := range d.clickListeners {
			if cur == l {
				d.clickListeners = append(d.clickListeners[:i], d.clickListeners[i+1:]...)
				return
			}
		}
	}
}

// FindByID returns the attached element whose "id" attribute matches.
func (d *Document) FindByID(id string) *Node {
	return d.root.Find(func(n *Node) bool { return n.Attr("id") == id })
}

// notify delivers one mutation notification to every observer. Mutations
// performed by an observer are coalesced into a follow-up delivery rather
// than recursing.
func (d *Document) notify() {
	if d.notifying {
		d.pending = true
		return
	}
	d.notifying = true
	defer func() { d.notifying = false }()
	for {
		d.pending = false
		observers := make([]func(), len(d.observers))
		copy(observers, d.observers)
		for _, fn := range observers {
			fn()
		}
		if !d.pending {
			return
		}
	}
}

func (d *Document) dispatchClick(target *Node) {
	// Snapshot before invoking the target handler: listeners attached by the
	// handler itself must not fire for the click that attached them.
	listeners := make([]*clickListener, len(d.clickListeners))
	copy(listeners, d.clickListeners)
	if target.onClick != nil {
		target.onClick()
	}
	for _, l := range listeners {
		l.fn(target)
	}
}

// Node is a single element: tag, attributes, classes, text, visibility,
// ordered children and optional interaction handlers.
type Node struct {
	doc           *Document
	parent        *Node
	tag           string
	attrs         map[string]string
	classes       []string
	text          string
	hidden        bool
	children      []*Node
	onClick       func()
	onContextMenu func()
}

// NewElement creates a detached element with the given tag.
func NewElement(tag string) *Node {
	return &Node{tag: tag}
}

// Tag returns the element's tag.
func (n *Node) Tag() string { return n.tag }

// Attr returns the value of an attribute, or "" if unset.
func (n *Node) Attr(name string) string {
	if n.attrs == nil {
		return ""
	}
	return n.attrs[name]
}

// SetAttr sets an attribute value.
func (n *Node) SetAttr(name, value string) *Node {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	if n.attrs[name] == value {
		return n
	}
	n.attrs[name] = value
	n.mutated()
	return n
}

// HasClass reports whether the element carries the given class.
func (n *Node) HasClass(class string) bool {
	for _, c := range n.classes {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds a class if not already present.
func (n *Node) AddClass(class string) *Node {
	if n.HasClass(class) {
		return n
	}
	n.classes = append(n.classes, class)
	n.mutated()
	return n
}

// RemoveClass removes a class if present.
func (n *Node) RemoveClass(class string) *Node {
	for i, c := range n.classes {
		if c == class {
			n.classes = append(n.classes[:i], n.classes[i+1:]...)
			n.mutated()
			return n
		}
	}
	return n
}

// Text returns the element's own text content.
func (n *Node) Text() string { return n.text }

// SetText sets the element's text content.
func (n *Node) SetText(text string) *Node {
	if n.text == text {
		return n
	}
	n.text = text
	n.mutated()
	return n
}

// Visible reports whether the element itself is shown.
func (n *Node) Visible() bool { return !n.hidden }

// Hide suppresses the element's visibility in place.
func (n *Node) Hide() *Node {
	if n.hidden {
		return n
	}
	n.hidden = true
	n.mutated()
	return n
}

// Show restores the element's visibility.
func (n *Node) Show() *Node {
	if !n.hidden {
		return n
	}
	n.hidden = false
	n.mutated()
	return n
}

// Parent returns the element's parent, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the element's child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Append adds a child at the end, detaching it from any previous parent.
func (n *Node) Append(child *Node) *Node {
	child.Detach()
	child.parent = n
	child.setDocument(n.doc)
	n.children = append(n.children, child)
	n.mutated()
	return n
}

// Prepend inserts a child as the first child, detaching it from any
// previous parent.
func (n *Node) Prepend(child *Node) *Node {
	child.Detach()
	child.parent = n
	child.setDocument(n.doc)
	n.children = append([]*Node{child}, n.children...)
	n.mutated()
	return n
}

// Detach removes the element from its parent, if any.
func (n *Node) Detach() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
	n.setDocument(nil)
	p.mutated()
}

// RemoveChildren detaches every child.
func (n *Node) RemoveChildren() {
	if len(n.children) == 0 {
		return
	}
	for _, c := range n.children {
		c.parent = nil
		c.setDocument(nil)
	}
	n.children = nil
	n.mutated()
}

// Clone returns a deep structural copy: tag, attributes, classes, text,
// visibility and children. Handlers and parentage are not copied.
func (n *Node) Clone() *Node {
	c := &Node{
		tag:    n.tag,
		text:   n.text,
		hidden: n.hidden,
	}
	if len(n.attrs) > 0 {
		c.attrs = make(map[string]string, len(n.attrs))
		for k, v := range n.attrs {
			c.attrs[k] = v
		}
	}
	if len(n.classes) > 0 {
		c.classes = append([]string(nil), n.classes...)
	}
	for _, child := range n.children {
		cc := child.Clone()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// SetOnClick installs the primary-activation handler.
func (n *Node) SetOnClick(fn func()) *Node {
	n.onClick = fn
	return n
}

// SetOnContextMenu installs the secondary-activation handler.
func (n *Node) SetOnContextMenu(fn func()) *Node {
	n.onContextMenu = fn
	return n
}

// Click dispatches a primary activation: the element's own handler first,
// then any document-level click listeners.
func (n *Node) Click() {
	if n.doc != nil {
		n.doc.dispatchClick(n)
		return
	}
	if n.onClick != nil {
		n.onClick()
	}
}

// ContextMenu dispatches a secondary activation to the element's handler.
func (n *Node) ContextMenu() {
	if n.onContextMenu != nil {
		n.onContextMenu()
	}
}

// Find returns the first element in the subtree (depth-first, including n
// itself) matching the predicate, or nil.
func (n *Node) Find(pred func(*Node) bool) *Node {
	if pred(n) {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(pred); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every element in the subtree matching the predicate, in
// depth-first order.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	if pred(n) {
		out = append(out, n)
	}
	for _, c := range n.children {
		out = append(out, c.FindAll(pred)...)
	}
	return out
}

func (n *Node) setDocument(doc *Document) {
	if n.doc == doc {
		return
	}
	n.doc = doc
	for _, c := range n.children {
		c.setDocument(doc)
	}
}

// mutated reports a mutation to the owning document, if attached.
func (n *Node) mutated() {
	if n.doc != nil {
		n.doc.notify()
	}
}
