// Package stanza implements the in-memory tree node (component 5) shared
// by the wire codec, the dispatcher, and the public client API.
package stanza

import "bytes"

// Node is one tagged tree-structured message exchanged over the wire.
//
// A node either carries Text or Children, never both at once (the wire
// form reserves a single trailing slot for one or the other — see
// internal/wire's codec). Attrs keys are unique by construction: SetAttr
// overwrites.
type Node struct {
	Name     string
	Attrs    map[string]string
	Text     []byte
	Children []*Node
}

// New creates a node with the given name and no attributes, text, or
// children.
func New(name string) *Node {
	return &Node{Name: name}
}

// WithText sets the node's text payload and returns the node for chaining.
// It is the caller's responsibility not to also add children: the codec
// only encodes one of the two.
func (n *Node) WithText(text []byte) *Node {
	n.Text = text
	return n
}

// WithTextString is WithText for the common case of a UTF-8 string body.
func (n *Node) WithTextString(text string) *Node {
	n.Text = []byte(text)
	return n
}

// Add appends a child and returns the node for chaining.
func (n *Node) Add(child *Node) *Node {
	n.Children = append(n.Children, child)
	return n
}

// SetAttr sets an attribute, allocating the map on first use, and returns
// the node for chaining.
func (n *Node) SetAttr(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
	return n
}

// Attr returns the named attribute and whether it was present.
func (n *Node) Attr(key string) (string, bool) {
	if n.Attrs == nil {
		return "", false
	}
	v, ok := n.Attrs[key]
	return v, ok
}

// AttrOr returns the named attribute, or def if it is absent.
func (n *Node) AttrOr(key, def string) string {
	if v, ok := n.Attr(key); ok {
		return v
	}
	return def
}

// Child returns the first child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// HasChild reports whether a child with the given name exists.
func (n *Node) HasChild(name string) bool {
	return n.Child(name) != nil
}

// TextString returns Text decoded as UTF-8. Callers needing raw bytes
// should use Text directly: the codec treats all wire strings as bytes,
// and UTF-8 decoding is the caller's concern.
func (n *Node) TextString() string {
	return string(n.Text)
}

// Equal reports whether n and other are equal for round-trip testing:
// same name, same attribute set (order-independent), same text bytes,
// and recursively equal children in the same order.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Name != other.Name {
		return false
	}
	if !bytes.Equal(n.Text, other.Text) {
		return false
	}
	if len(n.Attrs) != len(other.Attrs) {
		return false
	}
	for k, v := range n.Attrs {
		if ov, ok := other.Attrs[k]; !ok || ov != v {
			return false
		}
	}
	if len(n.Children) != len(other.Children) {
		return false
	}
	for i, c := range n.Children {
		if !c.Equal(other.Children[i]) {
			return false
		}
	}
	return true
}
