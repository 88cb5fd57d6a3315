package ast

import "github.com/dhamidi/tjc/java/token"

// NodeID addresses a node inside an Arena. The zero value is NoNode.
type NodeID uint32

const NoNode NodeID = 0

// Valid reports whether id refers to a node.
func (id NodeID) Valid() bool {
	return id != NoNode
}

type ArenaOption func(*Arena)

// WithNodeLimit caps the number of nodes the arena will hand out. Zero
// means unlimited.
func WithNodeLimit(n int) ArenaOption {
	return func(a *Arena) {
		a.limit = n
	}
}

// WithCapacityHint preallocates room for n nodes.
func WithCapacityHint(n int) ArenaOption {
	return func(a *Arena) {
		a.nodes = make([]Node, 0, n)
	}
}

// Arena owns every node of one compilation unit. Nodes are never freed
// individually; Reset releases all of them at once.
type Arena struct {
	nodes []Node
	limit int
}

func NewArena(opts ...ArenaOption) *Arena {
	a := &Arena{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Alloc stores a new node and returns its handle. It fails once the node
// limit is reached.
func (a *Arena) Alloc(tok token.Token, data Payload) (NodeID, bool) {
	if a.limit > 0 && len(a.nodes) >= a.limit {
		return NoNode, false
	}
	a.nodes = append(a.nodes, Node{Tok: tok, Data: data})
	return NodeID(len(a.nodes)), true
}

// Node returns the node for id, or nil for NoNode and out-of-range ids.
func (a *Arena) Node(id NodeID) *Node {
	if id == NoNode || int(id) > len(a.nodes) {
		return nil
	}
	return &a.nodes[id-1]
}

// Data returns the payload of id, or nil if id does not name a node.
func (a *Arena) Data(id NodeID) Payload {
	if n := a.Node(id); n != nil {
		return n.Data
	}
	return nil
}

func (a *Arena) Len() int {
	return len(a.nodes)
}

func (a *Arena) Reset() {
	a.nodes = a.nodes[:0]
}

// List tracks the ends of a sibling chain under construction.
type List struct {
	Head NodeID
	Tail NodeID
}

// Append links id after the current tail. NoNode is ignored so that a
// failed child does not break the chain.
func (a *Arena) Append(l *List, id NodeID) {
	if id == NoNode {
		return
	}
	if l.Head == NoNode {
		l.Head = id
		l.Tail = id
		return
	}
	a.Node(l.Tail).Next = id
	l.Tail = id
}

// Siblings collects the chain starting at head in order.
func (a *Arena) Siblings(head NodeID) []NodeID {
	var ids []NodeID
	for id := head; id != NoNode; id = a.Node(id).Next {
		ids = append(ids, id)
	}
	return ids
}

func (a *Arena) Count(head NodeID) int {
	n := 0
	for id := head; id != NoNode; id = a.Node(id).Next {
		n++
	}
	return n
}
