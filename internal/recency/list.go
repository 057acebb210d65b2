/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package recency

// Nil is the index of an absent node.
const Nil = -1

type node[K comparable, V any] struct {
	key   K
	value V

	// prev points to the next-more-recent node, next to the next-less-recent one.
	prev, next int
}

// List is a doubly-linked list of key/value nodes ordered from the most recently used (front)
// to the least recently used (back).
// Nodes live in a slice and are addressed by their index, which stays stable until the node is removed.
// Removed slots are reused by subsequent pushes.
// List is not safe for concurrent use.
type List[K comparable, V any] struct {
	nodes []node[K, V]
	free  []int
	head  int
	tail  int
	len   int
}

// New returns an empty list with room for sizeHint nodes.
func New[K comparable, V any](sizeHint int) *List[K, V] {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &List[K, V]{
		nodes: make([]node[K, V], 0, sizeHint),
		head:  Nil,
		tail:  Nil,
	}
}

// Len returns the number of nodes in the list.
func (l *List[K, V]) Len() int {
	return l.len
}

// Front returns the index of the most recently used node or Nil if the list is empty.
func (l *List[K, V]) Front() int {
	return l.head
}

// Back returns the index of the least recently used node or Nil if the list is empty.
func (l *List[K, V]) Back() int {
	return l.tail
}

// Next returns the index of the node that is less recently used than idx, or Nil.
func (l *List[K, V]) Next(idx int) int {
	return l.nodes[idx].next
}

// Prev returns the index of the node that is more recently used than idx, or Nil.
func (l *List[K, V]) Prev(idx int) int {
	return l.nodes[idx].prev
}

// Key returns the key stored in the node.
func (l *List[K, V]) Key(idx int) K {
	return l.nodes[idx].key
}

// Value returns the value stored in the node.
func (l *List[K, V]) Value(idx int) V {
	return l.nodes[idx].value
}

// PushFront stores a new node at the front and returns its index.
func (l *List[K, V]) PushFront(key K, value V) int {
	idx := l.alloc()
	l.nodes[idx] = node[K, V]{key: key, value: value, prev: Nil, next: Nil}
	l.linkFront(idx)
	l.len++
	return idx
}

// MoveToFront makes the node the most recently used one.
func (l *List[K, V]) MoveToFront(idx int) {
	if l.head == idx {
		return
	}
	l.unlink(idx)
	l.linkFront(idx)
}

// Remove unlinks the node and releases its slot. The index must not be used afterwards.
func (l *List[K, V]) Remove(idx int) {
	l.unlink(idx)
	l.nodes[idx] = node[K, V]{prev: Nil, next: Nil}
	l.free = append(l.free, idx)
	l.len--
}

func (l *List[K, V]) alloc() int {
	if n := len(l.free); n > 0 {
		idx := l.free[n-1]
		l.free = l.free[:n-1]
		return idx
	}
	l.nodes = append(l.nodes, node[K, V]{})
	return len(l.nodes) - 1
}

func (l *List[K, V]) linkFront(idx int) {
	n := &l.nodes[idx]
	n.prev = Nil
	n.next = l.head
	if l.head == Nil {
		l.tail = idx
	} else {
		l.nodes[l.head].prev = idx
	}
	l.head = idx
}

func (l *List[K, V]) unlink(idx int) {
	n := &l.nodes[idx]
	if n.prev == Nil {
		l.head = n.next
	} else {
		l.nodes[n.prev].next = n.next
	}
	if n.next == Nil {
		l.tail = n.prev
	} else {
		l.nodes[n.next].prev = n.prev
	}
	n.prev, n.next = Nil, Nil
}
