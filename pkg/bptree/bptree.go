// Package bptree is an in-memory B+ tree used to index table rows by key.
package bptree

import (
	"sort"
	"sync"

	"golang.org/x/exp/constraints"
)

// DefaultOrder is the fallback branching factor if a user-supplied order is too small.
const DefaultOrder = 32

// findChildIndex determines which child pointer to follow in an internal node.
func findChildIndex[K constraints.Ordered](keys []K, searchKey K) int {
	return sort.Search(len(keys), func(i int) bool { return searchKey < keys[i] })
}

// BPlusTree maps ordered keys to values. It is safe for concurrent use.
type BPlusTree[K constraints.Ordered, V any] struct {
	mu     sync.RWMutex
	root   *node[K, V]
	order  int
	height int
	size   int
}

// node represents both internal and leaf nodes in the B+Tree.
type node[K constraints.Ordered, V any] struct {
	isLeaf   bool
	keys     []K
	children []*node[K, V] // used if !isLeaf
	values   []V           // used if isLeaf
	parent   *node[K, V]
	next     *node[K, V] // leaf-link pointer, for range scans
}

// NewBPlusTree creates and returns a B+Tree with the given order.
// If the specified order < 3, we fall back to DefaultOrder.
func NewBPlusTree[K constraints.Ordered, V any](order int) *BPlusTree[K, V] {
	if order < 3 {
		order = DefaultOrder
	}
	return &BPlusTree[K, V]{
		root:   &node[K, V]{isLeaf: true},
		order:  order,
		height: 1,
	}
}

// Height returns the number of levels.
func (tree *BPlusTree[K, V]) Height() int {
	tree.mu.RLock()
	defer tree.mu.RUnlock()
	return tree.height
}

// Len returns the number of keys.
func (tree *BPlusTree[K, V]) Len() int {
	tree.mu.RLock()
	defer tree.mu.RUnlock()
	return tree.size
}

func (tree *BPlusTree[K, V]) leafFor(key K) *node[K, V] {
	current := tree.root
	for !current.isLeaf {
		current = current.children[findChildIndex(current.keys, key)]
	}
	return current
}

// Search locates the value associated with key.
func (tree *BPlusTree[K, V]) Search(key K) (V, bool) {
	tree.mu.RLock()
	defer tree.mu.RUnlock()

	leaf := tree.leafFor(key)
	i := sort.Search(len(leaf.keys), func(i int) bool { return leaf.keys[i] >= key })
	if i < len(leaf.keys) && leaf.keys[i] == key {
		return leaf.values[i], true
	}
	var zero V
	return zero, false
}

// Insert adds or replaces the value for key.
func (tree *BPlusTree[K, V]) Insert(key K, value V) {
	tree.mu.Lock()
	defer tree.mu.Unlock()

	leaf := tree.leafFor(key)
	if insertKeyValueInLeaf(leaf, key, value) {
		tree.size++
	}
	if len(leaf.keys) > tree.order {
		tree.splitLeaf(leaf)
	}
}

// Ascend calls fn for every key at or above from in ascending order until fn
// returns false.
func (tree *BPlusTree[K, V]) Ascend(from K, fn func(key K, value V) bool) {
	tree.mu.RLock()
	defer tree.mu.RUnlock()

	leaf := tree.leafFor(from)
	i := sort.Search(len(leaf.keys), func(i int) bool { return leaf.keys[i] >= from })
	for ; leaf != nil; leaf, i = leaf.next, 0 {
		for ; i < len(leaf.keys); i++ {
			if !fn(leaf.keys[i], leaf.values[i]) {
				return
			}
		}
	}
}

// insertKeyValueInLeaf reports whether the key is new.
func insertKeyValueInLeaf[K constraints.Ordered, V any](leaf *node[K, V], key K, value V) bool {
	idx := sort.Search(len(leaf.keys), func(i int) bool { return leaf.keys[i] >= key })
	if idx < len(leaf.keys) && leaf.keys[idx] == key {
		leaf.values[idx] = value
		return false
	}
	leaf.keys = append(leaf.keys, key)
	leaf.values = append(leaf.values, value)

	copy(leaf.keys[idx+1:], leaf.keys[idx:])
	leaf.keys[idx] = key

	copy(leaf.values[idx+1:], leaf.values[idx:])
	leaf.values[idx] = value
	return true
}

// splitLeaf handles splitting a leaf node that has overflowed.
func (tree *BPlusTree[K, V]) splitLeaf(leaf *node[K, V]) {
	mid := len(leaf.keys) / 2

	newLeaf := &node[K, V]{
		isLeaf: true,
		keys:   append([]K{}, leaf.keys[mid:]...),
		values: append([]V{}, leaf.values[mid:]...),
		next:   leaf.next,
		parent: leaf.parent,
	}

	leaf.keys = leaf.keys[:mid]
	leaf.values = leaf.values[:mid]
	leaf.next = newLeaf

	if leaf.parent == nil {
		tree.growRoot(leaf, newLeaf.keys[0], newLeaf)
		return
	}
	tree.insertKeyInParent(leaf.parent, newLeaf.keys[0], newLeaf)
}

func (tree *BPlusTree[K, V]) growRoot(left *node[K, V], key K, right *node[K, V]) {
	newRoot := &node[K, V]{
		keys:     []K{key},
		children: []*node[K, V]{left, right},
	}
	left.parent = newRoot
	right.parent = newRoot
	tree.root = newRoot
	tree.height++
}

// insertKeyInParent inserts key and links rightChild after its left sibling.
func (tree *BPlusTree[K, V]) insertKeyInParent(parent *node[K, V], key K, rightChild *node[K, V]) {
	idx := findChildIndex(parent.keys, key)

	parent.keys = append(parent.keys, key)
	copy(parent.keys[idx+1:], parent.keys[idx:])
	parent.keys[idx] = key

	parent.children = append(parent.children, rightChild)
	copy(parent.children[idx+2:], parent.children[idx+1:])
	parent.children[idx+1] = rightChild

	rightChild.parent = parent

	if len(parent.keys) > tree.order {
		tree.splitInternalNode(parent)
	}
}

// splitInternalNode handles splitting an internal node that has overflowed.
func (tree *BPlusTree[K, V]) splitInternalNode(internal *node[K, V]) {
	mid := len(internal.keys) / 2
	splitKey := internal.keys[mid]

	newInternal := &node[K, V]{
		keys:     append([]K{}, internal.keys[mid+1:]...),
		children: append([]*node[K, V]{}, internal.children[mid+1:]...),
		parent:   internal.parent,
	}
	for _, child := range newInternal.children {
		child.parent = newInternal
	}

	internal.keys = internal.keys[:mid]
	internal.children = internal.children[:mid+1]

	if internal.parent == nil {
		tree.growRoot(internal, splitKey, newInternal)
		return
	}
	tree.insertKeyInParent(internal.parent, splitKey, newInternal)
}
