package bptree_test

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/wowformats/pkg/bptree"
)

func TestBPlusTree_InsertAndSearch(t *testing.T) {
	type search struct {
		key      uint32
		expected int
		found    bool
	}

	tests := map[string]struct {
		inserts  [][2]int
		searches []search
	}{
		"Insert and search row indexes": {
			inserts:  [][2]int{{1, 0}, {2, 1}, {3, 2}, {4, 3}, {5, 4}},
			searches: []search{{1, 0, true}, {3, 2, true}, {5, 4, true}, {6, 0, false}},
		},
		"Duplicate IDs keep the last row": {
			inserts:  [][2]int{{7, 0}, {7, 9}},
			searches: []search{{7, 9, true}},
		},
		"Search empty tree": {
			searches: []search{{1, 0, false}},
		},
		"Sparse IDs": {
			inserts:  [][2]int{{1000, 2}, {17, 0}, {400, 1}},
			searches: []search{{17, 0, true}, {400, 1, true}, {1000, 2, true}, {18, 0, false}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tree := bptree.NewBPlusTree[uint32, int](4)
			for _, kv := range tt.inserts {
				tree.Insert(uint32(kv[0]), kv[1])
			}
			for _, s := range tt.searches {
				value, found := tree.Search(s.key)
				assert.Equal(t, s.found, found, "Search(%d)", s.key)
				assert.Equal(t, s.expected, value, "Search(%d)", s.key)
			}
		})
	}
}

func TestBPlusTree_SplitsAndAscend(t *testing.T) {
	tree := bptree.NewBPlusTree[uint32, int](3)

	keys := rand.New(rand.NewSource(1)).Perm(500)
	for i, k := range keys {
		tree.Insert(uint32(k), i)
	}
	tree.Insert(uint32(keys[0]), -1)

	assert.Equal(t, 500, tree.Len())
	assert.Greater(t, tree.Height(), 2)

	var seen []uint32
	tree.Ascend(0, func(k uint32, _ int) bool {
		seen = append(seen, k)
		return true
	})
	require.Len(t, seen, 500)
	for i, k := range seen {
		assert.Equal(t, uint32(i), k)
	}

	v, ok := tree.Search(uint32(keys[0]))
	require.True(t, ok)
	assert.Equal(t, -1, v)

	var window []uint32
	tree.Ascend(250, func(k uint32, _ int) bool {
		window = append(window, k)
		return len(window) < 3
	})
	assert.Equal(t, []uint32{250, 251, 252}, window)
}

func TestBPlusTree_StringKeys(t *testing.T) {
	tree := bptree.NewBPlusTree[string, int](0)
	for i, name := range []string{"Water", "Lava", "Slime", "Ocean"} {
		tree.Insert(name, i)
	}

	var names []string
	tree.Ascend("", func(k string, _ int) bool {
		names = append(names, k)
		return true
	})
	assert.Equal(t, []string{"Lava", "Ocean", "Slime", "Water"}, names)
}

func TestBPlusTree_Concurrency(t *testing.T) {
	tree := bptree.NewBPlusTree[uint32, int](4)

	var wg sync.WaitGroup
	for i := 1; i <= 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tree.Insert(uint32(i), i)
		}(i)
	}
	wg.Wait()

	for i := 1; i <= 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, found := tree.Search(uint32(i))
			assert.True(t, found, "key %d", i)
			assert.Equal(t, i, v)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 200, tree.Len())
}
