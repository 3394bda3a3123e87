package list

import (
	"cmp"
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/nobletooth/dlist/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSorted_Insert(t *testing.T) {
	for _, testCase := range []struct {
		name     string
		inserts  []int
		expected []int
	}{
		{name: "single", inserts: []int{4}, expected: []int{4}},
		{name: "ascending", inserts: []int{1, 2, 3}, expected: []int{1, 2, 3}},
		{name: "descending", inserts: []int{3, 2, 1}, expected: []int{1, 2, 3}},
		{name: "middle", inserts: []int{1, 5, 3}, expected: []int{1, 3, 5}},
		{name: "duplicates", inserts: []int{2, 1, 2, 1, 3, 2}, expected: []int{1, 1, 2, 2, 2, 3}},
		{name: "equal_to_head", inserts: []int{5, 5, 5}, expected: []int{5, 5, 5}},
		{name: "negatives", inserts: []int{0, -7, 12, -1}, expected: []int{-7, -1, 0, 12}},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			list := NewSorted(utils.Natural[int]())
			for _, v := range testCase.inserts {
				list.Insert(v)
			}
			assertChainEqualsSlice(t, testCase.expected, &list.chain)
		})
	}
}

func TestSorted_OrderedAfterEveryInsert(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	list := NewSorted(utils.Natural[int]())
	for i := range 200 {
		list.Insert(rnd.Intn(50) - 25)
		got := list.ToSlice()
		require.Truef(t, slices.IsSorted(got), "List is out of order after insert %d: %v", i, got)
		require.Equal(t, i+1, list.Len())
	}
	assertChainEqualsSlice(t, list.ToSlice(), &list.chain)
}

func TestSorted_Stable(t *testing.T) {
	type entry struct {
		rank int
		name string
	}
	byRank := func(x, y entry) int { return cmp.Compare(x.rank, y.rank) }
	list := NewSorted(byRank)
	list.Insert(entry{2, "a"}).Insert(entry{1, "x"}).Insert(entry{2, "b"}).Insert(entry{3, "z"}).Insert(entry{2, "c"})
	list.Insert(entry{1, "y"})
	assert.Equal(t, []entry{{1, "x"}, {1, "y"}, {2, "a"}, {2, "b"}, {2, "c"}, {3, "z"}}, list.ToSlice())
}

func TestSorted_CustomOrder(t *testing.T) {
	t.Run("reverse", func(t *testing.T) {
		list := NewSorted(utils.Reverse(utils.Natural[int]()))
		list.Insert(1).Insert(3).Insert(2)
		assert.Equal(t, []int{3, 2, 1}, list.ToSlice())
	})

	t.Run("case_insensitive", func(t *testing.T) {
		list := NewSorted(func(x, y string) int { return cmp.Compare(strings.ToLower(x), strings.ToLower(y)) })
		list.Insert("banana").Insert("Apple").Insert("cherry").Insert("apple")
		assert.Equal(t, []string{"Apple", "apple", "banana", "cherry"}, list.ToSlice())
	})
}

func TestSorted_Remove(t *testing.T) {
	compare := utils.Natural[int]()
	list := NewSorted(compare)
	for _, v := range []int{4, 2, 4, 1, 3} {
		list.Insert(v)
	}
	assert.Same(t, list, list.Remove(4, compare))
	assertChainEqualsSlice(t, []int{1, 2, 3, 4}, &list.chain)
	list.Remove(10, compare)
	assertChainEqualsSlice(t, []int{1, 2, 3, 4}, &list.chain)
	assert.True(t, list.Delete(1, compare))
	assertChainEqualsSlice(t, []int{2, 3, 4}, &list.chain)

	// Insertion keeps working around the removed positions.
	list.Insert(1).Insert(5)
	assertChainEqualsSlice(t, []int{1, 2, 3, 4, 5}, &list.chain)
}

func TestSorted_Retrieve(t *testing.T) {
	list := NewSorted(utils.Natural[string]())
	_, ok := list.First()
	assert.False(t, ok)
	_, ok = list.RetrieveLast()
	assert.False(t, ok)

	list.Insert("m").Insert("a").Insert("z")
	first, _ := list.First()
	last, _ := list.Last()
	assert.Equal(t, "a", first)
	assert.Equal(t, "z", last)

	smallest, ok := list.RetrieveFirst()
	assert.True(t, ok)
	assert.Equal(t, "a", smallest)
	largest, ok := list.RetrieveLast()
	assert.True(t, ok)
	assert.Equal(t, "z", largest)
	assertChainEqualsSlice(t, []string{"m"}, &list.chain)
}

func TestSorted_Sequences(t *testing.T) {
	list := NewSorted(utils.Natural[int]())
	list.Insert(2).Insert(3).Insert(1)
	assert.Equal(t, []int{1, 2, 3}, slices.Collect(list.All()))
	assert.Equal(t, []int{3, 2, 1}, slices.Collect(list.Backward()))
}

func TestSorted_NilCompare(t *testing.T) {
	list := NewSorted[int](nil)
	list.Insert(3).Insert(1).Insert(2)
	assert.Equal(t, []int{3, 1, 2}, list.ToSlice(), "Without an order, values keep their insertion order")
}

func TestCapabilities(t *testing.T) {
	var basic any = NewBasic[int]()
	var sorted any = NewSorted(utils.Natural[int]())

	_, ok := basic.(Positional[int])
	assert.True(t, ok, "Basic should accept values at either end")
	_, ok = basic.(Ordered[int])
	assert.False(t, ok, "Basic should not claim an order")

	_, ok = sorted.(Ordered[int])
	assert.True(t, ok, "Sorted should accept ordered inserts")
	_, ok = sorted.(Positional[int])
	assert.False(t, ok, "Sorted must never accept values at an arbitrary end")

	for _, container := range []Container[int]{basic.(Container[int]), sorted.(Container[int])} {
		assert.Equal(t, 0, container.Len())
	}
}
