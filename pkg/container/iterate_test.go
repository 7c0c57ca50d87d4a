package container

import (
	"testing"

	"github.com/emirpasic/gods/maps/hashmap"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ranged struct{ readOnly }

func (r ranged) Range(yield func(pos int, v any) bool) {
	for i := len(r.readOnly) - 1; i >= 0; i-- {
		if !yield(i, r.readOnly[i]) {
			return
		}
	}
}

func TestIterationIsRestartable(t *testing.T) {
	m := hashmap.New()
	for _, k := range []string{"pear", "apple", "fig"} {
		m.Put(k, len(k))
	}
	h := mustAdapt(t, m)

	k1, v1 := Collect(h.Iterate())
	k2, v2 := Collect(h.Iterate())
	assert.Equal(t, []any{"apple", "fig", "pear"}, k1)
	assert.Equal(t, []any{5, 3, 4}, v1)
	if diff := cmp.Diff(k1, k2); diff != "" {
		t.Errorf("second traversal keys differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(v1, v2); diff != "" {
		t.Errorf("second traversal values differ (-first +second):\n%s", diff)
	}
}

func TestIterationSkipsKeysRemovedMidTraversal(t *testing.T) {
	m := map[string]int{"a": 1, "b": 2, "c": 3}
	h := mustAdapt(t, &m)

	it := h.Iterate()
	k, _, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, "a", k)

	require.NoError(t, h.Erase("b"))
	k, v, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, "c", k)
	assert.Equal(t, 3, v)

	_, _, ok = it.Next()
	assert.False(t, ok)
}

func TestIterationOfEmptyContainer(t *testing.T) {
	h := mustAdapt(t, &[]int{})
	_, _, ok := h.Iterate().Next()
	assert.False(t, ok)
}

func TestRangerDrivesCustomIteration(t *testing.T) {
	h := mustAdapt(t, ranged{readOnly{1, 2, 3}})
	keys, values := Collect(h.Iterate())
	assert.Equal(t, []any{3, 2, 1}, keys)
	assert.Equal(t, []any{3, 2, 1}, values)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "{ 1, 2 }", Format(mustAdapt(t, &[]int{1, 2})))
	assert.Equal(t, "{ empty }", Format(mustAdapt(t, &[]int{})))
	assert.Equal(t, "{ a = 1, b = 2 }", Format(mustAdapt(t, map[string]int{"b": 2, "a": 1})))

	long := make([]int, 40)
	assert.Contains(t, Format(mustAdapt(t, long)), ", ...")
}
