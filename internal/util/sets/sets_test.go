package sets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet_AddHas(t *testing.T) {
	s := New("a", "b")
	require.True(t, s.Has("a"))
	require.False(t, s.Has("c"))

	s.Add("c")
	require.True(t, s.Has("c"))
	require.Len(t, s, 3)
}

func TestOrdered_KeepsFirstOccurrence(t *testing.T) {
	o := NewOrdered("x", "y", "x", "z")
	require.Equal(t, []string{"x", "y", "z"}, o.Values())
	require.Equal(t, 3, o.Len())

	require.False(t, o.Add("y"))
	require.True(t, o.Add("w"))
	require.Equal(t, []string{"x", "y", "z", "w"}, o.Values())
}

func TestOrdered_ZeroValueUsable(t *testing.T) {
	var o Ordered[int]
	require.False(t, o.Has(1))
	require.True(t, o.Add(1))
	require.True(t, o.Has(1))
}

func TestOrdered_Last(t *testing.T) {
	o := NewOrdered(1, 2, 3, 4, 5)

	require.Equal(t, []int{4, 5}, o.Last(2))
	require.Equal(t, []int{1, 2, 3, 4, 5}, o.Last(10))
	require.Empty(t, o.Last(0))

	// Returned slices are copies.
	last := o.Last(1)
	last[0] = 99
	require.Equal(t, []int{5}, o.Last(1))
}
