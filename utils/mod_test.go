package utils

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindIndex(t *testing.T) {
	require.Equal(t, 1, FindIndex([]string{"a", "b", "b"}, "b"))
	require.Equal(t, -1, FindIndex([]int{1, 2}, 3))
	require.Equal(t, -1, FindIndex[int](nil, 3))
}

func TestMapFilter(t *testing.T) {
	require.Equal(t, []string{"1", "2"}, Map([]int{1, 2}, strconv.Itoa))
	require.Equal(t, []int{2, 4}, Filter([]int{1, 2, 3, 4}, func(v int) bool { return v%2 == 0 }))
	require.NotNil(t, Filter([]int{1}, func(int) bool { return false }), "empty result is not nil")
}
