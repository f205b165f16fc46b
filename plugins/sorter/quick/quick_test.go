package quick

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func isSorted[T int | int8 | int64](s []T) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

func TestSortCases(t *testing.T) {
	cases := []struct {
		name string
		in   []int
		want []int
	}{
		{"empty", nil, nil},
		{"single", []int{5}, []int{5}},
		{"two", []int{2, 1}, []int{1, 2}},
		{"sample", []int{3, 1, -1023}, []int{-1023, 1, 3}},
		{"dups", []int{4, 4, 1, 4, 1}, []int{1, 1, 4, 4, 4}},
		{"bounds", []int{1024, -1023, 0}, []int{-1023, 0, 1024}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			Sort(tc.in)
			require.Equal(t, tc.want, tc.in)
		})
	}
}

// TestSortAdversarial 已排序/逆序输入是末元素主元的最坏情况。
func TestSortAdversarial(t *testing.T) {
	const n = 100000
	asc := make([]int, n)
	desc := make([]int, n)
	for i := 0; i < n; i++ {
		asc[i] = i
		desc[i] = n - i
	}
	Sort(asc)
	Sort(desc)
	require.True(t, isSorted(asc))
	require.True(t, isSorted(desc))
	require.Equal(t, 1, desc[0])
}

// TestSortRandom 与标准库结果一致。
func TestSortRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		n := rng.Intn(2000)
		in := make([]int, n)
		for i := range in {
			in[i] = rng.Intn(2048) - 1023
		}
		want := append([]int(nil), in...)
		sort.Ints(want)
		Sort(in)
		require.Equal(t, want, in)
	}
}

func TestSortGeneric(t *testing.T) {
	s := []int8{3, -7, 0, 127, -128}
	Sort(s)
	require.True(t, isSorted(s))
	w := []int64{9, 8, 7}
	Sort(w)
	require.Equal(t, []int64{7, 8, 9}, w)
}

func TestPartition(t *testing.T) {
	s := []int{5, 1, 9, 3, 4}
	p := Partition(s, 0, len(s)-1)
	require.Equal(t, 4, s[p])
	for _, v := range s[:p] {
		require.LessOrEqual(t, v, 4)
	}
	for _, v := range s[p+1:] {
		require.Greater(t, v, 4)
	}
}

func TestSorterIface(t *testing.T) {
	v := []int{2, 3, 1}
	require.NoError(t, New().Sort(v))
	require.Equal(t, []int{1, 2, 3}, v)
}

func BenchmarkSort(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	src := make([]int, 2048)
	for i := range src {
		src[i] = rng.Intn(2048) - 1023
	}
	buf := make([]int, len(src))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(buf, src)
		Sort(buf)
	}
}
