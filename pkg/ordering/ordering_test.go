package ordering

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

type sibling struct {
	Name  string
	Order int
}

func setOrder(s *sibling, n int) { s.Order = n }

func names(items []sibling) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		out = append(out, s.Name)
	}
	return out
}

func requireDense(t *testing.T, items []sibling) {
	t.Helper()
	for i, s := range items {
		require.Equal(t, i+1, s.Order)
	}
}

func TestNormalizeFixesGapsAndDuplicates(t *testing.T) {
	items := []sibling{{"a", 3}, {"b", 3}, {"c", 9}}
	items = Normalize(items, setOrder)
	requireDense(t, items)
	require.Equal(t, []string{"a", "b", "c"}, names(items))
}

func TestInsertAppendsByDefault(t *testing.T) {
	items := []sibling{{"a", 1}, {"b", 2}}
	items = Append(items, sibling{Name: "c"}, setOrder)
	require.Equal(t, []string{"a", "b", "c"}, names(items))
	requireDense(t, items)
}

func TestInsertAtPositionShiftsLaterSiblings(t *testing.T) {
	items := []sibling{{"a", 1}, {"b", 2}, {"c", 3}}
	items = Insert(items, sibling{Name: "x"}, 2, setOrder)
	require.Equal(t, []string{"a", "x", "b", "c"}, names(items))
	requireDense(t, items)
}

func TestInsertOutOfRangeAppends(t *testing.T) {
	items := Insert([]sibling{{"a", 1}}, sibling{Name: "b"}, 99, setOrder)
	require.Equal(t, []string{"a", "b"}, names(items))
	requireDense(t, items)

	items = Insert(items, sibling{Name: "c"}, 0, setOrder)
	require.Equal(t, []string{"a", "b", "c"}, names(items))
	requireDense(t, items)
}

func TestInsertIntoEmptyList(t *testing.T) {
	items := Insert(nil, sibling{Name: "a"}, 1, setOrder)
	require.Equal(t, []string{"a"}, names(items))
	requireDense(t, items)
}

func TestRemoveShiftsDown(t *testing.T) {
	items := []sibling{{"a", 1}, {"b", 2}, {"c", 3}}
	items = Remove(items, 2, setOrder)
	require.Equal(t, []string{"a", "c"}, names(items))
	requireDense(t, items)
}

func TestRemoveLastSiblingYieldsEmptyList(t *testing.T) {
	items := Remove([]sibling{{"a", 1}}, 1, setOrder)
	require.Empty(t, items)
}

func TestRemoveOutOfRangeIsNoop(t *testing.T) {
	items := Remove([]sibling{{"a", 1}, {"b", 2}}, 5, setOrder)
	require.Equal(t, []string{"a", "b"}, names(items))
	requireDense(t, items)
}

func TestRemoveFunc(t *testing.T) {
	items := []sibling{{"a", 1}, {"b", 2}, {"c", 3}}
	items, ok := RemoveFunc(items, func(s sibling) bool { return s.Name == "b" }, setOrder)
	require.True(t, ok)
	require.Equal(t, []string{"a", "c"}, names(items))
	requireDense(t, items)

	items, ok = RemoveFunc(items, func(s sibling) bool { return s.Name == "zz" }, setOrder)
	require.False(t, ok)
	require.Equal(t, []string{"a", "c"}, names(items))
}

func TestRandomEditSequenceStaysDense(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var items []sibling
	for i := 0; i < 200; i++ {
		if len(items) == 0 || rng.Intn(2) == 0 {
			items = Insert(items, sibling{Name: "n"}, rng.Intn(len(items)+3), setOrder)
		} else {
			items = Remove(items, rng.Intn(len(items)+2), setOrder)
		}
		requireDense(t, items)
	}
}
