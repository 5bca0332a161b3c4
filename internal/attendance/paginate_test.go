package attendance

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func rollList(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprint(i + 1)
	}
	return out
}

func TestPaginate(t *testing.T) {
	items := rollList(25)

	tests := []struct {
		name       string
		size       int
		number     int
		wantNumber int
		wantTotal  int
		wantItems  []string
	}{
		{name: "first page", size: 10, number: 1, wantNumber: 1, wantTotal: 3, wantItems: rollList(10)},
		{name: "last partial page", size: 10, number: 3, wantNumber: 3, wantTotal: 3, wantItems: []string{"21", "22", "23", "24", "25"}},
		{name: "page past the end clamps", size: 10, number: 9, wantNumber: 3, wantTotal: 3, wantItems: []string{"21", "22", "23", "24", "25"}},
		{name: "zero page clamps to first", size: 10, number: 0, wantNumber: 1, wantTotal: 3, wantItems: rollList(10)},
		{name: "negative page clamps to first", size: 10, number: -4, wantNumber: 1, wantTotal: 3, wantItems: rollList(10)},
		{name: "default size", size: 0, number: 2, wantNumber: 2, wantTotal: 3, wantItems: items[10:20]},
		{name: "size larger than list", size: 100, number: 1, wantNumber: 1, wantTotal: 1, wantItems: items},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Paginate(items, tt.size, tt.number)
			assert.Equal(t, tt.wantNumber, page.Number)
			assert.Equal(t, tt.wantTotal, page.TotalPages)
			assert.Equal(t, 25, page.TotalItems)
			assert.Equal(t, tt.wantItems, page.Items)
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	page := Paginate([]string{}, 10, 3)

	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 0, page.TotalItems)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasNext())
	assert.False(t, page.HasPrev())
}

func TestPaginate_ConcatenationCoversList(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 57} {
		for _, size := range []int{1, 3, 10} {
			items := rollList(n)
			var seen []string
			total := TotalPages(n, size)
			for p := 1; p <= total; p++ {
				seen = append(seen, Paginate(items, size, p).Items...)
			}
			assert.Equal(t, len(items), len(seen), "n=%d size=%d", n, size)
			if n > 0 {
				assert.Equal(t, items, seen, "n=%d size=%d", n, size)
			}
		}
	}
}

func TestPaginate_Navigation(t *testing.T) {
	items := rollList(30)

	assert.True(t, Paginate(items, 10, 1).HasNext())
	assert.False(t, Paginate(items, 10, 1).HasPrev())
	assert.True(t, Paginate(items, 10, 2).HasPrev())
	assert.False(t, Paginate(items, 10, 3).HasNext())
}

func TestPaginate_DoesNotAliasInput(t *testing.T) {
	items := rollList(5)
	page := Paginate(items, 2, 1)
	page.Items[0] = "x"

	assert.Equal(t, "1", items[0])
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 3, TotalPages(25, -1))
}
