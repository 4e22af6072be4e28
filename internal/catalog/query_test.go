package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	q := url.Values{
		"title":  {"  Go  "},
		"author": {"pike"},
		"year":   {"1999"},
		"isbn":   {"978"},
		"page":   {"2"},
	}

	f := ParseFilter(q)

	assert.Equal(t, "Go", f.Title)
	assert.Equal(t, "pike", f.Author)
	assert.Equal(t, "978", f.ISBN)
	require.NotNil(t, f.Year)
	assert.Equal(t, 1999, *f.Year)
	assert.Nil(t, f.CategoryID)
}

func TestParseFilter_AbsentAndBadYear(t *testing.T) {
	f := ParseFilter(url.Values{"year": {"nineteen"}, "title": {"   "}})

	assert.Nil(t, f.Year)
	assert.Equal(t, "", f.Title)
	assert.Equal(t, Filter{}, f)
}

func TestPreservedParams_DropsPage(t *testing.T) {
	q := url.Values{"title": {"go"}, "page": {"3"}, "year": {"1999"}}

	kept := PreservedParams(q)

	assert.Equal(t, "title=go&year=1999", kept.Encode())
	// the input is untouched
	assert.Equal(t, "3", q.Get("page"))
}

func TestNumPages(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 6: 1, 7: 2, 12: 2, 13: 3}
	for total, want := range cases {
		assert.Equal(t, want, NumPages(total), "total=%d", total)
	}
}

func TestResolvePage(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		total int
		want  int
	}{
		{"empty means first", "", 20, 1},
		{"non numeric falls back to first", "abc", 20, 1},
		{"in range", "2", 20, 2},
		{"beyond last clamps to last", "9999", 20, 4},
		{"zero clamps to last", "0", 20, 4},
		{"negative clamps to last", "-3", 20, 4},
		{"no results still has page one", "5", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ResolvePage(tt.raw, tt.total)
			assert.Equal(t, tt.want, p.Number)
			assert.Equal(t, NumPages(tt.total), p.NumPages)
		})
	}
}

func TestPage_Bounds(t *testing.T) {
	p := ResolvePage("2", 13)

	assert.Equal(t, 6, p.Offset())
	assert.Equal(t, PageSize, p.Limit())
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrevious)

	last := ResolvePage("3", 13)
	assert.False(t, last.HasNext)
	assert.Equal(t, 12, last.Offset())
}
