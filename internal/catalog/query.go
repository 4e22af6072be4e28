// Package catalog holds the request-independent parts of catalog browsing:
// filter parsing, page resolution and the parameters kept for pagination links.
package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/baharkarakas/shelfhub/internal/models"
)

const (
	PageSize    = 6
	RecentLimit = 10
)

// Query parameter names.
const (
	ParamTitle  = "title"
	ParamAuthor = "author"
	ParamYear   = "year"
	ParamISBN   = "isbn"
	ParamPage   = "page"
)

// Filter is a conjunction of optional predicates. Zero values impose no constraint.
type Filter struct {
	Title      string
	Author     string
	ISBN       string
	Year       *int
	CategoryID *int64
}

// ParseFilter reads title/author/isbn/year from query values.
// A year that is not an integer is ignored.
func ParseFilter(q url.Values) Filter {
	f := Filter{
		Title:  strings.TrimSpace(q.Get(ParamTitle)),
		Author: strings.TrimSpace(q.Get(ParamAuthor)),
		ISBN:   strings.TrimSpace(q.Get(ParamISBN)),
	}
	if raw := strings.TrimSpace(q.Get(ParamYear)); raw != "" {
		if y, err := strconv.Atoi(raw); err == nil {
			f.Year = &y
		}
	}
	return f
}

// PreservedParams returns a copy of q without the page number.
func PreservedParams(q url.Values) url.Values {
	out := url.Values{}
	for k, vs := range q {
		if k == ParamPage {
			continue
		}
		out[k] = append([]string(nil), vs...)
	}
	return out
}

type Page struct {
	Number      int  `json:"number"`
	NumPages    int  `json:"num_pages"`
	Total       int  `json:"total"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

func (p Page) Offset() int { return (p.Number - 1) * PageSize }

func (p Page) Limit() int { return PageSize }

// NumPages never returns less than 1, so an empty result still has a first page.
func NumPages(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + PageSize - 1) / PageSize
}

// ResolvePage maps a raw page value onto a valid page: a non-integer yields
// page 1, anything outside [1, last] yields the last page.
func ResolvePage(raw string, total int) Page {
	last := NumPages(total)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	switch {
	case err != nil:
		n = 1
	case n < 1 || n > last:
		n = last
	}
	return Page{
		Number:      n,
		NumPages:    last,
		Total:       total,
		HasNext:     n < last,
		HasPrevious: n > 1,
	}
}

// Result is everything a catalog listing renders.
type Result struct {
	Books      []models.RankedBook `json:"books"`
	Page       Page                `json:"page"`
	Recent     []models.Book       `json:"recent"`
	Categories []models.Category   `json:"categories"`
	// Params is the encoded filter query without "page", for building page links.
	Params string `json:"params"`
}
