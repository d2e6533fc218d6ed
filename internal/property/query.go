package property

import (
	"cmp"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Sort orders accepted by ListPublic.
const (
	SortNewest    = "recente"
	SortPriceAsc  = "preco-menor"
	SortPriceDesc = "preco-maior"
)

const (
	DefaultPageSize    = 9
	DefaultMaxPageSize = 100
)

// Query selects a page of public listings.
type Query struct {
	Type     string
	Purpose  string
	MinPrice *float64
	MaxPrice *float64
	Location string
	Sort     string
	Page     int
	Limit    int
}

type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

type Page struct {
	Items      []Property `json:"imoveis"`
	Pagination Pagination `json:"pagination"`
}

// ParseQuery reads the public listing parameters. page and limit fall back
// to 1 and defaultLimit when absent, non-numeric or below 1; limit is capped
// at maxLimit.
func ParseQuery(v url.Values, defaultLimit, maxLimit int) Query {
	if defaultLimit <= 0 {
		defaultLimit = DefaultPageSize
	}
	if maxLimit <= 0 {
		maxLimit = DefaultMaxPageSize
	}

	q := Query{
		Type:     strings.TrimSpace(v.Get("tipo")),
		Purpose:  strings.TrimSpace(v.Get("finalidade")),
		MinPrice: parseFloat(v.Get("precoMin")),
		MaxPrice: parseFloat(v.Get("precoMax")),
		Location: strings.TrimSpace(v.Get("localizacao")),
		Sort:     strings.TrimSpace(v.Get("ordem")),
		Page:     parsePositive(v.Get("page"), 1),
		Limit:    parsePositive(v.Get("limit"), defaultLimit),
	}
	q.Limit = min(q.Limit, maxLimit)
	return q
}

func parseFloat(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}

func parsePositive(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// ListPublic filters the visible properties, sorts them and returns the
// requested page.
func (s *Store) ListPublic(q Query) Page {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}

	fold := cases.Fold()
	location := fold.String(q.Location)

	matches := s.snapshot(func(p Property) bool {
		if !p.Visible() {
			return false
		}
		if q.Type != "" && p.Type != q.Type {
			return false
		}
		if q.Purpose != "" && p.Purpose != q.Purpose {
			return false
		}
		if q.MinPrice != nil && p.Price < *q.MinPrice {
			return false
		}
		if q.MaxPrice != nil && p.Price > *q.MaxPrice {
			return false
		}
		if location != "" && !strings.Contains(fold.String(p.Address), location) {
			return false
		}
		return true
	})

	switch q.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(matches, func(a, b Property) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(matches, func(a, b Property) int { return cmp.Compare(b.Price, a.Price) })
	default:
		slices.SortStableFunc(matches, func(a, b Property) int { return b.PublishedAt.Compare(a.PublishedAt) })
	}

	total := len(matches)
	totalPages := total / q.Limit
	if total%q.Limit != 0 {
		totalPages++
	}
	items := []Property{}
	// Compare pages before multiplying so a huge page cannot overflow.
	if q.Page <= totalPages {
		start := (q.Page - 1) * q.Limit
		items = matches[start : start+min(q.Limit, total-start)]
	}

	return Page{
		Items: items,
		Pagination: Pagination{
			CurrentPage:  q.Page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: q.Limit,
			HasNextPage:  q.Page < totalPages,
			HasPrevPage:  q.Page > 1,
		},
	}
}

// AdminFilter narrows the unrestricted admin listing.
type AdminFilter struct {
	Status  string
	Enabled *bool
}

// ParseAdminFilter reads status and habilitado; habilitado is true only
// for the literal "true".
func ParseAdminFilter(v url.Values) AdminFilter {
	f := AdminFilter{Status: strings.TrimSpace(v.Get("status"))}
	if v.Has("habilitado") {
		enabled := v.Get("habilitado") == "true"
		f.Enabled = &enabled
	}
	return f
}

// ListAll returns every property matching f, newest creation first.
func (s *Store) ListAll(f AdminFilter) []Property {
	out := s.snapshot(func(p Property) bool {
		if f.Status != "" && p.Status != f.Status {
			return false
		}
		if f.Enabled != nil && p.Enabled != *f.Enabled {
			return false
		}
		return true
	})
	slices.SortFunc(out, func(a, b Property) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out
}
