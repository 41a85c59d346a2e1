package masterdata

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ListFilters carries the common list query parameters. Search matches
// the entity's natural key and name columns case-insensitively.
type ListFilters struct {
	Search string
	Ativo  *bool
	Page   int
	Limit  int
}

// FiltersFromRequest parses ?search=&ativo=&page=&limit= with the
// defaults every cadastro list shares.
func FiltersFromRequest(r *http.Request) ListFilters {
	q := r.URL.Query()
	f := ListFilters{
		Search: strings.TrimSpace(q.Get("search")),
		Page:   1,
		Limit:  defaultLimit,
	}
	if v := q.Get("ativo"); v != "" {
		b := v == "true" || v == "1"
		f.Ativo = &b
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		f.Page = n
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		f.Limit = n
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	return f
}

func (f ListFilters) offset() int {
	return (f.Page - 1) * f.Limit
}
