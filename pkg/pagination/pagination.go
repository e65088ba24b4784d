package pagination

import (
	"net/http"
	"strconv"

	apperrors "github.com/CodeMeAPixel/Portfolio-sub001/pkg/errors"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Params holds page-number pagination extracted from a query string.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// DefaultParams returns the first page with the default size.
func DefaultParams() Params {
	return Params{Page: 1, PerPage: DefaultPerPage}
}

// New clamps page and perPage into their valid ranges.
func New(page, perPage int) Params {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Params{Page: page, PerPage: perPage}
}

// FromRequest reads `page` and `per_page`. Absent values fall back to the
// defaults; present but malformed values are an InvalidInput error.
func FromRequest(r *http.Request) (Params, error) {
	p := DefaultParams()
	q := r.URL.Query()

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return p, apperrors.InvalidInput("page must be a valid positive integer")
		}
		p.Page = page
	}

	if v := q.Get("per_page"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil || perPage < 1 || perPage > MaxPerPage {
			return p, apperrors.InvalidInput("per_page must be a valid integer between 1 and 100")
		}
		p.PerPage = perPage
	}

	return p, nil
}

// Limit is the SQL LIMIT for p.
func (p Params) Limit() int {
	return p.PerPage
}

// Offset is the SQL OFFSET for p.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}
