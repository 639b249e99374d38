package pagination

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows any page can request.
	MaxLimit = 100
)

// Params holds page pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta describes the page position returned alongside list payloads.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// FromQuery extracts pagination params from a URL query, rejecting malformed
// or out-of-range values.
func FromQuery(query url.Values) (Params, error) {
	params := Params{Page: 1, Limit: DefaultLimit}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return Params{}, fmt.Errorf("invalid page %q", raw)
		}
		params.Page = page
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return Params{}, fmt.Errorf("invalid limit %q", raw)
		}
		params.Limit = limit
	}

	params.Limit = NormalizeLimit(params.Limit)
	return params, nil
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Normalize returns a copy with page and limit clamped to valid values.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	p.Limit = NormalizeLimit(p.Limit)
	return p
}

// Offset converts the page position into a row offset.
func (p Params) Offset() int {
	normalized := p.Normalize()
	return (normalized.Page - 1) * normalized.Limit
}

// NewMeta computes page metadata for a total row count.
func NewMeta(params Params, total int64) Meta {
	normalized := params.Normalize()

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(normalized.Limit) - 1) / int64(normalized.Limit))
	}

	return Meta{
		Page:       normalized.Page,
		Limit:      normalized.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    normalized.Page < totalPages,
		HasPrev:    normalized.Page > 1 && total > 0,
	}
}
