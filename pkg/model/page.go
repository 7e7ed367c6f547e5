package model

import (
	"encoding/json"
	"math"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	SortAsc  = "asc"
	SortDesc = "desc"
)

type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) Skip() int64 {
	if p.Page < 1 {
		return 0
	}
	return int64(p.Page-1) * int64(p.Limit)
}

type Sort struct {
	Field string
	Desc  bool
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	Limit       int   `json:"limit"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// Page is the single paged result shape returned by every list endpoint.
// It serializes as {"<plural>": [...], "pagination": {...}}.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
	key        string
}

func NewPage[T any](key string, items []T, total int64, req PageRequest) *Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if req.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(req.Limit)))
	}
	return &Page[T]{
		Items: items,
		key:   key,
		Pagination: Pagination{
			CurrentPage: req.Page,
			TotalPages:  totalPages,
			TotalCount:  total,
			Limit:       req.Limit,
			HasNext:     req.Page < totalPages,
			HasPrev:     req.Page > 1,
		},
	}
}

func (p *Page[T]) Key() string {
	return p.key
}

func (p *Page[T]) MarshalJSON() ([]byte, error) {
	key := p.key
	if key == "" {
		key = "items"
	}
	return json.Marshal(map[string]any{
		key:          p.Items,
		"pagination": p.Pagination,
	})
}
