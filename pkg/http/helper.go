package http

import (
	"net/http"
	"strconv"
	"strings"

	"zoo/pkg/model"

	apperrors "zoo/pkg/errors"
)

// ParsePagination reads page and limit. Missing values fall back to the
// defaults, non-numeric or non-positive values are rejected and limit is
// capped at model.MaxLimit.
func ParsePagination(r *http.Request) (model.PageRequest, error) {
	query := r.URL.Query()
	req := model.PageRequest{Page: model.DefaultPage, Limit: model.DefaultLimit}

	if s := query.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return req, apperrors.InvalidInput("invalid page parameter: " + s)
		}
		req.Page = v
	}

	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return req, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		if v > model.MaxLimit {
			v = model.MaxLimit
		}
		req.Limit = v
	}

	return req, nil
}

// ParseSort reads sortBy/order. An empty sortBy yields fallback.
func ParseSort(r *http.Request, fallback string) model.Sort {
	query := r.URL.Query()
	field := strings.TrimSpace(query.Get("sortBy"))
	if field == "" {
		field = fallback
	}
	return model.Sort{
		Field: field,
		Desc:  ParseOrder(r) != model.SortAsc,
	}
}

// ParseOrder returns the order query parameter trimmed and lower-cased.
func ParseOrder(r *http.Request) string {
	return strings.ToLower(strings.TrimSpace(r.URL.Query().Get("order")))
}

// ParseBool reads an optional boolean query parameter.
func ParseBool(r *http.Request, key string) (*bool, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid " + key + " parameter: " + s)
	}
	return &v, nil
}

func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
