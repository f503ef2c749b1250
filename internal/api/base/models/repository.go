// Package models holds the types shared by the base repository layer.
package models

// PaginateResult is one page of a list query.
type PaginateResult[T any] struct {
	Page      int64 `json:"page" bson:"page"`
	Limit     int64 `json:"limit" bson:"limit"`
	ItemCount int64 `json:"itemCount" bson:"itemCount"` // items on this page
	Items     []T   `json:"items" bson:"items"`
	Total     int64 `json:"total" bson:"total"`
	TotalPage int64 `json:"totalPage" bson:"totalPage"`
}

// NewPaginateResult fills the derived counters.
func NewPaginateResult[T any](items []T, page, limit, total int64) *PaginateResult[T] {
	if items == nil {
		items = []T{}
	}
	var totalPage int64
	if total > 0 && limit > 0 {
		totalPage = (total + limit - 1) / limit
	}
	return &PaginateResult[T]{
		Page:      page,
		Limit:     limit,
		ItemCount: int64(len(items)),
		Items:     items,
		Total:     total,
		TotalPage: totalPage,
	}
}

// PageQuery is the page/limit pair read from the query string.
type PageQuery struct {
	Page  int64
	Limit int64
}

// Normalize clamps page to >= 1 and limit to [1, maxLimit], using defaultLimit when unset.
func (q PageQuery) Normalize(defaultLimit, maxLimit int64) PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	return q
}

// Skip is the number of documents before this page.
func (q PageQuery) Skip() int64 {
	return (q.Page - 1) * q.Limit
}
