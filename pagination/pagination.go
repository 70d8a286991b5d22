// Package pagination holds page-number based paging requests and the
// generic page returned for them.
package pagination

import "github.com/uptrace/bun"

const (
	defaultPageSize = 20
	defaultMaxSize  = 100
)

type Options struct {
	MaxPageSize int
}

type Option func(*Options)

func WithMaxPageSize(maxSize int) Option {
	return func(o *Options) {
		o.MaxPageSize = maxSize
	}
}

// Request asks for page PageNumber (1-based) of PageSize items.
type Request struct {
	PageNumber int `json:"page_number" query:"page_number"`
	PageSize   int `json:"page_size"   query:"page_size"`
}

// Normalize fills zero or negative fields with defaults and caps PageSize.
func (r *Request) Normalize(opts ...Option) {
	o := Options{MaxPageSize: defaultMaxSize}
	for _, opt := range opts {
		opt(&o)
	}

	if r.PageNumber <= 0 {
		r.PageNumber = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = defaultPageSize
	}
	if r.PageSize > o.MaxPageSize {
		r.PageSize = o.MaxPageSize
	}
}

func (r Request) Offset() int {
	return (r.PageNumber - 1) * r.PageSize
}

func (r Request) Limit() int {
	return r.PageSize
}

// Apply limits q to the requested page. r must be normalized.
func (r Request) Apply(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Limit(r.Limit()).Offset(r.Offset())
}

type Response[T any] struct {
	PageNumber  int   `json:"page_number"`
	PageSize    int   `json:"page_size"`
	PageCount   int   `json:"page_count"`
	TotalCount  int64 `json:"total_count"`
	PageContent []T   `json:"page_content"`
}

// NewResponse builds the page for req from its items and the total count
// of matches.
func NewResponse[T any](items []T, totalCount int64, req Request) Response[T] {
	pageCount := 0
	if req.PageSize > 0 {
		pageCount = int((totalCount + int64(req.PageSize) - 1) / int64(req.PageSize))
	}
	if items == nil {
		items = []T{}
	}

	return Response[T]{
		PageNumber:  req.PageNumber,
		PageSize:    req.PageSize,
		PageCount:   pageCount,
		TotalCount:  totalCount,
		PageContent: items,
	}
}
