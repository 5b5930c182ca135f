// Package pagination implements zero-based page/size requests and the page
// envelope returned by every list endpoint.
package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultSize = 20
	MaxSize     = 100
)

// Request is a zero-based page index plus a page size.
type Request struct {
	Page int
	Size int
}

// ParseRequest reads "page" and "size" query parameters, falling back to
// page 0 and DefaultSize and clamping size to [1, MaxSize].
func ParseRequest(query url.Values) Request {
	page, _ := strconv.Atoi(query.Get("page"))
	if page < 0 {
		page = 0
	}
	size, _ := strconv.Atoi(query.Get("size"))
	if size <= 0 || size > MaxSize {
		size = DefaultSize
	}
	return Request{Page: page, Size: size}
}

// Offset returns the row offset for the request.
func (r Request) Offset() int {
	return r.Page * r.Size
}

type Pageable struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

// Page is one page of results with the totals for the whole match set.
type Page[T any] struct {
	Content          []T      `json:"content"`
	Pageable         Pageable `json:"pageable"`
	TotalElements    int64    `json:"totalElements"`
	TotalPages       int      `json:"totalPages"`
	NumberOfElements int      `json:"numberOfElements"`
}

// NewPage assembles a page from the rows of one query plus the total match
// count. Content is never nil so it serializes as [] rather than null.
func NewPage[T any](content []T, req Request, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}

	return Page[T]{
		Content:          content,
		Pageable:         Pageable{PageNumber: req.Page, PageSize: req.Size},
		TotalElements:    total,
		TotalPages:       totalPages,
		NumberOfElements: len(content),
	}
}

// Map converts a page's content, keeping the envelope intact. Used to project
// storage records into response shapes.
func Map[T, U any](p Page[T], f func(T) U) Page[U] {
	out := make([]U, len(p.Content))
	for i, v := range p.Content {
		out[i] = f(v)
	}
	return Page[U]{
		Content:          out,
		Pageable:         p.Pageable,
		TotalElements:    p.TotalElements,
		TotalPages:       p.TotalPages,
		NumberOfElements: p.NumberOfElements,
	}
}
