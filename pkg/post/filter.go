package post

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortPopular = "popular"
	SortLiked   = "liked"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// ListFilter enumerates every recognized listing option. Defaulting and
// validation happen once, at ParseListFilter; the rest of the package
// trusts the values.
type ListFilter struct {
	Page     int64
	Limit    int64
	Category string
	Tags     []string
	Search   string
	Author   string
	Sort     string
}

// ParseListFilter reads the listing options from the query string. Absent or
// non-numeric page/limit fall back to 1 and 10; there is no upper limit on
// page size. Unknown sort values fall back to newest.
func ParseListFilter(q url.Values) ListFilter {
	f := ListFilter{
		Page:     defaultPage,
		Limit:    defaultLimit,
		Category: q.Get("category"),
		Search:   strings.TrimSpace(q.Get("search")),
		Author:   q.Get("author"),
		Sort:     q.Get("sort"),
	}

	if page, err := strconv.ParseInt(q.Get("page"), 10, 64); err == nil && page > 0 {
		f.Page = page
	}
	if limit, err := strconv.ParseInt(q.Get("limit"), 10, 64); err == nil && limit > 0 {
		f.Limit = limit
	}

	if tags := q.Get("tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				f.Tags = append(f.Tags, t)
			}
		}
	}

	switch f.Sort {
	case SortNewest, SortOldest, SortPopular, SortLiked:
	default:
		f.Sort = SortNewest
	}

	return f
}

func (f ListFilter) Skip() int64 {
	return (f.Page - 1) * f.Limit
}

// Query translates the filter options into a store predicate. Status and
// author scoping is composed on top by the service, depending on which
// listing variant runs.
func (f ListFilter) Query() bson.M {
	q := bson.M{}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if len(f.Tags) > 0 {
		// A post matches when its tag set intersects the requested one.
		q["tags"] = bson.M{"$in": f.Tags}
	}
	if f.Search != "" {
		q["$text"] = bson.M{"$search": f.Search}
	}
	if f.Author != "" {
		q["author.id"] = f.Author
	}
	return q
}

// SortSpec maps the sort option to a store ordering. Creation time is the
// secondary key so paging stays deterministic on ties.
func (f ListFilter) SortSpec() bson.D {
	switch f.Sort {
	case SortOldest:
		return bson.D{{Key: "created", Value: 1}}
	case SortPopular:
		return bson.D{{Key: "views", Value: -1}, {Key: "created", Value: 1}}
	case SortLiked:
		return bson.D{{Key: "likeCount", Value: -1}, {Key: "created", Value: 1}}
	default:
		return bson.D{{Key: "created", Value: -1}}
	}
}

type PageRef struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
}

type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Paginate derives the next/prev references from the full count of posts
// matching the predicate, independent of the current page.
func (f ListFilter) Paginate(total int64) *Pagination {
	p := new(Pagination)
	if f.Skip()+f.Limit < total {
		p.Next = &PageRef{Page: f.Page + 1, Limit: f.Limit}
	}
	if f.Skip() > 0 {
		p.Prev = &PageRef{Page: f.Page - 1, Limit: f.Limit}
	}
	return p
}
