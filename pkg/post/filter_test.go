package post

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseListFilterDefaults(t *testing.T) {
	f := ParseListFilter(url.Values{})
	assert.Equal(t, int64(1), f.Page)
	assert.Equal(t, int64(10), f.Limit)
	assert.Equal(t, SortNewest, f.Sort)
	assert.Empty(t, f.Tags)

	f = ParseListFilter(url.Values{"page": {"abc"}, "limit": {"-5"}, "sort": {"bogus"}})
	assert.Equal(t, int64(1), f.Page)
	assert.Equal(t, int64(10), f.Limit)
	assert.Equal(t, SortNewest, f.Sort)
}

func TestParseListFilterTags(t *testing.T) {
	f := ParseListFilter(url.Values{"tags": {"go, mongo,,  web "}})
	assert.Equal(t, []string{"go", "mongo", "web"}, f.Tags)

	q := f.Query()
	assert.Equal(t, bson.M{"$in": []string{"go", "mongo", "web"}}, q["tags"])
}

func TestQueryOptions(t *testing.T) {
	f := ParseListFilter(url.Values{
		"category": {"programming"},
		"search":   {"concurrency"},
		"author":   {"42"},
	})
	q := f.Query()
	assert.Equal(t, "programming", q["category"])
	assert.Equal(t, bson.M{"$search": "concurrency"}, q["$text"])
	assert.Equal(t, "42", q["author.id"])
}

func TestSortSpec(t *testing.T) {
	cases := map[string]bson.D{
		SortNewest:  {{Key: "created", Value: -1}},
		SortOldest:  {{Key: "created", Value: 1}},
		SortPopular: {{Key: "views", Value: -1}, {Key: "created", Value: 1}},
		SortLiked:   {{Key: "likeCount", Value: -1}, {Key: "created", Value: 1}},
	}
	for sort, want := range cases {
		f := ListFilter{Sort: sort}
		assert.Equal(t, want, f.SortSpec(), "sort %q", sort)
	}
}

func TestPaginate(t *testing.T) {
	t.Run("page 2 of a short list has prev and no next", func(t *testing.T) {
		f := ListFilter{Page: 2, Limit: 10}
		p := f.Paginate(15)
		assert.Nil(t, p.Next)
		if assert.NotNil(t, p.Prev) {
			assert.Equal(t, int64(1), p.Prev.Page)
			assert.Equal(t, int64(10), p.Prev.Limit)
		}
	})

	t.Run("first full page has next and no prev", func(t *testing.T) {
		f := ListFilter{Page: 1, Limit: 10}
		p := f.Paginate(25)
		assert.Nil(t, p.Prev)
		if assert.NotNil(t, p.Next) {
			assert.Equal(t, int64(2), p.Next.Page)
		}
	})

	t.Run("exactly two pages omits next on page 2", func(t *testing.T) {
		f := ListFilter{Page: 2, Limit: 10}
		p := f.Paginate(20)
		assert.Nil(t, p.Next)
		assert.NotNil(t, p.Prev)
	})

	t.Run("out-of-range page still paginates", func(t *testing.T) {
		f := ListFilter{Page: 100, Limit: 10}
		p := f.Paginate(15)
		assert.Nil(t, p.Next)
		assert.NotNil(t, p.Prev)
	})
}
