package post

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":             "hello-world",
		"  Go & MongoDB: a primer ": "go-mongodb-a-primer",
		"UPPER lower 123":           "upper-lower-123",
		"---":                       "post",
		"":                          "post",
		"trailing punctuation!!!":   "trailing-punctuation",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}
