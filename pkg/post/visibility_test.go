package post

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"blogapi/pkg/identity"
	"blogapi/pkg/user"
)

var (
	owner     = identity.Identity{Id: "1", Role: identity.RoleUser}
	stranger  = identity.Identity{Id: "2", Role: identity.RoleUser}
	admin     = identity.Identity{Id: "3", Role: identity.RoleAdmin}
	anonymous = identity.Anonymous()
)

func postWithStatus(status string) *Post {
	return &Post{
		Id:     PostId("p1"),
		Author: &user.Profile{Id: owner.Id, Username: "pike"},
		Status: status,
	}
}

func TestCanRead(t *testing.T) {
	published := postWithStatus(StatusPublished)
	draft := postWithStatus(StatusDraft)
	archived := postWithStatus(StatusArchived)

	cases := []struct {
		name  string
		post  *Post
		ident identity.Identity
		want  bool
	}{
		{"anyone reads published", published, anonymous, true},
		{"stranger reads published", published, stranger, true},
		{"anonymous can't read draft", draft, anonymous, false},
		{"stranger can't read draft", draft, stranger, false},
		{"owner reads own draft", draft, owner, true},
		{"admin reads any draft", draft, admin, true},
		{"stranger can't read archived", archived, stranger, false},
		{"owner reads own archived", archived, owner, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanRead(tc.post, tc.ident))
		})
	}
}

func TestCanMutate(t *testing.T) {
	assert.True(t, CanMutate(owner.Id, owner))
	assert.True(t, CanMutate(owner.Id, admin))
	assert.False(t, CanMutate(owner.Id, stranger))
	assert.False(t, CanMutate(owner.Id, anonymous))
}
