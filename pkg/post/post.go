package post

import (
	"time"

	"blogapi/pkg/comment"
	"blogapi/pkg/like"
	"blogapi/pkg/user"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

type PostId string

// Post is the whole aggregate: engagement data (likes, comments, views) is
// embedded and stored as a single document.
type Post struct {
	Id       PostId        `json:"id" bson:"id"`
	Author   *user.Profile `json:"author" bson:"author"`
	Title    string        `json:"title" bson:"title"`
	Content  string        `json:"content" bson:"content"`
	Excerpt  string        `json:"excerpt" bson:"excerpt"`
	Slug     string        `json:"slug" bson:"slug"`
	Status   string        `json:"status" bson:"status"`
	Category string        `json:"category,omitempty" bson:"category,omitempty"`
	Tags     []string      `json:"tags" bson:"tags"`

	Views     int          `json:"views" bson:"views"`
	LikeCount int          `json:"likeCount" bson:"likeCount"`
	Likes     []*like.Like `json:"likes" bson:"likes"`

	Comments []*comment.Comment `json:"comments" bson:"comments"`

	Created   time.Time  `json:"created" bson:"created"`
	Updated   time.Time  `json:"updated" bson:"updated"`
	Published *time.Time `json:"published,omitempty" bson:"published,omitempty"`
}

func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}

// LikedBy reports whether the given user is in the post's like list.
func (p *Post) LikedBy(userId string) bool {
	for _, l := range p.Likes {
		if l.UserId == userId {
			return true
		}
	}
	return false
}

// FindComment returns the embedded comment with the given id.
func (p *Post) FindComment(id comment.CommentId) (*comment.Comment, bool) {
	for _, c := range p.Comments {
		if c.Id == id {
			return c, true
		}
	}
	return nil, false
}
