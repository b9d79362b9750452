package comment

import (
	"time"

	"blogapi/pkg/user"
)

type CommentId string

type Comment struct {
	Id      CommentId     `json:"id" bson:"id"`
	Author  *user.Profile `json:"author" bson:"author"`
	Created time.Time     `json:"created" bson:"created"`
	Body    string        `json:"body" bson:"body"`
}
