package like

import "time"

// Like marks that a user liked a post. A user appears at most once in a
// post's like list; the uniqueness is enforced by the post repo.
type Like struct {
	UserId  string    `json:"user" bson:"user"`
	Created time.Time `json:"created" bson:"created"`
}
