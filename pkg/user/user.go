package user

import "blogapi/pkg/identity"

type User struct {
	Username string        `json:"username"`
	Password []byte        `json:"-"`
	Id       string        `json:"id"`
	Name     string        `json:"name"`
	Avatar   string        `json:"avatar"`
	Bio      string        `json:"bio"`
	Role     identity.Role `json:"role"`
}

// Profile is the public slice of a user that gets denormalized into posts
// and comments for display.
type Profile struct {
	Id       string `json:"id" bson:"id"`
	Username string `json:"username" bson:"username"`
	Name     string `json:"name" bson:"name"`
	Avatar   string `json:"avatar" bson:"avatar"`
}

func (u *User) Profile() *Profile {
	return &Profile{
		Id:       u.Id,
		Username: u.Username,
		Name:     u.Name,
		Avatar:   u.Avatar,
	}
}

func (u *User) Identity() identity.Identity {
	return identity.Identity{Id: u.Id, Role: u.Role}
}
