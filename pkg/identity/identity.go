package identity

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the resolved requester of an operation. The zero value is an
// anonymous (unauthenticated) requester.
type Identity struct {
	Id   string `json:"id"`
	Role Role   `json:"role"`
}

func Anonymous() Identity {
	return Identity{}
}

func (i Identity) IsAnonymous() bool {
	return i.Id == ""
}

func (i Identity) IsAdmin() bool {
	return !i.IsAnonymous() && i.Role == RoleAdmin
}
