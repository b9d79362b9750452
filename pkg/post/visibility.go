package post

import "blogapi/pkg/identity"

// CanRead decides whether the requester may see the post. Unpublished posts
// are visible only to their author and admins. A negative answer must be
// surfaced as not-found so unpublished content doesn't leak its existence.
func CanRead(p *Post, ident identity.Identity) bool {
	if p.IsPublished() {
		return true
	}
	if ident.IsAnonymous() {
		return false
	}
	return ident.Id == p.Author.Id || ident.IsAdmin()
}

// CanMutate decides whether the requester may change or delete a resource
// owned by ownerId (a post, or a single comment). Unlike CanRead, a negative
// answer is an authorization error: the resource's existence was already
// confirmed by the lookup that preceded this check.
func CanMutate(ownerId string, ident identity.Identity) bool {
	if ident.IsAnonymous() {
		return false
	}
	return ident.Id == ownerId || ident.IsAdmin()
}
