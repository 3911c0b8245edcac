// Package authz holds the ownership guard evaluated before any mutation of an
// externally-owned resource. It is a pure predicate: the resource has already
// been fetched by the collaborator, the guard only compares identities.
package authz

import "github.com/campwire/community-core/internal/domain"

// Check returns domain.ErrForbidden unless actorID owns the resource.
func Check(actorID, ownerID string) error {
	if actorID == "" || actorID != ownerID {
		return domain.ErrForbidden
	}
	return nil
}
