package service

import (
	"backend/internal/model"

	"github.com/google/uuid"
)

// CanAccess is the single ownership rule applied to every resource type:
// admins may act on anything, standard users only on what they own. Callers
// pass the owning user id of the target resource; the guard itself knows
// nothing about resource kinds.
func CanAccess(role string, subject, owner uuid.UUID) bool {
	if role == model.RoleAdmin {
		return true
	}
	return subject == owner
}
