package tenancy

import (
	"github.com/contentpulse/contentpulse-backend/models"
	"github.com/google/uuid"
)

// Context is the resolved organization context for one request. It carries
// everything downstream components need to scope their reads and writes and
// is threaded through every call rather than reconstructed ad hoc. There is
// no server-side cache of a "current organization"; each request resolves
// its own context.
type Context struct {
	OrgID       uuid.UUID
	PrincipalID uuid.UUID
	Role        models.Role
	Permissions []models.Permission
	SuperAdmin  bool
}

// HasPermission reports whether the resolved role grants the permission.
// Super admins operating cross-tenant hold every permission.
func (c *Context) HasPermission(p models.Permission) bool {
	if c.SuperAdmin {
		return true
	}
	for _, perm := range c.Permissions {
		if perm == p {
			return true
		}
	}
	return false
}

// CanReview reports whether the context may approve, reject, or request
// revisions within its organization
func (c *Context) CanReview() bool {
	return c.SuperAdmin || c.Role.CanReview()
}

// IsAdmin reports whether the context carries administrative rights within
// its organization
func (c *Context) IsAdmin() bool {
	return c.SuperAdmin || c.Role.IsAdmin()
}
