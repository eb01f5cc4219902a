// ABOUTME: Role resolution from configured and presented secrets
// ABOUTME: Produces the owner/public auth context threaded through tool handlers

package auth

// Role is the caller's access level. Owner may call state-mutating and
// business-sensitive tools; public is read-only.
type Role string

const (
	RoleOwner  Role = "owner"
	RolePublic Role = "public"
)

// Context holds the resolved caller identity for a session. A nil *Context
// is treated as no-session, the most restrictive state.
type Context struct {
	Role Role
}

// IsOwner reports whether the context grants owner access. Safe on nil.
func (c *Context) IsOwner() bool {
	return c != nil && c.Role == RoleOwner
}

// Resolve derives the session role. With auth disabled every caller is
// owner. With auth enabled, only an exact match between the configured and
// presented secrets grants owner; a missing secret on either side or any
// mismatch yields public.
func Resolve(enabled bool, configured, presented string) *Context {
	if !enabled {
		return &Context{Role: RoleOwner}
	}
	if configured == "" || presented == "" || configured != presented {
		return &Context{Role: RolePublic}
	}
	return &Context{Role: RoleOwner}
}
