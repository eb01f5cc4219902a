// ABOUTME: Tests for the owner/public role resolver
// ABOUTME: Table-driven over enabled/secret combinations

package auth

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		configured string
		presented  string
		want       Role
	}{
		{"disabled grants owner", false, "", "", RoleOwner},
		{"disabled ignores secrets", false, "s3cret", "wrong", RoleOwner},
		{"exact match grants owner", true, "s3cret", "s3cret", RoleOwner},
		{"mismatch is public", true, "s3cret", "nope", RolePublic},
		{"missing presented is public", true, "s3cret", "", RolePublic},
		{"missing configured is public", true, "", "s3cret", RolePublic},
		{"both missing is public", true, "", "", RolePublic},
		{"partial match is public", true, "s3cret", "s3cre", RolePublic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.enabled, tt.configured, tt.presented)
			if got.Role != tt.want {
				t.Errorf("Resolve(%v, %q, %q) = %v, want %v",
					tt.enabled, tt.configured, tt.presented, got.Role, tt.want)
			}
		})
	}
}

func TestIsOwner_NilContext(t *testing.T) {
	var c *Context
	if c.IsOwner() {
		t.Error("nil context must not grant owner")
	}
}
