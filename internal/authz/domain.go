// Package authz implements the permission model: typed permission tuples
// resolved from role grants plus per-user overrides, with an explicit
// precedence order.
package authz

import (
	"fmt"
	"strings"
)

// Well-known actions and resources.
const (
	// ActionAdmin grants every action on a resource.
	ActionAdmin = "admin"
	// ResourceAll is the wildcard resource for global admin grants.
	ResourceAll = "todos"
	// SentinelSuperAdmin is the single permission carried by super admins.
	SentinelSuperAdmin = "super_admin"
)

// Permission is an (action, resource, optional scope) tuple. The wire
// format is "action:resource" or "action:resource:scope", matching the
// strings stored in the permission tables.
type Permission struct {
	Action   string
	Resource string
	Scope    string
}

// Parse converts the wire format into a Permission.
func Parse(s string) (Permission, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		if len(parts) == 1 && parts[0] == SentinelSuperAdmin {
			return Permission{Action: SentinelSuperAdmin}, nil
		}
		return Permission{}, fmt.Errorf("authz: permissão malformada %q", s)
	}
	p := Permission{Action: parts[0], Resource: parts[1]}
	if len(parts) == 3 {
		p.Scope = parts[2]
	}
	return p, nil
}

// String renders the wire format.
func (p Permission) String() string {
	if p.Action == SentinelSuperAdmin && p.Resource == "" {
		return SentinelSuperAdmin
	}
	if p.Scope != "" {
		return p.Action + ":" + p.Resource + ":" + p.Scope
	}
	return p.Action + ":" + p.Resource
}

// Key identifies the action:resource pair, ignoring scope. User grants
// replace role grants sharing the same key.
func (p Permission) Key() string {
	return p.Action + ":" + p.Resource
}
