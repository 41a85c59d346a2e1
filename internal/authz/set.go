package authz

import "sort"

// Set is a resolved, immutable permission set for one user.
type Set struct {
	perms map[string]Permission
	super bool
}

// NewSet builds a Set from explicit permissions. Later entries replace
// earlier ones with the same action:resource key.
func NewSet(perms ...Permission) Set {
	s := Set{perms: make(map[string]Permission, len(perms))}
	for _, p := range perms {
		if p.Action == SentinelSuperAdmin {
			s.super = true
			continue
		}
		s.perms[p.Key()] = p
	}
	return s
}

// Resolve computes the effective set: the super-admin flag short-circuits
// into the sentinel, otherwise role grants apply first and user grants
// overlay them per action:resource key.
func Resolve(isSuperAdmin bool, rolePerms, userPerms []Permission) Set {
	if isSuperAdmin {
		return Set{super: true}
	}
	merged := make([]Permission, 0, len(rolePerms)+len(userPerms))
	merged = append(merged, rolePerms...)
	merged = append(merged, userPerms...)
	return NewSet(merged...)
}

// Super reports whether the set carries the super-admin sentinel.
func (s Set) Super() bool { return s.super }

// Has checks a permission with the precedence order:
// sentinel, exact tuple, resource-wide grant, admin on the resource,
// global admin.
func (s Set) Has(action, resource, scope string) bool {
	if s.super {
		return true
	}
	if p, ok := s.perms[action+":"+resource]; ok {
		if p.Scope == "" || p.Scope == scope {
			return true
		}
	}
	if p, ok := s.perms[ActionAdmin+":"+resource]; ok && p.Scope == "" {
		return true
	}
	if p, ok := s.perms[ActionAdmin+":"+ResourceAll]; ok && p.Scope == "" {
		return true
	}
	return false
}

// HasAny reports whether at least one of the checks passes.
func (s Set) HasAny(checks ...Permission) bool {
	for _, c := range checks {
		if s.Has(c.Action, c.Resource, c.Scope) {
			return true
		}
	}
	return false
}

// Strings renders the set in wire format, sorted for stable output.
// The sentinel renders as the single "super_admin" entry.
func (s Set) Strings() []string {
	if s.super {
		return []string{SentinelSuperAdmin}
	}
	out := make([]string, 0, len(s.perms))
	for _, p := range s.perms {
		out = append(out, p.String())
	}
	sort.Strings(out)
	return out
}

// SetFromStrings parses wire-format permissions into a Set, skipping
// malformed entries.
func SetFromStrings(values []string) Set {
	perms := make([]Permission, 0, len(values))
	for _, v := range values {
		if v == SentinelSuperAdmin {
			return Set{super: true}
		}
		p, err := Parse(v)
		if err != nil {
			continue
		}
		perms = append(perms, p)
	}
	return NewSet(perms...)
}
