package engine

import "smartlock.io/smartlock/model"

// Requirement is either a role membership check or a named permission check.
type Requirement struct {
	roles      []model.Role
	permission string
}

// Role builds a requirement satisfied by any of the given roles.
func Role(roles ...model.Role) Requirement {
	return Requirement{roles: roles}
}

// Permission builds a requirement satisfied by the named permission flag.
func Permission(name string) Requirement {
	return Requirement{permission: name}
}

// Authorize evaluates the requirement against the principal. It runs before
// every state mutation; a nil principal means the call never authenticated.
// Admins pass permission checks implicitly.
func Authorize(p *model.Principal, req Requirement) error {
	if p == nil || p.ID == "" {
		return Unauthenticated()
	}

	if len(req.roles) > 0 {
		for _, role := range req.roles {
			if p.Role == role {
				return nil
			}
		}
		return Forbiddenf("role %s is not allowed to perform this action", p.Role)
	}

	if req.permission != "" {
		if p.Role == model.RoleAdmin || p.Permissions.Has(req.permission) {
			return nil
		}
		return Forbiddenf("missing permission %s", req.permission)
	}

	return nil
}
