package gate

import "strings"

// Action is the verb half of a permission.
type Action string

const (
	ActionView     Action = "view"
	ActionList     Action = "list"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionPrepare  Action = "prepare"
	ActionFinalize Action = "finalize"
)

// Permission represents an allowed action on a resource type.
// Format: "resource:action" (e.g., "order:prepare", "visit:finalize").
type Permission string

// Wildcards for super permissions
const (
	WildcardAll          = "*"
	PermissionSuperAdmin Permission = "*:*"
)

// NewPermission creates a permission from resource type and action.
func NewPermission(resourceType string, action Action) Permission {
	return Permission(resourceType + ":" + string(action))
}

// ParsePermission validates a "resource:action" code.
func ParsePermission(code string) (Permission, error) {
	res, act, ok := strings.Cut(strings.TrimSpace(code), ":")
	if !ok || res == "" || act == "" || strings.Contains(act, ":") {
		return "", ErrMalformedPermission
	}
	return NewPermission(res, Action(act)), nil
}

// Parse splits a permission into resource type and action.
func (p Permission) Parse() (resourceType string, action Action) {
	res, act, ok := strings.Cut(string(p), ":")
	if !ok {
		return "", ""
	}
	return res, Action(act)
}

// Matches reports whether p grants requested.
// "*:*" matches everything and "order:*" matches every order action.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionSuperAdmin || p == requested {
		return true
	}
	res, act := p.Parse()
	reqRes, _ := requested.Parse()
	return res != "" && res == reqRes && string(act) == WildcardAll
}
