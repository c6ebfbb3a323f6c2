// Package gate is a small profile-based authorization layer.
//
// A user resolves to one Profile holding "resource:action" permissions. The
// Gate first checks that permission and then, when a concrete subject is
// given and a Policy is registered for the resource type, asks the policy
// (typically an ownership check). The package knows nothing about the
// application's models; U is whatever identifies a user (a uint id here).
package gate

import "context"

// Policy adds subject-level rules on top of profile permissions.
type Policy[U any] interface {
	Can(ctx context.Context, user U, action Action, subject any) bool
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc[U any] func(ctx context.Context, user U, action Action, subject any) bool

func (f PolicyFunc[U]) Can(ctx context.Context, user U, action Action, subject any) bool {
	return f(ctx, user, action, subject)
}

// Gate is the central authorization checkpoint.
type Gate[U comparable] struct {
	resolver ProfileResolver[U]
	policies map[string]Policy[U]
}

// New creates a gate backed by the given resolver.
func New[U comparable](resolver ProfileResolver[U]) *Gate[U] {
	return &Gate[U]{resolver: resolver, policies: make(map[string]Policy[U])}
}

// Register sets the subject policy for a resource type, replacing any previous one.
func (g *Gate[U]) Register(resourceType string, p Policy[U]) {
	g.policies[resourceType] = p
}

// Profile resolves the user's profile. The zero user never has one.
func (g *Gate[U]) Profile(ctx context.Context, user U) (Profile, error) {
	var zero U
	if user == zero {
		return nil, ErrUnauthorized
	}
	p, err := g.resolver.Resolve(ctx, user)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrForbidden
	}
	return p, nil
}

// Authorize returns nil when user may perform action on resourceType.
// ErrUnauthorized is returned for the zero user, ErrForbidden when the
// profile or the subject policy denies.
func (g *Gate[U]) Authorize(ctx context.Context, user U, action Action, resourceType string, subject any) error {
	profile, err := g.Profile(ctx, user)
	if err != nil {
		if err == ErrUnauthorized {
			return err
		}
		return ErrForbidden
	}
	if !profile.HasPermission(NewPermission(resourceType, action)) {
		return ErrForbidden
	}
	if subject == nil {
		return nil
	}
	if p, ok := g.policies[resourceType]; ok && !p.Can(ctx, user, action, subject) {
		return ErrForbidden
	}
	return nil
}

// Can is Authorize as a bool.
func (g *Gate[U]) Can(ctx context.Context, user U, action Action, resourceType string, subject any) bool {
	return g.Authorize(ctx, user, action, resourceType, subject) == nil
}

// CanProfile checks only the profile permission, skipping subject policies.
func (g *Gate[U]) CanProfile(ctx context.Context, user U, action Action, resourceType string) bool {
	return g.Authorize(ctx, user, action, resourceType, nil) == nil
}
