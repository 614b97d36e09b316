package access

import (
	"context"

	"github.com/taggate/taggate/internal/models"
)

// UserLookup is the slice of the user repository the resolver needs.
type UserLookup interface {
	FindByTag(ctx context.Context, tag string) (*models.User, error)
}

// Resolver maps a scanned tag to a registered user. Exact match only; a nil
// result with nil error means no user holds the tag.
type Resolver struct {
	users UserLookup
}

func NewResolver(users UserLookup) *Resolver {
	return &Resolver{users: users}
}

func (r *Resolver) Resolve(ctx context.Context, tag string) (*models.User, error) {
	return r.users.FindByTag(ctx, tag)
}
