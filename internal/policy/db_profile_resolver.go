package policy

import (
	"context"

	"github.com/diewo77/slatko-ops/gate"
	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// DBProfileResolver loads a user's profile and permissions from the database.
type DBProfileResolver struct {
	DB *gorm.DB
}

func NewDBProfileResolver(db *gorm.DB) *DBProfileResolver {
	return &DBProfileResolver{DB: db}
}

// Resolve returns nil for unknown users and users without a profile.
func (r *DBProfileResolver) Resolve(ctx context.Context, userID uint) (gate.Profile, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Preload("Profile.Permissions").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "resolve profile of user %d", userID)
	}
	if user.Profile == nil {
		return nil, nil
	}
	perms := make([]gate.Permission, 0, len(user.Profile.Permissions))
	for _, p := range user.Profile.Permissions {
		perms = append(perms, gate.NewPermission(p.ResourceType, gate.Action(p.Action)))
	}
	return gate.NewStaticProfile(user.Profile.ID, user.Profile.Name, perms...), nil
}
