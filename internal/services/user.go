package services

import (
	"context"
	"strings"

	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/diewo77/slatko-ops/validation"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserInput creates a staff account.
type UserInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// UserService manages staff accounts and their role profiles.
type UserService struct {
	db         *gorm.DB
	bcryptCost int
}

func NewUserService(db *gorm.DB, bcryptCost int) *UserService {
	return &UserService{db: db, bcryptCost: bcryptCost}
}

// Profiles lists the authorization profiles with their permissions.
func (s *UserService) Profiles(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	err := s.db.WithContext(ctx).Preload("Permissions").Order("name").Find(&profiles).Error
	return profiles, errors.Wrap(err, "list profiles")
}

func (s *UserService) profileFor(tx *gorm.DB, role models.Role) (*models.Profile, error) {
	v := validation.Violations{}
	validation.Required("role", string(role), v)
	validation.OneOf("role", role, models.Roles, v)
	if err := v.Err(); err != nil {
		return nil, err
	}
	var p models.Profile
	if err := tx.Where("name = ?", role.ProfileName()).First(&p).Error; err != nil {
		return nil, errors.Wrapf(err, "profile for role %s", role)
	}
	return &p, nil
}

func (s *UserService) Create(ctx context.Context, actor uint, in UserInput) (*models.User, error) {
	in.Role = models.Role(strings.ToUpper(string(in.Role)))
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("email", in.Email, v)
	validation.Required("password", in.Password, v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	user := models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: string(hash),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := s.profileFor(tx, in.Role)
		if err != nil {
			return err
		}
		var taken int64
		if err := tx.Unscoped().Model(&models.User{}).Where("email = ?", user.Email).Count(&taken).Error; err != nil {
			return errors.Wrap(err, "check email")
		}
		if taken > 0 {
			return validation.Violations{"email": "already_exists"}.Err()
		}
		user.ProfileID = &profile.ID
		user.Profile = profile
		if err := tx.Create(&user).Error; err != nil {
			return errors.Wrap(err, "create user")
		}
		return record(tx, actor, "user", user.ID, "create", map[string]any{"email": user.Email, "role": in.Role})
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AssignRole moves a user onto the profile backing role. Callers holding a
// profile cache must invalidate the user afterwards.
func (s *UserService) AssignRole(ctx context.Context, actor, userID uint, role models.Role) (*models.User, error) {
	role = models.Role(strings.ToUpper(string(role)))
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			return errors.Wrapf(notFound(err, ErrUserNotFound), "user %d", userID)
		}
		profile, err := s.profileFor(tx, role)
		if err != nil {
			return err
		}
		if err := tx.Model(&user).Update("profile_id", profile.ID).Error; err != nil {
			return errors.Wrap(err, "assign profile")
		}
		user.ProfileID = &profile.ID
		user.Profile = profile
		return record(tx, actor, "user", userID, "assign_role", map[string]any{"role": role})
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
