package services

import (
	"context"
	"strings"
	"time"

	"github.com/diewo77/slatko-ops/auth"
	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SessionService signs users in and validates persisted sessions.
// It is the auth.Store of the application.
type SessionService struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

var _ auth.Store = (*SessionService)(nil)

func NewSessionService(db *gorm.DB, ttl time.Duration) *SessionService {
	return &SessionService{db: db, ttl: ttl, now: time.Now}
}

// Login checks the credentials and opens a session.
func (s *SessionService) Login(ctx context.Context, email, password, userAgent string) (*models.User, *models.Session, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Profile").
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "load user")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	sess, err := s.Create(ctx, user.ID, userAgent)
	if err != nil {
		return nil, nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role()}).Info("user signed in")
	return &user, sess, nil
}

// Create persists a new session for userID.
func (s *SessionService) Create(ctx context.Context, userID uint, userAgent string) (*models.Session, error) {
	if len(userAgent) > 255 {
		userAgent = userAgent[:255]
	}
	sess := models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl),
		UserAgent: userAgent,
	}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return nil, errors.Wrap(err, "create session")
	}
	return &sess, nil
}

// Lookup returns the user of a live session whose user still exists.
func (s *SessionService) Lookup(ctx context.Context, token string) (uint, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, auth.ErrInvalidToken
	}
	if err != nil {
		return 0, errors.Wrap(err, "load session")
	}
	if !sess.Live(s.now()) {
		return 0, auth.ErrSessionExpired
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", sess.UserID).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "check session user")
	}
	if count == 0 {
		return 0, auth.ErrInvalidToken
	}
	return sess.UserID, nil
}

// Revoke ends a session. Revoking an unknown or already revoked token is a no-op.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	err := s.db.WithContext(ctx).Model(&models.Session{}).
		Where("token = ? AND revoked_at IS NULL", token).
		Update("revoked_at", s.now()).Error
	return errors.Wrap(err, "revoke session")
}

// User loads a user with their profile.
func (s *SessionService) User(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		return nil, errors.Wrap(notFound(err, ErrUserNotFound), "load user")
	}
	return &user, nil
}

// Accounts lists the users offered on the sign-in screen.
func (s *SessionService) Accounts(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Preload("Profile").Order("id").Find(&users).Error
	return users, errors.Wrap(err, "list users")
}
