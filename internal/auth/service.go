package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

const minPasswordLen = 8

// Service owns users and their sessions.
type Service struct {
	DB  *gorm.DB
	JWT *JWT

	// Now is overridable in tests.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (s *Service) Register(ctx context.Context, email, password, fullName string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") || len(password) < minPasswordLen {
		return "", ErrInvalidInput
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	u := User{Email: email, PasswordHash: hash, FullName: strings.TrimSpace(fullName)}
	var exists int64
	if err := s.DB.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&exists).Error; err != nil {
		return "", err
	}
	if exists > 0 {
		return "", ErrEmailTaken
	}
	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	return s.startSession(ctx, u.ID)
}

func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", ErrInvalidInput
	}

	var u User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !ComparePassword(u.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	now := s.now()
	if err := s.DB.WithContext(ctx).Model(&User{}).Where("id = ?", u.ID).
		Update("last_sign_in_at", now).Error; err != nil {
		return "", err
	}

	return s.startSession(ctx, u.ID)
}

func (s *Service) startSession(ctx context.Context, userID uint64) (string, error) {
	now := s.now()
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(s.JWT.TTL()),
		CreatedAt: now,
	}
	if err := s.DB.WithContext(ctx).Create(&sess).Error; err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return s.JWT.Sign(userID, sess.ID, now)
}

// Active reports whether the session exists, belongs to the user, is not
// revoked and has not expired.
func (s *Service) Active(ctx context.Context, sessionID string, userID uint64) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&Session{}).
		Where("id = ? AND user_id = ? AND revoked_at IS NULL AND expires_at > ?", sessionID, userID, s.now()).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Logout revokes the session. Revoking twice is not an error.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.DB.WithContext(ctx).Model(&Session{}).
		Where("id = ? AND revoked_at IS NULL", sessionID).
		Update("revoked_at", s.now()).Error
}

func (s *Service) GetUser(ctx context.Context, userID uint64) (User, error) {
	var u User
	if err := s.DB.WithContext(ctx).First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

type ProfileUpdate struct {
	FullName  *string
	AvatarURL *string
}

func (s *Service) UpdateProfile(ctx context.Context, userID uint64, in ProfileUpdate) (User, error) {
	updates := map[string]any{}
	if in.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*in.FullName)
	}
	if in.AvatarURL != nil {
		updates["avatar_url"] = strings.TrimSpace(*in.AvatarURL)
	}
	if len(updates) > 0 {
		res := s.DB.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Updates(updates)
		if res.Error != nil {
			return User{}, res.Error
		}
		if res.RowsAffected == 0 {
			return User{}, ErrUserNotFound
		}
	}
	return s.GetUser(ctx, userID)
}
