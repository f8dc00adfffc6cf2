package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bachhoa/bachhoa-store/internal/models"
)

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.conn(ctx).Preload("Roles").
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).Preload("Roles").First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// CreateUser inserts the user (email normalised to lower case) and links
// the named roles, which must already exist.
func (s *Store) CreateUser(ctx context.Context, u *models.User, roleNames ...string) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	if len(roleNames) > 0 {
		var roles []models.Role
		if err := s.conn(ctx).Where("name IN ?", roleNames).Find(&roles).Error; err != nil {
			return translate(err)
		}
		if len(roles) != len(roleNames) {
			return fmt.Errorf("create user: unknown role in %v", roleNames)
		}
		u.Roles = roles
	}

	return translate(s.conn(ctx).Create(u).Error)
}

func (s *Store) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	return translate(s.conn(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_login", at).Error)
}
