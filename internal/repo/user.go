package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/restaurant/internal/models"
)

var ErrUserAlreadyExist = errors.New("user already exist")

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	return r.Transaction(ctx, func(tx *GormRepo) error {
		var n int64
		if err := tx.db(ctx).Model(&models.User{}).Where("username = ?", u.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrUserAlreadyExist
		}
		return tx.db(ctx).Create(u).Error
	})
}

func (r *GormRepo) SetUserPasswordHash(ctx context.Context, id uint, digest string) error {
	return r.db(ctx).Model(&models.User{}).Where("id = ?", id).Update("password_hash", digest).Error
}
