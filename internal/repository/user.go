package repository

import (
	"context"

	"github.com/pepelotto/backend/internal/entity"
	"github.com/pepelotto/backend/pkg/xcontext"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByTelegramID(ctx context.Context, telegramID string) (*entity.User, error)
	GetByInvitationCode(ctx context.Context, code string) (*entity.User, error)
	UpdateInvitationCode(ctx context.Context, telegramID, code string) error
	UpdateIsPremium(ctx context.Context, telegramID string, isPremium bool) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return xcontext.DB(ctx).Create(user).Error
}

func (r *userRepository) GetByTelegramID(ctx context.Context, telegramID string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "telegram_id=?", telegramID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByInvitationCode(ctx context.Context, code string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "invitation_code=?", code).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) UpdateInvitationCode(ctx context.Context, telegramID, code string) error {
	return xcontext.DB(ctx).Model(&entity.User{}).
		Where("telegram_id=?", telegramID).
		Update("invitation_code", code).Error
}

func (r *userRepository) UpdateIsPremium(ctx context.Context, telegramID string, isPremium bool) error {
	return xcontext.DB(ctx).Model(&entity.User{}).
		Where("telegram_id=?", telegramID).
		Update("is_premium", isPremium).Error
}
