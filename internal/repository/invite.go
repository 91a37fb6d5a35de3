package repository

import (
	"context"

	"github.com/pepelotto/backend/internal/entity"
	"github.com/pepelotto/backend/pkg/xcontext"
)

type InviteRepository interface {
	Create(ctx context.Context, record *entity.InviteRecord) error
	CountByInvitationCode(ctx context.Context, code string) (int64, error)
}

type inviteRepository struct{}

func NewInviteRepository() *inviteRepository {
	return &inviteRepository{}
}

func (r *inviteRepository) Create(ctx context.Context, record *entity.InviteRecord) error {
	return xcontext.DB(ctx).Create(record).Error
}

func (r *inviteRepository) CountByInvitationCode(ctx context.Context, code string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.InviteRecord{}).
		Where("invitation_code=?", code).Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
