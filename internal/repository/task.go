package repository

import (
	"context"
	"errors"

	"github.com/pepelotto/backend/internal/entity"
	"github.com/pepelotto/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type TaskRepository interface {
	CreateRecord(ctx context.Context, record *entity.TaskRecord) error
	ExistRecord(ctx context.Context, telegramID string, taskType entity.TaskType) (bool, error)
	DeleteRecord(ctx context.Context, telegramID string, taskType entity.TaskType) error
}

type taskRepository struct{}

func NewTaskRepository() *taskRepository {
	return &taskRepository{}
}

func (r *taskRepository) CreateRecord(ctx context.Context, record *entity.TaskRecord) error {
	return xcontext.DB(ctx).Create(record).Error
}

// DeleteRecord removes the completion record for real, not as a soft
// delete, so the unique index allows a later re-completion.
func (r *taskRepository) DeleteRecord(
	ctx context.Context, telegramID string, taskType entity.TaskType,
) error {
	return xcontext.DB(ctx).Unscoped().
		Where("user_telegram_id=? AND type=?", telegramID, taskType).
		Delete(&entity.TaskRecord{}).Error
}

func (r *taskRepository) ExistRecord(
	ctx context.Context, telegramID string, taskType entity.TaskType,
) (bool, error) {
	var result entity.TaskRecord
	err := xcontext.DB(ctx).
		Take(&result, "user_telegram_id=? AND type=?", telegramID, taskType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
