package entity

import "github.com/pepelotto/backend/pkg/enum"

type TaskType string

var (
	TaskPremium        = enum.New(TaskType("premium"))
	TaskJoinOurChannel = enum.New(TaskType("join_our_channel"))
	TaskFollowOurX     = enum.New(TaskType("follow_our_x"))
	TaskDailyCheckin   = enum.New(TaskType("daily_checkin"))
	TaskDailyInvite    = enum.New(TaskType("daily_invite"))
	TaskDailyLotto     = enum.New(TaskType("daily_lotto"))
)

// IsOneTime reports whether a completion of this task is recorded
// permanently. Daily tasks only keep their last completion timestamp.
func (t TaskType) IsOneTime() bool {
	switch t {
	case TaskPremium, TaskJoinOurChannel, TaskFollowOurX:
		return true
	}

	return false
}

// TaskRecord is the permanent completion record of a one-time task.
type TaskRecord struct {
	Base

	UserTelegramID string   `gorm:"uniqueIndex:idx_task_user_type"`
	Type           TaskType `gorm:"uniqueIndex:idx_task_user_type"`
}
