package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pepelotto/backend/internal/common"
	"github.com/pepelotto/backend/internal/domain/ledger"
	"github.com/pepelotto/backend/internal/entity"
	"github.com/pepelotto/backend/internal/model"
	"github.com/pepelotto/backend/internal/repository"
	"github.com/pepelotto/backend/pkg/dateutil"
	"github.com/pepelotto/backend/pkg/enum"
	"github.com/pepelotto/backend/pkg/errorx"
	"github.com/pepelotto/backend/pkg/xcontext"
	"github.com/pepelotto/backend/pkg/xredis"
)

type TaskDomain interface {
	Check(context.Context, *model.CheckTaskRequest) (*model.CheckTaskResponse, error)
	Complete(context.Context, *model.CompleteTaskRequest) (*model.CompleteTaskResponse, error)

	// InitDailyStamps seeds the daily-task timestamps of a fresh account
	// with a value that can never fall on the current day.
	InitDailyStamps(ctx context.Context, telegramID string) error
}

type taskDomain struct {
	taskRepo    repository.TaskRepository
	redisClient xredis.Client
	ledger      ledger.Ledger
}

func NewTaskDomain(
	taskRepo repository.TaskRepository,
	redisClient xredis.Client,
	ldg ledger.Ledger,
) *taskDomain {
	return &taskDomain{taskRepo: taskRepo, redisClient: redisClient, ledger: ldg}
}

func (d *taskDomain) Check(
	ctx context.Context, req *model.CheckTaskRequest,
) (*model.CheckTaskResponse, error) {
	telegramID := xcontext.RequestUserID(ctx)
	now := time.Now()

	resp := &model.CheckTaskResponse{}

	for _, taskType := range []entity.TaskType{
		entity.TaskPremium, entity.TaskJoinOurChannel, entity.TaskFollowOurX,
	} {
		exist, err := d.taskRepo.ExistRecord(ctx, telegramID, taskType)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot check the task record: %v", err)
			return nil, errorx.Unknown
		}

		switch taskType {
		case entity.TaskPremium:
			resp.Premium = exist
		case entity.TaskJoinOurChannel:
			resp.JoinOurChannel = exist
		case entity.TaskFollowOurX:
			resp.FollowOurX = exist
		}
	}

	checkin, err := d.lastCompleted(ctx, common.RedisKeyDailyCheckin(telegramID))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the check-in stamp: %v", err)
		return nil, errorx.Unknown
	}
	resp.DailyCheckin = dateutil.IsToday(checkin, now)

	invite, err := d.lastCompleted(ctx, common.RedisKeyDailyInvite(telegramID))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the invite stamp: %v", err)
		return nil, errorx.Unknown
	}
	resp.DailyInvite = dateutil.IsToday(invite, now)

	// The daily lotto task is derived from the current ticket's purchase
	// time; it has no stamp of its own.
	var record entity.LottoRecord
	err = d.redisClient.GetObj(ctx, common.RedisKeyNewestLotto(telegramID), &record)
	if err != nil && !xredis.IsNil(err) {
		xcontext.Logger(ctx).Errorf("Cannot get the current ticket: %v", err)
		return nil, errorx.Unknown
	}
	if err == nil {
		resp.DailyLotto = dateutil.IsToday(record.BoughtAt, now)
	}

	return resp, nil
}

func (d *taskDomain) Complete(
	ctx context.Context, req *model.CompleteTaskRequest,
) (*model.CompleteTaskResponse, error) {
	taskType, err := enum.ToEnum[entity.TaskType](req.Type)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid task type: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid task type %s", req.Type)
	}

	telegramID := xcontext.RequestUserID(ctx)

	var reward int64
	var undo func(context.Context)
	switch taskType {
	case entity.TaskPremium, entity.TaskJoinOurChannel, entity.TaskFollowOurX:
		reward, undo, err = d.completeOneTime(ctx, telegramID, taskType)
	case entity.TaskDailyCheckin, entity.TaskDailyInvite:
		reward, undo, err = d.completeDaily(ctx, telegramID, taskType)
	default:
		// The daily lotto task completes itself through a ticket purchase.
		return nil, errorx.New(errorx.BadRequest, "Task %s cannot be completed directly", req.Type)
	}

	if err != nil {
		return nil, err
	}

	if _, err := d.ledger.AdjustChips(ctx, telegramID, reward); err != nil {
		// Take the completion back, otherwise a retry would hit the
		// duplicate guard and the reward would be lost.
		undo(ctx)

		xcontext.Logger(ctx).Errorf("Cannot credit the task reward: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot credit the task reward")
	}

	snapshot, err := d.ledger.GetSnapshot(ctx, telegramID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the ledger snapshot: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CompleteTaskResponse{
		Chips:   snapshot.Chips,
		Points:  snapshot.Points,
		Ranking: snapshot.Ranking,
	}, nil
}

func (d *taskDomain) completeOneTime(
	ctx context.Context, telegramID string, taskType entity.TaskType,
) (int64, func(context.Context), error) {
	exist, err := d.taskRepo.ExistRecord(ctx, telegramID, taskType)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check the task record: %v", err)
		return 0, nil, errorx.Unknown
	}

	if exist {
		return 0, nil, errorx.New(errorx.AlreadyCompleted, "Task %s was already completed", taskType)
	}

	record := &entity.TaskRecord{
		Base:           entity.Base{ID: uuid.NewString()},
		UserTelegramID: telegramID,
		Type:           taskType,
	}

	if err := d.taskRepo.CreateRecord(ctx, record); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the task record: %v", err)
		return 0, nil, errorx.Unknown
	}

	undo := func(ctx context.Context) {
		if err := d.taskRepo.DeleteRecord(ctx, telegramID, taskType); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot remove the task record: %v", err)
		}
	}

	return xcontext.Configs(ctx).Task.OneTimeReward, undo, nil
}

func (d *taskDomain) completeDaily(
	ctx context.Context, telegramID string, taskType entity.TaskType,
) (int64, func(context.Context), error) {
	var key string
	var reward int64
	switch taskType {
	case entity.TaskDailyCheckin:
		key = common.RedisKeyDailyCheckin(telegramID)
		reward = xcontext.Configs(ctx).Task.DailyCheckinReward
	case entity.TaskDailyInvite:
		key = common.RedisKeyDailyInvite(telegramID)
		reward = xcontext.Configs(ctx).Task.DailyInviteReward
	}

	now := time.Now()
	previous, err := d.redisClient.Get(ctx, key)
	hadStamp := err == nil
	if err != nil && !xredis.IsNil(err) {
		xcontext.Logger(ctx).Errorf("Cannot get the last completion stamp: %v", err)
		return 0, nil, errorx.Unknown
	}

	if hadStamp {
		last, err := time.Parse(time.RFC3339Nano, previous)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot parse the last completion stamp: %v", err)
			return 0, nil, errorx.Unknown
		}

		if dateutil.IsToday(last, now) {
			return 0, nil, errorx.New(errorx.AlreadyCompleted, "Task %s was already completed today", taskType)
		}
	}

	if err := d.redisClient.Set(ctx, key, now.UTC().Format(time.RFC3339Nano)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot store the completion stamp: %v", err)
		return 0, nil, errorx.New(errorx.Unavailable, "Cannot store the completion stamp")
	}

	undo := func(ctx context.Context) {
		var rerr error
		if hadStamp {
			rerr = d.redisClient.Set(ctx, key, previous)
		} else {
			rerr = d.redisClient.Del(ctx, key)
		}
		if rerr != nil {
			xcontext.Logger(ctx).Errorf("Cannot restore the completion stamp: %v", rerr)
		}
	}

	return reward, undo, nil
}

// lastCompleted parses the ISO-8601 stamp under key. A missing key means
// never completed.
func (d *taskDomain) lastCompleted(ctx context.Context, key string) (time.Time, error) {
	value, err := d.redisClient.Get(ctx, key)
	if err != nil {
		if xredis.IsNil(err) {
			return time.Time{}, nil
		}

		return time.Time{}, err
	}

	stamp, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, err
	}

	return stamp, nil
}

func (d *taskDomain) InitDailyStamps(ctx context.Context, telegramID string) error {
	epoch := time.Time{}.Format(time.RFC3339Nano)
	if err := d.redisClient.Set(ctx, common.RedisKeyDailyCheckin(telegramID), epoch); err != nil {
		return err
	}

	return d.redisClient.Set(ctx, common.RedisKeyDailyInvite(telegramID), epoch)
}
