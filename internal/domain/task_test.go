package domain

import (
	"context"
	"testing"
	"time"

	"github.com/pepelotto/backend/internal/common"
	"github.com/pepelotto/backend/internal/domain/ledger"
	"github.com/pepelotto/backend/internal/entity"
	"github.com/pepelotto/backend/internal/model"
	"github.com/pepelotto/backend/internal/repository"
	"github.com/pepelotto/backend/pkg/errorx"
	"github.com/pepelotto/backend/pkg/testutil"
	"github.com/pepelotto/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestTaskDomain(t *testing.T) (context.Context, *testutil.InMemoryRedis, ledger.Ledger, *taskDomain) {
	ctx := testutil.MockContext()
	ctx = xcontext.WithRequestUser(ctx, model.RequestUser{ID: "1000", Name: "alice"})

	redisClient := testutil.NewInMemoryRedis()
	ldg := ledger.New(redisClient)
	domain := NewTaskDomain(repository.NewTaskRepository(), redisClient, ldg)

	require.NoError(t, ldg.InitAccount(ctx, "1000", 0, 0))

	return ctx, redisClient, ldg, domain
}

func Test_taskDomain_Check_FreshAccount(t *testing.T) {
	ctx, _, _, domain := newTestTaskDomain(t)
	require.NoError(t, domain.InitDailyStamps(ctx, "1000"))

	resp, err := domain.Check(ctx, &model.CheckTaskRequest{})
	require.NoError(t, err)
	require.Equal(t, &model.CheckTaskResponse{}, resp)
}

func Test_taskDomain_Complete_OneTime(t *testing.T) {
	ctx, _, ldg, domain := newTestTaskDomain(t)

	resp, err := domain.Complete(ctx, &model.CompleteTaskRequest{Type: "join_our_channel"})
	require.NoError(t, err)
	require.Equal(t, int64(2000), resp.Chips)

	_, err = domain.Complete(ctx, &model.CompleteTaskRequest{Type: "join_our_channel"})
	require.ErrorIs(t, err, errorx.New(errorx.AlreadyCompleted, ""))

	balance, err := ldg.GetBalance(ctx, "1000")
	require.NoError(t, err)
	require.Equal(t, int64(2000), balance)

	check, err := domain.Check(ctx, &model.CheckTaskRequest{})
	require.NoError(t, err)
	require.True(t, check.JoinOurChannel)
	require.False(t, check.Premium)
	require.False(t, check.FollowOurX)
}

func Test_taskDomain_Complete_EachOneTimeIsIndependent(t *testing.T) {
	ctx, _, ldg, domain := newTestTaskDomain(t)

	for _, taskType := range []string{"premium", "join_our_channel", "follow_our_x"} {
		_, err := domain.Complete(ctx, &model.CompleteTaskRequest{Type: taskType})
		require.NoError(t, err)
	}

	balance, err := ldg.GetBalance(ctx, "1000")
	require.NoError(t, err)
	require.Equal(t, int64(6000), balance)
}

func Test_taskDomain_Complete_DailyCheckin(t *testing.T) {
	ctx, _, _, domain := newTestTaskDomain(t)
	require.NoError(t, domain.InitDailyStamps(ctx, "1000"))

	resp, err := domain.Complete(ctx, &model.CompleteTaskRequest{Type: "daily_checkin"})
	require.NoError(t, err)
	require.Equal(t, int64(1200), resp.Chips)

	_, err = domain.Complete(ctx, &model.CompleteTaskRequest{Type: "daily_checkin"})
	require.ErrorIs(t, err, errorx.New(errorx.AlreadyCompleted, ""))

	check, err := domain.Check(ctx, &model.CheckTaskRequest{})
	require.NoError(t, err)
	require.True(t, check.DailyCheckin)
	require.False(t, check.DailyInvite)
}

func Test_taskDomain_Complete_DailyGateReopensNextDay(t *testing.T) {
	ctx, redisClient, _, domain := newTestTaskDomain(t)

	// A completion stamp from yesterday does not block today.
	yesterday := time.Now().AddDate(0, 0, -1)
	require.NoError(t, redisClient.Set(ctx,
		common.RedisKeyDailyInvite("1000"), yesterday.UTC().Format(time.RFC3339Nano)))

	check, err := domain.Check(ctx, &model.CheckTaskRequest{})
	require.NoError(t, err)
	require.False(t, check.DailyInvite)

	resp, err := domain.Complete(ctx, &model.CompleteTaskRequest{Type: "daily_invite"})
	require.NoError(t, err)
	require.Equal(t, int64(1200), resp.Chips)
}

func Test_taskDomain_Complete_OneTimeCreditFailureIsRetryable(t *testing.T) {
	ctx := testutil.MockContext()
	ctx = xcontext.WithRequestUser(ctx, model.RequestUser{ID: "1000", Name: "alice"})

	flaky := &failingRedis{InMemoryRedis: testutil.NewInMemoryRedis(), incrByFailures: 1}
	ldg := ledger.New(flaky)
	domain := NewTaskDomain(repository.NewTaskRepository(), flaky, ldg)
	require.NoError(t, ldg.InitAccount(ctx, "1000", 0, 0))

	_, err := domain.Complete(ctx, &model.CompleteTaskRequest{Type: "premium"})
	require.ErrorIs(t, err, errorx.New(errorx.Unavailable, ""))

	// The completion record must be gone, so a retry can credit the
	// reward.
	check, err := domain.Check(ctx, &model.CheckTaskRequest{})
	require.NoError(t, err)
	require.False(t, check.Premium)

	resp, err := domain.Complete(ctx, &model.CompleteTaskRequest{Type: "premium"})
	require.NoError(t, err)
	require.Equal(t, int64(2000), resp.Chips)

	_, err = domain.Complete(ctx, &model.CompleteTaskRequest{Type: "premium"})
	require.ErrorIs(t, err, errorx.New(errorx.AlreadyCompleted, ""))
}

func Test_taskDomain_Complete_DailyCreditFailureIsRetryable(t *testing.T) {
	ctx := testutil.MockContext()
	ctx = xcontext.WithRequestUser(ctx, model.RequestUser{ID: "1000", Name: "alice"})

	flaky := &failingRedis{InMemoryRedis: testutil.NewInMemoryRedis(), incrByFailures: 1}
	ldg := ledger.New(flaky)
	domain := NewTaskDomain(repository.NewTaskRepository(), flaky, ldg)
	require.NoError(t, ldg.InitAccount(ctx, "1000", 0, 0))
	require.NoError(t, domain.InitDailyStamps(ctx, "1000"))

	_, err := domain.Complete(ctx, &model.CompleteTaskRequest{Type: "daily_checkin"})
	require.ErrorIs(t, err, errorx.New(errorx.Unavailable, ""))

	// The previous stamp must be back, so the day gate is still open.
	check, err := domain.Check(ctx, &model.CheckTaskRequest{})
	require.NoError(t, err)
	require.False(t, check.DailyCheckin)

	resp, err := domain.Complete(ctx, &model.CompleteTaskRequest{Type: "daily_checkin"})
	require.NoError(t, err)
	require.Equal(t, int64(1200), resp.Chips)

	_, err = domain.Complete(ctx, &model.CompleteTaskRequest{Type: "daily_checkin"})
	require.ErrorIs(t, err, errorx.New(errorx.AlreadyCompleted, ""))
}

func Test_taskDomain_Complete_RejectsDailyLotto(t *testing.T) {
	ctx, _, _, domain := newTestTaskDomain(t)

	_, err := domain.Complete(ctx, &model.CompleteTaskRequest{Type: "daily_lotto"})
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))
}

func Test_taskDomain_Complete_RejectsUnknownType(t *testing.T) {
	ctx, _, _, domain := newTestTaskDomain(t)

	_, err := domain.Complete(ctx, &model.CompleteTaskRequest{Type: "win_the_lottery"})
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))
}

func Test_taskDomain_Check_DailyLottoFollowsPurchaseTime(t *testing.T) {
	ctx, redisClient, _, domain := newTestTaskDomain(t)

	record := entity.LottoRecord{BoughtAt: time.Now(), Revealed: true}
	require.NoError(t, redisClient.SetObj(ctx, common.RedisKeyNewestLotto("1000"), record, 0))

	check, err := domain.Check(ctx, &model.CheckTaskRequest{})
	require.NoError(t, err)
	require.True(t, check.DailyLotto)

	record.BoughtAt = time.Now().AddDate(0, 0, -1)
	require.NoError(t, redisClient.SetObj(ctx, common.RedisKeyNewestLotto("1000"), record, 0))

	check, err = domain.Check(ctx, &model.CheckTaskRequest{})
	require.NoError(t, err)
	require.False(t, check.DailyLotto)
}
