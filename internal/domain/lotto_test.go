package domain

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/pepelotto/backend/internal/common"
	"github.com/pepelotto/backend/internal/domain/ledger"
	"github.com/pepelotto/backend/internal/domain/lottogen"
	"github.com/pepelotto/backend/internal/entity"
	"github.com/pepelotto/backend/internal/model"
	"github.com/pepelotto/backend/pkg/errorx"
	"github.com/pepelotto/backend/pkg/testutil"
	"github.com/pepelotto/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// failingRedis fails selected operations a set number of times, then
// behaves normally.
type failingRedis struct {
	*testutil.InMemoryRedis

	zincrByFailures int
	incrByFailures  int
}

func (f *failingRedis) ZIncrBy(ctx context.Context, key string, incr float64, member string) (float64, error) {
	if f.zincrByFailures > 0 {
		f.zincrByFailures--
		return 0, errors.New("connection reset")
	}

	return f.InMemoryRedis.ZIncrBy(ctx, key, incr, member)
}

func (f *failingRedis) IncrBy(ctx context.Context, key string, incr int64) (int64, error) {
	if f.incrByFailures > 0 {
		f.incrByFailures--
		return 0, errors.New("connection reset")
	}

	return f.InMemoryRedis.IncrBy(ctx, key, incr)
}

func newTestLottoDomain(t *testing.T) (context.Context, *testutil.InMemoryRedis, ledger.Ledger, *lottoDomain) {
	ctx := testutil.MockContext()
	ctx = xcontext.WithRequestUser(ctx, model.RequestUser{ID: "1000", Name: "alice"})

	redisClient := testutil.NewInMemoryRedis()
	ldg := ledger.New(redisClient)
	domain := NewLottoDomain(redisClient, ldg, lottogen.New(rand.New(rand.NewSource(1))))

	return ctx, redisClient, ldg, domain
}

func Test_lottoDomain_Buy(t *testing.T) {
	ctx, _, ldg, domain := newTestLottoDomain(t)
	require.NoError(t, ldg.InitAccount(ctx, "1000", 1000, 0))

	resp, err := domain.Buy(ctx, &model.BuyLottoRequest{})
	require.NoError(t, err)
	require.False(t, resp.IsRemaining)
	require.Equal(t, int64(900), resp.Chips)
	require.Len(t, resp.Ticket.Zones, lottogen.NumZones)

	check, err := domain.Check(ctx, &model.CheckLottoRequest{})
	require.NoError(t, err)
	require.True(t, check.Outstanding)
}

func Test_lottoDomain_Buy_OutstandingTicketIsNotCharged(t *testing.T) {
	ctx, _, ldg, domain := newTestLottoDomain(t)
	require.NoError(t, ldg.InitAccount(ctx, "1000", 1000, 0))

	first, err := domain.Buy(ctx, &model.BuyLottoRequest{})
	require.NoError(t, err)

	second, err := domain.Buy(ctx, &model.BuyLottoRequest{})
	require.NoError(t, err)
	require.True(t, second.IsRemaining)
	require.Equal(t, first.Ticket, second.Ticket)
	require.Equal(t, int64(900), second.Chips)

	balance, err := ldg.GetBalance(ctx, "1000")
	require.NoError(t, err)
	require.Equal(t, int64(900), balance)
}

func Test_lottoDomain_Buy_InsufficientFunds(t *testing.T) {
	ctx, _, ldg, domain := newTestLottoDomain(t)
	require.NoError(t, ldg.InitAccount(ctx, "1000", 99, 0))

	_, err := domain.Buy(ctx, &model.BuyLottoRequest{})
	require.ErrorIs(t, err, errorx.New(errorx.InsufficientFunds, ""))

	balance, err := ldg.GetBalance(ctx, "1000")
	require.NoError(t, err)
	require.Equal(t, int64(99), balance)
}

func Test_lottoDomain_Buy_Concurrent(t *testing.T) {
	ctx, _, ldg, domain := newTestLottoDomain(t)
	require.NoError(t, ldg.InitAccount(ctx, "1000", 1000, 0))

	var group errgroup.Group
	for i := 0; i < 10; i++ {
		group.Go(func() error {
			_, err := domain.Buy(ctx, &model.BuyLottoRequest{})
			return err
		})
	}

	// Only the first purchase is charged, the rest return the outstanding
	// ticket.
	require.NoError(t, group.Wait())

	balance, err := ldg.GetBalance(ctx, "1000")
	require.NoError(t, err)
	require.Equal(t, int64(900), balance)
}

func Test_lottoDomain_Reveal_NoTicket(t *testing.T) {
	ctx, _, ldg, domain := newTestLottoDomain(t)
	require.NoError(t, ldg.InitAccount(ctx, "1000", 1000, 0))

	_, err := domain.Reveal(ctx, &model.RevealLottoRequest{})
	require.ErrorIs(t, err, errorx.New(errorx.NoTicket, ""))
}

func Test_lottoDomain_Reveal_CreditsPayoutOnce(t *testing.T) {
	ctx, redisClient, ldg, domain := newTestLottoDomain(t)
	require.NoError(t, ldg.InitAccount(ctx, "1000", 1000, 0))

	record := entity.LottoRecord{
		Ticket: entity.LottoTicket{
			PepeNum: 1,
			Rewards: 5000,
			Zones:   []entity.LottoZone{{Icon: entity.IconPepe, Tier: 3, Reward: 5000}},
		},
		BoughtAt: time.Now(),
		Revealed: false,
	}
	require.NoError(t, redisClient.SetObj(ctx, common.RedisKeyNewestLotto("1000"), record, 0))

	resp, err := domain.Reveal(ctx, &model.RevealLottoRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(1000), resp.Chips)
	require.Equal(t, float64(5000), resp.Points)
	require.Equal(t, 1, resp.Ranking)

	_, err = domain.Reveal(ctx, &model.RevealLottoRequest{})
	require.ErrorIs(t, err, errorx.New(errorx.AlreadyRevealed, ""))

	score, err := ldg.GetScore(ctx, "1000")
	require.NoError(t, err)
	require.Equal(t, float64(5000), score)

	wins, err := redisClient.Get(ctx, common.RedisKeyLottoWinNumber("1000"))
	require.NoError(t, err)
	require.Equal(t, "1", wins)

	played, err := redisClient.Get(ctx, common.RedisKeyLottoNumber("1000"))
	require.NoError(t, err)
	require.Equal(t, "1", played)

	playedN, wonN, err := domain.Counters(ctx, "1000")
	require.NoError(t, err)
	require.Equal(t, int64(1), playedN)
	require.Equal(t, int64(1), wonN)
}

func Test_lottoDomain_Reveal_CreditFailureIsRetryable(t *testing.T) {
	ctx := testutil.MockContext()
	ctx = xcontext.WithRequestUser(ctx, model.RequestUser{ID: "1000", Name: "alice"})

	flaky := &failingRedis{InMemoryRedis: testutil.NewInMemoryRedis(), zincrByFailures: 1}
	ldg := ledger.New(flaky)
	domain := NewLottoDomain(flaky, ldg, lottogen.New(rand.New(rand.NewSource(1))))
	require.NoError(t, ldg.InitAccount(ctx, "1000", 1000, 0))

	record := entity.LottoRecord{
		Ticket: entity.LottoTicket{
			PepeNum: 1,
			Rewards: 5000,
			Zones:   []entity.LottoZone{{Icon: entity.IconPepe, Tier: 3, Reward: 5000}},
		},
		BoughtAt: time.Now(),
		Revealed: false,
	}
	require.NoError(t, flaky.SetObj(ctx, common.RedisKeyNewestLotto("1000"), record, 0))

	_, err := domain.Reveal(ctx, &model.RevealLottoRequest{})
	require.ErrorIs(t, err, errorx.New(errorx.Unavailable, ""))

	// The ticket must still be outstanding, so a retry can credit the
	// payout.
	check, err := domain.Check(ctx, &model.CheckLottoRequest{})
	require.NoError(t, err)
	require.True(t, check.Outstanding)

	resp, err := domain.Reveal(ctx, &model.RevealLottoRequest{})
	require.NoError(t, err)
	require.Equal(t, float64(5000), resp.Points)

	score, err := ldg.GetScore(ctx, "1000")
	require.NoError(t, err)
	require.Equal(t, float64(5000), score)

	played, won, err := domain.Counters(ctx, "1000")
	require.NoError(t, err)
	require.Equal(t, int64(1), played)
	require.Equal(t, int64(1), won)
}

func Test_lottoDomain_Reveal_LosingTicketPaysNothing(t *testing.T) {
	ctx, redisClient, ldg, domain := newTestLottoDomain(t)
	require.NoError(t, ldg.InitAccount(ctx, "1000", 1000, 0))

	record := entity.LottoRecord{
		Ticket:   entity.LottoTicket{PepeNum: 0, Rewards: 0},
		BoughtAt: time.Now(),
		Revealed: false,
	}
	require.NoError(t, redisClient.SetObj(ctx, common.RedisKeyNewestLotto("1000"), record, 0))

	resp, err := domain.Reveal(ctx, &model.RevealLottoRequest{})
	require.NoError(t, err)
	require.Equal(t, float64(0), resp.Points)

	_, err = redisClient.Get(ctx, common.RedisKeyLottoWinNumber("1000"))
	require.Error(t, err)

	playedN, wonN, err := domain.Counters(ctx, "1000")
	require.NoError(t, err)
	require.Equal(t, int64(1), playedN)
	require.Zero(t, wonN)
}

func Test_lottoDomain_InitTicketState(t *testing.T) {
	ctx, redisClient, ldg, domain := newTestLottoDomain(t)
	require.NoError(t, ldg.InitAccount(ctx, "1000", 100, 0))
	require.NoError(t, domain.InitTicketState(ctx, "1000"))

	check, err := domain.Check(ctx, &model.CheckLottoRequest{})
	require.NoError(t, err)
	require.False(t, check.Outstanding)

	played, err := redisClient.Get(ctx, common.RedisKeyLottoNumber("1000"))
	require.NoError(t, err)
	require.Equal(t, "0", played)

	// The placeholder is revealed, so the first purchase goes through.
	resp, err := domain.Buy(ctx, &model.BuyLottoRequest{})
	require.NoError(t, err)
	require.False(t, resp.IsRemaining)
	require.Equal(t, int64(0), resp.Chips)
}
