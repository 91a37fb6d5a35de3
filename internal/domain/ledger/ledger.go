package ledger

import (
	"context"
	"strconv"
	"sync"

	"github.com/pepelotto/backend/internal/common"
	"github.com/pepelotto/backend/pkg/errorx"
	"github.com/pepelotto/backend/pkg/xredis"
	"github.com/puzpuzpuz/xsync"
	"github.com/redis/go-redis/v9"
)

type Entry struct {
	TelegramID string
	Points     float64
}

type Snapshot struct {
	Chips  int64
	Points float64

	// Ranking is one-based, ready for display.
	Ranking int
}

// Ledger owns the chip balances and the global points leaderboard. All chip
// mutations for one user serialize on a per-user lock, so a delta that would
// drive the balance negative is rejected before anything is written.
type Ledger interface {
	InitAccount(ctx context.Context, telegramID string, startingChips int64, startingPoints float64) error
	AdjustChips(ctx context.Context, telegramID string, delta int64) (int64, error)
	AdjustPoints(ctx context.Context, telegramID string, delta float64) (float64, error)
	GetBalance(ctx context.Context, telegramID string) (int64, error)
	GetScore(ctx context.Context, telegramID string) (float64, error)
	GetRank(ctx context.Context, telegramID string) (int, error)
	TopN(ctx context.Context, n int) ([]Entry, error)
	GetSnapshot(ctx context.Context, telegramID string) (*Snapshot, error)
}

type ledger struct {
	redisClient xredis.Client
	userLocks   *xsync.MapOf[string, *sync.Mutex]
}

func New(redisClient xredis.Client) *ledger {
	return &ledger{
		redisClient: redisClient,
		userLocks:   xsync.NewMapOf[*sync.Mutex](),
	}
}

func (l *ledger) lock(telegramID string) *sync.Mutex {
	mutex, _ := l.userLocks.LoadOrCompute(telegramID, func() *sync.Mutex {
		return &sync.Mutex{}
	})

	return mutex
}

// InitAccount seeds the chips counter and the points zset entry. Calling it
// again overwrites both values; guarding against re-initialization is the
// caller's job.
func (l *ledger) InitAccount(
	ctx context.Context, telegramID string, startingChips int64, startingPoints float64,
) error {
	mutex := l.lock(telegramID)
	mutex.Lock()
	defer mutex.Unlock()

	err := l.redisClient.Set(ctx, common.RedisKeyChips(telegramID),
		strconv.FormatInt(startingChips, 10))
	if err != nil {
		return err
	}

	return l.redisClient.ZAdd(ctx, common.RedisKeyPoints,
		redis.Z{Member: telegramID, Score: startingPoints})
}

func (l *ledger) AdjustChips(ctx context.Context, telegramID string, delta int64) (int64, error) {
	mutex := l.lock(telegramID)
	mutex.Lock()
	defer mutex.Unlock()

	balance, err := l.balance(ctx, telegramID)
	if err != nil {
		return 0, err
	}

	if balance+delta < 0 {
		return 0, errorx.New(errorx.InsufficientFunds,
			"Balance %d is not enough for a spend of %d", balance, -delta)
	}

	return l.redisClient.IncrBy(ctx, common.RedisKeyChips(telegramID), delta)
}

func (l *ledger) AdjustPoints(ctx context.Context, telegramID string, delta float64) (float64, error) {
	// The zset member must exist, otherwise ZIncrBy would silently create a
	// score entry for an unseeded account.
	if _, err := l.GetScore(ctx, telegramID); err != nil {
		return 0, err
	}

	return l.redisClient.ZIncrBy(ctx, common.RedisKeyPoints, delta, telegramID)
}

func (l *ledger) GetBalance(ctx context.Context, telegramID string) (int64, error) {
	mutex := l.lock(telegramID)
	mutex.Lock()
	defer mutex.Unlock()

	return l.balance(ctx, telegramID)
}

func (l *ledger) balance(ctx context.Context, telegramID string) (int64, error) {
	value, err := l.redisClient.Get(ctx, common.RedisKeyChips(telegramID))
	if err != nil {
		if xredis.IsNil(err) {
			return 0, errorx.New(errorx.AccountNotInitialized,
				"Account %s is not initialized", telegramID)
		}

		return 0, err
	}

	return strconv.ParseInt(value, 10, 64)
}

func (l *ledger) GetScore(ctx context.Context, telegramID string) (float64, error) {
	score, err := l.redisClient.ZScore(ctx, common.RedisKeyPoints, telegramID)
	if err != nil {
		if xredis.IsNil(err) {
			return 0, errorx.New(errorx.AccountNotInitialized,
				"Account %s is not initialized", telegramID)
		}

		return 0, err
	}

	return score, nil
}

// GetRank returns the zero-based descending rank. Equal scores order by
// member id, exactly as the zset does, so ranks are reproducible.
func (l *ledger) GetRank(ctx context.Context, telegramID string) (int, error) {
	rank, err := l.redisClient.ZRevRank(ctx, common.RedisKeyPoints, telegramID)
	if err != nil {
		if xredis.IsNil(err) {
			return 0, errorx.New(errorx.AccountNotInitialized,
				"Account %s is not initialized", telegramID)
		}

		return 0, err
	}

	return int(rank), nil
}

func (l *ledger) TopN(ctx context.Context, n int) ([]Entry, error) {
	results, err := l.redisClient.ZRevRangeWithScores(ctx, common.RedisKeyPoints, 0, n)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(results))
	for _, z := range results {
		entries = append(entries, Entry{
			TelegramID: z.Member.(string),
			Points:     z.Score,
		})
	}

	return entries, nil
}

func (l *ledger) GetSnapshot(ctx context.Context, telegramID string) (*Snapshot, error) {
	chips, err := l.GetBalance(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	points, err := l.GetScore(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	rank, err := l.GetRank(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	return &Snapshot{Chips: chips, Points: points, Ranking: rank + 1}, nil
}
