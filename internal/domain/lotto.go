package domain

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/pepelotto/backend/internal/common"
	"github.com/pepelotto/backend/internal/domain/ledger"
	"github.com/pepelotto/backend/internal/domain/lottogen"
	"github.com/pepelotto/backend/internal/entity"
	"github.com/pepelotto/backend/internal/model"
	"github.com/pepelotto/backend/pkg/errorx"
	"github.com/pepelotto/backend/pkg/xcontext"
	"github.com/pepelotto/backend/pkg/xredis"
	"github.com/puzpuzpuz/xsync"
)

type LottoDomain interface {
	Check(context.Context, *model.CheckLottoRequest) (*model.CheckLottoResponse, error)
	Buy(context.Context, *model.BuyLottoRequest) (*model.BuyLottoResponse, error)
	Reveal(context.Context, *model.RevealLottoRequest) (*model.RevealLottoResponse, error)

	// Counters returns the lifetime played and won ticket counts.
	Counters(ctx context.Context, telegramID string) (played, won int64, err error)

	// InitTicketState seeds the placeholder revealed ticket and the lifetime
	// counters of a fresh account.
	InitTicketState(ctx context.Context, telegramID string) error
}

type lottoDomain struct {
	redisClient xredis.Client
	ledger      ledger.Ledger
	generator   *lottogen.Generator

	// One lock per user keeps the balance check, the chip debit, and the
	// ticket write of a purchase as a single unit, and keeps two reveals
	// from crediting the same ticket twice.
	userLocks *xsync.MapOf[string, *sync.Mutex]
}

func NewLottoDomain(
	redisClient xredis.Client,
	ldg ledger.Ledger,
	generator *lottogen.Generator,
) *lottoDomain {
	return &lottoDomain{
		redisClient: redisClient,
		ledger:      ldg,
		generator:   generator,
		userLocks:   xsync.NewMapOf[*sync.Mutex](),
	}
}

func (d *lottoDomain) lock(telegramID string) *sync.Mutex {
	mutex, _ := d.userLocks.LoadOrCompute(telegramID, func() *sync.Mutex {
		return &sync.Mutex{}
	})

	return mutex
}

func (d *lottoDomain) currentTicket(ctx context.Context, telegramID string) (*entity.LottoRecord, error) {
	var record entity.LottoRecord
	err := d.redisClient.GetObj(ctx, common.RedisKeyNewestLotto(telegramID), &record)
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (d *lottoDomain) Check(
	ctx context.Context, req *model.CheckLottoRequest,
) (*model.CheckLottoResponse, error) {
	telegramID := xcontext.RequestUserID(ctx)

	record, err := d.currentTicket(ctx, telegramID)
	if err != nil {
		// An account without any ticket record has nothing outstanding.
		if xredis.IsNil(err) {
			return &model.CheckLottoResponse{Outstanding: false}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get the current ticket: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CheckLottoResponse{Outstanding: !record.Revealed}, nil
}

func (d *lottoDomain) Buy(
	ctx context.Context, req *model.BuyLottoRequest,
) (*model.BuyLottoResponse, error) {
	telegramID := xcontext.RequestUserID(ctx)
	price := xcontext.Configs(ctx).Lotto.TicketPrice

	mutex := d.lock(telegramID)
	mutex.Lock()
	defer mutex.Unlock()

	balance, err := d.ledger.GetBalance(ctx, telegramID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the balance: %v", err)
		return nil, errorx.Unknown
	}

	if balance < price {
		return nil, errorx.New(errorx.InsufficientFunds,
			"Not enough chips for a ticket of %d", price)
	}

	record, err := d.currentTicket(ctx, telegramID)
	if err != nil && !xredis.IsNil(err) {
		xcontext.Logger(ctx).Errorf("Cannot get the current ticket: %v", err)
		return nil, errorx.Unknown
	}

	// Purchasing is idempotent while the previous ticket is unrevealed: the
	// outstanding ticket comes back unchanged and nothing is charged.
	if err == nil && !record.Revealed {
		return &model.BuyLottoResponse{
			IsRemaining: true,
			Ticket:      record.Ticket,
			Chips:       balance,
		}, nil
	}

	newRecord := entity.LottoRecord{
		Ticket:   d.generator.Generate(),
		BoughtAt: time.Now(),
		Revealed: false,
	}

	if err := d.redisClient.SetObj(ctx, common.RedisKeyNewestLotto(telegramID), newRecord, 0); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot store the new ticket: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot store the new ticket")
	}

	newBalance, err := d.ledger.AdjustChips(ctx, telegramID, -price)
	if err != nil {
		// Undo the ticket write rather than leave a ticket the user never
		// paid for.
		var rerr error
		if record != nil {
			rerr = d.redisClient.SetObj(ctx, common.RedisKeyNewestLotto(telegramID), record, 0)
		} else {
			rerr = d.redisClient.Del(ctx, common.RedisKeyNewestLotto(telegramID))
		}
		if rerr != nil {
			xcontext.Logger(ctx).Errorf("Cannot restore the previous ticket: %v", rerr)
		}

		xcontext.Logger(ctx).Errorf("Cannot debit the ticket price: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot debit the ticket price")
	}

	return &model.BuyLottoResponse{
		IsRemaining: false,
		Ticket:      newRecord.Ticket,
		Chips:       newBalance,
	}, nil
}

func (d *lottoDomain) Reveal(
	ctx context.Context, req *model.RevealLottoRequest,
) (*model.RevealLottoResponse, error) {
	telegramID := xcontext.RequestUserID(ctx)

	mutex := d.lock(telegramID)
	mutex.Lock()
	defer mutex.Unlock()

	record, err := d.currentTicket(ctx, telegramID)
	if err != nil {
		if xredis.IsNil(err) {
			return nil, errorx.New(errorx.NoTicket, "There is no ticket to reveal")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the current ticket: %v", err)
		return nil, errorx.Unknown
	}

	// Revealing twice must not credit the payout twice.
	if record.Revealed {
		return nil, errorx.New(errorx.AlreadyRevealed, "The ticket was already revealed")
	}

	record.Revealed = true
	if err := d.redisClient.SetObj(ctx, common.RedisKeyNewestLotto(telegramID), record, 0); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot store the revealed ticket: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot store the revealed ticket")
	}

	if record.Ticket.Rewards > 0 {
		if _, err := d.ledger.AdjustPoints(ctx, telegramID, float64(record.Ticket.Rewards)); err != nil {
			// Put the unrevealed record back, otherwise a retry would hit
			// the revealed guard and the payout would be lost.
			record.Revealed = false
			if rerr := d.redisClient.SetObj(ctx, common.RedisKeyNewestLotto(telegramID), record, 0); rerr != nil {
				xcontext.Logger(ctx).Errorf("Cannot restore the unrevealed ticket: %v", rerr)
			}

			xcontext.Logger(ctx).Errorf("Cannot credit the payout: %v", err)
			return nil, errorx.New(errorx.Unavailable, "Cannot credit the payout")
		}

		if _, err := d.redisClient.IncrBy(ctx, common.RedisKeyLottoWinNumber(telegramID), 1); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot increase the win counter: %v", err)
		}
	}

	if _, err := d.redisClient.IncrBy(ctx, common.RedisKeyLottoNumber(telegramID), 1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase the played counter: %v", err)
	}

	snapshot, err := d.ledger.GetSnapshot(ctx, telegramID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the ledger snapshot: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RevealLottoResponse{
		Chips:   snapshot.Chips,
		Points:  snapshot.Points,
		Ranking: snapshot.Ranking,
	}, nil
}

func (d *lottoDomain) Counters(ctx context.Context, telegramID string) (int64, int64, error) {
	played, err := d.counter(ctx, common.RedisKeyLottoNumber(telegramID))
	if err != nil {
		return 0, 0, err
	}

	won, err := d.counter(ctx, common.RedisKeyLottoWinNumber(telegramID))
	if err != nil {
		return 0, 0, err
	}

	return played, won, nil
}

func (d *lottoDomain) counter(ctx context.Context, key string) (int64, error) {
	value, err := d.redisClient.Get(ctx, key)
	if err != nil {
		if xredis.IsNil(err) {
			return 0, nil
		}

		return 0, err
	}

	return strconv.ParseInt(value, 10, 64)
}

func (d *lottoDomain) InitTicketState(ctx context.Context, telegramID string) error {
	placeholder := entity.LottoRecord{
		Ticket:   placeholderTicket(),
		BoughtAt: time.Time{},
		Revealed: true,
	}

	if err := d.redisClient.SetObj(ctx, common.RedisKeyNewestLotto(telegramID), placeholder, 0); err != nil {
		return err
	}

	if err := d.redisClient.Set(ctx, common.RedisKeyLottoNumber(telegramID), "0"); err != nil {
		return err
	}

	return d.redisClient.Set(ctx, common.RedisKeyLottoWinNumber(telegramID), "0")
}

// placeholderTicket is the revealed zero-payout ticket written at account
// initialization, so the first real purchase finds a resolved slot.
func placeholderTicket() entity.LottoTicket {
	ticket := entity.LottoTicket{PepeNum: 0, Rewards: 0}
	for i := 0; i < lottogen.NumZones; i++ {
		ticket.Zones = append(ticket.Zones, entity.LottoZone{
			Icon:   entity.CommonIcons[i%len(entity.CommonIcons)],
			Tier:   4,
			Reward: 1000 * int64(i+1),
		})
	}

	return ticket
}
