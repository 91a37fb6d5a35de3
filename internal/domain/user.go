package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pepelotto/backend/internal/domain/ledger"
	"github.com/pepelotto/backend/internal/entity"
	"github.com/pepelotto/backend/internal/model"
	"github.com/pepelotto/backend/internal/repository"
	"github.com/pepelotto/backend/pkg/errorx"
	"github.com/pepelotto/backend/pkg/idutil"
	"github.com/pepelotto/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	GetUser(context.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
}

type userDomain struct {
	userRepo   repository.UserRepository
	inviteRepo repository.InviteRepository
	ledger     ledger.Ledger
	lotto      LottoDomain
	task       TaskDomain
}

func NewUserDomain(
	userRepo repository.UserRepository,
	inviteRepo repository.InviteRepository,
	ldg ledger.Ledger,
	lotto LottoDomain,
	task TaskDomain,
) *userDomain {
	return &userDomain{
		userRepo:   userRepo,
		inviteRepo: inviteRepo,
		ledger:     ldg,
		lotto:      lotto,
		task:       task,
	}
}

// GetUser resolves the caller into an account, registering it on first
// contact. Registration issues the invitation code, applies referral
// credits, and seeds every piece of account state the other domains expect
// to find.
func (d *userDomain) GetUser(
	ctx context.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	requestUser := xcontext.RequestUser(ctx)
	if requestUser.ID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	user, err := d.userRepo.GetByTelegramID(ctx, requestUser.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	isNew := false
	var invitationCode string
	if err == nil {
		invitationCode = user.InvitationCode

		// The premium flag can change between sessions; keep the stored one
		// in sync with what Telegram reports.
		if user.IsPremium != requestUser.IsPremium {
			if err := d.userRepo.UpdateIsPremium(ctx, requestUser.ID, requestUser.IsPremium); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot update premium flag: %v", err)
				return nil, errorx.Unknown
			}
		}
	} else {
		isNew = true
		invitationCode, err = d.register(ctx, requestUser, req.InvitationCode)
		if err != nil {
			return nil, err
		}
	}

	snapshot, err := d.ledger.GetSnapshot(ctx, requestUser.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the ledger snapshot: %v", err)
		return nil, errorx.Unknown
	}

	played, won, err := d.lotto.Counters(ctx, requestUser.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the scratch counters: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetUserResponse{
		Chips:          snapshot.Chips,
		Points:         snapshot.Points,
		Ranking:        snapshot.Ranking,
		InvitationCode: invitationCode,
		IsNew:          isNew,
		LottoNumber:    played,
		LottoWinNumber: won,
	}, nil
}

func (d *userDomain) register(
	ctx context.Context, requestUser model.RequestUser, invitedByCode string,
) (string, error) {
	inviteCfg := xcontext.Configs(ctx).Invite

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	user := &entity.User{
		TelegramID: requestUser.ID,
		Username:   requestUser.Name,
		IsPremium:  requestUser.IsPremium,
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return "", errorx.Unknown
	}

	// The code needs the auto-increment id, so it is issued in a second
	// write within the same transaction.
	invitationCode := idutil.InvitationCode(user.ID)
	if err := d.userRepo.UpdateInvitationCode(ctx, requestUser.ID, invitationCode); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot issue invitation code: %v", err)
		return "", errorx.Unknown
	}

	// An unknown code downgrades the signup to an organic one instead of
	// failing the registration.
	var inviter *entity.User
	if invitedByCode != "" {
		owner, err := d.userRepo.GetByInvitationCode(ctx, invitedByCode)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				xcontext.Logger(ctx).Errorf("Cannot get the code owner: %v", err)
				return "", errorx.Unknown
			}

			xcontext.Logger(ctx).Debugf("Unknown invitation code %s", invitedByCode)
		} else {
			record := &entity.InviteRecord{
				Base:              entity.Base{ID: uuid.NewString()},
				InvitationCode:    invitedByCode,
				InvitedTelegramID: requestUser.ID,
				IsPremium:         requestUser.IsPremium,
			}

			if err := d.inviteRepo.Create(ctx, record); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot create invite record: %v", err)
				return "", errorx.Unknown
			}

			inviter = owner
		}
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	startingChips := int64(0)
	if inviter != nil {
		inviterReward := inviteCfg.InviterReward
		startingChips = inviteCfg.InvitedReward
		if requestUser.IsPremium {
			inviterReward = inviteCfg.PremiumInviterReward
			startingChips = inviteCfg.PremiumInvitedReward
		}

		if _, err := d.ledger.AdjustChips(ctx, inviter.TelegramID, inviterReward); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot credit the inviter: %v", err)
		}
	}

	if err := d.ledger.InitAccount(ctx, requestUser.ID, startingChips, 0); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot initialize the account: %v", err)
		return "", errorx.Unknown
	}

	if err := d.lotto.InitTicketState(ctx, requestUser.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot initialize the ticket state: %v", err)
		return "", errorx.Unknown
	}

	if err := d.task.InitDailyStamps(ctx, requestUser.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot initialize the daily stamps: %v", err)
		return "", errorx.Unknown
	}

	return invitationCode, nil
}
