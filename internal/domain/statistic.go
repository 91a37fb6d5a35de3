package domain

import (
	"context"
	"errors"

	"github.com/pepelotto/backend/internal/domain/ledger"
	"github.com/pepelotto/backend/internal/model"
	"github.com/pepelotto/backend/internal/repository"
	"github.com/pepelotto/backend/pkg/errorx"
	"github.com/pepelotto/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	defaultLeaderBoardLimit = 5
	maxLeaderBoardLimit     = 50
)

type StatisticDomain interface {
	GetLeaderBoard(context.Context, *model.GetLeaderBoardRequest) (*model.GetLeaderBoardResponse, error)
}

type statisticDomain struct {
	userRepo   repository.UserRepository
	inviteRepo repository.InviteRepository
	ledger     ledger.Ledger
}

func NewStatisticDomain(
	userRepo repository.UserRepository,
	inviteRepo repository.InviteRepository,
	ldg ledger.Ledger,
) *statisticDomain {
	return &statisticDomain{userRepo: userRepo, inviteRepo: inviteRepo, ledger: ldg}
}

func (d *statisticDomain) GetLeaderBoard(
	ctx context.Context, req *model.GetLeaderBoardRequest,
) (*model.GetLeaderBoardResponse, error) {
	limit := req.Limit
	if limit == 0 {
		limit = defaultLeaderBoardLimit
	}

	if limit < 0 || limit > maxLeaderBoardLimit {
		return nil, errorx.New(errorx.BadRequest, "Limit must be in range [1, %d]", maxLeaderBoardLimit)
	}

	entries, err := d.ledger.TopN(ctx, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the top entries: %v", err)
		return nil, errorx.Unknown
	}

	rankingInfo := []model.RankingUser{}
	for i, entry := range entries {
		username := ""
		user, err := d.userRepo.GetByTelegramID(ctx, entry.TelegramID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				xcontext.Logger(ctx).Errorf("Cannot get a ranked user: %v", err)
				return nil, errorx.Unknown
			}

			xcontext.Logger(ctx).Warnf("Ranked user %s has no database row", entry.TelegramID)
		} else {
			username = user.Username
		}

		rankingInfo = append(rankingInfo, model.RankingUser{
			TelegramID: entry.TelegramID,
			Username:   username,
			Rank:       i + 1,
			Points:     entry.Points,
		})
	}

	telegramID := xcontext.RequestUserID(ctx)
	currentUser, err := d.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	inviteNumber, err := d.inviteRepo.CountByInvitationCode(ctx, currentUser.InvitationCode)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count invites: %v", err)
		return nil, errorx.Unknown
	}

	snapshot, err := d.ledger.GetSnapshot(ctx, telegramID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the ledger snapshot: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetLeaderBoardResponse{
		CurrentUser: model.CurrentUserRanking{
			Chips:          snapshot.Chips,
			Points:         snapshot.Points,
			Ranking:        snapshot.Ranking,
			InvitationCode: currentUser.InvitationCode,
			InviteNumber:   int(inviteNumber),
		},
		RankingInfo: rankingInfo,
	}, nil
}
