package testutil

import (
	"context"

	"github.com/pepelotto/backend/internal/entity"
	"github.com/pepelotto/backend/pkg/xcontext"
)

var (
	User1 = entity.User{
		TelegramID:     "111111111",
		Username:       "alice",
		IsPremium:      false,
		InvitationCode: "Xa1234567890bZ",
	}

	User2 = entity.User{
		TelegramID:     "222222222",
		Username:       "bob",
		IsPremium:      true,
		InvitationCode: "Qb0987654321cY",
	}
)

func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
}

func InsertUsers(ctx context.Context) {
	if err := xcontext.DB(ctx).Create(&User1).Error; err != nil {
		panic(err)
	}

	if err := xcontext.DB(ctx).Create(&User2).Error; err != nil {
		panic(err)
	}
}
