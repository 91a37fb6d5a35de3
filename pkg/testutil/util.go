package testutil

import (
	"context"
	"time"

	"github.com/pepelotto/backend/config"
	"github.com/pepelotto/backend/internal/entity"
	"github.com/pepelotto/backend/pkg/logger"
	"github.com/pepelotto/backend/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func MockContext() context.Context {
	db := CreateDatabase()
	if err := entity.MigrateTable(db); err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.ERROR))
	ctx = xcontext.WithDB(ctx, db)

	return ctx
}

func MockConfigs() config.Configs {
	return config.Configs{
		Env: "testing",
		ApiServer: config.ServerConfigs{
			Host:           "localhost",
			Port:           "8080",
			AllowedOrigins: []string{"*"},
		},
		Telegram: config.TelegramConfigs{
			BotToken:           "123456:test-bot-token",
			InitDataExpiration: time.Hour,
		},
		Lotto: config.LottoConfigs{
			TicketPrice: 100,
		},
		Task: config.TaskConfigs{
			OneTimeReward:      2000,
			DailyCheckinReward: 1200,
			DailyInviteReward:  1200,
		},
		Invite: config.InviteConfigs{
			InviterReward:        1000,
			InvitedReward:        1000,
			PremiumInviterReward: 2000,
			PremiumInvitedReward: 2000,
		},
	}
}

func CreateDatabase() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// A second pool connection would observe an empty in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db
}
