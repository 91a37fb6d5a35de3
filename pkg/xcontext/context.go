package xcontext

import (
	"context"

	"github.com/pepelotto/backend/config"
	"github.com/pepelotto/backend/internal/model"
	"github.com/pepelotto/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey     struct{}
	loggerKey      struct{}
	dbKey          struct{}
	dbTxKey        struct{}
	requestUserKey struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		panic("configs is not setup in context")
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		panic("logger is not setup in context")
	}

	return l
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the current transaction if one is pending, otherwise the root
// database handle.
func DB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(dbTxKey{}).(*gorm.DB); ok {
		return tx
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("db is not setup in context")
	}

	return db
}

func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, dbTxKey{}, DB(ctx).Begin())
}

func WithCommitDBTransaction(ctx context.Context) context.Context {
	if tx, ok := ctx.Value(dbTxKey{}).(*gorm.DB); ok {
		tx.Commit()
		return context.WithValue(ctx, dbTxKey{}, nil)
	}

	return ctx
}

// WithRollbackDBTransaction is a no-op if the transaction was committed
// before.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	if tx, ok := ctx.Value(dbTxKey{}).(*gorm.DB); ok {
		tx.Rollback()
		return context.WithValue(ctx, dbTxKey{}, nil)
	}

	return ctx
}

func WithRequestUser(ctx context.Context, user model.RequestUser) context.Context {
	return context.WithValue(ctx, requestUserKey{}, user)
}

func RequestUser(ctx context.Context) model.RequestUser {
	user, ok := ctx.Value(requestUserKey{}).(model.RequestUser)
	if !ok {
		return model.RequestUser{}
	}

	return user
}

func RequestUserID(ctx context.Context) string {
	return RequestUser(ctx).ID
}
