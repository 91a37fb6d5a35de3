package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pepelotto/backend/config"
	"github.com/pepelotto/backend/internal/domain"
	"github.com/pepelotto/backend/internal/domain/ledger"
	"github.com/pepelotto/backend/internal/domain/lottogen"
	"github.com/pepelotto/backend/internal/repository"
	"github.com/pepelotto/backend/pkg/logger"
	"github.com/pepelotto/backend/pkg/router"
	"github.com/pepelotto/backend/pkg/xcontext"
	"github.com/pepelotto/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context
	app *cli.App

	userRepo   repository.UserRepository
	inviteRepo repository.InviteRepository
	taskRepo   repository.TaskRepository

	redisClient xredis.Client
	ledger      ledger.Ledger

	userDomain      domain.UserDomain
	lottoDomain     domain.LottoDomain
	taskDomain      domain.TaskDomain
	statisticDomain domain.StatisticDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig() {
	configs := config.Configs{
		Env: getEnv("ENV", "local"),
		ApiServer: config.ServerConfigs{
			Host:           getEnv("HOST", "localhost"),
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		},
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "pepelotto"),
			User:     getEnv("MYSQL_USER", "root"),
			Password: getEnv("MYSQL_PASSWORD", "mysql"),
		},
		Redis: config.RedisConfigs{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Telegram: config.TelegramConfigs{
			BotToken:           getEnv("TELEGRAM_BOT_TOKEN", ""),
			InitDataExpiration: getDuration("TELEGRAM_INIT_DATA_EXPIRATION", 24*time.Hour),
		},
		Lotto: config.LottoConfigs{
			TicketPrice: getInt64("LOTTO_TICKET_PRICE", 100),
		},
		Task: config.TaskConfigs{
			OneTimeReward:      getInt64("TASK_ONE_TIME_REWARD", 2000),
			DailyCheckinReward: getInt64("TASK_DAILY_CHECKIN_REWARD", 1200),
			DailyInviteReward:  getInt64("TASK_DAILY_INVITE_REWARD", 1200),
		},
		Invite: config.InviteConfigs{
			InviterReward:        getInt64("INVITE_INVITER_REWARD", 1000),
			InvitedReward:        getInt64("INVITE_INVITED_REWARD", 1000),
			PremiumInviterReward: getInt64("INVITE_PREMIUM_INVITER_REWARD", 2000),
			PremiumInvitedReward: getInt64("INVITE_PREMIUM_INVITED_REWARD", 2000),
		},
	}

	s.ctx = xcontext.WithConfigs(context.Background(), configs)
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if xcontext.Configs(s.ctx).Env == "local" {
		level = logger.DEBUG
	}

	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) loadDatabase() {
	db, err := gorm.Open(mysql.Open(xcontext.Configs(s.ctx).Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
}

func (s *srv) loadRedis() {
	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = redisClient
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.inviteRepo = repository.NewInviteRepository()
	s.taskRepo = repository.NewTaskRepository()
}

func (s *srv) loadDomains() {
	s.ledger = ledger.New(s.redisClient)
	s.lottoDomain = domain.NewLottoDomain(s.redisClient, s.ledger, lottogen.NewSeeded())
	s.taskDomain = domain.NewTaskDomain(s.taskRepo, s.redisClient, s.ledger)
	s.userDomain = domain.NewUserDomain(s.userRepo, s.inviteRepo, s.ledger, s.lottoDomain, s.taskDomain)
	s.statisticDomain = domain.NewStatisticDomain(s.userRepo, s.inviteRepo, s.ledger)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func getInt64(key string, fallback int64) int64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		panic(err)
	}

	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		panic(err)
	}

	return d
}
