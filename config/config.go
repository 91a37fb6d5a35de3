package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	ApiServer ServerConfigs
	Database  DatabaseConfigs
	Redis     RedisConfigs
	Telegram  TelegramConfigs
	Lotto     LottoConfigs
	Task      TaskConfigs
	Invite    InviteConfigs
}

type ServerConfigs struct {
	Host string
	Port string

	AllowedOrigins []string
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type RedisConfigs struct {
	Addr     string
	Password string
}

type TelegramConfigs struct {
	BotToken string

	// InitDataExpiration bounds how long a signed init data payload is
	// accepted after its auth_date.
	InitDataExpiration time.Duration
}

type LottoConfigs struct {
	// TicketPrice is the number of chips debited for one scratch ticket.
	TicketPrice int64
}

type TaskConfigs struct {
	OneTimeReward      int64
	DailyCheckinReward int64
	DailyInviteReward  int64
}

type InviteConfigs struct {
	// Chips granted to the inviter and to the invited user on a standard
	// referral.
	InviterReward int64
	InvitedReward int64

	// Premium referrals pay more.
	PremiumInviterReward int64
	PremiumInvitedReward int64
}
