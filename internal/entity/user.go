package entity

import "time"

// User mirrors one Telegram account. The numeric primary key is an
// auto-increment sequence; the invitation code is derived from it after the
// row exists, so a freshly inserted user briefly carries an empty code.
type User struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	UpdatedAt time.Time

	TelegramID     string `gorm:"uniqueIndex"`
	Username       string
	IsPremium      bool
	InvitationCode string `gorm:"uniqueIndex"`
}

// InviteRecord is written once when an invited user registers through an
// invitation code. Rows are never deleted; the invite count of a code is the
// number of its rows.
type InviteRecord struct {
	Base

	InvitationCode    string `gorm:"index"`
	InvitedTelegramID string `gorm:"uniqueIndex"`
	IsPremium         bool
}
