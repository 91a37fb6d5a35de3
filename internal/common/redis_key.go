package common

import "fmt"

// Key layout of the shared state store. Balances and counters are plain
// string counters, points is a single global zset, the current ticket is a
// JSON blob, daily task stamps are ISO-8601 strings.

const RedisKeyPoints = "user_points"

func RedisKeyChips(telegramID string) string {
	return fmt.Sprintf("user_chips_%s", telegramID)
}

func RedisKeyNewestLotto(telegramID string) string {
	return fmt.Sprintf("user_newest_lotto_%s", telegramID)
}

func RedisKeyLottoNumber(telegramID string) string {
	return fmt.Sprintf("user_lotto_number_%s", telegramID)
}

func RedisKeyLottoWinNumber(telegramID string) string {
	return fmt.Sprintf("user_lotto_win_number_%s", telegramID)
}

func RedisKeyDailyCheckin(telegramID string) string {
	return fmt.Sprintf("user_daily_checkin_task_%s", telegramID)
}

func RedisKeyDailyInvite(telegramID string) string {
	return fmt.Sprintf("user_daily_invite_task_%s", telegramID)
}
