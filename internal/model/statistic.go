package model

type GetLeaderBoardRequest struct {
	// Limit bounds the number of top entries; the server default applies
	// when zero.
	Limit int `json:"limit" mapstructure:"limit"`
}

type RankingUser struct {
	TelegramID string  `json:"user_telegram_id"`
	Username   string  `json:"username"`
	Rank       int     `json:"rank"`
	Points     float64 `json:"points"`
}

type CurrentUserRanking struct {
	Chips   int64   `json:"chips"`
	Points  float64 `json:"points"`
	Ranking int     `json:"ranking"`

	InvitationCode string `json:"invitation_code"`
	InviteNumber   int    `json:"invite_number"`
}

type GetLeaderBoardResponse struct {
	CurrentUser CurrentUserRanking `json:"current_user"`
	RankingInfo []RankingUser      `json:"ranking_info"`
}
