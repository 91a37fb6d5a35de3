package model

// RequestUser is the Telegram account extracted from a verified init data
// payload. It identifies the caller for every endpoint.
type RequestUser struct {
	ID        string
	Name      string
	IsPremium bool
}

type GetUserRequest struct {
	// InvitationCode is the code the user clicked to open the app, not the
	// code owned by the user. Empty when the user arrived organically.
	InvitationCode string `json:"invitation_code" mapstructure:"invitation_code"`
}

type GetUserResponse struct {
	Chips   int64   `json:"chips"`
	Points  float64 `json:"points"`
	Ranking int     `json:"ranking"`

	InvitationCode string `json:"invitation_code"`
	IsNew          bool   `json:"is_new"`

	// Lifetime scratch counters.
	LottoNumber    int64 `json:"lotto_number"`
	LottoWinNumber int64 `json:"lotto_win_number"`
}
