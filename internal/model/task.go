package model

type CheckTaskRequest struct{}

type CheckTaskResponse struct {
	Premium        bool `json:"premium"`
	JoinOurChannel bool `json:"join_our_channel"`
	FollowOurX     bool `json:"follow_our_x"`
	DailyCheckin   bool `json:"daily_checkin"`
	DailyInvite    bool `json:"daily_invite"`
	DailyLotto     bool `json:"daily_lotto"`
}

type CompleteTaskRequest struct {
	Type string `json:"type" mapstructure:"type"`
}

type CompleteTaskResponse struct {
	Chips   int64   `json:"chips"`
	Points  float64 `json:"points"`
	Ranking int     `json:"ranking"`
}
