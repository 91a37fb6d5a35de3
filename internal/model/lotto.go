package model

import "github.com/pepelotto/backend/internal/entity"

type CheckLottoRequest struct{}

type CheckLottoResponse struct {
	// Outstanding is true iff the user holds an unrevealed ticket.
	Outstanding bool `json:"outstanding"`
}

type BuyLottoRequest struct{}

type BuyLottoResponse struct {
	// IsRemaining marks that the returned ticket is a previously bought,
	// still unrevealed one, and no chips were charged.
	IsRemaining bool               `json:"is_remain"`
	Ticket      entity.LottoTicket `json:"lottoInfo"`
	Chips       int64              `json:"chips"`
}

type RevealLottoRequest struct{}

type RevealLottoResponse struct {
	Chips   int64   `json:"chips"`
	Points  float64 `json:"points"`
	Ranking int     `json:"ranking"`
}
