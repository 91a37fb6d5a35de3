package entity

import (
	"time"

	"github.com/pepelotto/backend/pkg/enum"
)

type LottoIcon string

var (
	IconPepe  = enum.New(LottoIcon("pepe"))
	IconDoge  = enum.New(LottoIcon("doge"))
	IconPogai = enum.New(LottoIcon("pogai"))
	IconBonk  = enum.New(LottoIcon("bonk"))
)

// CommonIcons are the icons a non-special zone can carry.
var CommonIcons = []LottoIcon{IconDoge, IconPogai, IconBonk}

// LottoZone is one of the 12 scratch areas of a ticket. Rewards of common
// zones are display-only and never paid out.
type LottoZone struct {
	Icon   LottoIcon `json:"icon"`
	Tier   int       `json:"tier"`
	Reward int64     `json:"reward"`
}

// LottoTicket is a generated scratch ticket. Rewards is the payout: the sum
// of the special (pepe) zone rewards only, so a ticket without pepe zones
// always pays zero.
type LottoTicket struct {
	PepeNum int         `json:"pepe_num"`
	Rewards int64       `json:"rewards"`
	Zones   []LottoZone `json:"lotto"`
}

// LottoRecord is the JSON blob stored in redis as the user's current ticket.
// A user owns at most one record; a new purchase overwrites it only after
// the previous ticket was revealed.
type LottoRecord struct {
	Ticket   LottoTicket `json:"lottoInfo"`
	BoughtAt time.Time   `json:"bought_at"`
	Revealed bool        `json:"done"`
}
