package lottogen

import (
	"math/rand"
	"sync"

	"github.com/pepelotto/backend/internal/entity"
	"github.com/pepelotto/backend/pkg/crypto"
)

const NumZones = 12

// Tiered reward tables for special (pepe) zones. Each reward is drawn
// uniformly from an arithmetic sequence base + step*k, k in [0, count).
var specialRewardTables = map[int]struct {
	base  int64
	step  int64
	count int
}{
	4: {base: 100, step: 100, count: 19},    // [100, 1900]
	3: {base: 2000, step: 500, count: 16},   // [2000, 9500]
	2: {base: 10000, step: 5000, count: 8},  // [10000, 45000]
	1: {base: 50000, step: 10000, count: 6}, // [50000, 100000]
}

// Generator samples scratch tickets. It performs no I/O and never fails; a
// fixed-seed rand source makes it fully deterministic for tests. Safe for
// concurrent use.
type Generator struct {
	mutex sync.Mutex
	rand  *rand.Rand
}

// New creates a Generator over the given random source.
func New(r *rand.Rand) *Generator {
	return &Generator{rand: r}
}

// NewSeeded creates a Generator seeded from system entropy.
func NewSeeded() *Generator {
	return New(rand.New(rand.NewSource(crypto.RandSeed())))
}

// Generate samples one ticket. Special zones come first in the layout, the
// remaining zones carry a uniformly chosen common icon at fixed tier 4.
// Only special zone rewards count towards the payout.
func (g *Generator) Generate() entity.LottoTicket {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	pepeNum := g.pepeNum()

	ticket := entity.LottoTicket{
		PepeNum: pepeNum,
		Zones:   make([]entity.LottoZone, 0, NumZones),
	}

	for i := 0; i < pepeNum; i++ {
		tier := g.specialTier()
		reward := g.specialReward(tier)
		ticket.Zones = append(ticket.Zones, entity.LottoZone{
			Icon:   entity.IconPepe,
			Tier:   tier,
			Reward: reward,
		})

		ticket.Rewards += reward
	}

	for i := pepeNum; i < NumZones; i++ {
		ticket.Zones = append(ticket.Zones, entity.LottoZone{
			Icon:   entity.CommonIcons[g.rand.Intn(len(entity.CommonIcons))],
			Tier:   4,
			Reward: 1000 * int64(1+g.rand.Intn(100)),
		})
	}

	return ticket
}

// pepeNum draws the number of special zones: P(0)=30%, P(1)=60.9%,
// P(2)=9%, P(3)=0.1%.
func (g *Generator) pepeNum() int {
	draw := g.rand.Float64() * 100
	switch {
	case draw < 30:
		return 0
	case draw < 90.9:
		return 1
	case draw < 99.9:
		return 2
	default:
		return 3
	}
}

// specialTier draws the tier of one special zone: P(4)=75%, P(3)=23%,
// P(2)=1.8%, P(1)=0.2%.
func (g *Generator) specialTier() int {
	draw := g.rand.Float64() * 100
	switch {
	case draw < 75:
		return 4
	case draw < 98:
		return 3
	case draw < 99.8:
		return 2
	default:
		return 1
	}
}

func (g *Generator) specialReward(tier int) int64 {
	table := specialRewardTables[tier]
	return table.base + table.step*int64(g.rand.Intn(table.count))
}
