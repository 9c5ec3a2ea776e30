package policy

import (
	"math/rand"
	"time"

	"roombot/agent/internal/action"
	"roombot/agent/internal/state"
)

// Random emits a uniform independent choice from {-1, 0, 1} per axis. Used
// as a sanity baseline against the rules policy.
type Random struct {
	rng *rand.Rand
}

// NewRandom constructs the random policy. A zero seed selects a time-based
// one.
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (p *Random) Name() string {
	return "random"
}

func (p *Random) Decide(*state.Snapshot) action.Action {
	return action.Action{
		MoveX:  p.axis(),
		MoveY:  p.axis(),
		ShootX: p.axis(),
		ShootY: p.axis(),
	}
}

func (p *Random) axis() int {
	return p.rng.Intn(3) - 1
}
