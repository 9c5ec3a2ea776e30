// Package policy maps snapshots to actions. The rules policy wraps the
// decision engine; random and script exist for baselines and prototyping.
package policy

import (
	"roombot/agent/internal/action"
	"roombot/agent/internal/engine"
	"roombot/agent/internal/state"
)

// Policy decides one action per snapshot. Implementations must be safe to
// call repeatedly from a single goroutine and must tolerate nil snapshots.
type Policy interface {
	Name() string
	Decide(snap *state.Snapshot) action.Action
}

// Rules runs the geometric decision engine.
type Rules struct {
	engine *engine.Engine
}

// NewRules constructs the rules policy from engine configuration.
func NewRules(cfg engine.Config) *Rules {
	return &Rules{engine: engine.New(cfg)}
}

func (r *Rules) Name() string {
	return "rules"
}

func (r *Rules) Decide(snap *state.Snapshot) action.Action {
	d := r.engine.Decide(snap)
	return action.Action{
		MoveX:  d.Move.X,
		MoveY:  d.Move.Y,
		ShootX: d.Aim.X,
		ShootY: d.Aim.Y,
	}
}
