package engine

import "roombot/agent/internal/state"

// attackNearest aims at the first enemy within AttackRange (inclusive). The
// enemies list arrives sorted ascending by distance, so the first qualifying
// entry is the nearest; the scan never re-sorts.
//
// Moving targets get linear leading: the aim vector is offset by the
// target's velocity scaled by distance over LeadDivisor, which is tuned to
// the shot travel speed.
func (e *Engine) attackNearest(player *state.Player, enemies []state.Enemy) (Axes, bool) {
	var target *state.Enemy
	for i := range enemies {
		if enemies[i].Distance <= e.cfg.AttackRange {
			target = &enemies[i]
			break
		}
	}
	if target == nil {
		return Axes{}, false
	}

	aim := vec2{X: target.X - player.X, Y: target.Y - player.Y}

	vel := vec2{X: target.VX, Y: target.VY}
	if vel.length() > speedEpsilon {
		lead := target.Distance / e.cfg.LeadDivisor
		aim.X += vel.X * lead
		aim.Y += vel.Y * lead
	}

	dir, ok := normalize(aim)
	if !ok {
		return Axes{}, false
	}
	return quantize(dir), true
}
