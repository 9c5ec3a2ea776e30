package engine

import "roombot/agent/internal/state"

// approachEnemies closes distance to the nearest enemy when it sits between
// AttackRange and ApproachRange: closer means already engaged, farther means
// not worth chasing.
func (e *Engine) approachEnemies(player *state.Player, enemies []state.Enemy) (Axes, bool) {
	if len(enemies) == 0 {
		return Axes{}, false
	}
	nearest := &enemies[0]
	if nearest.Distance < e.cfg.AttackRange || nearest.Distance > e.cfg.ApproachRange {
		return Axes{}, false
	}

	dir, ok := normalize(vec2{X: nearest.X - player.X, Y: nearest.Y - player.Y})
	if !ok {
		return Axes{}, false
	}
	return quantize(dir), true
}
