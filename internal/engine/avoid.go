package engine

import (
	"math"

	"roombot/agent/internal/state"
)

// avoidEnemies sums inverse-distance-weighted repulsion away from every
// enemy inside AvoidRadius (exclusive). The weight clamp keeps the sum from
// exploding as distance approaches zero. Opposing forces can cancel; a
// negligible resultant means no usable direction this frame.
func (e *Engine) avoidEnemies(player *state.Player, enemies []state.Enemy) (Axes, bool) {
	var repel vec2
	found := false

	for i := range enemies {
		enemy := &enemies[i]
		if enemy.Distance <= 0 || enemy.Distance >= e.cfg.AvoidRadius {
			continue
		}
		weight := 1.0 / math.Max(enemy.Distance, minRepelDistance)
		repel.X += (player.X - enemy.X) * weight
		repel.Y += (player.Y - enemy.Y) * weight
		found = true
	}
	if !found {
		return Axes{}, false
	}

	dir, ok := normalize(repel)
	if !ok {
		return Axes{}, false
	}
	return quantize(dir), true
}
