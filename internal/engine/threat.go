package engine

import (
	"math"

	"roombot/agent/internal/state"
)

// dodgeProjectiles scores hostile projectiles by collision urgency and, when
// one is urgent enough, returns a movement perpendicular to its flight path.
//
// A projectile qualifies when it is hostile, within DodgeRadius (inclusive),
// actually moving, and closing on the player (positive dot of its velocity
// against the unit direction to the player). The score is time-to-impact
// discounted by how directly it approaches; lower is more urgent. Scores
// above the urgency ceiling are not worth reacting to.
func (e *Engine) dodgeProjectiles(player *state.Player, projectiles []state.Projectile) (Axes, bool) {
	var threat *state.Projectile
	minScore := math.Inf(1)

	for i := range projectiles {
		proj := &projectiles[i]
		if !proj.IsHostile {
			continue
		}
		if proj.Distance <= 0 || proj.Distance > e.cfg.DodgeRadius {
			continue
		}

		vel := vec2{X: proj.VX, Y: proj.VY}
		speed := vel.length()
		if speed < speedEpsilon {
			continue
		}

		toPlayer, ok := normalize(vec2{X: player.X - proj.X, Y: player.Y - proj.Y})
		if !ok {
			continue
		}
		closing := toPlayer.dot(vel)
		if closing <= 0 {
			continue
		}

		timeToImpact := proj.Distance / speed
		score := timeToImpact * (1.0 - closing*threatDotFactor)
		if score < minScore {
			minScore = score
			threat = proj
		}
	}

	if threat == nil || minScore > urgencyCeiling {
		return Axes{}, false
	}

	unitVel, ok := normalize(vec2{X: threat.VX, Y: threat.VY})
	if !ok {
		return Axes{}, false
	}

	// Two perpendiculars to the flight path; take the one pointing away
	// from the projectile's side of the player.
	left := vec2{X: -unitVel.Y, Y: unitVel.X}
	right := vec2{X: unitVel.Y, Y: -unitVel.X}
	toThreat := vec2{X: threat.X - player.X, Y: threat.Y - player.Y}

	dodge := left
	if right.dot(toThreat) < left.dot(toThreat) {
		dodge = right
	}
	return quantize(dodge), true
}
