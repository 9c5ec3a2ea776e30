// Package engine turns one frame's entity snapshot into a quantized
// movement/aim decision. The engine is a pure function of the snapshot and
// its fixed configuration; it keeps no state between frames.
package engine

import (
	"roombot/agent/internal/state"
)

// Empirical tunables. These were settled by live play, not derived; keep
// parity with the tuned values rather than re-deriving physics.
const (
	speedEpsilon     = 0.1 // below this a velocity is treated as stationary
	magnitudeEpsilon = 0.1 // below this a direction vector is degenerate
	urgencyCeiling   = 2.0 // threat scores above this are ignored
	threatDotFactor  = 0.5
	minRepelDistance = 1.0 // repulsion weight clamp as distance -> 0
)

// Config holds the distance thresholds gating each behavior. All values are
// positive world-distance units. AttackRange < ApproachRange is expected but
// not enforced.
type Config struct {
	DodgeRadius   float64 `yaml:"dodge_radius"`
	AvoidRadius   float64 `yaml:"avoid_radius"`
	AttackRange   float64 `yaml:"attack_range"`
	ApproachRange float64 `yaml:"approach_range"`
	LeadDivisor   float64 `yaml:"lead_divisor"`
}

// DefaultConfig returns the tuned live values.
func DefaultConfig() Config {
	return Config{
		DodgeRadius:   100.0,
		AvoidRadius:   50.0,
		AttackRange:   300.0,
		ApproachRange: 400.0,
		LeadDivisor:   200.0,
	}
}

// withDefaults fills unset fields so a partially specified config stays
// usable.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.DodgeRadius <= 0 {
		c.DodgeRadius = def.DodgeRadius
	}
	if c.AvoidRadius <= 0 {
		c.AvoidRadius = def.AvoidRadius
	}
	if c.AttackRange <= 0 {
		c.AttackRange = def.AttackRange
	}
	if c.ApproachRange <= 0 {
		c.ApproachRange = def.ApproachRange
	}
	if c.LeadDivisor <= 0 {
		c.LeadDivisor = def.LeadDivisor
	}
	return c
}

// Axes is a discrete 2-axis vector with each component in {-1, 0, 1}.
type Axes struct {
	X int
	Y int
}

// IsZero reports whether both axes are zero.
func (a Axes) IsZero() bool {
	return a.X == 0 && a.Y == 0
}

// Decision is the engine's sole output: independent movement and aim axes,
// fully re-derived each frame.
type Decision struct {
	Move Axes
	Aim  Axes
}

// IsZero reports whether the decision is a no-op.
func (d Decision) IsZero() bool {
	return d.Move.IsZero() && d.Aim.IsZero()
}

// Engine evaluates the fixed behavior priority chain.
type Engine struct {
	cfg Config
}

// New constructs an engine from cfg, filling unset fields with defaults.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Decide runs the priority chain for one snapshot:
//
//  1. dodge the most urgent hostile projectile
//  2. back away from enemies in contact range
//  3. close distance to the nearest enemy
//  4. stand still
//
// Aim is sourced independently from the nearest in-range enemy, so the agent
// keeps shooting while dodging or retreating. A nil snapshot or absent
// player yields the zero decision without evaluating any behavior.
func (e *Engine) Decide(snap *state.Snapshot) Decision {
	if e == nil || snap == nil || snap.Player == nil {
		return Decision{}
	}
	player := snap.Player

	var d Decision
	if aim, ok := e.attackNearest(player, snap.Enemies); ok {
		d.Aim = aim
	}

	if move, ok := e.dodgeProjectiles(player, snap.Projectiles); ok {
		d.Move = move
		return d
	}
	if move, ok := e.avoidEnemies(player, snap.Enemies); ok {
		d.Move = move
		return d
	}
	if move, ok := e.approachEnemies(player, snap.Enemies); ok {
		d.Move = move
	}
	return d
}
