package engine

import (
	"testing"

	"roombot/agent/internal/state"
)

func TestApproachWithinBand(t *testing.T) {
	e := newTestEngine()
	player := &state.Player{X: 0, Y: 0}
	enemies := []state.Enemy{{X: 0, Y: -350, Distance: 350}}

	move, ok := e.approachEnemies(player, enemies)
	if !ok {
		t.Fatalf("expected approach toward enemy between attack and approach range")
	}
	if move.X != 0 || move.Y != -1 {
		t.Fatalf("expected approach (0,-1), got %+v", move)
	}
}

func TestApproachSkipsEngagedTarget(t *testing.T) {
	e := newTestEngine()
	player := &state.Player{X: 0, Y: 0}
	enemies := []state.Enemy{{X: 200, Y: 0, Distance: 200}}

	if _, ok := e.approachEnemies(player, enemies); ok {
		t.Fatalf("enemy already inside attack range needs no approach")
	}
}

func TestApproachSkipsDistantTarget(t *testing.T) {
	e := newTestEngine()
	player := &state.Player{X: 0, Y: 0}
	enemies := []state.Enemy{{X: 450, Y: 0, Distance: 450}}

	if _, ok := e.approachEnemies(player, enemies); ok {
		t.Fatalf("enemy beyond approach range is not worth chasing")
	}
}

func TestApproachUsesListHead(t *testing.T) {
	e := newTestEngine()
	player := &state.Player{X: 0, Y: 0}
	// Only the head of the (pre-sorted) list is considered, even when a
	// later entry would qualify.
	enemies := []state.Enemy{
		{X: 100, Y: 0, Distance: 100},
		{X: 0, Y: 350, Distance: 350},
	}

	if _, ok := e.approachEnemies(player, enemies); ok {
		t.Fatalf("head enemy inside attack range must suppress approach")
	}
}

func TestApproachNoEnemies(t *testing.T) {
	e := newTestEngine()
	player := &state.Player{X: 0, Y: 0}

	if _, ok := e.approachEnemies(player, nil); ok {
		t.Fatalf("no enemies, no approach")
	}
}
