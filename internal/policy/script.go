package policy

import (
	"fmt"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"roombot/agent/internal/action"
	"roombot/agent/internal/state"
	"roombot/agent/internal/telemetry"
)

// Script evaluates a Tengo program once per snapshot. The program receives a
// `state` map (frame, player, enemies, projectiles) and assigns the globals
// `move_x`, `move_y`, `shoot_x`, `shoot_y`. Runtime errors degrade to the
// zero action; a broken script must never take the loop down.
type Script struct {
	path     string
	compiled *tengo.Compiled
	logger   telemetry.Logger
}

// NewScript loads and compiles the script at path.
func NewScript(path string, logger telemetry.Logger) (*Script, error) {
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	script := tengo.NewScript(src)
	if err := script.Add("state", map[string]any{}); err != nil {
		return nil, fmt.Errorf("bind state variable: %w", err)
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile script %s: %w", path, err)
	}

	return &Script{path: path, compiled: compiled, logger: logger}, nil
}

func (s *Script) Name() string {
	return "script"
}

func (s *Script) Decide(snap *state.Snapshot) action.Action {
	if snap == nil || snap.Player == nil {
		return action.Action{}
	}
	if err := s.compiled.Set("state", snapshotMap(snap)); err != nil {
		s.logger.Printf("script %s: set state: %v", s.path, err)
		return action.Action{}
	}
	if err := s.compiled.Run(); err != nil {
		s.logger.Printf("script %s: %v", s.path, err)
		return action.Action{}
	}
	return action.Action{
		MoveX:  s.intGlobal("move_x"),
		MoveY:  s.intGlobal("move_y"),
		ShootX: s.intGlobal("shoot_x"),
		ShootY: s.intGlobal("shoot_y"),
	}.Clamp()
}

func (s *Script) intGlobal(name string) int {
	if !s.compiled.IsDefined(name) {
		return 0
	}
	return s.compiled.Get(name).Int()
}

// snapshotMap flattens a snapshot into plain maps and slices Tengo can
// convert.
func snapshotMap(snap *state.Snapshot) map[string]any {
	player := map[string]any{
		"x":      snap.Player.X,
		"y":      snap.Player.Y,
		"vx":     snap.Player.VX,
		"vy":     snap.Player.VY,
		"hp":     snap.Player.HP,
		"max_hp": snap.Player.MaxHP,
	}

	enemies := make([]any, 0, len(snap.Enemies))
	for _, e := range snap.Enemies {
		enemies = append(enemies, map[string]any{
			"x":        e.X,
			"y":        e.Y,
			"vx":       e.VX,
			"vy":       e.VY,
			"hp":       e.HP,
			"distance": e.Distance,
		})
	}

	projectiles := make([]any, 0, len(snap.Projectiles))
	for _, p := range snap.Projectiles {
		projectiles = append(projectiles, map[string]any{
			"x":          p.X,
			"y":          p.Y,
			"vx":         p.VX,
			"vy":         p.VY,
			"distance":   p.Distance,
			"is_hostile": p.IsHostile,
		})
	}

	return map[string]any{
		"frame":       int(snap.Frame),
		"player":      player,
		"enemies":     enemies,
		"projectiles": projectiles,
	}
}
