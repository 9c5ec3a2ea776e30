// Package action holds the decision wire contract consumed by the in-game
// mod and the atomic file writer that delivers it.
package action

// Action mirrors the JSON document the mod polls for. Each axis is
// constrained to {-1, 0, 1}; Clamp enforces the range on values coming from
// untrusted policies.
type Action struct {
	MoveX  int `json:"move_x" jsonschema:"minimum=-1,maximum=1"`
	MoveY  int `json:"move_y" jsonschema:"minimum=-1,maximum=1"`
	ShootX int `json:"shoot_x" jsonschema:"minimum=-1,maximum=1"`
	ShootY int `json:"shoot_y" jsonschema:"minimum=-1,maximum=1"`
}

// Clamp returns the action with every axis forced into the valid range.
func (a Action) Clamp() Action {
	a.MoveX = clampAxis(a.MoveX)
	a.MoveY = clampAxis(a.MoveY)
	a.ShootX = clampAxis(a.ShootX)
	a.ShootY = clampAxis(a.ShootY)
	return a
}

// IsZero reports whether the action is a full no-op.
func (a Action) IsZero() bool {
	return a.MoveX == 0 && a.MoveY == 0 && a.ShootX == 0 && a.ShootY == 0
}

func clampAxis(v int) int {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
