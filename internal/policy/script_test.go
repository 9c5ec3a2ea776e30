package policy

import (
	"os"
	"path/filepath"
	"testing"

	"roombot/agent/internal/state"
)

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.tengo")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestScriptPolicyDecides(t *testing.T) {
	path := writeScript(t, `
move_x := 0
shoot_y := 0
if len(state.enemies) > 0 {
	move_x = 1
	shoot_y = -1
}
`)
	p, err := NewScript(path, nil)
	if err != nil {
		t.Fatalf("load script: %v", err)
	}
	if p.Name() != "script" {
		t.Fatalf("name = %q", p.Name())
	}

	act := p.Decide(rulesSnapshot())
	if act.MoveX != 1 || act.ShootY != -1 {
		t.Fatalf("script outputs not picked up: %+v", act)
	}
	if act.MoveY != 0 || act.ShootX != 0 {
		t.Fatalf("unset globals should default to zero: %+v", act)
	}
}

func TestScriptPolicyClampsOutputs(t *testing.T) {
	path := writeScript(t, `
move_x := 5
move_y := -9
`)
	p, err := NewScript(path, nil)
	if err != nil {
		t.Fatalf("load script: %v", err)
	}

	act := p.Decide(rulesSnapshot())
	if act.MoveX != 1 || act.MoveY != -1 {
		t.Fatalf("script outputs must be clamped, got %+v", act)
	}
}

func TestScriptPolicyNilPlayer(t *testing.T) {
	path := writeScript(t, `move_x := 1`)
	p, err := NewScript(path, nil)
	if err != nil {
		t.Fatalf("load script: %v", err)
	}

	if act := p.Decide(&state.Snapshot{}); !act.IsZero() {
		t.Fatalf("missing player must yield the zero action, got %+v", act)
	}
}

func TestScriptPolicyCompileError(t *testing.T) {
	path := writeScript(t, `move_x := := 1`)
	if _, err := NewScript(path, nil); err == nil {
		t.Fatalf("expected a compile error")
	}
}

func TestScriptPolicyMissingFile(t *testing.T) {
	if _, err := NewScript(filepath.Join(t.TempDir(), "absent.tengo"), nil); err == nil {
		t.Fatalf("expected an error for a missing script")
	}
}

func TestScriptPolicyRuntimeErrorDegrades(t *testing.T) {
	path := writeScript(t, `move_x := state.missing.field`)
	p, err := NewScript(path, nil)
	if err != nil {
		t.Fatalf("load script: %v", err)
	}

	if act := p.Decide(rulesSnapshot()); !act.IsZero() {
		t.Fatalf("runtime errors must degrade to the zero action, got %+v", act)
	}
}
