package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeStateFile(t *testing.T, path string, snap Snapshot, mtime time.Time) {
	t.Helper()
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write state file: %v", err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("set mtime: %v", err)
	}
}

func testPlayerSnapshot(frame uint64) Snapshot {
	return Snapshot{
		Frame:  frame,
		Player: &Player{X: 320, Y: 240, HP: 6, MaxHP: 6},
	}
}

func TestReaderAdoptsAdvancingFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	reader := NewFileReader(path, 0)

	base := time.Now()
	writeStateFile(t, path, testPlayerSnapshot(1), base.Add(-2*time.Second))

	snap := reader.Latest()
	if snap == nil || snap.Frame != 1 {
		t.Fatalf("expected frame 1, got %+v", snap)
	}

	writeStateFile(t, path, testPlayerSnapshot(2), base.Add(-1*time.Second))
	snap = reader.Latest()
	if snap == nil || snap.Frame != 2 {
		t.Fatalf("expected frame 2, got %+v", snap)
	}
}

func TestReaderIgnoresFrameRegression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	reader := NewFileReader(path, 0)

	base := time.Now()
	writeStateFile(t, path, testPlayerSnapshot(5), base.Add(-2*time.Second))
	if snap := reader.Latest(); snap == nil || snap.Frame != 5 {
		t.Fatalf("expected frame 5, got %+v", snap)
	}

	writeStateFile(t, path, testPlayerSnapshot(3), base.Add(-1*time.Second))
	if snap := reader.Latest(); snap == nil || snap.Frame != 5 {
		t.Fatalf("regressed frame must not be adopted, got %+v", snap)
	}
}

func TestReaderSkipsUnchangedMtime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	reader := NewFileReader(path, 0)

	mtime := time.Now().Add(-1 * time.Second)
	writeStateFile(t, path, testPlayerSnapshot(1), mtime)

	if !reader.Refresh() {
		t.Fatalf("first refresh should adopt the snapshot")
	}
	if reader.Refresh() {
		t.Fatalf("unchanged mtime should not re-decode")
	}
}

func TestReaderMalformedJSONKeepsCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	reader := NewFileReader(path, 0)

	base := time.Now()
	writeStateFile(t, path, testPlayerSnapshot(1), base.Add(-2*time.Second))
	if snap := reader.Latest(); snap == nil || snap.Frame != 1 {
		t.Fatalf("expected frame 1, got %+v", snap)
	}

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	garbageTime := base.Add(-1 * time.Second)
	if err := os.Chtimes(path, garbageTime, garbageTime); err != nil {
		t.Fatalf("set mtime: %v", err)
	}

	snap := reader.Latest()
	if snap == nil || snap.Frame != 1 {
		t.Fatalf("malformed file must fall back to cache, got %+v", snap)
	}
	if stats := reader.Stats(); stats.Errors == 0 {
		t.Fatalf("decode failure should be counted")
	}
}

func TestReaderStaleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	reader := NewFileReader(path, 2*time.Second)

	writeStateFile(t, path, testPlayerSnapshot(1), time.Now().Add(-time.Minute))

	if snap := reader.Latest(); snap != nil {
		t.Fatalf("stale file must not be adopted, got %+v", snap)
	}
	if stats := reader.Stats(); !stats.Stale {
		t.Fatalf("reader should flag staleness")
	}
}

func TestReaderMissingFile(t *testing.T) {
	reader := NewFileReader(filepath.Join(t.TempDir(), "absent.json"), 0)

	if snap := reader.Latest(); snap != nil {
		t.Fatalf("missing file should yield nil, got %+v", snap)
	}
	if stats := reader.Stats(); stats.Errors == 0 {
		t.Fatalf("missing file should be counted as an error")
	}
}

func TestReaderTruncatesEntityLists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	reader := NewFileReader(path, 0)

	snap := testPlayerSnapshot(1)
	for i := 0; i < MaxEnemies+5; i++ {
		snap.Enemies = append(snap.Enemies, Enemy{X: float64(i), Distance: float64(i)})
	}
	for i := 0; i < MaxProjectiles+5; i++ {
		snap.Projectiles = append(snap.Projectiles, Projectile{X: float64(i), Distance: float64(i), IsHostile: true})
	}
	writeStateFile(t, path, snap, time.Now().Add(-time.Second))

	got := reader.Latest()
	if got == nil {
		t.Fatalf("expected snapshot")
	}
	if len(got.Enemies) != MaxEnemies {
		t.Fatalf("expected %d enemies, got %d", MaxEnemies, len(got.Enemies))
	}
	if len(got.Projectiles) != MaxProjectiles {
		t.Fatalf("expected %d projectiles, got %d", MaxProjectiles, len(got.Projectiles))
	}
}

func TestReaderWireFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	reader := NewFileReader(path, 0)

	doc := fmt.Sprintf(`{
		"frame": 42,
		"player": {"x": 1, "y": 2, "vx": 3, "vy": 4, "hp": 5, "max_hp": 6, "has_flight": true},
		"enemies": [{"x": 10, "y": 20, "distance": 22.4, "type": 7, "variant": 1}],
		"projectiles": [{"x": -5, "y": 0, "vx": 100, "distance": 5, "is_hostile": true}],
		"room": {"grid_width": 13, "grid_height": 7, "is_clear": false},
		"game": {"seed": 1234, "difficulty": 1}
	}`)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write state: %v", err)
	}
	mtime := time.Now().Add(-time.Second)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("set mtime: %v", err)
	}

	snap := reader.Latest()
	if snap == nil {
		t.Fatalf("expected snapshot")
	}
	if snap.Frame != 42 || snap.Player == nil || !snap.Player.HasFlight || snap.Player.MaxHP != 6 {
		t.Fatalf("player fields misdecoded: %+v", snap)
	}
	if len(snap.Enemies) != 1 || snap.Enemies[0].Distance != 22.4 || snap.Enemies[0].Type != 7 {
		t.Fatalf("enemy fields misdecoded: %+v", snap.Enemies)
	}
	if len(snap.Projectiles) != 1 || !snap.Projectiles[0].IsHostile {
		t.Fatalf("projectile fields misdecoded: %+v", snap.Projectiles)
	}
	if snap.Room == nil || snap.Room.GridWidth != 13 || snap.Game.Seed != 1234 {
		t.Fatalf("room/game fields misdecoded: %+v %+v", snap.Room, snap.Game)
	}
}
