package state

// Caps applied while decoding entity lists. The instrumentation mod can dump
// more entities than the policies will ever look at; anything past the cap is
// dropped in list order (nearest-first for enemies).
const (
	MaxEnemies     = 20
	MaxProjectiles = 30
)

// Player holds the controlled character's state for one frame.
type Player struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VX        float64 `json:"vx"`
	VY        float64 `json:"vy"`
	HP        int     `json:"hp"`
	MaxHP     int     `json:"max_hp"`
	Bombs     int     `json:"bombs"`
	Keys      int     `json:"keys"`
	Coins     int     `json:"coins"`
	Charge    int     `json:"charge"`
	HasFlight bool    `json:"has_flight"`
}

// Enemy is one hostile actor. Distance is precomputed by the instrumentation
// layer; the enemies list in a Snapshot is sorted ascending by it.
type Enemy struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	HP       float64 `json:"hp"`
	MaxHP    float64 `json:"max_hp"`
	Type     int     `json:"type"`
	Variant  int     `json:"variant"`
	Subtype  int     `json:"subtype"`
	Distance float64 `json:"distance" jsonschema:"description=Distance from the player,minimum=0"`
}

// Projectile is one in-flight shot. Only hostile projectiles participate in
// dodge decisions.
type Projectile struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VX        float64 `json:"vx"`
	VY        float64 `json:"vy"`
	Distance  float64 `json:"distance" jsonschema:"description=Distance from the player,minimum=0"`
	IsHostile bool    `json:"is_hostile"`
}

// Pickup is an item lying on the floor. Unused by the decision engine but
// part of the wire contract.
type Pickup struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Variant  int     `json:"variant"`
	Subtype  int     `json:"subtype"`
	Distance float64 `json:"distance"`
}

// Room describes the current room layout.
type Room struct {
	Type       int  `json:"type"`
	Shape      int  `json:"shape"`
	Stage      int  `json:"stage"`
	StageType  int  `json:"stage_type"`
	IsClear    bool `json:"is_clear"`
	RoomIndex  int  `json:"room_index"`
	GridWidth  int  `json:"grid_width"`
	GridHeight int  `json:"grid_height"`
}

// Game carries run-level metadata.
type Game struct {
	Seed       int `json:"seed"`
	Difficulty int `json:"difficulty"`
	Challenge  int `json:"challenge"`
}

// Snapshot is one frame's complete view of the world as dumped by the
// instrumentation mod. It is immutable once decoded; policies borrow it
// read-only.
//
// Enemies are sorted ascending by Distance. Consumers that pick "the
// nearest" rely on list order and never re-sort; feeding an unsorted list
// yields undefined selection order.
type Snapshot struct {
	Frame       uint64       `json:"frame" jsonschema:"description=Monotonic frame counter"`
	Timestamp   int64        `json:"timestamp"`
	Player      *Player      `json:"player"`
	Enemies     []Enemy      `json:"enemies"`
	Projectiles []Projectile `json:"projectiles"`
	Pickups     []Pickup     `json:"pickups,omitempty"`
	Room        *Room        `json:"room,omitempty"`
	Game        Game         `json:"game"`
}

// truncate applies the decode caps in place.
func (s *Snapshot) truncate() {
	if s == nil {
		return
	}
	if len(s.Enemies) > MaxEnemies {
		s.Enemies = s.Enemies[:MaxEnemies]
	}
	if len(s.Projectiles) > MaxProjectiles {
		s.Projectiles = s.Projectiles[:MaxProjectiles]
	}
}
