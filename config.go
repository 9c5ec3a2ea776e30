package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"roombot/agent/internal/engine"
	"roombot/agent/logging"
)

// Policy mode names recognized by New.
const (
	ModeRules  = "rules"
	ModeRandom = "random"
	ModeScript = "script"
)

// ModDirEnv points at the game mod directory holding state.json and
// action.json; it applies only when the paths were not set explicitly.
const ModDirEnv = "ROOMBOT_MOD_DIR"

const (
	defaultStateFile  = "state.json"
	defaultActionFile = "action.json"
)

// Config is the fixed per-run agent configuration. Zero fields fall back to
// defaults; the engine section is passed through to engine.New untouched.
type Config struct {
	Mode       string `yaml:"mode"`
	StatePath  string `yaml:"state_path"`
	ActionPath string `yaml:"action_path"`
	ScriptPath string `yaml:"script_path"`
	WSURL      string `yaml:"ws_url"`
	Watch      bool   `yaml:"watch"`

	PollInterval   time.Duration `yaml:"poll_interval"`
	StaleAfter     time.Duration `yaml:"stale_after"`
	StatusInterval time.Duration `yaml:"status_interval"`

	Record    bool   `yaml:"record"`
	RecordDir string `yaml:"record_dir"`

	LogActions bool `yaml:"log_actions"`

	Engine  engine.Config  `yaml:"engine"`
	Logging logging.Config `yaml:"logging"`
}

// DefaultConfig returns the agent defaults: rules mode, file transport in
// the working directory, ~60Hz pacing.
func DefaultConfig() Config {
	return Config{
		Mode:           ModeRules,
		StatePath:      defaultStateFile,
		ActionPath:     defaultActionFile,
		PollInterval:   16 * time.Millisecond,
		StaleAfter:     5 * time.Second,
		StatusInterval: 5 * time.Second,
		RecordDir:      filepath.Join("data", "episodes"),
		Engine:         engine.DefaultConfig(),
		Logging:        logging.DefaultConfig(),
	}
}

// LoadConfig overlays the YAML file at path onto the defaults. An empty path
// returns the defaults directly.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg.withEnv(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.normalized().withEnv(), nil
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.Mode == "" {
		c.Mode = def.Mode
	}
	if c.StatePath == "" {
		c.StatePath = def.StatePath
	}
	if c.ActionPath == "" {
		c.ActionPath = def.ActionPath
	}
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = def.StaleAfter
	}
	if c.StatusInterval <= 0 {
		c.StatusInterval = def.StatusInterval
	}
	if c.RecordDir == "" {
		c.RecordDir = def.RecordDir
	}
	return c
}

// withEnv resolves the default state/action locations against the mod
// directory when one is advertised in the environment.
func (c Config) withEnv() Config {
	dir := os.Getenv(ModDirEnv)
	if dir == "" {
		return c
	}
	if c.StatePath == defaultStateFile {
		c.StatePath = filepath.Join(dir, defaultStateFile)
	}
	if c.ActionPath == defaultActionFile {
		c.ActionPath = filepath.Join(dir, defaultActionFile)
	}
	return c
}
