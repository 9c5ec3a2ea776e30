package logging

import "time"

type Config struct {
	EnabledSinks     []string      `yaml:"enabled_sinks"`
	BufferSize       int           `yaml:"buffer_size"`
	MinimumSeverity  Severity      `yaml:"minimum_severity"`
	DropWarnInterval time.Duration `yaml:"drop_warn_interval"`
	JSON             JSONConfig    `yaml:"json"`
}

type JSONConfig struct {
	FilePath      string        `yaml:"file_path"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

func DefaultConfig() Config {
	return Config{
		EnabledSinks:     []string{"console"},
		BufferSize:       256,
		MinimumSeverity:  SeverityInfo,
		DropWarnInterval: 5 * time.Second,
		JSON: JSONConfig{
			FlushInterval: 2 * time.Second,
		},
	}
}

func (c Config) HasSink(name string) bool {
	for _, s := range c.EnabledSinks {
		if s == name {
			return true
		}
	}
	return false
}
