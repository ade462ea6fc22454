package models

// Config holds settings read from .hwtconfig via Viper.
type Config struct {
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Display DisplayConfig `yaml:"display" mapstructure:"display"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Events  EventsConfig  `yaml:"events" mapstructure:"events"`
}

// StorageConfig locates the task file. A relative File is resolved against
// the base path.
type StorageConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// DisplayConfig sizes the card view canvas in logical units.
type DisplayConfig struct {
	Width  int `yaml:"width" mapstructure:"width"`
	Height int `yaml:"height" mapstructure:"height"`
	FPS    int `yaml:"fps" mapstructure:"fps"`
}

// LogConfig controls the diagnostic logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // console|json
}

// EventsConfig controls the JSONL event log.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	File    string `yaml:"file" mapstructure:"file"`
}
