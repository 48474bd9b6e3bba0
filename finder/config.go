package finder

import (
	"github.com/RyanBlaney/taal-finder/beats"
	"github.com/RyanBlaney/taal-finder/taal"
	"github.com/RyanBlaney/taal-finder/transcode"
)

// Config bundles the configuration of every pipeline stage.
type Config struct {
	Decoder    *transcode.DecoderConfig `json:"decoder"`
	Onset      *beats.OnsetConfig       `json:"onset"`
	Classifier *taal.Config             `json:"classifier"`

	// DBPath is the result cache location. Empty disables caching.
	DBPath string `json:"db_path"`
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() *Config {
	return &Config{
		Decoder:    transcode.DefaultDecoderConfig(),
		Onset:      beats.DefaultOnsetConfig(),
		Classifier: taal.DefaultConfig(),
	}
}

// withDefaults fills nil sections from DefaultConfig.
func (c *Config) withDefaults() *Config {
	def := DefaultConfig()
	if c == nil {
		return def
	}
	out := *c
	if out.Decoder == nil {
		out.Decoder = def.Decoder
	}
	if out.Onset == nil {
		out.Onset = def.Onset
	}
	if out.Classifier == nil {
		out.Classifier = def.Classifier
	}
	return &out
}
