package commands

import (
	"time"

	"sopaggregator/lib/configutil"
	"sopaggregator/lib/sopfeed"
	"sopaggregator/lib/timezone"
)

type Config struct {
	Endpoint       string `json:"endpoint"`
	Timezone       string `json:"timezone"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	Port           int    `json:"port"`
	// directory receiving http transcripts when --verbose is set
	Transcripts string `json:"transcripts"`
}

var defaultConfig = Config{
	Endpoint:       sopfeed.DefaultEndpoint,
	Timezone:       timezone.Default,
	TimeoutSeconds: 30,
	Port:           8080,
}

func readConfig(path string) (Config, error) {
	return configutil.Load(path, defaultConfig)
}

func (c Config) timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
