package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:            "http://127.0.0.1/api/",
			Key:                "test-key",
			PerPage:            12,
			ImageType:          "photo",
			Orientation:        "horizontal",
			SafeSearch:         true,
			HTTPTimeout:        2 * time.Second,
			UserAgent:          "glimpse-test/1.0",
			AllowLocalEndpoint: true,
		},
		Gallery: GalleryConfig{
			ScrollDelay:      10 * time.Millisecond,
			ScrollMultiplier: 3,
			CardWidth:        32,
		},
		Database: DatabaseConfig{
			Path:        ":memory:",
			Timeout:     1 * time.Second,
			HistorySize: 10,
		},
		UI:      defaultConfig().UI,
		Media:   defaultConfig().Media,
		Keys:    defaultConfig().Keys,
		Logging: LoggingConfig{Level: "off"},
	}
}
