package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pders01/glimpse/internal/validation"
	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned by Validate when no Pixabay key is configured.
var ErrMissingAPIKey = errors.New("pixabay API key not configured (set api.key or PIXABAY_API_KEY)")

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Gallery  GalleryConfig  `mapstructure:"gallery"`
	Database DatabaseConfig `mapstructure:"database"`
	UI       UIConfig       `mapstructure:"ui"`
	Media    MediaConfig    `mapstructure:"media"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Key         string        `mapstructure:"key"`
	PerPage     int           `mapstructure:"per_page"`
	ImageType   string        `mapstructure:"image_type"`
	Orientation string        `mapstructure:"orientation"`
	SafeSearch  bool          `mapstructure:"safe_search"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
	// AllowLocalEndpoint permits loopback/private base URLs (mirrors, tests).
	AllowLocalEndpoint bool `mapstructure:"allow_local_endpoint"`
}

type GalleryConfig struct {
	ScrollDelay      time.Duration `mapstructure:"scroll_delay"`
	ScrollMultiplier int           `mapstructure:"scroll_multiplier"`
	Columns          int           `mapstructure:"columns"`
	CardWidth        int           `mapstructure:"card_width"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchIndex string        `mapstructure:"search_index"`
	HistorySize int           `mapstructure:"history_size"`
}

type UIConfig struct {
	Colors        UIColors      `mapstructure:"colors"`
	ToastDuration time.Duration `mapstructure:"toast_duration"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type MediaConfig struct {
	Darwin        MediaPlayers `mapstructure:"darwin"`
	Linux         MediaPlayers `mapstructure:"linux"`
	Windows       MediaPlayers `mapstructure:"windows"`
	DefaultOpener string       `mapstructure:"default_opener"`
}

type MediaPlayers struct {
	Image   []string `mapstructure:"image"`
	Browser []string `mapstructure:"browser"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit      string `mapstructure:"quit"`
	Search    string `mapstructure:"search"`
	LoadMore  string `mapstructure:"load_more"`
	Retry     string `mapstructure:"retry"`
	Favorite  string `mapstructure:"favorite"`
	Favorites string `mapstructure:"favorites"`
	Open      string `mapstructure:"open"`
	OpenPage  string `mapstructure:"open_page"`
	Back      string `mapstructure:"back"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".glimpse.db")
	searchIndexPath := filepath.Join(homeDir, ".glimpse", "index.bleve")

	return &Config{
		API: APIConfig{
			BaseURL:     "https://pixabay.com/api/",
			PerPage:     12,
			ImageType:   "photo",
			Orientation: "horizontal",
			SafeSearch:  true,
			HTTPTimeout: 15 * time.Second,
			UserAgent:   "glimpse/1.0 (https://github.com/pders01/glimpse)",
		},
		Gallery: GalleryConfig{
			ScrollDelay:      500 * time.Millisecond,
			ScrollMultiplier: 3,
			Columns:          0,
			CardWidth:        32,
		},
		Database: DatabaseConfig{
			Path:        dbPath,
			Timeout:     1 * time.Second,
			SearchIndex: searchIndexPath,
			HistorySize: 50,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#FF6B6B",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#1A1A2E",
				Surface:    "#16213E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			ToastDuration: 3 * time.Second,
		},
		Media: MediaConfig{
			Darwin: MediaPlayers{
				Image:   []string{"qlmanage", "open"},
				Browser: []string{"open"},
			},
			Linux: MediaPlayers{
				Image:   []string{"sxiv", "feh", "eog", "xdg-open"},
				Browser: []string{"xdg-open", "firefox", "chromium"},
			},
			Windows: MediaPlayers{
				Image:   []string{"start"},
				Browser: []string{"start"},
			},
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:      "q",
				Search:    "s",
				LoadMore:  "l",
			Retry:     "r",
				Favorite:  "f",
				Favorites: "v",
				Open:      "o",
				OpenPage:  "p",
				Back:      "esc",
			},
		},
		Logging: LoggingConfig{
			Level: "off",
			File:  filepath.Join(homeDir, ".glimpse", "glimpse.log"),
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("api", cfg.API)
	v.SetDefault("gallery", cfg.Gallery)
	v.SetDefault("database", cfg.Database)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("media", cfg.Media)
	v.SetDefault("keys", cfg.Keys)
	v.SetDefault("logging", cfg.Logging)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "glimpse")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GLIMPSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api.key", "GLIMPSE_API_KEY", "PIXABAY_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// Decode over the defaults so a partial section keeps the rest of its values
	config := *defaultConfig()
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// A bound env var is not visible to Unmarshal when the api section
	// itself came from SetDefault, so read the key explicitly.
	if key := v.GetString("api.key"); key != "" {
		config.API.Key = key
	}

	expandPaths(&config)

	return &config, nil
}

// Validate checks the settings the search panel cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.Key) == "" {
		return ErrMissingAPIKey
	}

	validator := validation.NewEndpointValidator()
	if c.API.AllowLocalEndpoint {
		validator = validation.NewPermissiveEndpointValidator()
	}
	normalized, err := validator.ValidateAndNormalize(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api.base_url: %w", err)
	}
	c.API.BaseURL = normalized

	if c.API.PerPage < 3 || c.API.PerPage > 200 {
		return fmt.Errorf("api.per_page must be between 3 and 200, got %d", c.API.PerPage)
	}
	if c.Gallery.ScrollMultiplier < 0 {
		return fmt.Errorf("gallery.scroll_multiplier must not be negative")
	}
	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SearchIndex = expandPath(cfg.Database.SearchIndex)
	cfg.Logging.File = expandPath(cfg.Logging.File)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations as strings keep the TOML readable
	apiCfg := map[string]interface{}{
		"base_url":             config.API.BaseURL,
		"key":                  config.API.Key,
		"per_page":             config.API.PerPage,
		"image_type":           config.API.ImageType,
		"orientation":          config.API.Orientation,
		"safe_search":          config.API.SafeSearch,
		"http_timeout":         config.API.HTTPTimeout.String(),
		"user_agent":           config.API.UserAgent,
		"allow_local_endpoint": config.API.AllowLocalEndpoint,
	}

	galleryCfg := map[string]interface{}{
		"scroll_delay":      config.Gallery.ScrollDelay.String(),
		"scroll_multiplier": config.Gallery.ScrollMultiplier,
		"columns":           config.Gallery.Columns,
		"card_width":        config.Gallery.CardWidth,
	}

	dbCfg := map[string]interface{}{
		"path":         config.Database.Path,
		"timeout":      config.Database.Timeout.String(),
		"search_index": config.Database.SearchIndex,
		"history_size": config.Database.HistorySize,
	}

	uiCfg := map[string]interface{}{
		"colors":         config.UI.Colors,
		"toast_duration": config.UI.ToastDuration.String(),
	}

	v.Set("api", apiCfg)
	v.Set("gallery", galleryCfg)
	v.Set("database", dbCfg)
	v.Set("ui", uiCfg)
	v.Set("media", config.Media)
	v.Set("keys", config.Keys)
	v.Set("logging", config.Logging)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}

// DefaultConfigPath is where GenerateDefaultConfig writes when no path is given.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "glimpse", "config.toml")
}
