package media

import (
	_ "embed"
	"fmt"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed media_types.toml
var mediaTypesTOML []byte

type TypeConfig struct {
	Extensions  []string `toml:"extensions"`
	URLPatterns []string `toml:"url_patterns"`
}

type TypesConfig struct {
	Image     TypeConfig                `toml:"image"`
	Page      TypeConfig                `toml:"page"`
	Platforms map[string]PlatformConfig `toml:"platforms"`
}

type PlatformConfig struct {
	DefaultOpener string `toml:"default_opener"`
}

type TypeDetector struct {
	config *TypesConfig
}

func NewTypeDetector() (*TypeDetector, error) {
	var config TypesConfig
	if err := toml.Unmarshal(mediaTypesTOML, &config); err != nil {
		return nil, fmt.Errorf("parsing media_types.toml: %w", err)
	}

	return &TypeDetector{config: &config}, nil
}

// DetectType classifies a URL by file extension first, then by known
// URL patterns.
func (d *TypeDetector) DetectType(url string) Type {
	lower := strings.ToLower(url)
	isURL := strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")

	if ext := extension(lower); ext != "" {
		if hasExtension(d.config.Image.Extensions, ext) {
			return TypeImage
		}
		if hasExtension(d.config.Page.Extensions, ext) {
			return TypePage
		}
	}

	if isURL {
		if matchesPattern(lower, d.config.Image.URLPatterns) {
			return TypeImage
		}
		if matchesPattern(lower, d.config.Page.URLPatterns) {
			return TypePage
		}
	}

	return TypeUnknown
}

func (d *TypeDetector) GetDefaultOpener() string {
	if platformConfig, ok := d.config.Platforms[runtime.GOOS]; ok {
		return platformConfig.DefaultOpener
	}
	if fallback, ok := d.config.Platforms["fallback"]; ok {
		return fallback.DefaultOpener
	}
	return "open"
}

// extension returns the extension of the last path segment without the
// dot, ignoring query and fragment.
func extension(url string) string {
	if i := strings.IndexAny(url, "?#"); i != -1 {
		url = url[:i]
	}
	if i := strings.Index(url, "://"); i != -1 {
		url = url[i+3:]
		slash := strings.Index(url, "/")
		if slash == -1 {
			return ""
		}
		url = url[slash:]
	}
	if i := strings.LastIndex(url, "/"); i != -1 {
		url = url[i+1:]
	}
	if i := strings.LastIndex(url, "."); i != -1 {
		return url[i+1:]
	}
	return ""
}

func hasExtension(extensions []string, ext string) bool {
	for _, e := range extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func matchesPattern(url string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(url, pattern) {
			return true
		}
	}
	return false
}
