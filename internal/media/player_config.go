package media

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

//go:embed players.toml
var playersTOML []byte

// PlayerDefinition defines how a viewer should be invoked
type PlayerDefinition struct {
	Description string                 `toml:"description"`
	Platforms   []string               `toml:"platforms"`
	Image       *PlayerMediaTypeConfig `toml:"image,omitempty"`
	Browser     *PlayerMediaTypeConfig `toml:"browser,omitempty"`
}

// PlayerMediaTypeConfig holds the arguments for one kind of target
type PlayerMediaTypeConfig struct {
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
	ArgsWindows []string `toml:"args_windows,omitempty"`
}

// PlayersConfig holds all player definitions
type PlayersConfig struct {
	Players map[string]PlayerDefinition `toml:"players"`
}

// PlayerRegistry manages player definitions
type PlayerRegistry struct {
	players map[string]PlayerDefinition
}

func userPlayerConfigPaths() []string {
	paths := []string{"./players.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append([]string{filepath.Join(home, ".config", "glimpse", "players.toml")}, paths...)
	}
	return paths
}

// NewPlayerRegistry creates a registry from the embedded TOML merged with
// any user definitions.
func NewPlayerRegistry() (*PlayerRegistry, error) {
	var config PlayersConfig
	if err := toml.Unmarshal(playersTOML, &config); err != nil {
		return nil, fmt.Errorf("parsing players.toml: %w", err)
	}
	if config.Players == nil {
		config.Players = make(map[string]PlayerDefinition)
	}

	registry := &PlayerRegistry{players: config.Players}
	registry.loadUserConfig(userPlayerConfigPaths()...)

	return registry, nil
}

// loadUserConfig merges definitions from the given files; later files
// override earlier ones and both override the built-ins.
func (r *PlayerRegistry) loadUserConfig(paths ...string) {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var userConfig PlayersConfig
		if err := toml.Unmarshal(data, &userConfig); err != nil {
			continue
		}
		for name, def := range userConfig.Players {
			r.players[name] = def
		}
	}
}

// GetCommand builds the command for a specific player and target type
func (r *PlayerRegistry) GetCommand(playerName string, mediaType Type, url string) (*exec.Cmd, error) {
	player, exists := r.players[playerName]
	if !exists {
		// If player not defined, use it with no special args
		return exec.Command(playerName, url), nil
	}

	supportsPlatform := false
	for _, p := range player.Platforms {
		if p == runtime.GOOS {
			supportsPlatform = true
			break
		}
	}
	if !supportsPlatform {
		return nil, fmt.Errorf("%s not supported on %s", playerName, runtime.GOOS)
	}

	var config *PlayerMediaTypeConfig
	switch mediaType {
	case TypeImage:
		config = player.Image
	case TypePage:
		config = player.Browser
	}
	if config == nil {
		return nil, fmt.Errorf("%s doesn't support %s targets", playerName, mediaType)
	}

	args := append([]string{}, r.getArgs(config)...)
	args = append(args, url)

	return exec.Command(playerName, args...), nil
}

// getArgs returns the appropriate args for the current platform
func (r *PlayerRegistry) getArgs(config *PlayerMediaTypeConfig) []string {
	if config == nil {
		return nil
	}

	switch runtime.GOOS {
	case "darwin":
		if len(config.ArgsDarwin) > 0 {
			return config.ArgsDarwin
		}
	case "linux":
		if len(config.ArgsLinux) > 0 {
			return config.ArgsLinux
		}
	case "windows":
		if len(config.ArgsWindows) > 0 {
			return config.ArgsWindows
		}
	}

	return config.Args
}

// IsPlayerAvailable checks if a player is installed
func (r *PlayerRegistry) IsPlayerAvailable(playerName string) bool {
	_, err := exec.LookPath(playerName)
	return err == nil
}

// FindAvailablePlayer finds the first available player from a list
func (r *PlayerRegistry) FindAvailablePlayer(players []string) string {
	for _, player := range players {
		if r.IsPlayerAvailable(player) {
			return player
		}
	}
	return ""
}
