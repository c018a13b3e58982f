package media

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pders01/glimpse/internal/config"
	"github.com/pders01/glimpse/internal/debuglog"
)

type Type int

const (
	TypeImage Type = iota
	TypePage
	TypeUnknown
)

func (t Type) String() string {
	switch t {
	case TypeImage:
		return "image"
	case TypePage:
		return "page"
	default:
		return "unknown"
	}
}

// ErrUnsupportedURL is returned for anything that is not an http(s) URL.
var ErrUnsupportedURL = errors.New("only http and https URLs can be opened")

// Launcher hands image and page URLs to external programs.
type Launcher struct {
	imageViewer   string
	browser       string
	defaultOpener string
	registry      *PlayerRegistry
	detector      *TypeDetector
	// start launches the built command; replaced in tests.
	start func(*exec.Cmd) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	registry, err := NewPlayerRegistry()
	if err != nil {
		debuglog.Warnf("media: %v", err)
		registry = &PlayerRegistry{players: make(map[string]PlayerDefinition)}
	}

	detector, err := NewTypeDetector()
	if err != nil {
		debuglog.Warnf("media: %v", err)
		detector = &TypeDetector{config: &TypesConfig{}}
	}

	defaultOpener := cfg.Media.DefaultOpener
	if defaultOpener == "" {
		defaultOpener = detector.GetDefaultOpener()
	}

	l := &Launcher{
		defaultOpener: defaultOpener,
		registry:      registry,
		detector:      detector,
		start:         startDetached,
	}

	players := platformPlayers(&cfg.Media)
	l.imageViewer = registry.FindAvailablePlayer(players.Image)
	l.browser = registry.FindAvailablePlayer(players.Browser)

	if l.imageViewer == "" {
		l.imageViewer = l.defaultOpener
	}
	if l.browser == "" {
		l.browser = l.defaultOpener
	}

	return l
}

func platformPlayers(media *config.MediaConfig) config.MediaPlayers {
	switch runtime.GOOS {
	case "darwin":
		return media.Darwin
	case "linux":
		return media.Linux
	case "windows":
		return media.Windows
	default:
		return media.Darwin
	}
}

// OpenImage shows a full size image in the image viewer.
func (l *Launcher) OpenImage(url string) error {
	return l.open(url, TypeImage)
}

// OpenPage opens a web page in the browser.
func (l *Launcher) OpenPage(url string) error {
	return l.open(url, TypePage)
}

// Open picks the program from the URL.
func (l *Launcher) Open(url string) error {
	return l.open(url, l.detector.DetectType(url))
}

func (l *Launcher) open(url string, mediaType Type) error {
	lower := strings.ToLower(url)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return ErrUnsupportedURL
	}

	var playerName string
	switch mediaType {
	case TypeImage:
		playerName = l.imageViewer
	case TypePage:
		playerName = l.browser
	default:
		playerName = l.defaultOpener
	}
	if playerName == "" {
		playerName = l.detector.GetDefaultOpener()
	}
	if playerName == "" {
		return fmt.Errorf("no application found to open %s", mediaType)
	}

	cmd := l.command(playerName, mediaType, url)
	debuglog.Debugf("media: opening %s with %v", mediaType, cmd.Args)

	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", playerName, err)
	}
	return nil
}

func (l *Launcher) command(playerName string, mediaType Type, url string) *exec.Cmd {
	// start is a cmd.exe builtin, not a program
	if playerName == "start" {
		return exec.Command("cmd", "/c", "start", "", url)
	}
	cmd, err := l.registry.GetCommand(playerName, mediaType, url)
	if err != nil {
		return exec.Command(playerName, url)
	}
	return cmd
}

// startDetached runs GUI applications without waiting on them.
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
