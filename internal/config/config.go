package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-lyricards/internal/led"
	"github.com/coreman2200/funtimes-lyricards/internal/surface"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LYRICARDS_"

type Sim struct {
	DurationS float64 `yaml:"duration_s" toml:"duration_s"`
	Rate      float64 `yaml:"rate" toml:"rate"`
}

type Strip struct {
	Port     string `yaml:"port" toml:"port"` // "" picks the first SPI port
	FreqKHz  int    `yaml:"freq_khz" toml:"freq_khz"`
	Color    string `yaml:"color" toml:"color"`
	Property string `yaml:"property" toml:"property"`
}

type Log struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // "auto" | "console" | "json"
}

type Config struct {
	Source         string `yaml:"source" toml:"source"`
	Listen         string `yaml:"listen" toml:"listen"`
	FPS            int    `yaml:"fps" toml:"fps"`
	PollIntervalMs int    `yaml:"poll_interval_ms" toml:"poll_interval_ms"`
	Surface        string `yaml:"surface" toml:"surface"` // "ws" | "strip" | "log"
	Widget         string `yaml:"widget" toml:"widget"`   // "remote" | "sim"
	Autoplay       bool   `yaml:"autoplay" toml:"autoplay"`

	Sim   Sim                `yaml:"sim" toml:"sim"`
	Strip Strip              `yaml:"strip" toml:"strip"`
	Style surface.Stylesheet `yaml:"style" toml:"style"`
	Log   Log                `yaml:"log" toml:"log"`
}

// Defaults returns a config that serves browser clients with a remote
// player.
func Defaults() Config {
	return Config{
		Listen:         ":8080",
		FPS:            60,
		PollIntervalMs: 1000,
		Surface:        "ws",
		Widget:         "remote",
		Autoplay:       true,
		Sim:            Sim{DurationS: 180, Rate: 1},
		Strip:          Strip{FreqKHz: 800, Color: led.DefaultColor.String(), Property: "--card-opacity"},
		Style:          surface.DefaultStylesheet(),
		Log:            Log{Level: "info", Format: "auto"},
	}
}

// PollInterval is PollIntervalMs as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// Load reads path over the defaults, picking the decoder by extension
// (.toml, otherwise YAML), then applies environment overrides. A .env file
// next to path, or in the working directory, is loaded first. An empty path
// skips the file.
func Load(path string) (*Config, error) {
	loadDotEnv(path)

	c := Defaults()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := decode(path, b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func decode(path string, b []byte, c *Config) error {
	if isTOML(path) {
		return toml.NewDecoder(bytes.NewReader(b)).Decode(c)
	}
	return yaml.Unmarshal(b, c)
}

// Save writes c to path in the format implied by its extension.
func Save(path string, c *Config) error {
	var (
		b   []byte
		err error
	)
	if isTOML(path) {
		b, err = toml.Marshal(c)
	} else {
		b, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func loadDotEnv(path string) {
	candidates := []string{".env"}
	if path != "" {
		candidates = append([]string{filepath.Join(filepath.Dir(path), ".env")}, candidates...)
	}
	for _, f := range candidates {
		if _, err := os.Stat(f); err == nil {
			// Existing environment wins over the file.
			_ = godotenv.Load(f)
			return
		}
	}
}

func (c *Config) applyEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) error {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
		return nil
	}

	str("SOURCE", &c.Source)
	str("LISTEN", &c.Listen)
	str("SURFACE", &c.Surface)
	str("WIDGET", &c.Widget)
	str("STRIP_PORT", &c.Strip.Port)
	str("STRIP_COLOR", &c.Strip.Color)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	if err := num("FPS", &c.FPS); err != nil {
		return err
	}
	if err := num("POLL_INTERVAL_MS", &c.PollIntervalMs); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(EnvPrefix + "AUTOPLAY"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sAUTOPLAY: %w", EnvPrefix, err)
		}
		c.Autoplay = b
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.FPS <= 0 {
		return errors.New("fps must be positive")
	}
	if c.PollIntervalMs <= 0 {
		return errors.New("poll_interval_ms must be positive")
	}
	switch c.Surface {
	case "ws", "strip", "log":
	default:
		return fmt.Errorf("surface %q: want ws, strip or log", c.Surface)
	}
	switch c.Widget {
	case "remote", "sim":
	default:
		return fmt.Errorf("widget %q: want remote or sim", c.Widget)
	}
	if c.Widget == "sim" && c.Sim.DurationS <= 0 {
		return errors.New("sim.duration_s must be positive")
	}
	if c.Surface == "strip" {
		if _, err := led.ParseColor(c.Strip.Color); err != nil {
			return fmt.Errorf("strip.color: %w", err)
		}
	}
	return nil
}
