// Package config loads the pattern lock settings from a TOML file under the
// XDG config directory, with .env and PATTERNLOCK_* environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/ingyamilmolinar/patternlock/core/lock"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	appDir     = "patternlock"
	configFile = "config.toml"
	envPrefix  = "PATTERNLOCK_"
)

// Colors are "#rrggbb" strings, one per point status.
type Colors struct {
	Normal   string
	Selected string
	Error    string
	Success  string
}

type Config struct {
	Secret       string
	StrokeWidth  float64
	ResetDelayMs int
	Colors       Colors
	WindowSize   int
	Sound        bool
	Volume       float64
	LogLevel     string
	ToastMs      int
}

func Default() Config {
	return Config{
		Secret:       lock.DefaultSecret,
		StrokeWidth:  lock.DefaultStrokeWidth,
		ResetDelayMs: int(lock.DefaultResetDelay / time.Millisecond),
		Colors: Colors{
			Normal:   "#888888",
			Selected: "#0000ff",
			Error:    "#ff0000",
			Success:  "#00ff00",
		},
		WindowSize: 480,
		Sound:      true,
		Volume:     1,
		LogLevel:   "info",
		ToastMs:    1500,
	}
}

// Dir is $XDG_CONFIG_HOME/patternlock, falling back to ~/.config/patternlock.
func Dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appDir)
}

// Path is the default config file location.
func Path() string { return filepath.Join(Dir(), configFile) }

// Load reads path, writing the defaults there first if it does not exist.
// Keys missing from the file keep their defaults. Values from envFiles and
// then the process environment override the file; the process environment
// wins over envFiles.
func Load(path string, envFiles ...string) (Config, error) {
	conf := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Write(path, conf); err != nil {
			return conf, err
		}
	} else if err != nil {
		return conf, fmt.Errorf("stat %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return conf, fmt.Errorf("decode %s: %w", path, err)
	}

	dotenv := map[string]string{}
	for _, f := range envFiles {
		vals, err := godotenv.Read(f)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return conf, fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range vals {
			if _, seen := dotenv[k]; !seen {
				dotenv[k] = v
			}
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok && v != ""
	}
	if err := conf.applyEnv(lookup); err != nil {
		return conf, err
	}
	return conf, conf.Validate()
}

// Write encodes conf as TOML, creating the parent directory.
func Write(path string, conf Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(conf); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(envPrefix + "SECRET"); ok {
		c.Secret = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(envPrefix + "RESET_DELAY_MS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sRESET_DELAY_MS=%q: %v", ErrInvalidConfig, envPrefix, v, err)
		}
		c.ResetDelayMs = n
	}
	if v, ok := lookup(envPrefix + "STROKE_WIDTH"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %sSTROKE_WIDTH=%q: %v", ErrInvalidConfig, envPrefix, v, err)
		}
		c.StrokeWidth = f
	}
	if v, ok := lookup(envPrefix + "SOUND"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sSOUND=%q: %v", ErrInvalidConfig, envPrefix, v, err)
		}
		c.Sound = b
	}
	if v, ok := lookup(envPrefix + "VOLUME"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %sVOLUME=%q: %v", ErrInvalidConfig, envPrefix, v, err)
		}
		c.Volume = f
	}
	return nil
}

func (c Config) Validate() error {
	if err := lock.ValidateSecret(c.Secret); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.StrokeWidth <= 0 {
		return fmt.Errorf("%w: stroke width %v", ErrInvalidConfig, c.StrokeWidth)
	}
	if c.ResetDelayMs <= 0 {
		return fmt.Errorf("%w: reset delay %dms", ErrInvalidConfig, c.ResetDelayMs)
	}
	if c.WindowSize <= 0 {
		return fmt.Errorf("%w: window size %d", ErrInvalidConfig, c.WindowSize)
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("%w: volume %v not in [0,1]", ErrInvalidConfig, c.Volume)
	}
	if _, err := c.Palette(); err != nil {
		return err
	}
	return nil
}

func (c Config) ResetDelay() time.Duration {
	return time.Duration(c.ResetDelayMs) * time.Millisecond
}

func (c Config) ToastDuration() time.Duration {
	return time.Duration(c.ToastMs) * time.Millisecond
}

// Palette turns the configured colours into a lock palette at StrokeWidth.
func (c Config) Palette() (lock.Palette, error) {
	p := lock.Palette{}
	for status, hex := range map[lock.Status]string{
		lock.StatusNormal:   c.Colors.Normal,
		lock.StatusSelected: c.Colors.Selected,
		lock.StatusError:    c.Colors.Error,
		lock.StatusSuccess:  c.Colors.Success,
	} {
		rgba, err := ParseHexColor(hex)
		if err != nil {
			return nil, fmt.Errorf("%w: %s colour: %v", ErrInvalidConfig, status, err)
		}
		p[status] = lock.Paint{Color: rgba, Width: c.StrokeWidth}
	}
	return p, nil
}

// LockOptions maps the config onto lock options. Scheduler and Logger are
// left for the host.
func (c Config) LockOptions() (lock.Options, error) {
	p, err := c.Palette()
	if err != nil {
		return lock.Options{}, err
	}
	return lock.Options{
		Secret:      c.Secret,
		StrokeWidth: c.StrokeWidth,
		ResetDelay:  c.ResetDelay(),
		Palette:     p,
	}, nil
}

// ParseHexColor accepts "#rrggbb" and "#rgb", with or without the '#'.
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("%q is not #rrggbb", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%q is not #rrggbb", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
