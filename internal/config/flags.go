package config

import (
	"flag"
)

// CLIOpts are the command-line overrides shared by both binaries. They win
// over the file and the environment.
type CLIOpts struct {
	Path     string
	EnvFile  string
	Secret   string
	LogLevel string
	NoSound  bool
}

func RegisterFlags(fs *flag.FlagSet) *CLIOpts {
	var opt CLIOpts
	fs.StringVar(&opt.Path, "config", Path(), "Path to the TOML config file (created with defaults if missing)")
	fs.StringVar(&opt.EnvFile, "env", ".env", "Optional .env file with PATTERNLOCK_* overrides")
	fs.StringVar(&opt.Secret, "secret", "", "Unlock pattern as grid indices 1-9, e.g. 5236")
	fs.StringVar(&opt.LogLevel, "log", "", "Log level: debug, info, error or none")
	fs.BoolVar(&opt.NoSound, "mute", false, "Disable feedback tones")
	return &opt
}

// Load reads the config named by the flags and applies them on top.
func (o *CLIOpts) Load() (Config, error) {
	conf, err := Load(o.Path, o.EnvFile)
	if err != nil {
		return conf, err
	}
	if o.Secret != "" {
		conf.Secret = o.Secret
	}
	if o.LogLevel != "" {
		conf.LogLevel = o.LogLevel
	}
	if o.NoSound {
		conf.Sound = false
	}
	return conf, conf.Validate()
}
