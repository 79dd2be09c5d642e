package config

import (
	"github.com/spf13/pflag"
)

const (
	flagConfig      = "config"
	flagWatch       = "watch"
	flagDebounce    = "debounce-ms"
	flagConcurrency = "concurrency"
	flagLogFile     = "log-file"
	flagLogLevel    = "log-level"
	flagLogFormat   = "log-format"
)

// BindFlags registers the config flags on fs with Default values.
func BindFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String(flagConfig, "", "config file (default: geomap.yml in the working or user config directory)")
	fs.Bool(flagWatch, d.Watch, "reload loaded files when they change on disk")
	fs.Int(flagDebounce, d.DebounceMS, "milliseconds to wait for writes to settle before reloading")
	fs.Int(flagConcurrency, d.Concurrency, "number of files parsed in parallel")
	fs.String(flagLogFile, d.Log.File, "write logs to this file")
	fs.String(flagLogLevel, d.Log.Level, "log level (debug, info, warn, error)")
	fs.String(flagLogFormat, d.Log.Format, "log format (text, json)")
}

// Resolve loads the config file named by --config, or the one Find
// discovers in dir, and applies every flag set explicitly on fs.
func Resolve(fs *pflag.FlagSet, dir string) (Config, error) {
	path, _ := fs.GetString(flagConfig)
	if path == "" {
		found, err := Find(dir)
		if err != nil {
			return Default(), err
		}
		path = found
	}
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return cfg, err
		}
	}
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case flagWatch:
			cfg.Watch, err = fs.GetBool(flagWatch)
		case flagDebounce:
			cfg.DebounceMS, err = fs.GetInt(flagDebounce)
		case flagConcurrency:
			cfg.Concurrency, err = fs.GetInt(flagConcurrency)
		case flagLogFile:
			cfg.Log.File, err = fs.GetString(flagLogFile)
		case flagLogLevel:
			cfg.Log.Level, err = fs.GetString(flagLogLevel)
		case flagLogFormat:
			cfg.Log.Format, err = fs.GetString(flagLogFormat)
		}
	})
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}
