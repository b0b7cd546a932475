// Package config loads recipetable settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/recipetable/config.toml (falling back
// to ~/.config/recipetable/config.toml). Every table is optional; a missing
// file yields [Default]. Command-line flags override whatever is loaded
// here.
//
// Example:
//
//	[html]
//	standalone = true
//	done_class = "finished"
//
//	[cache]
//	backend = "redis"
//
//	[cache.redis]
//	addr = "localhost:6379"
//	prefix = "recipetable:"
//
//	[server]
//	addr = ":8080"
//	request_timeout = "30s"
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/recipetable/pkg/errors"
	"github.com/matzehuels/recipetable/pkg/render/table"
)

// AppName names the config and cache directories.
const AppName = "recipetable"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config is the root of the config file.
type Config struct {
	HTML   HTMLConfig   `toml:"html"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// HTMLConfig mirrors the html-table flags. Header and Footer may be given
// inline or read from a file; the file wins when both are set.
type HTMLConfig struct {
	Standalone      bool   `toml:"standalone"`
	Header          string `toml:"header"`
	Footer          string `toml:"footer"`
	HeaderFile      string `toml:"header_file"`
	FooterFile      string `toml:"footer_file"`
	AmountClass     string `toml:"amount_class"`
	SeasoningsClass string `toml:"seasonings_class"`
	IngredientClass string `toml:"ingredient_class"`
	ActionClass     string `toml:"action_class"`
	DoneClass       string `toml:"done_class"`
}

// CacheConfig selects and configures the pipeline cache backend.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Prefix  string      `toml:"prefix"`
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

// RedisConfig holds connection settings for the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// MongoConfig holds connection settings for the mongo backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures `recipetable serve`.
type ServerConfig struct {
	Addr           string `toml:"addr"`
	MaxSourceSize  int    `toml:"max_source_size"`
	RequestTimeout string `toml:"request_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	d := table.DefaultHTMLOptions()
	return Config{
		HTML: HTMLConfig{
			AmountClass:     d.AmountClass,
			SeasoningsClass: d.SeasoningsClass,
			IngredientClass: d.IngredientClass,
			ActionClass:     d.ActionClass,
			DoneClass:       d.DoneClass,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Redis:   RedisConfig{Addr: "localhost:6379"},
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   AppName,
				Collection: "cache",
			},
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxSourceSize:  errors.MaxSourceSize,
			RequestTimeout: "30s",
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the default file cache directory (~/.cache/recipetable/).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads the config at path on top of [Default]. An empty path means
// [Path]; a missing file at the default path is not an error, a missing
// file that was asked for explicitly is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) && !explicit {
			return Default(), nil
		}
		if stderrors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}
	return Parse(string(data), filepath.Dir(path))
}

// Parse decodes TOML text on top of [Default] and validates the result.
// Relative header_file and footer_file paths are resolved against dir.
func Parse(text, dir string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode config")
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidOption, "unknown config key %q", undec[0].String())
	}
	cfg.HTML.HeaderFile = resolve(dir, cfg.HTML.HeaderFile)
	cfg.HTML.FooterFile = resolve(dir, cfg.HTML.FooterFile)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}

// Validate checks every table, reporting all problems at once.
func (c Config) Validate() error {
	var problems []error

	for _, class := range []string{c.HTML.AmountClass, c.HTML.SeasoningsClass, c.HTML.IngredientClass, c.HTML.ActionClass, c.HTML.DoneClass} {
		if class == "" {
			continue
		}
		if err := errors.ValidateClassName(class); err != nil {
			problems = append(problems, err)
		}
	}

	switch c.Cache.Backend {
	case BackendFile, BackendNone, "":
	case BackendRedis:
		if c.Cache.Redis.Addr == "" {
			problems = append(problems, errors.New(errors.ErrCodeInvalidOption, "cache.redis.addr is required for the redis backend"))
		}
	case BackendMongo:
		if c.Cache.Mongo.URI == "" {
			problems = append(problems, errors.New(errors.ErrCodeInvalidOption, "cache.mongo.uri is required for the mongo backend"))
		}
	default:
		problems = append(problems, errors.New(errors.ErrCodeInvalidOption, "unknown cache backend %q (must be file, redis, mongo or none)", c.Cache.Backend))
	}
	if c.Cache.Prefix != "" {
		if err := errors.ValidateKeyPrefix(c.Cache.Prefix); err != nil {
			problems = append(problems, err)
		}
	}

	if c.Server.MaxSourceSize < 0 {
		problems = append(problems, errors.New(errors.ErrCodeInvalidOption, "server.max_source_size must not be negative"))
	}
	if _, err := c.Server.Timeout(); err != nil {
		problems = append(problems, err)
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.Join(errors.ErrCodeInvalidOption, problems, "invalid config")
}

// Timeout parses RequestTimeout; empty means no timeout.
func (s ServerConfig) Timeout() (time.Duration, error) {
	if s.RequestTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.RequestTimeout)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidOption, "server.request_timeout %q is not a valid duration", s.RequestTimeout)
	}
	return d, nil
}

// HTMLOptions converts the [html] table to renderer options, reading the
// header and footer files if set.
func (h HTMLConfig) HTMLOptions() (table.HTMLOptions, error) {
	opts := table.HTMLOptions{
		Standalone:      h.Standalone,
		Header:          h.Header,
		Footer:          h.Footer,
		AmountClass:     h.AmountClass,
		SeasoningsClass: h.SeasoningsClass,
		IngredientClass: h.IngredientClass,
		ActionClass:     h.ActionClass,
		DoneClass:       h.DoneClass,
	}
	if h.HeaderFile != "" {
		data, err := os.ReadFile(h.HeaderFile)
		if err != nil {
			return table.HTMLOptions{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read html header")
		}
		opts.Header = string(data)
	}
	if h.FooterFile != "" {
		data, err := os.ReadFile(h.FooterFile)
		if err != nil {
			return table.HTMLOptions{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read html footer")
		}
		opts.Footer = string(data)
	}
	opts.SetDefaults()
	return opts, nil
}
