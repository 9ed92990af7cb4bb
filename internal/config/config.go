// Package config handles loading and validation of skeleton TOML config files.
package config

import (
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/NielsdaWheelz/skeleton/internal/errors"
	"github.com/NielsdaWheelz/skeleton/internal/fs"
)

// Config is the merged configuration of all loaded sources.
type Config struct {
	// Root is the directory the scaffold is written into.
	// Empty means the current working directory.
	Root string `koanf:"root"`
	// Manifest is a txtar manifest path. Empty means the built-in manifest.
	Manifest  string `koanf:"manifest"`
	Atomic    bool   `koanf:"atomic"`
	Gitignore bool   `koanf:"gitignore"`

	// Parsed from dir_mode / file_mode, which accept an octal string
	// ("0755") or a TOML integer (0o755).
	DirMode  os.FileMode `koanf:"-"`
	FileMode os.FileMode `koanf:"-"`
}

// Source is a config file to load.
type Source struct {
	Path string
	// Optional sources are skipped when the file does not exist.
	Optional bool
}

var knownKeys = map[string]bool{
	"root":      true,
	"manifest":  true,
	"atomic":    true,
	"gitignore": true,
	"dir_mode":  true,
	"file_mode": true,
}

// pathKeys are resolved against the directory of the file that sets them.
var pathKeys = []string{"root", "manifest"}

var tomlParser = toml.Parser()

// Default returns the configuration used when no file sets a key.
func Default() Config {
	return Config{DirMode: 0o755, FileMode: 0o644}
}

// Load reads the sources in order; later sources override earlier ones.
// Returns E_INVALID_CONFIG for unreadable files, invalid TOML, unknown keys
// or invalid values.
func Load(fsys fs.FS, sources ...Source) (Config, error) {
	k := koanf.New(".")
	for _, src := range sources {
		if src.Path == "" {
			continue
		}
		data, err := fsys.ReadFile(src.Path)
		if err != nil {
			if src.Optional && errors.Is(err, iofs.ErrNotExist) {
				continue
			}
			return Config{}, errors.WrapWithDetails(errors.EInvalidConfig, "failed to read config file", err,
				map[string]string{"path": src.Path})
		}

		fk, err := parse(data)
		if err != nil {
			return Config{}, withPath(err, src.Path)
		}
		for _, key := range pathKeys {
			if v := fk.String(key); v != "" && !filepath.IsAbs(v) {
				if err := fk.Set(key, filepath.Join(filepath.Dir(src.Path), v)); err != nil {
					return Config{}, errors.Wrap(errors.EInternal, "failed to resolve "+key, err)
				}
			}
		}
		if err := k.Merge(fk); err != nil {
			return Config{}, withPath(errors.Wrap(errors.EInvalidConfig, "failed to merge config", err), src.Path)
		}
	}

	cfg, err := decode(k)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes a single TOML document. Relative paths are left as written.
func Parse(data []byte) (Config, error) {
	k, err := parse(data)
	if err != nil {
		return Config{}, err
	}
	return decode(k)
}

func parse(data []byte) (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), tomlParser); err != nil {
		return nil, errors.Wrap(errors.EInvalidConfig, "invalid toml", err)
	}

	var unknown []string
	for _, key := range k.Keys() {
		if !knownKeys[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, errors.New(errors.EInvalidConfig, fmt.Sprintf("unknown config key %q", unknown[0]))
	}
	return k, nil
}

func decode(k *koanf.Koanf) (Config, error) {
	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, errors.Wrap(errors.EInvalidConfig, "invalid config value", err)
	}

	var err error
	if cfg.DirMode, err = parseMode(k, "dir_mode", cfg.DirMode); err != nil {
		return Config{}, err
	}
	if cfg.FileMode, err = parseMode(k, "file_mode", cfg.FileMode); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseMode(k *koanf.Koanf, key string, def os.FileMode) (os.FileMode, error) {
	if !k.Exists(key) {
		return def, nil
	}
	var n uint64
	switch v := k.Get(key).(type) {
	case int64:
		if v < 0 {
			return 0, errors.New(errors.EInvalidConfig, key+" must not be negative")
		}
		n = uint64(v)
	case string:
		parsed, err := strconv.ParseUint(v, 8, 32)
		if err != nil {
			return 0, errors.New(errors.EInvalidConfig, fmt.Sprintf("%s must be an octal mode like \"0755\", got %q", key, v))
		}
		n = parsed
	default:
		return 0, errors.New(errors.EInvalidConfig, fmt.Sprintf("%s must be a string or integer, got %T", key, v))
	}
	if n > 0o777 {
		return 0, errors.New(errors.EInvalidConfig, fmt.Sprintf("%s %#o has bits outside 0777", key, n))
	}
	return os.FileMode(n), nil
}

func withPath(err error, path string) error {
	if ce, ok := errors.AsCodedError(err); ok {
		details := map[string]string{"path": path}
		for k, v := range ce.Details {
			details[k] = v
		}
		return errors.WrapWithDetails(ce.Code, ce.Msg, ce.Cause, details)
	}
	return errors.WrapWithDetails(errors.EInvalidConfig, "invalid config file", err, map[string]string{"path": path})
}
