// Package config loads pgmview configuration files and exposes them to the
// command line parser. Files may be YAML, JSON or CUE; CUE is the
// underlying parser for all three, so several files unify into one value.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/encoding/yaml"
)

// DefaultPaths lists the files consulted when --config is not given.
// Later entries unify with earlier ones; conflicting values are an error.
func DefaultPaths() []string {
	return []string{
		"~/.config/pgmview/config.yaml",
		"~/.config/pgmview/config.cue",
		"~/.config/pgmview/conf.d/*",
	}
}

// LoadValueFromReader parses YAML (and therefore JSON) from r, falling back
// to CUE syntax when the input is not YAML.
func LoadValueFromReader(r io.Reader) (cue.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read config: %w", err)
	}
	return compile(cuecontext.New(), "", data)
}

// LoadValue loads a single configuration file or a directory of .cue files.
func LoadValue(path string) (cue.Value, error) {
	return loadPath(cuecontext.New(), path)
}

// LoadAndUnifyPaths expands each pattern (leading ~ and glob syntax), loads
// every file found and unifies them. Missing files are skipped; if nothing
// matches the result is an empty struct.
func LoadAndUnifyPaths(patterns []string) (cue.Value, error) {
	ctx := cuecontext.New()
	result := ctx.CompileString("{}")

	for _, pattern := range patterns {
		matches, err := filepath.Glob(expandHome(pattern))
		if err != nil {
			return cue.Value{}, fmt.Errorf("invalid config pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)

		for _, path := range matches {
			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				continue
			}
			val, err := loadPath(ctx, path)
			if err != nil {
				return cue.Value{}, err
			}
			result = result.Unify(val)
			if err := result.Err(); err != nil {
				return cue.Value{}, fmt.Errorf("config %s conflicts with earlier files: %w", path, err)
			}
		}
	}

	return result, nil
}

func loadPath(ctx *cue.Context, path string) (cue.Value, error) {
	info, err := os.Stat(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to stat path: %w", err)
	}

	if info.IsDir() || strings.EqualFold(filepath.Ext(path), ".cue") {
		return loadInstance(ctx, path, info.IsDir())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		val := ctx.CompileBytes(data, cue.Filename(path))
		if err := val.Err(); err != nil {
			return cue.Value{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return val, nil
	}
	return compile(ctx, path, data)
}

// loadInstance uses the CUE loader so packages with imports work.
func loadInstance(ctx *cue.Context, path string, dir bool) (cue.Value, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to resolve path: %w", err)
	}

	cfg := &load.Config{Dir: filepath.Dir(abs), DataFiles: true}
	if dir {
		cfg.Dir = abs
	}

	instances := load.Instances([]string{abs}, cfg)
	if len(instances) == 0 {
		return cue.Value{}, fmt.Errorf("no instances loaded from %s", path)
	}
	if err := instances[0].Err; err != nil {
		return cue.Value{}, fmt.Errorf("failed to load config: %w", err)
	}

	val := ctx.BuildInstance(instances[0])
	if err := val.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("failed to build CUE value: %w", err)
	}
	return val, nil
}

func compile(ctx *cue.Context, name string, data []byte) (cue.Value, error) {
	file, yerr := yaml.Extract(name, data)
	if yerr == nil {
		val := ctx.BuildFile(file)
		if err := val.Err(); err != nil {
			return cue.Value{}, fmt.Errorf("failed to build CUE value: %w", err)
		}
		return val, nil
	}

	val := ctx.CompileBytes(data, cue.Filename(name))
	if err := val.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("failed to parse config: %w", yerr)
	}
	return val, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
