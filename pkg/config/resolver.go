package config

import (
	"fmt"
	"io"
	"strings"

	"cuelang.org/go/cue"
	"github.com/alecthomas/kong"
)

// Resolver exposes val to kong. A flag named "log-file" is looked up as
// "log_file"; a flag on a subcommand is looked up first as
// "<command>.<flag>" and then at the top level.
func Resolver(val cue.Value) kong.Resolver {
	return &resolver{val: val}
}

// Loader is a kong.ConfigurationLoader for use with kong.Configuration and
// kong.ConfigFlag.
func Loader(r io.Reader) (kong.Resolver, error) {
	val, err := LoadValueFromReader(r)
	if err != nil {
		return nil, err
	}
	return Resolver(val), nil
}

type resolver struct {
	val cue.Value
}

func (r *resolver) Validate(app *kong.Application) error {
	return nil
}

func (r *resolver) Resolve(kctx *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
	key := strings.ReplaceAll(flag.Name, "-", "_")

	var v cue.Value
	if parent != nil && parent.Command != nil {
		v = r.val.LookupPath(cue.MakePath(cue.Str(parent.Command.Name), cue.Str(key)))
	}
	if !v.Exists() {
		v = r.val.LookupPath(cue.MakePath(cue.Str(key)))
	}
	if !v.Exists() {
		return nil, nil
	}

	s, err := flagValue(v)
	if err != nil {
		return nil, fmt.Errorf("config key %q: %w", key, err)
	}
	return s, nil
}

// flagValue renders v the way it would be typed on the command line, so
// kong's own mappers do the type conversion.
func flagValue(v cue.Value) (string, error) {
	if d, ok := v.Default(); ok {
		v = d
	}
	switch v.IncompleteKind() {
	case cue.StringKind:
		return v.String()
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return "", err
		}
		var parts []string
		for iter.Next() {
			s, err := flagValue(iter.Value())
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil
	case cue.StructKind:
		return "", fmt.Errorf("expected a scalar or list, got a struct")
	default:
		if err := v.Validate(cue.Concrete(true)); err != nil {
			return "", err
		}
		return fmt.Sprint(v), nil
	}
}
