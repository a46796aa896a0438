package cli

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/mbsym/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, "config"), "/path/to/config.yaml")
//
// The flags are read from the mapping under the top-level key name, or from
// the top-level mapping itself if there is no such key. Flag names with
// hyphens (e.g., "log-level") may also be written with underscores
// (e.g., "log_level"). Example:
//
//	config:
//	  log-level: debug
//	  include: [/opt/mbdyn/lib]
//	  strict: true
//
// Command-line flags override config file values. A file that cannot be
// parsed is ignored.
func resolve(ctx context.Context, name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return config{}, nil //nolint:nilerr
		}

		var doc map[string]any

		err = yaml.UnmarshalContext(ctx, data, &doc)
		if err != nil {
			log.WarnContext(ctx, "ignoring invalid configuration file")

			return config{}, nil //nolint:nilerr
		}

		if sub, ok := doc[name].(map[string]any); ok {
			doc = sub
		}

		cfg := make(config, len(doc))
		for key, value := range doc {
			if v := flagValue(value); v != nil {
				cfg[key] = v
			}
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil //nolint:nilnil
}

// flagValue converts a decoded YAML value to a form Kong can decode.
// Kong requires numbers as strings; nested mappings are not flags.
func flagValue(value any) any {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case bool, string:
		return v

	case []any:
		items := make([]any, 0, len(v))
		for _, item := range v {
			if x := flagValue(item); x != nil {
				items = append(items, x)
			}
		}

		return items

	default:
		return nil
	}
}
