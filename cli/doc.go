// Package cli contains the command line interface for mbsym.
//
// # Usage
//
// Each command builds a [lang.Session] from the manifests named with
// --source, in command line order, then acts on it:
//
//	mbsym -s beam.yaml                 # emit set: statements (default)
//	mbsym -s beam.yaml eval 'L / 2'    # print a resolved value
//	mbsym -s beam.yaml fmt json        # dump declarations as JSON
//	mbsym -s beam.yaml check           # run the manifest checks
//	mbsym -s beam.yaml repl            # interactive session
//
// A source of "-" reads a manifest from stdin after all named files.
//
// # Session Options
//
//   - --include, -I: Add a directory searched for included manifests
//   - --no-simplify: Keep literal subexpressions unfolded
//   - --strict: Reject re-declaration of const and ifndef names
//   - --max-depth: Limit reference chains followed during resolution
//
// Directories listed in MBSYM_PATH are searched after those given with
// --include.
//
// # Configuration Loader
//
// Flag defaults may be read from config.yaml in the configuration
// directory (see [pkg.ConfigDir]). The file is written by "mbsym init" and
// holds the flags under a top-level "config" mapping. The loader is
// [resolve]. MBSYM_CONFIG_DIR and MBSYM_CACHE_DIR replace the default
// configuration and cache directories.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Indent JSON or colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o mbsym .
//
// With the tag, --pprof-mode selects a profile and --pprof-dir the output
// directory (default: $XDG_CACHE_HOME/mbsym/pprof).
package cli
