package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Prefix returns the base name used to construct the configuration and cache
// directory paths.
//
// By default, Prefix is the base name of the executable file unless it matches
// one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with cmd
//   - "^\.+" (dot-prefixed names): remove the dot prefix
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		ext := filepath.Ext(filepath.Base(id))
		id = strings.TrimSuffix(filepath.Base(id), ext)

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): Name, // default output from dlv
			regexp.MustCompile(`^\.+`):             "",   // remove leading dot(s)
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		return id
	},
)

// ConfigDir returns the configuration directory path. It is named by the
// environment variable Env("config_dir") when set.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string {
		return userDir(Env("config_dir"), os.UserConfigDir, ".config")
	},
)

// CacheDir returns the cache directory path used for transient files such as
// REPL history and profiles. It is named by the environment variable
// Env("cache_dir") when set.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string {
		return userDir(Env("cache_dir"), os.UserCacheDir, ".cache")
	},
)

// userDir returns the directory named by the environment variable env, or
// Prefix under the user directory returned by base. Without a user
// directory, hidden is used under the home directory, and then the working
// directory.
func userDir(env string, base func() (string, error), hidden string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}

	dir, err := base()
	if err != nil {
		dir, err = os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(dir, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
