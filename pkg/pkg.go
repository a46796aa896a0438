//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// Version is the semantic version of the mbsym module embedded at build time.
// It is printed by the CLI when users pass --version.
//
//go:embed VERSION
var Version string

const (
	// Name is the canonical command and module identifier used across the
	// project. For example, it appears in help text and default config paths.
	Name = "mbsym"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Symbolic expression and declaration generator for MBDyn input files"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}

// Env returns the name of the environment variable holding the setting key,
// e.g. Env("path") is "MBSYM_PATH".
func Env(key string) string {
	return strings.ToUpper(Name + "_" + key)
}
