// Package cmd implements the mbsym subcommands.
//
// Every command reads its inputs from the [context.Context] passed to Run:
// the [kong.Context] ([WithContext]), the manifests named on the command line
// ([WithSourceFiles]), the session options ([WithSettings]) and the output
// writer ([WithOutput]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file, and the top-level key written to it.
	ConfigIdentifier = "config"
)
