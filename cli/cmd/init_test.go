package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initFlags struct {
	Strict   bool     `default:"true"`
	MaxDepth int      `default:"12"`
	Include  []string `type:"path"`
	Name     string
	Version  kong.VersionFlag
}

// TestInitRun tests the Init.Run command.
func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing content"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			var flags initFlags

			parser, err := kong.New(&flags, kong.Vars{ConfigIdentifier: confPath})
			if err != nil {
				t.Fatal(err)
			}

			ktx, err := parser.Parse(nil)
			if err != nil {
				t.Fatal(err)
			}

			err = (&Init{Force: tt.force}).Run(WithContext(t.Context(), ktx))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			if tt.wantErr != nil {
				if string(content) != "existing content" {
					t.Errorf("existing file was modified: %q", content)
				}

				return
			}

			var doc map[string]map[string]any
			if err := yaml.Unmarshal(content, &doc); err != nil {
				t.Fatalf("generated config is not valid YAML: %v", err)
			}

			config, ok := doc[ConfigIdentifier]
			if !ok {
				t.Fatalf("expected top-level %q mapping, got:\n%s", ConfigIdentifier, content)
			}

			if config["strict"] != true {
				t.Errorf("expected strict=true, got %v", config["strict"])
			}

			if got := fmt.Sprint(config["max-depth"]); got != "12" {
				t.Errorf("expected max-depth=12, got %v", got)
			}

			for _, key := range []string{"help", "version", "include", "name"} {
				if _, ok := config[key]; ok {
					t.Errorf("unexpected key %q in generated config", key)
				}
			}
		})
	}
}
