package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/mbsym/lang"
	"github.com/ardnew/mbsym/log"
)

const defaultEditor = "vi"

// editManifestCommand implements [tea.ExecCommand] for the edit-apply-retry
// loop. It writes the manifest of the current session to a temp file, opens
// the user's editor, and applies the result to a fresh session. On error the
// user is prompted to re-edit; declining exits the program.
type editManifestCommand struct {
	session *lang.Session
	rebuild func() *lang.Session
	ctxFunc func() context.Context
	result  *lang.Session
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editManifestCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editManifestCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editManifestCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-apply-retry loop. If the user declines to re-edit,
// it returns [ErrEditDeclined]. An empty file cancels the edit.
func (c *editManifestCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := c.session.Manifest().Encode(ctx, &buf); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	f, err := os.CreateTemp(os.TempDir(), "mbsym-repl-*.yaml")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	content := buf.Bytes()

	for {
		if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}

		s, applyErr := c.apply(ctx, data)
		c.logger.TraceContext(
			ctx,
			"editor apply attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", applyErr == nil),
		)

		if applyErr == nil {
			c.result = s

			return nil
		}

		fmt.Fprintf(c.stderr, "\nError: %s\n", applyErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		content = data
	}
}

// apply decodes an edited manifest and applies it to a fresh session.
func (c *editManifestCommand) apply(ctx context.Context, data []byte) (*lang.Session, error) {
	m, err := lang.LoadManifest(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if len(m.Include) > 0 {
		return nil, ErrEditInclude
	}

	s := c.rebuild()
	if err := s.Apply(ctx, m); err != nil {
		return nil, err
	}

	return s, nil
}

// runEditor launches the user's editor on the given file path and returns
// the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
