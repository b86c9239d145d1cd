package internal

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/starford/juv/internal/convert"
)

// page pipes text into the pager command line. bat is told the language
// and a display name so it can highlight the projection.
func (a *App) page(ctx context.Context, pager, path string, format convert.Format, text string) error {
	fields := strings.Fields(pager)
	if len(fields) == 0 {
		return fmt.Errorf("empty pager command")
	}
	args := fields[1:]
	if isBat(fields[0]) {
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if stem == "" {
			stem = "stdin"
		}
		args = append(args, "--language", format.Ext(), "--file-name", stem+"."+format.Ext())
	}

	cmd := exec.CommandContext(ctx, fields[0], args...)
	cmd.Stdin = strings.NewReader(text)
	cmd.Stdout = a.stdout
	cmd.Stderr = a.stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pager %s: %w", fields[0], err)
	}
	return nil
}

func isBat(name string) bool {
	base := strings.TrimSuffix(filepath.Base(name), ".exe")
	return base == "bat" || base == "batcat"
}

// edit writes text to a temporary .md file, waits for the editor to exit
// and returns the file's new contents.
func (a *App) edit(ctx context.Context, editor, text string) (string, error) {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return "", fmt.Errorf("empty editor command")
	}

	f, err := os.CreateTemp("", "juv-*.md")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	cmd := exec.CommandContext(ctx, fields[0], append(fields[1:], name)...)
	cmd.Stdin = a.stdin
	cmd.Stdout = a.stdout
	cmd.Stderr = a.stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor %s: %w", fields[0], err)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read temp file: %w", err)
	}
	return string(data), nil
}
