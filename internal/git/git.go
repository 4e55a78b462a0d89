package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

type ChangedFile struct {
	Path   string // relative to the repository top level
	Status byte   // 'A', 'M', 'D', 'R', ...
}

// Deleted reports whether the file no longer exists in the working tree.
func (c ChangedFile) Deleted() bool {
	return c.Status == 'D'
}

// GetChangedFiles runs git diff in dir and returns the files changed since baseRef.
func GetChangedFiles(ctx context.Context, dir, baseRef string) ([]ChangedFile, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "--name-status", baseRef)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff failed: %w", err)
	}

	return parseNameStatus(output)
}

// TopLevel returns the absolute path of the repository containing dir.
func TopLevel(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

func parseNameStatus(output []byte) ([]ChangedFile, error) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	var changes []ChangedFile

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		// STATUS\tPATH, or for renames and copies STATUS\tOLD\tNEW
		parts := strings.Split(line, "\t")
		if len(parts) < 2 || parts[0] == "" {
			return nil, fmt.Errorf("unexpected git diff line: %q", line)
		}
		status := parts[0][0]
		path := parts[len(parts)-1]

		changes = append(changes, ChangedFile{Path: path, Status: status})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return changes, nil
}
