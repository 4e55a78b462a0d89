package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"stubsplit/internal/crawler"
	"stubsplit/internal/git"
)

// Discover lists the stub files under the stub root. With a non-empty since
// ref only files git reports as changed since that ref are kept.
func (r *Runner) Discover(ctx context.Context, cr *crawler.Crawler, since string) ([]string, error) {
	files, err := cr.Collect(r.StubRoot)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", r.StubRoot, err)
	}
	if since == "" {
		return files, nil
	}

	top, err := git.TopLevel(ctx, r.StubRoot)
	if err != nil {
		return nil, err
	}
	changes, err := git.GetChangedFiles(ctx, top, since)
	if err != nil {
		return nil, err
	}

	changed, err := changedUnderRoot(r.StubRoot, top, changes)
	if err != nil {
		return nil, err
	}
	r.logger().Debug("git changes", "since", since, "changed", len(changes), "under_stub_root", len(changed))

	var kept []string
	for _, f := range files {
		if changed[f] {
			kept = append(kept, f)
		}
	}
	return kept, nil
}

// changedUnderRoot maps repository-relative git paths to paths relative to
// stubRoot, dropping deletions and anything outside stubRoot.
func changedUnderRoot(stubRoot, top string, changes []git.ChangedFile) (map[string]bool, error) {
	root, err := filepath.Abs(stubRoot)
	if err != nil {
		return nil, err
	}
	// git reports the top level with symlinks resolved.
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	out := make(map[string]bool)
	for _, c := range changes {
		if c.Deleted() {
			continue
		}
		rel, err := filepath.Rel(root, filepath.Join(top, filepath.FromSlash(c.Path)))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		out[filepath.ToSlash(rel)] = true
	}
	return out, nil
}
