package backup

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
)

// GitDestination writes each map to a file in a git repo, commits and pushes.
type GitDestination struct {
	repo   string // path to the local clone
	dir    string // directory within the repo holding map files
	branch string // branch to commit and push to

	mu sync.Mutex // serializes working-tree access
}

// NewGitDestination creates a git destination. repo is the path to an
// existing local clone.
func NewGitDestination(repo, dir, branch string) *GitDestination {
	return &GitDestination{
		repo:   repo,
		dir:    dir,
		branch: branch,
	}
}

func (d *GitDestination) Name() string { return "git:" + d.repo }

// fileName maps an arbitrary map ID onto a single path segment.
func fileName(id string) (string, error) {
	name := url.PathEscape(id)
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("map id %q cannot be used as a file name", id)
	}
	return name, nil
}

// Write writes data to dir/<id>, commits, and pushes.
func (d *GitDestination) Write(ctx context.Context, id string, data []byte) error {
	name, err := fileName(id)
	if err != nil {
		return err
	}
	rel := filepath.Join(d.dir, name)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.git(ctx, "checkout", d.branch); err != nil {
		return fmt.Errorf("git checkout: %w", err)
	}

	// Ignore errors since the remote might not have the branch yet.
	_ = d.git(ctx, "pull", "--ff-only", "origin", d.branch)

	filePath := filepath.Join(d.repo, rel)
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	if err := d.git(ctx, "add", rel); err != nil {
		return fmt.Errorf("git add: %w", err)
	}

	// Nothing staged means the payload is unchanged.
	if err := d.git(ctx, "diff", "--cached", "--quiet"); err == nil {
		return nil
	}

	if err := d.git(ctx, "commit", "-m", "backup: map "+id); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	if err := d.git(ctx, "push", "origin", d.branch); err != nil {
		return fmt.Errorf("git push: %w", err)
	}
	return nil
}

func (d *GitDestination) git(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = d.repo
	cmd.Stdout = os.Stderr // redirect to stderr so it's visible in logs
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
