// Package gitdiff recovers diffs for files the agent changed without
// reporting a patch. It shells out to git with short timeouts and treats
// every failure as "no diff available"; diff recovery is strictly additive
// and must never stall or fail the event pipeline.
package gitdiff

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/aymanbagabas/go-udiff"
)

// Provider resolves a working-tree diff for one file. Implementations are
// best-effort: returning ("", nil) means no diff could be determined.
type Provider interface {
	Diff(ctx context.Context, workDir, absPath string) (string, error)
}

// Nop is a Provider that never finds a diff. Used in tests and when the
// workspace is not under version control.
type Nop struct{}

func (Nop) Diff(context.Context, string, string) (string, error) { return "", nil }

// Git resolves diffs by shelling out to git, trying progressively heavier
// strategies: unstaged diff, diff against HEAD, and finally comparing the
// HEAD blob with the on-disk content via go-udiff (which also covers files
// that were staged between events).
type Git struct {
	// Timeout bounds each git invocation. Zero means 3 seconds.
	Timeout time.Duration
}

func (g Git) timeout() time.Duration {
	if g.Timeout > 0 {
		return g.Timeout
	}
	return 3 * time.Second
}

// Diff implements Provider.
func (g Git) Diff(ctx context.Context, workDir, absPath string) (string, error) {
	if workDir == "" || absPath == "" {
		return "", nil
	}

	rel, err := filepath.Rel(workDir, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		// Outside the workspace; git has nothing to say.
		return "", nil
	}

	if out := g.run(ctx, workDir, "diff", "--", rel); out != "" {
		return out, nil
	}
	if out := g.run(ctx, workDir, "diff", "HEAD", "--", rel); out != "" {
		return out, nil
	}

	// Staged-and-committed edits leave both diffs empty; compare the HEAD
	// blob against what is on disk.
	head := g.run(ctx, workDir, "show", "HEAD:"+filepath.ToSlash(rel))
	if head == "" {
		return "", nil
	}
	current, err := os.ReadFile(absPath)
	if err != nil {
		return "", nil
	}
	if head == string(current) {
		return "", nil
	}
	return udiff.Unified("a/"+filepath.ToSlash(rel), "b/"+filepath.ToSlash(rel), head, string(current)), nil
}

// run executes one git command, returning stdout or "" on any failure.
func (g Git) run(ctx context.Context, dir string, args ...string) string {
	ctx, cancel := context.WithTimeout(ctx, g.timeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return string(out)
}

// Branch returns the current branch name for dir, or "" when dir is not a
// git checkout. Shown in the panel footer.
func Branch(dir string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
