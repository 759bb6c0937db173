// Package deploy pushes an exported site tree to a git repository, for
// hosts that serve static sites straight from a branch.
package deploy

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"git.home.luguber.info/inful/bentoforge/internal/bentoerr"
)

// Options configures one git deployment.
type Options struct {
	RepoURL   string
	Branch    string
	AuthToken string
	Name      string // commit author, defaults applied when empty
	Email     string
	Message   string
}

// GitDeployer writes exported archives into a git branch.
type GitDeployer struct {
	workDir string
}

// NewGitDeployer creates a deployer using workDir for checkouts.
func NewGitDeployer(workDir string) *GitDeployer {
	return &GitDeployer{workDir: workDir}
}

// Deploy clones the target branch, replaces its tree with the archive
// contents, commits and pushes. The returned string is the commit hash.
func (d *GitDeployer) Deploy(ctx context.Context, archive []byte, opts Options) (string, error) {
	if opts.RepoURL == "" {
		return "", bentoerr.ValidationFailed("repo_url", "deployment repository is required")
	}
	branch := opts.Branch
	if branch == "" {
		branch = "main"
	}

	repoPath := filepath.Join(d.workDir, repoDirName(opts.RepoURL))
	if err := os.RemoveAll(repoPath); err != nil {
		return "", bentoerr.DeployFailed(opts.RepoURL, fmt.Errorf("clean checkout dir: %w", err))
	}

	cloneOptions := &git.CloneOptions{
		URL:           opts.RepoURL,
		ReferenceName: plumbing.ReferenceName("refs/heads/" + branch),
		SingleBranch:  true,
		Depth:         1,
	}
	if opts.AuthToken != "" {
		cloneOptions.Auth = tokenAuth(opts.AuthToken)
	}

	repo, err := git.PlainCloneContext(ctx, repoPath, false, cloneOptions)
	if err != nil {
		return "", bentoerr.DeployFailed(opts.RepoURL, fmt.Errorf("clone: %w", err))
	}

	if err := replaceTree(repoPath, archive); err != nil {
		return "", bentoerr.DeployFailed(opts.RepoURL, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", bentoerr.DeployFailed(opts.RepoURL, fmt.Errorf("worktree: %w", err))
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", bentoerr.DeployFailed(opts.RepoURL, fmt.Errorf("stage changes: %w", err))
	}

	status, err := wt.Status()
	if err != nil {
		return "", bentoerr.DeployFailed(opts.RepoURL, fmt.Errorf("status: %w", err))
	}
	if status.IsClean() {
		slog.Info("Deployment tree unchanged, nothing to push", "repo", opts.RepoURL)
		head, err := repo.Head()
		if err != nil {
			return "", bentoerr.DeployFailed(opts.RepoURL, fmt.Errorf("resolve head: %w", err))
		}
		return head.Hash().String(), nil
	}

	message := opts.Message
	if message == "" {
		message = "Update site"
	}
	name := opts.Name
	if name == "" {
		name = "bentoforge"
	}
	email := opts.Email
	if email == "" {
		email = "deploy@bentoforge.dev"
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: name, Email: email, When: time.Now()},
	})
	if err != nil {
		return "", bentoerr.DeployFailed(opts.RepoURL, fmt.Errorf("commit: %w", err))
	}

	pushOptions := &git.PushOptions{}
	if opts.AuthToken != "" {
		pushOptions.Auth = tokenAuth(opts.AuthToken)
	}
	if err := repo.PushContext(ctx, pushOptions); err != nil {
		return "", bentoerr.DeployFailed(opts.RepoURL, fmt.Errorf("push: %w", err))
	}

	slog.Info("Site deployed", "repo", opts.RepoURL, "branch", branch, "commit", hash.String()[:8])
	return hash.String(), nil
}

func tokenAuth(token string) *http.BasicAuth {
	// Git hosts accept a personal access token as the password with any
	// non-empty username.
	return &http.BasicAuth{Username: "token", Password: token}
}

func repoDirName(url string) string {
	name := strings.TrimSuffix(filepath.Base(url), ".git")
	if name == "" || name == "." || name == "/" {
		return "deploy"
	}
	return name
}

// replaceTree removes every tracked path except .git and unpacks the
// archive in its place.
func replaceTree(repoPath string, archive []byte) error {
	entries, err := os.ReadDir(repoPath)
	if err != nil {
		return fmt.Errorf("read checkout: %w", err)
	}
	for _, entry := range entries {
		if entry.Name() == ".git" {
			continue
		}
		if err := os.RemoveAll(filepath.Join(repoPath, entry.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
	}
	return Unpack(archive, repoPath)
}

// Unpack extracts an exported archive into destDir. Entry paths are
// validated against traversal outside the destination.
func Unpack(archive []byte, destDir string) error {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}

	for _, f := range zr.File {
		target := filepath.Join(destDir, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes destination: %s", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create dir %s: %w", f.Name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create dir for %s: %w", f.Name, err)
		}
		if err := writeEntry(f, target); err != nil {
			return err
		}
	}
	return nil
}

func writeEntry(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", f.Name, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", f.Name, err)
	}
	return out.Close()
}
