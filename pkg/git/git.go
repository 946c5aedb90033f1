// pkg/git/git.go
//
// Git repository operations for the notice sync flow. Pure git plumbing,
// no orchestration.

package git

import (
	"fmt"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/connectorops/noticesync/pkg/clierr"
	"github.com/connectorops/noticesync/pkg/cliio"
	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Repo wraps an opened git repository.
type Repo struct {
	repo *gogit.Repository
	dir  string
}

// Open opens the repository containing dir, walking up to find .git.
func Open(rc *cliio.RuntimeContext, dir string) (*Repo, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, clierr.NewGitError(fmt.Sprintf("not a git repository: %s", dir), err)
	}
	otelzap.Ctx(rc.Ctx).Debug("Repository opened", zap.String("dir", dir))
	return &Repo{repo: repo, dir: dir}, nil
}

// TokenAuth builds HTTP basic auth from a CI push token.
func TokenAuth(token string) *githttp.BasicAuth {
	return &githttp.BasicAuth{Username: "x-access-token", Password: token}
}

// HeadBranch returns the short name of the current HEAD reference.
func (r *Repo) HeadBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", cerr.Wrap(err, "resolve HEAD")
	}
	return head.Name().Short(), nil
}

// HasChanges reports whether the worktree differs from HEAD under the given
// path prefixes. With no prefixes any change counts.
func (r *Repo) HasChanges(rc *cliio.RuntimeContext, prefixes ...string) (bool, error) {
	log := otelzap.Ctx(rc.Ctx)

	wt, err := r.repo.Worktree()
	if err != nil {
		return false, cerr.Wrap(err, "open worktree")
	}
	status, err := wt.Status()
	if err != nil {
		return false, cerr.Wrap(err, "read worktree status")
	}

	for file, fs := range status {
		if fs.Worktree == gogit.Unmodified && fs.Staging == gogit.Unmodified {
			continue
		}
		if len(prefixes) == 0 || matchesPrefix(file, prefixes) {
			log.Debug("Worktree change detected", zap.String("file", file))
			return true, nil
		}
	}
	return false, nil
}

func matchesPrefix(file string, prefixes []string) bool {
	for _, p := range prefixes {
		p = strings.TrimPrefix(p, "./")
		if file == p || strings.HasPrefix(file, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}

// PullRequestRefSpec maps a pull request head onto a local branch.
func PullRequestRefSpec(prNumber, branch string) gitconfig.RefSpec {
	return gitconfig.RefSpec(fmt.Sprintf("+refs/pull/%s/head:refs/heads/%s", prNumber, branch))
}

// CheckoutPullRequest fetches the pull request head and checks out the
// branch, keeping local worktree changes.
func (r *Repo) CheckoutPullRequest(rc *cliio.RuntimeContext, remote, prNumber, branch string, auth *githttp.BasicAuth) error {
	log := otelzap.Ctx(rc.Ctx)

	log.Info("Fetching pull request head",
		zap.String("remote", remote),
		zap.String("pr", prNumber),
		zap.String("branch", branch))

	err := r.repo.FetchContext(rc.Ctx, &gogit.FetchOptions{
		RemoteName: remote,
		RefSpecs:   []gitconfig.RefSpec{PullRequestRefSpec(prNumber, branch)},
		Auth:       auth,
		Force:      true,
	})
	if err != nil && err != gogit.NoErrAlreadyUpToDate {
		return clierr.NewGitError(fmt.Sprintf("failed to fetch pull request %s", prNumber), err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return cerr.Wrap(err, "open worktree")
	}

	// Keep preserves the regenerated file across the branch switch.
	err = wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Keep:   true,
	})
	if err != nil {
		return clierr.NewGitError(fmt.Sprintf("failed to check out branch %s", branch), err)
	}

	log.Info("Checked out pull request branch", zap.String("branch", branch))
	return nil
}

// CommitPaths stages the given paths and commits them with the provided
// identity. Returns the new commit hash.
func (r *Repo) CommitPaths(rc *cliio.RuntimeContext, paths []string, message, name, email string) (string, error) {
	log := otelzap.Ctx(rc.Ctx)

	wt, err := r.repo.Worktree()
	if err != nil {
		return "", cerr.Wrap(err, "open worktree")
	}

	for _, p := range paths {
		if _, err := wt.Add(strings.TrimPrefix(p, "./")); err != nil {
			return "", clierr.NewGitError(fmt.Sprintf("failed to stage %s", p), err)
		}
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  name,
			Email: email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", clierr.NewGitError("commit failed", err)
	}

	log.Info("Committed changes",
		zap.String("commit", hash.String()[:8]),
		zap.Strings("paths", paths))
	return hash.String(), nil
}

// Push pushes the branch to the remote using the given auth.
func (r *Repo) Push(rc *cliio.RuntimeContext, remote, branch string, auth *githttp.BasicAuth) error {
	log := otelzap.Ctx(rc.Ctx)

	refSpec := gitconfig.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))
	err := r.repo.PushContext(rc.Ctx, &gogit.PushOptions{
		RemoteName: remote,
		RefSpecs:   []gitconfig.RefSpec{refSpec},
		Auth:       auth,
	})
	if err == gogit.NoErrAlreadyUpToDate {
		log.Info("Remote already up to date", zap.String("branch", branch))
		return nil
	}
	if err != nil {
		return clierr.NewGitError(fmt.Sprintf("failed to push branch %s", branch), err)
	}

	log.Info("Pushed branch", zap.String("remote", remote), zap.String("branch", branch))
	return nil
}
