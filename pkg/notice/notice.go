// pkg/notice/notice.go
//
// The notice sync flow: regenerate the NOTICE file, and when regeneration
// produced a diff, push the updated file back to the originating pull
// request. Strictly sequential; the first external failure aborts, except
// inside the vault retry loop.

package notice

import (
	"github.com/connectorops/noticesync/pkg/clierr"
	"github.com/connectorops/noticesync/pkg/cliio"
	"github.com/connectorops/noticesync/pkg/execute"
	"github.com/connectorops/noticesync/pkg/git"
	"github.com/connectorops/noticesync/pkg/labels"
	"github.com/connectorops/noticesync/pkg/vault"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Result reports what the sync run did.
type Result struct {
	// Changed is true when regeneration produced a diff.
	Changed bool
	// SkippedByLabel is true when a diff existed but the PR label list
	// suppressed the auto-commit.
	SkippedByLabel bool
	// Committed is true when the updated file was committed and pushed.
	Committed bool
	// Commit is the new commit hash, when one was created.
	Commit string
}

// Sync runs the full flow against cfg.
func Sync(rc *cliio.RuntimeContext, cfg *Config) (*Result, error) {
	log := otelzap.Ctx(rc.Ctx)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Regenerate the NOTICE file.
	log.Info("Regenerating NOTICE file",
		zap.String("command", cfg.MakeCommand),
		zap.String("target", cfg.MakeTarget))
	if out, err := execute.Run(rc.Ctx, execute.Options{
		Command: cfg.MakeCommand,
		Args:    []string{cfg.MakeTarget},
		Dir:     cfg.RepoDir,
	}); err != nil {
		return nil, clierr.NewGitError("NOTICE regeneration failed", err,
			"Inspect the build output: "+clierr.ExtractSummary(out, 2))
	}

	// Detect whether regeneration produced a diff.
	repo, err := git.Open(rc, cfg.RepoDir)
	if err != nil {
		return nil, err
	}
	changed, err := repo.HasChanges(rc, cfg.NoticePath)
	if err != nil {
		return nil, err
	}
	if !changed {
		log.Info("NOTICE file is up to date, nothing to sync")
		return &Result{}, nil
	}
	log.Info("NOTICE file changed", zap.String("path", cfg.NoticePath))

	// Label suppression.
	if labels.HasFromEnv(cfg.LabelsEnv, cfg.SkipLabel) {
		log.Warn("Auto-commit suppressed by pull request label",
			zap.String("label", cfg.SkipLabel),
			zap.String("labels_env", cfg.LabelsEnv))
		return &Result{Changed: true, SkippedByLabel: true}, nil
	}

	if cfg.PRNumber == "" || cfg.PRBranch == "" {
		return nil, clierr.NewValidationError(
			"NOTICE changed but no pull request is configured",
			"Set --pr-number and --pr-branch (or NOTICE_SYNC_PR_NUMBER / NOTICE_SYNC_PR_BRANCH)")
	}
	if cfg.VaultSecretPath == "" {
		return nil, clierr.NewValidationError(
			"NOTICE changed but no vault secret path is configured for the push token",
			"Set --vault-secret-path (or NOTICE_SYNC_VAULT_SECRET_PATH)")
	}

	// Fetch the push token from vault, hardened by the retry helper.
	vc, err := vault.NewClient(rc, vault.Options{
		Address:      cfg.VaultAddr,
		RoleIDFile:   cfg.VaultRoleIDFile,
		SecretIDFile: cfg.VaultSecretIDFile,
		Retries:      cfg.Retries,
		RetryDelay:   cfg.RetryDelay,
	})
	if err != nil {
		return nil, err
	}
	if !vc.Authenticated() {
		if err := vc.LoginAppRole(rc, vault.Options{
			RoleIDFile:   cfg.VaultRoleIDFile,
			SecretIDFile: cfg.VaultSecretIDFile,
		}); err != nil {
			return nil, err
		}
	}
	token, err := vc.ReadKVSecret(rc, cfg.VaultMount, cfg.VaultSecretPath, cfg.VaultSecretKey)
	if err != nil {
		return nil, err
	}
	rc.Attributes["vault_mount"] = cfg.VaultMount

	auth := git.TokenAuth(token)

	// Check out the originating pull request, keeping the regenerated file.
	if err := repo.CheckoutPullRequest(rc, cfg.Remote, cfg.PRNumber, cfg.PRBranch, auth); err != nil {
		return nil, err
	}

	// Commit and push.
	hash, err := repo.CommitPaths(rc, []string{cfg.NoticePath}, cfg.CommitMessage, cfg.AuthorName, cfg.AuthorEmail)
	if err != nil {
		return nil, err
	}

	if cfg.DryRun {
		log.Info("Dry run, not pushing", zap.String("commit", hash[:8]))
		return &Result{Changed: true, Committed: true, Commit: hash}, nil
	}

	if err := repo.Push(rc, cfg.Remote, cfg.PRBranch, auth); err != nil {
		return nil, err
	}

	log.Info("NOTICE update pushed to pull request",
		zap.String("pr", cfg.PRNumber),
		zap.String("branch", cfg.PRBranch),
		zap.String("commit", hash[:8]))
	return &Result{Changed: true, Committed: true, Commit: hash}, nil
}
