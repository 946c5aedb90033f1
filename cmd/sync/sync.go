// cmd/sync/sync.go

package sync

import (
	cerr "github.com/cockroachdb/errors"
	"github.com/connectorops/noticesync/pkg/cli"
	"github.com/connectorops/noticesync/pkg/clierr"
	"github.com/connectorops/noticesync/pkg/cliio"
	"github.com/connectorops/noticesync/pkg/notice"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// SyncCmd regenerates the NOTICE file and pushes the update back to the
// originating pull request.
//
// Exit codes: 0 when regeneration produced no diff; 1 when a diff was
// generated (committed, or commit suppressed by the skip label); failures
// of the wrapped external commands propagate their own exit status.
var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Regenerate the NOTICE file and push updates to the pull request",
	Long: `Runs the configured build target to regenerate the NOTICE file. When the
regeneration produces a diff, authenticates against Vault for a push token,
checks out the originating pull request branch, commits the updated file and
pushes it back - unless the pull request carries the skip label.

All flags can also be provided as NOTICE_SYNC_* environment variables.`,
	RunE: cli.Wrap(runSync),
}

var syncViper = viper.New()

func init() {
	defaults := notice.Defaults()

	cli.AddStringFlag(SyncCmd, "repo-dir", "C", defaults.RepoDir, "Repository checkout to operate in", false)
	cli.AddStringFlag(SyncCmd, "make-command", "", defaults.MakeCommand, "Build command used to regenerate the NOTICE file", false)
	cli.AddStringFlag(SyncCmd, "make-target", "", defaults.MakeTarget, "Build target used to regenerate the NOTICE file", false)
	cli.AddStringFlag(SyncCmd, "notice-path", "", defaults.NoticePath, "Generated NOTICE file, relative to the repository", false)
	cli.AddStringFlag(SyncCmd, "remote", "", defaults.Remote, "Git remote to fetch from and push to", false)
	cli.AddStringFlag(SyncCmd, "pr-number", "", "", "Originating pull request number", false)
	cli.AddStringFlag(SyncCmd, "pr-branch", "", "", "Originating pull request head branch", false)
	cli.AddStringFlag(SyncCmd, "labels-env", "", defaults.LabelsEnv, "Environment variable holding the PR's comma-separated label list", false)
	cli.AddStringFlag(SyncCmd, "skip-label", "", defaults.SkipLabel, "Label that suppresses the auto-commit", false)
	cli.AddStringFlag(SyncCmd, "commit-message", "m", defaults.CommitMessage, "Commit message for the NOTICE update", false)
	cli.AddStringFlag(SyncCmd, "author-name", "", defaults.AuthorName, "Commit author name", false)
	cli.AddStringFlag(SyncCmd, "author-email", "", defaults.AuthorEmail, "Commit author email", false)
	cli.AddStringFlag(SyncCmd, "vault-addr", "", "", "Vault address (defaults to VAULT_ADDR)", false)
	cli.AddStringFlag(SyncCmd, "vault-role-id-file", "", "", "File holding the AppRole role_id", false)
	cli.AddStringFlag(SyncCmd, "vault-secret-id-file", "", "", "File holding the AppRole secret_id", false)
	cli.AddStringFlag(SyncCmd, "vault-mount", "", defaults.VaultMount, "KV v2 mount holding the push token", false)
	cli.AddStringFlag(SyncCmd, "vault-secret-path", "", "", "KV v2 path holding the push token", false)
	cli.AddStringFlag(SyncCmd, "vault-secret-key", "", defaults.VaultSecretKey, "Key within the secret holding the push token", false)
	cli.AddIntFlag(SyncCmd, "retries", "", defaults.Retries, "Retry limit for vault calls")
	SyncCmd.Flags().Duration("retry-delay", defaults.RetryDelay, "Fixed delay between vault retries")
	cli.AddBoolFlag(SyncCmd, "dry-run", "", false, "Commit locally but do not push")

	cli.SetViperEnvPrefix(syncViper, "NOTICE_SYNC")
	if err := cli.BindFlagsToViper(SyncCmd, syncViper); err != nil {
		panic(err)
	}
}

func runSync(rc *cliio.RuntimeContext, cmd *cobra.Command, args []string) error {
	cfg, err := notice.FromViper(syncViper)
	if err != nil {
		return err
	}

	res, err := notice.Sync(rc, cfg)
	if err != nil {
		return err
	}

	if !res.Changed {
		return nil
	}

	// Changes were generated: exit 1 so the CI run surfaces the new
	// commit (or the suppressed one) instead of passing silently.
	if res.SkippedByLabel {
		return clierr.WithExitCode(clierr.NewExpectedError(
			cerr.Newf("NOTICE changed but auto-commit was suppressed by label %q", cfg.SkipLabel)), 1)
	}
	return clierr.WithExitCode(clierr.NewExpectedError(
		cerr.Newf("NOTICE update committed to pull request %s (%s)", cfg.PRNumber, res.Commit[:8])), 1)
}
