// pkg/notice/config.go

package notice

import (
	"time"

	"github.com/connectorops/noticesync/pkg/clierr"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config drives one notice sync run. All knobs are flag- and env-bindable;
// in CI the interesting ones (PR number, PR labels) arrive via environment
// variables.
type Config struct {
	// RepoDir is the checkout the build runs in.
	RepoDir string `mapstructure:"repo-dir" validate:"required"`

	// MakeCommand/MakeTarget regenerate the NOTICE file.
	MakeCommand string `mapstructure:"make-command" validate:"required"`
	MakeTarget  string `mapstructure:"make-target" validate:"required"`

	// NoticePath is the generated file, relative to RepoDir.
	NoticePath string `mapstructure:"notice-path" validate:"required"`

	Remote   string `mapstructure:"remote" validate:"required"`
	PRNumber string `mapstructure:"pr-number"`
	PRBranch string `mapstructure:"pr-branch"`

	// LabelsEnv names the environment variable holding the PR's
	// comma-separated label list.
	LabelsEnv string `mapstructure:"labels-env" validate:"required"`
	// SkipLabel suppresses the auto-commit when present in the label list.
	SkipLabel string `mapstructure:"skip-label" validate:"required"`

	CommitMessage string `mapstructure:"commit-message" validate:"required"`
	AuthorName    string `mapstructure:"author-name" validate:"required"`
	AuthorEmail   string `mapstructure:"author-email" validate:"required,email"`

	VaultAddr         string `mapstructure:"vault-addr"`
	VaultRoleIDFile   string `mapstructure:"vault-role-id-file"`
	VaultSecretIDFile string `mapstructure:"vault-secret-id-file"`
	VaultMount        string `mapstructure:"vault-mount" validate:"required"`
	// VaultSecretPath has no default and is only needed once a diff has to
	// be pushed; the flow checks it at that point.
	VaultSecretPath string `mapstructure:"vault-secret-path"`
	VaultSecretKey  string `mapstructure:"vault-secret-key" validate:"required"`

	Retries    int           `mapstructure:"retries" validate:"gte=0"`
	RetryDelay time.Duration `mapstructure:"retry-delay" validate:"gte=0"`

	DryRun bool `mapstructure:"dry-run"`
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		RepoDir:        ".",
		MakeCommand:    "make",
		MakeTarget:     "notice",
		NoticePath:     "NOTICE.txt",
		Remote:         "origin",
		LabelsEnv:      "NOTICE_SYNC_PR_LABELS",
		SkipLabel:      "skip-notice",
		CommitMessage:  "Update NOTICE.txt",
		AuthorName:     "noticesync",
		AuthorEmail:    "noticesync@connectorops.dev",
		VaultMount:     "secret",
		VaultSecretKey: "token",
		Retries:        5,
		RetryDelay:     5 * time.Second,
	}
}

// FromViper decodes the bound flags/env into a Config.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := Defaults()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, clierr.NewValidationError("invalid sync configuration: " + err.Error())
	}
	return &cfg, nil
}

// Validate checks the configuration before the flow starts.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return clierr.NewValidationError("invalid sync configuration: "+err.Error(),
			"Check the sync flags and NOTICE_SYNC_* environment variables")
	}
	return nil
}
