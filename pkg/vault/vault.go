// pkg/vault/vault.go
//
// Vault access for CI secrets. Every call that crosses the network goes
// through the bounded retry helper so a flaky vault does not fail the build
// on the first hiccup.

package vault

import (
	"os"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/connectorops/noticesync/pkg/clierr"
	"github.com/connectorops/noticesync/pkg/cliio"
	"github.com/connectorops/noticesync/pkg/execute"
	"github.com/hashicorp/vault/api"
	"github.com/hashicorp/vault/api/auth/approle"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Options tunes client construction and the retry policy around calls.
type Options struct {
	// Address overrides VAULT_ADDR when set.
	Address string
	// RoleIDFile / SecretIDFile point at AppRole credentials on disk.
	// When empty, VAULT_ROLE_ID / VAULT_SECRET_ID are consulted instead.
	RoleIDFile   string
	SecretIDFile string
	// AppRoleMount is the auth mount path, defaulting to "approle".
	AppRoleMount string

	Retries    int
	RetryDelay time.Duration
}

// Client wraps the Vault API client with the CI retry policy.
type Client struct {
	api     *api.Client
	retries int
	delay   time.Duration
}

// NewClient creates a Vault API client from the environment.
func NewClient(rc *cliio.RuntimeContext, opts Options) (*Client, error) {
	log := otelzap.Ctx(rc.Ctx)

	cfg := api.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		log.Warn("Unable to read Vault env vars", zap.Error(err))
	}
	if opts.Address != "" {
		cfg.Address = opts.Address
	} else if os.Getenv(api.EnvVaultAddress) == "" {
		// DefaultConfig presets a localhost address; an unconfigured run
		// must fail fast instead of retrying against it.
		return nil, clierr.NewSecretsError("vault address not configured", nil,
			"Set VAULT_ADDR or the sync --vault-addr flag")
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, cerr.Wrap(err, "vault client creation failed")
	}

	if token := os.Getenv("VAULT_TOKEN"); token != "" {
		client.SetToken(token)
		log.Debug("Vault token loaded from VAULT_TOKEN")
	}

	log.Info("Vault client created", zap.String("addr", cfg.Address))
	return &Client{
		api:     client,
		retries: opts.Retries,
		delay:   opts.RetryDelay,
	}, nil
}

// Authenticated reports whether the client already carries a token.
func (c *Client) Authenticated() bool {
	return c.api.Token() != ""
}

// LoginAppRole authenticates using AppRole credentials resolved from the
// configured files or from VAULT_ROLE_ID / VAULT_SECRET_ID.
func (c *Client) LoginAppRole(rc *cliio.RuntimeContext, opts Options) error {
	log := otelzap.Ctx(rc.Ctx)

	roleID, secretID, err := resolveAppRoleCreds(opts)
	if err != nil {
		return err
	}

	mount := opts.AppRoleMount
	if mount == "" {
		mount = "approle"
	}

	auth, err := approle.NewAppRoleAuth(roleID, &approle.SecretID{
		FromString: secretID,
	}, approle.WithMountPath(mount))
	if err != nil {
		return cerr.Wrap(err, "create approle auth")
	}

	return execute.RetryOperation(rc.Ctx, c.retries, c.delay, "vault approle login", func() error {
		secret, err := c.api.Auth().Login(rc.Ctx, auth)
		if err != nil {
			return cerr.Wrap(err, "approle login failed")
		}
		if secret == nil || secret.Auth == nil {
			return cerr.New("no auth info returned from approle login")
		}
		c.api.SetToken(secret.Auth.ClientToken)
		log.Info("Authenticated with Vault using AppRole",
			zap.String("token_accessor", secret.Auth.Accessor))
		return nil
	})
}

// ReadKVSecret reads one key from a KV v2 secret.
func (c *Client) ReadKVSecret(rc *cliio.RuntimeContext, mount, path, key string) (string, error) {
	log := otelzap.Ctx(rc.Ctx)

	var value string
	err := execute.RetryOperation(rc.Ctx, c.retries, c.delay, "vault kv read", func() error {
		secret, err := c.api.KVv2(mount).Get(rc.Ctx, path)
		if err != nil {
			return cerr.Wrapf(err, "read %s/%s", mount, path)
		}
		raw, ok := secret.Data[key]
		if !ok {
			return cerr.Newf("secret %s/%s has no key %q", mount, path, key)
		}
		value, ok = raw.(string)
		if !ok {
			return cerr.Newf("secret %s/%s key %q is not a string", mount, path, key)
		}
		return nil
	})
	if err != nil {
		return "", clierr.NewSecretsError("failed to read secret from vault", err)
	}

	log.Debug("Secret read from vault",
		zap.String("mount", mount),
		zap.String("path", path),
		zap.String("key", key))
	return value, nil
}

func resolveAppRoleCreds(opts Options) (string, string, error) {
	roleID, err := readCred(opts.RoleIDFile, "VAULT_ROLE_ID")
	if err != nil {
		return "", "", cerr.Wrap(err, "resolve role_id")
	}
	secretID, err := readCred(opts.SecretIDFile, "VAULT_SECRET_ID")
	if err != nil {
		return "", "", cerr.Wrap(err, "resolve secret_id")
	}
	if roleID == "" || secretID == "" {
		return "", "", clierr.NewSecretsError("approle credentials not configured", nil,
			"Provide --vault-role-id-file/--vault-secret-id-file or set VAULT_ROLE_ID and VAULT_SECRET_ID")
	}
	return roleID, secretID, nil
}

func readCred(file, envVar string) (string, error) {
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return "", cerr.Wrapf(err, "read credential file %s", file)
		}
		return strings.TrimSpace(string(b)), nil
	}
	return strings.TrimSpace(os.Getenv(envVar)), nil
}
