// pkg/vault/vault_test.go

package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/connectorops/noticesync/pkg/cliio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresAddress(t *testing.T) {
	t.Setenv("VAULT_ADDR", "")

	rc := cliio.NewContext(context.Background(), "vault-test")
	_, err := NewClient(rc, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault address not configured")
}

func TestNewClientUsesExplicitAddress(t *testing.T) {
	t.Setenv("VAULT_ADDR", "")
	t.Setenv("VAULT_TOKEN", "")

	rc := cliio.NewContext(context.Background(), "vault-test")
	c, err := NewClient(rc, Options{Address: "https://vault.internal:8200"})
	require.NoError(t, err)
	assert.False(t, c.Authenticated())
}

func TestReadCredPrefersFile(t *testing.T) {
	t.Setenv("VAULT_ROLE_ID", "from-env")

	path := filepath.Join(t.TempDir(), "role_id")
	require.NoError(t, os.WriteFile(path, []byte("  from-file\n"), 0o600))

	got, err := readCred(path, "VAULT_ROLE_ID")
	require.NoError(t, err)
	assert.Equal(t, "from-file", got)
}

func TestReadCredFallsBackToEnv(t *testing.T) {
	t.Setenv("VAULT_SECRET_ID", " secret-value ")

	got, err := readCred("", "VAULT_SECRET_ID")
	require.NoError(t, err)
	assert.Equal(t, "secret-value", got)
}

func TestReadCredMissingFile(t *testing.T) {
	t.Parallel()

	_, err := readCred(filepath.Join(t.TempDir(), "missing"), "VAULT_ROLE_ID")
	require.Error(t, err)
}

func TestResolveAppRoleCreds(t *testing.T) {
	t.Setenv("VAULT_ROLE_ID", "role-abc")
	t.Setenv("VAULT_SECRET_ID", "secret-xyz")

	roleID, secretID, err := resolveAppRoleCreds(Options{})
	require.NoError(t, err)
	assert.Equal(t, "role-abc", roleID)
	assert.Equal(t, "secret-xyz", secretID)
}

func TestResolveAppRoleCredsMissing(t *testing.T) {
	t.Setenv("VAULT_ROLE_ID", "")
	t.Setenv("VAULT_SECRET_ID", "")

	_, _, err := resolveAppRoleCreds(Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "approle credentials not configured")
}
