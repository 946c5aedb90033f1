// pkg/execute/retry_test.go

package execute

import (
	"context"
	"testing"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryOperationFirstSuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	err := RetryOperation(context.Background(), 5, time.Millisecond, "op", func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls, "a successful operation must not be retried")
}

func TestRetryOperationZeroRetriesPropagatesImmediately(t *testing.T) {
	t.Parallel()

	boom := cerr.New("boom")
	calls := 0
	err := RetryOperation(context.Background(), 0, time.Millisecond, "op", func() error {
		calls++
		return boom
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls, "zero retries means a single attempt")
	assert.ErrorIs(t, err, boom)
}

func TestRetryOperationAtMostRetriesAttempts(t *testing.T) {
	t.Parallel()

	boom := cerr.New("still broken")
	calls := 0
	err := RetryOperation(context.Background(), 3, time.Millisecond, "op", func() error {
		calls++
		return boom
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, boom, "the last failure must stay reachable in the chain")
}

func TestRetryOperationSucceedsMidway(t *testing.T) {
	t.Parallel()

	calls := 0
	err := RetryOperation(context.Background(), 5, time.Millisecond, "op", func() error {
		calls++
		if calls < 3 {
			return cerr.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryOperationHonorsCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := RetryOperation(ctx, 3, time.Millisecond, "op", func() error {
		calls++
		return cerr.New("never reached")
	})

	require.Error(t, err)
	assert.Equal(t, 0, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryCommandPropagatesExitStatus(t *testing.T) {
	t.Parallel()

	out, err := RetryCommand(context.Background(), 2, time.Millisecond, Options{
		Command: "sh",
		Args:    []string{"-c", "echo stdout-line; exit 7"},
	})

	require.Error(t, err)
	assert.Contains(t, out, "stdout-line")
}

func TestRetryCommandSuccess(t *testing.T) {
	t.Parallel()

	out, err := RetryCommand(context.Background(), 2, time.Millisecond, Options{
		Command: "sh",
		Args:    []string{"-c", "echo ok"},
	})

	require.NoError(t, err)
	assert.Contains(t, out, "ok")
}
