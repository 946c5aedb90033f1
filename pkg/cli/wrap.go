// pkg/cli/wrap.go

package cli

import (
	"context"

	cerr "github.com/cockroachdb/errors"
	"github.com/connectorops/noticesync/pkg/clierr"
	"github.com/connectorops/noticesync/pkg/cliio"
	"github.com/connectorops/noticesync/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Wrap adapts a RuntimeContext handler into a cobra RunE, adding panic
// recovery, span lifecycle and error classification.
func Wrap(fn func(rc *cliio.RuntimeContext, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		logger.InitFallback()

		rc := cliio.NewContext(context.Background(), cmd.Name())
		defer rc.End(&err)

		defer func() {
			if r := recover(); r != nil {
				err = cerr.AssertionFailedf("panic: %v", r)
				rc.Log.Error("Panic recovered", zap.Any("panic", r))
			}
		}()

		err = fn(rc, cmd, args)
		if err != nil && !clierr.IsExpectedUserError(err) {
			err = cerr.WithStack(err)
		}
		return err
	}
}
