/* cmd/root.go */

package cmd

import (
	"fmt"
	"os"

	schemacmd "github.com/connectorops/noticesync/cmd/schema"
	synccmd "github.com/connectorops/noticesync/cmd/sync"
	"github.com/connectorops/noticesync/pkg/cli"
	"github.com/connectorops/noticesync/pkg/clierr"
	"github.com/connectorops/noticesync/pkg/cliio"
	"github.com/connectorops/noticesync/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd is the base command for noticesync.
var RootCmd = &cobra.Command{
	Use:   "noticesync",
	Short: "CI tooling for NOTICE attribution files and connector configuration schemas",
	Long: `noticesync keeps a repository's generated NOTICE file in sync with its
originating pull request, and validates the connection-configuration schema
documents shipped with connectors.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: cli.Wrap(func(rc *cliio.RuntimeContext, cmd *cobra.Command, args []string) error {
		return cmd.Help()
	}),
}

// RegisterCommands adds all subcommands to the root command.
func RegisterCommands() {
	for _, subCmd := range []*cobra.Command{
		synccmd.SyncCmd,
		schemacmd.SchemaCmd,
	} {
		RootCmd.AddCommand(subCmd)
	}
}

// Execute initializes and runs the root command, mapping errors onto the
// documented exit codes.
func Execute() {
	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to flush logs: %v\n", err)
		}
	}()

	// Local development convenience; CI sets real env vars.
	if err := godotenv.Load(); err == nil {
		logger.L().Debug("Loaded environment from .env file")
	}

	RegisterCommands()

	if err := RootCmd.Execute(); err != nil {
		code := clierr.GetExitCode(err)
		if clierr.IsExpectedUserError(err) {
			logger.L().Warn("CLI completed", zap.Error(err), zap.Int("exit_code", code))
		} else {
			logger.L().Error("CLI execution error", zap.Error(err), zap.Int("exit_code", code))
		}
		if flushErr := logger.Sync(); flushErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to flush logs: %v\n", flushErr)
		}
		os.Exit(code)
	}
}
