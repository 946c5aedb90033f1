// cmd/schema/validate.go

package schema

import (
	"github.com/connectorops/noticesync/pkg/cli"
	"github.com/connectorops/noticesync/pkg/clierr"
	"github.com/connectorops/noticesync/pkg/cliio"
	"github.com/connectorops/noticesync/pkg/connconfig"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

var validateCmd = &cobra.Command{
	Use:   "validate <schema.json>",
	Short: "Validate a connection-configuration schema document",
	Long: `Checks the document's structural invariants: known field types and display
hints, options only on dropdown fields, and depends_on rules that reference
fields existing in the same schema. All violations are reported, not just
the first.`,
	Args: cobra.ExactArgs(1),
	RunE: cli.Wrap(runValidate),
}

func runValidate(rc *cliio.RuntimeContext, cmd *cobra.Command, args []string) error {
	log := otelzap.Ctx(rc.Ctx)
	path := args[0]

	s, err := connconfig.Load(path)
	if err != nil {
		return clierr.NewValidationError("failed to load schema: "+err.Error(),
			"Check that the file exists and is a JSON object with a top-level \"configuration\" key")
	}

	if err := s.Validate(); err != nil {
		return clierr.NewValidationError("schema validation failed: " + err.Error())
	}

	log.Info("Schema is valid",
		zap.String("file", path),
		zap.Int("fields", len(s.Configuration)))
	return nil
}
