// cmd/schema/schema.go

package schema

import (
	"github.com/spf13/cobra"
)

// SchemaCmd groups the connection-configuration schema tooling.
var SchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect and validate connection-configuration schemas",
	Long: `Connection-configuration schemas are declarative JSON documents describing
a connector's settings form: field labels, ordering, types, defaults,
sensitivity, display hints and conditional visibility. These commands load,
validate and render such documents.`,
}

func init() {
	SchemaCmd.AddCommand(validateCmd)
	SchemaCmd.AddCommand(showCmd)
}
