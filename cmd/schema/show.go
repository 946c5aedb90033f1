// cmd/schema/show.go

package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"github.com/connectorops/noticesync/pkg/cli"
	"github.com/connectorops/noticesync/pkg/clierr"
	"github.com/connectorops/noticesync/pkg/cliio"
	"github.com/connectorops/noticesync/pkg/connconfig"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <schema.json>",
	Short: "Render a schema's fields in display order, with sensitive values masked",
	Args:  cobra.ExactArgs(1),
	RunE:  cli.Wrap(runShow),
}

func init() {
	cli.AddBoolFlag(showCmd, "json", "", false, "Emit the redacted document as JSON")
	cli.AddBoolFlag(showCmd, "all", "a", false, "Include fields hidden by depends_on rules")
}

func runShow(rc *cliio.RuntimeContext, cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	showAll, _ := cmd.Flags().GetBool("all")

	s, err := connconfig.Load(args[0])
	if err != nil {
		return clierr.NewValidationError("failed to load schema: " + err.Error())
	}

	redacted := s.Redacted()

	if asJSON {
		data, err := json.MarshalIndent(redacted, "", "  ")
		if err != nil {
			return cerr.Wrap(err, "encode redacted schema")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out := cmd.OutOrStdout()
	for _, nf := range redacted.Fields() {
		if !showAll && !nf.IsVisible(redacted) {
			continue
		}

		var notes []string
		if nf.Sensitive {
			notes = append(notes, "sensitive")
		}
		if len(nf.UIRestrictions) > 0 {
			notes = append(notes, strings.Join(nf.UIRestrictions, ","))
		}
		if !nf.IsRequired() {
			notes = append(notes, "optional")
		}
		suffix := ""
		if len(notes) > 0 {
			suffix = " [" + strings.Join(notes, ", ") + "]"
		}

		value := nf.EffectiveValue()
		if value == nil {
			value = ""
		}
		fmt.Fprintf(out, "%3d. %-30s %-5s = %v%s\n", nf.Order, nf.Name, nf.Type, value, suffix)
	}
	return nil
}
