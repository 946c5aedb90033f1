// pkg/connconfig/validate.go

package connconfig

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

var knownTypes = map[FieldType]bool{
	TypeString:  true,
	TypeInteger: true,
	TypeList:    true,
	TypeBool:    true,
}

var knownDisplays = map[Display]bool{
	DisplayText:     true,
	DisplayNumeric:  true,
	DisplayDropdown: true,
	DisplayTextarea: true,
	DisplayToggle:   true,
}

// Validate checks the schema's structural invariants and aggregates every
// violation rather than stopping at the first:
//   - field types and display hints must be known
//   - options are only meaningful on dropdown fields
//   - every depends_on rule must reference a field that exists in the
//     same schema
func (s *Schema) Validate() error {
	var result *multierror.Error

	for _, nf := range s.Fields() {
		name, f := nf.Name, nf.Field

		if f.Label == "" {
			result = multierror.Append(result,
				fmt.Errorf("field %q: missing label", name))
		}
		if !knownTypes[f.Type] {
			result = multierror.Append(result,
				fmt.Errorf("field %q: unknown type %q", name, f.Type))
		}
		if f.Display != "" && !knownDisplays[f.Display] {
			result = multierror.Append(result,
				fmt.Errorf("field %q: unknown display %q", name, f.Display))
		}
		if len(f.Options) > 0 && f.Display != DisplayDropdown {
			result = multierror.Append(result,
				fmt.Errorf("field %q: options require display %q, got %q",
					name, DisplayDropdown, f.Display))
		}
		if f.Display == DisplayDropdown && len(f.Options) == 0 {
			result = multierror.Append(result,
				fmt.Errorf("field %q: dropdown field has no options", name))
		}
		if f.Order < 0 {
			result = multierror.Append(result,
				fmt.Errorf("field %q: negative order %d", name, f.Order))
		}

		for _, dep := range f.DependsOn {
			if dep.Field == "" {
				result = multierror.Append(result,
					fmt.Errorf("field %q: depends_on rule with empty field reference", name))
				continue
			}
			if _, ok := s.Configuration[dep.Field]; !ok {
				result = multierror.Append(result,
					fmt.Errorf("field %q: depends_on references unknown field %q", name, dep.Field))
			}
		}
	}

	return result.ErrorOrNil()
}
