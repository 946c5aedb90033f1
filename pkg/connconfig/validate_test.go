// pkg/connconfig/validate_test.go

package connconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, doc string) *Schema {
	t.Helper()
	s, err := Parse([]byte(doc))
	require.NoError(t, err)
	return s
}

func TestValidateAcceptsWellFormedSchema(t *testing.T) {
	t.Parallel()

	s := mustParse(t, minimalSchema)
	assert.NoError(t, s.Validate())
}

func TestValidateRejectsUnknownType(t *testing.T) {
	t.Parallel()

	s := mustParse(t, `{
	  "configuration": {
	    "host": {"label": "Host", "type": "varchar", "value": ""}
	  }
	}`)

	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown type "varchar"`)
}

func TestValidateRejectsDanglingDependsOn(t *testing.T) {
	t.Parallel()

	s := mustParse(t, `{
	  "configuration": {
	    "sid": {
	      "label": "SID", "type": "str", "value": "",
	      "depends_on": [{"field": "connection_source", "value": "sid"}]
	    }
	  }
	}`)

	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `depends_on references unknown field "connection_source"`)
}

func TestValidateRejectsOptionsWithoutDropdown(t *testing.T) {
	t.Parallel()

	s := mustParse(t, `{
	  "configuration": {
	    "proto": {
	      "label": "Protocol", "type": "str", "value": "TCP",
	      "options": [{"label": "TCP", "value": "TCP"}]
	    }
	  }
	}`)

	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "options require display")
}

func TestValidateRejectsDropdownWithoutOptions(t *testing.T) {
	t.Parallel()

	s := mustParse(t, `{
	  "configuration": {
	    "proto": {"label": "Protocol", "type": "str", "display": "dropdown", "value": "TCP"}
	  }
	}`)

	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dropdown field has no options")
}

func TestValidateAggregatesAllViolations(t *testing.T) {
	t.Parallel()

	s := mustParse(t, `{
	  "configuration": {
	    "a": {"label": "", "type": "varchar", "value": ""},
	    "b": {
	      "label": "B", "type": "str", "value": "",
	      "depends_on": [{"field": "ghost", "value": "x"}, {"field": "", "value": "y"}]
	    }
	  }
	}`)

	err := s.Validate()
	require.Error(t, err)

	// missing label + unknown type + dangling reference + empty reference
	assert.Contains(t, err.Error(), "missing label")
	assert.Contains(t, err.Error(), "unknown type")
	assert.Contains(t, err.Error(), `unknown field "ghost"`)
	assert.Contains(t, err.Error(), "empty field reference")
}
