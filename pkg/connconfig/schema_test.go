// pkg/connconfig/schema_test.go

package connconfig

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalSchema = `{
  "configuration": {
    "host": {"label": "Host", "order": 1, "type": "str", "value": "db.local"},
    "port": {"label": "Port", "order": 2, "type": "int", "display": "numeric", "value": 1521, "default_value": 1521},
    "password": {"label": "Password", "order": 3, "type": "str", "sensitive": true, "value": "hunter2"},
    "connection_source": {
      "label": "Connection Source", "order": 4, "type": "str", "display": "dropdown",
      "options": [{"label": "SID", "value": "sid"}, {"label": "Service Name", "value": "service_name"}],
      "value": "sid"
    },
    "sid": {
      "label": "SID", "order": 5, "type": "str", "value": "",
      "depends_on": [{"field": "connection_source", "value": "sid"}]
    },
    "service_name": {
      "label": "Service Name", "order": 6, "type": "str", "value": "",
      "depends_on": [{"field": "connection_source", "value": "service_name"}]
    },
    "fetch_size": {
      "label": "Fetch size", "order": 7, "type": "int", "display": "numeric",
      "required": false, "value": "", "default_value": 50,
      "ui_restrictions": ["advanced"]
    }
  }
}`

func TestParseRejectsMissingConfigurationKey(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`{"fields": {}}`))
	require.Error(t, err)

	_, err = Parse([]byte(`not json`))
	require.Error(t, err)
}

func TestFieldsAreOrdered(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(minimalSchema))
	require.NoError(t, err)

	fields := s.Fields()
	require.Len(t, fields, 7)

	var names []string
	for _, f := range fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"host", "port", "password", "connection_source",
		"sid", "service_name", "fetch_size",
	}, names)
}

func TestFieldsOrderTiesBrokenByName(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(`{
	  "configuration": {
	    "zeta": {"label": "Z", "type": "str", "value": ""},
	    "alpha": {"label": "A", "type": "str", "value": ""}
	  }
	}`))
	require.NoError(t, err)

	fields := s.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "alpha", fields[0].Name)
	assert.Equal(t, "zeta", fields[1].Name)
}

func TestRedactedMasksSensitiveValues(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(minimalSchema))
	require.NoError(t, err)

	redacted := s.Redacted()

	pw, ok := redacted.Field("password")
	require.True(t, ok)
	assert.Equal(t, SensitiveMask, pw.Value)

	// Non-sensitive fields keep their values.
	host, ok := redacted.Field("host")
	require.True(t, ok)
	assert.Equal(t, "db.local", host.Value)

	// The original schema is untouched.
	orig, _ := s.Field("password")
	assert.Equal(t, "hunter2", orig.Value)
}

func TestIsVisibleResolvesDependsOn(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(minimalSchema))
	require.NoError(t, err)

	sid, _ := s.Field("sid")
	serviceName, _ := s.Field("service_name")
	host, _ := s.Field("host")

	assert.True(t, host.IsVisible(s), "fields without rules are always visible")
	assert.True(t, sid.IsVisible(s), "connection_source is sid")
	assert.False(t, serviceName.IsVisible(s))

	// Flip the selector and visibility follows.
	cs, _ := s.Field("connection_source")
	cs.Value = "service_name"
	assert.False(t, sid.IsVisible(s))
	assert.True(t, serviceName.IsVisible(s))
}

func TestIsVisibleWithMissingReferenceHides(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(`{
	  "configuration": {
	    "orphan": {
	      "label": "Orphan", "type": "str", "value": "",
	      "depends_on": [{"field": "ghost", "value": "x"}]
	    }
	  }
	}`))
	require.NoError(t, err)

	orphan, _ := s.Field("orphan")
	assert.False(t, orphan.IsVisible(s))
}

func TestEffectiveValueFallsBackToDefault(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(minimalSchema))
	require.NoError(t, err)

	fetchSize, _ := s.Field("fetch_size")
	assert.Equal(t, float64(50), fetchSize.EffectiveValue())

	host, _ := s.Field("host")
	assert.Equal(t, "db.local", host.EffectiveValue())
}

func TestIsRequiredDefaultsToTrue(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(minimalSchema))
	require.NoError(t, err)

	host, _ := s.Field("host")
	assert.True(t, host.IsRequired())

	fetchSize, _ := s.Field("fetch_size")
	assert.False(t, fetchSize.IsRequired())
}

func TestShippedOracleSchemaIsValid(t *testing.T) {
	t.Parallel()

	s, err := Load(filepath.Join("..", "..", "config", "oracle.json"))
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	// The SID/service-name selection must be conditional.
	sid, ok := s.Field("sid")
	require.True(t, ok)
	assert.True(t, sid.IsVisible(s), "default connection source is sid")

	serviceName, ok := s.Field("service_name")
	require.True(t, ok)
	assert.False(t, serviceName.IsVisible(s))

	pw, ok := s.Field("password")
	require.True(t, ok)
	assert.True(t, pw.Sensitive)
}
