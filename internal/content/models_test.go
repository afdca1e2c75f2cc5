package content

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList_NilEncodesAsEmptyArray(t *testing.T) {
	b, err := json.Marshal(Project{})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"plantSpecies":[]`)
}

func TestStringList_Scan(t *testing.T) {
	var s StringList
	require.NoError(t, s.Scan([]byte(`["Neem","Banyan"]`)))
	assert.Equal(t, StringList{"Neem", "Banyan"}, s)

	require.NoError(t, s.Scan(`["Ashoka"]`))
	assert.Equal(t, StringList{"Ashoka"}, s)

	assert.Error(t, s.Scan(42))
}

func TestContact_ValueScan(t *testing.T) {
	in := Contact{Phone: "+91 99999", Email: "info@example.com", Address: "Hyderabad"}
	v, err := in.Value()
	require.NoError(t, err)

	var out Contact
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"plain":   "plain",
		"100%":    `100\%`,
		"a_b":     `a\_b`,
		`back\sl`: `back\\sl`,
	}
	for in, want := range tests {
		assert.Equal(t, want, escapeLike(in), in)
	}
}

func TestMapPgError(t *testing.T) {
	badUUID := &pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation}
	assert.ErrorIs(t, mapPgError(badUUID, "get project"), ErrNotFound)

	other := errors.New("boom")
	err := mapPgError(other, "get project")
	assert.ErrorIs(t, err, other)
	assert.Contains(t, err.Error(), "get project")
}
