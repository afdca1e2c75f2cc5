package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_IsParseable(t *testing.T) {
	a, b := New(), New()
	assert.NotEqual(t, a, b)

	parsed, ok := Parse(a.String())
	assert.True(t, ok)
	assert.Equal(t, a, parsed)
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{"", "not-an-id", "507f1f77bcf86cd799439011"} {
		_, ok := Parse(in)
		assert.False(t, ok, in)
	}
}

func TestParse_Normalizes(t *testing.T) {
	parsed, ok := Parse("6BA7B810-9DAD-11D1-80B4-00C04FD430C8")
	assert.True(t, ok)
	assert.Equal(t, PublicID("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), parsed)
}
