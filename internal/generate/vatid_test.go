package generate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/eu-einvoice/internal/generate"
)

func TestNormalizeVATID(t *testing.T) {
	got, err := generate.NormalizeVATID("DE 123 456 789")
	require.NoError(t, err)
	assert.Equal(t, "DE123456789", got)

	got, err = generate.NormalizeVATID("atU12345678")
	require.NoError(t, err)
	assert.Equal(t, "ATU12345678", got)

	// group suffixes with + and * are allowed
	got, err = generate.NormalizeVATID("IE1234567T+1")
	require.NoError(t, err)
	assert.Equal(t, "IE1234567T+1", got)
}

func TestNormalizeVATIDRejectsInvalid(t *testing.T) {
	for _, id := range []string{
		"",
		"D",
		"D1123456789",
		"DE",
		"DE12345/6789",
		"DE1234567890123",
	} {
		_, err := generate.NormalizeVATID(id)
		assert.Error(t, err, "id %q", id)
	}
}
