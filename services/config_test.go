package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOptionsMissing(t *testing.T) {
	_, err := validateOptions("gameOptions", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gameOptions is required")
}

func TestValidateOptionsEmptyList(t *testing.T) {
	empty := []string{}
	_, err := validateOptions("locationOptions", &empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be empty")
}

func TestValidateOptionsBlankEntry(t *testing.T) {
	values := []string{"Westlands", "   "}
	_, err := validateOptions("locationOptions", &values)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty entries")
}

func TestValidateOptionsTrims(t *testing.T) {
	values := []string{"  Karen ", "Kilimani"}
	cleaned, err := validateOptions("locationOptions", &values)
	require.NoError(t, err)
	assert.Equal(t, []string{"Karen", "Kilimani"}, cleaned)
}
