package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRelations(t *testing.T) {
	assert.NoError(t, ValidateRelations("user", []string{"Role", "SocialNetworks"}))
	assert.NoError(t, ValidateRelations("role", nil))

	assert.Error(t, ValidateRelations("user", []string{"Permissions"}))
	assert.Error(t, ValidateRelations("invoice", []string{"Role"}))
}

func TestParseRelations(t *testing.T) {
	assert.Nil(t, ParseRelations(""))
	assert.Equal(t, []string{"Role"}, ParseRelations("Role"))
	assert.Equal(t, []string{"Role", "SocialNetworks"}, ParseRelations("Role, SocialNetworks,"))
}
