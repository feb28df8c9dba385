package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_RequiresNATSURLWhenEnabled(t *testing.T) {
	cfg := &Config{ServerPort: "3000", EnableNATS: true, NATSURL: ""}

	err := cfg.Validate()

	assert.Error(t, err)
}

func TestValidate_PassesWithDisabledOptionalCollaborators(t *testing.T) {
	cfg := &Config{ServerPort: "3000"}

	assert.NoError(t, cfg.Validate())
}

func TestValidate_RequiresServerPort(t *testing.T) {
	cfg := &Config{}

	assert.Error(t, cfg.Validate())
}
