package config

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUniqueInstance(t *testing.T) {
	id := CreateUniqueInstance("game")

	parsed, err := uuid.FromString(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.V4, parsed.Version())

	assert.Equal(t, id, GetInstanceId())

	// each boot gets its own identifier
	assert.NotEqual(t, id, CreateUniqueInstance("game"))
}
