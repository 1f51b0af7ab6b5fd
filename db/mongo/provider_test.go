package mongo

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderReadsEnvironment(t *testing.T) {
	t.Setenv("MONGO_DB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DB_NAME", "fooddb")

	provider, err := NewProvider(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", provider.connectionURI)
	assert.Equal(t, "fooddb", provider.databaseName)
	assert.Nil(t, provider.client)
}

func TestNewProviderRequiresDatabaseName(t *testing.T) {
	t.Setenv("MONGO_DB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DB_NAME", "")
	os.Unsetenv("MONGO_DB_NAME")

	_, err := NewProvider(zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_DB_NAME")
}
