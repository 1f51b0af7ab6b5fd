package env

import (
	"testing"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("FOODDB_TEST_VALUE", "hello")

	value, err := GetEnv("test value", "FOODDB_TEST_VALUE")
	require.NoError(t, err)
	assert.Equal(t, "hello", value)

	_, err = GetEnv("missing value", "FOODDB_TEST_MISSING")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOODDB_TEST_MISSING")
}

func TestGetIntEnv(t *testing.T) {
	t.Setenv("FOODDB_TEST_INT", "25")
	t.Setenv("FOODDB_TEST_BAD_INT", "many")

	value, err := GetIntEnv("test int", "FOODDB_TEST_INT")
	require.NoError(t, err)
	assert.Equal(t, 25, value)

	_, err = GetIntEnv("bad int", "FOODDB_TEST_BAD_INT")
	assert.Error(t, err)

	value, err = GetIntEnvDefault("default int", "FOODDB_TEST_UNSET_INT", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, value)
}

func TestGetDurationEnv(t *testing.T) {
	t.Setenv("FOODDB_TEST_DURATION", "90s")

	value, err := GetDurationEnv("test duration", "FOODDB_TEST_DURATION")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, value)

	value, err = GetDurationEnvDefault("unset duration", "FOODDB_TEST_UNSET_DURATION", 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, value)

	t.Setenv("FOODDB_TEST_BAD_DURATION", "soon")
	_, err = GetDurationEnvDefault("bad duration", "FOODDB_TEST_BAD_DURATION", time.Second)
	assert.Error(t, err)
}

func TestGetBytesEnv(t *testing.T) {
	t.Setenv("FOODDB_TEST_SIZE", "64MB")
	t.Setenv("FOODDB_TEST_BAD_SIZE", "lots")

	value, err := GetBytesEnv("test size", "FOODDB_TEST_SIZE")
	require.NoError(t, err)
	assert.Equal(t, 64*datasize.MB, value)

	_, err = GetBytesEnv("bad size", "FOODDB_TEST_BAD_SIZE")
	assert.Error(t, err)

	value, err = GetBytesEnvDefault("default size", "FOODDB_TEST_UNSET_SIZE", datasize.KB)
	require.NoError(t, err)
	assert.Equal(t, datasize.KB, value)
}

func TestGetEnvDefault(t *testing.T) {
	t.Setenv("FOODDB_TEST_BLANK", "  ")

	assert.Equal(t, "fallback", GetEnvDefault("FOODDB_TEST_BLANK", "fallback"))
	assert.Equal(t, "fallback", GetEnvDefault("FOODDB_TEST_UNSET", "fallback"))
}
