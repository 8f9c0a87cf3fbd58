package env

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvConfig(t *testing.T) {
	t.Setenv("BLOOM_TEST_DURATION", "30s")
	t.Setenv("BLOOM_TEST_STRING", "hello")

	assert.Equal(t, 30*time.Second, NewDurationConfig("BLOOM_TEST_DURATION", time.Minute).Get(context.Background()))
	assert.Equal(t, "hello", NewStringConfig("BLOOM_TEST_STRING", "fallback").Get(context.Background()))

	// Unset values fall back to defaults
	assert.Equal(t, time.Minute, NewDurationConfig("BLOOM_TEST_UNSET", time.Minute).Get(context.Background()))
	assert.Equal(t, uint64(42), NewUint64Config("BLOOM_TEST_UNSET", 42).Get(context.Background()))
	assert.True(t, NewBoolConfig("BLOOM_TEST_UNSET", true).Get(context.Background()))
}
