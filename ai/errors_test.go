package ai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRateLimit(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.False(t, IsRateLimit(nil))
	})

	t.Run("wrapped sentinel", func(t *testing.T) {
		err := fmt.Errorf("summary call failed: %w", ErrRateLimited)
		assert.True(t, IsRateLimit(err))
	})

	t.Run("http 429 text", func(t *testing.T) {
		assert.True(t, IsRateLimit(errors.New("API returned unexpected status code: 429")))
	})

	t.Run("resource exhausted text", func(t *testing.T) {
		assert.True(t, IsRateLimit(errors.New("rpc error: code = ResourceExhausted desc = Resource exhausted")))
	})

	t.Run("quota text", func(t *testing.T) {
		assert.True(t, IsRateLimit(errors.New("you have exceeded your current quota")))
	})

	t.Run("generic error", func(t *testing.T) {
		assert.False(t, IsRateLimit(errors.New("connection refused")))
	})
}
