package algodClient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func TestNewLimiter_Unlimited(t *testing.T) {
	l := newLimiter(&Config{})
	assert.Equal(t, rate.Inf, l.Limit())
}

func TestNewLimiter_DefaultBurst(t *testing.T) {
	l := newLimiter(&Config{RequestsPerSecond: 2.5})
	assert.Equal(t, rate.Limit(2.5), l.Limit())
	assert.Equal(t, 3, l.Burst())
}

func TestNewLimiter_ExplicitBurst(t *testing.T) {
	l := newLimiter(&Config{RequestsPerSecond: 10, Burst: 4})
	assert.Equal(t, 4, l.Burst())
}

func TestAlgodClient_SuggestedParams_CancelledWhileThrottled(t *testing.T) {
	c, err := NewAlgodClient(&Config{
		URL:               "http://localhost:4001",
		Token:             "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		RequestsPerSecond: 0.001,
		Burst:             1,
	}, zap.NewNop())
	require.NoError(t, err)

	// drain the single token so the next call must wait far longer than the deadline
	require.True(t, c.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = c.SuggestedParams(ctx)
	assert.Error(t, err)
}
