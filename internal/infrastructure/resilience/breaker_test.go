package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func run(b *Breaker, success bool) error {
	return b.Execute(func() error {
		if success {
			return nil
		}
		return errBoom
	})
}

func TestBreakerStaysClosedOnSuccess(t *testing.T) {
	b := New("test", Settings{})

	for i := 0; i < 10; i++ {
		require.NoError(t, run(b, true))
	}
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	b := New("test", Settings{
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, run(b, false), errBoom)
	}
	assert.Equal(t, StateOpen, b.State())

	// Open breaker rejects without invoking the function.
	called := false
	err := b.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerHalfOpenRecovery(t *testing.T) {
	b := New("test", Settings{
		MaxRequests: 2,
		Timeout:     10 * time.Millisecond,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
	})

	require.Error(t, run(b, false))
	require.Equal(t, StateOpen, b.State())

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, run(b, true))
	require.NoError(t, run(b, true))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b := New("test", Settings{
		Timeout: 10 * time.Millisecond,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
	})

	require.Error(t, run(b, false))
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, StateHalfOpen, b.State())

	require.Error(t, run(b, false))
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerCounts(t *testing.T) {
	b := New("test", Settings{})

	require.NoError(t, run(b, true))
	require.NoError(t, run(b, true))
	require.Error(t, run(b, false))

	counts := b.Counts()
	assert.Equal(t, uint32(3), counts.Requests)
	assert.Equal(t, uint32(2), counts.TotalSuccesses)
	assert.Equal(t, uint32(1), counts.TotalFailures)
	assert.Equal(t, uint32(1), counts.ConsecutiveFailures)
}

func TestBreakerStateChangeCallback(t *testing.T) {
	var transitions []string
	b := New("test", Settings{
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, from.String()+">"+to.String())
		},
	})

	require.Error(t, run(b, false))
	assert.Equal(t, []string{"closed>open"}, transitions)
}

func TestBreakerPanicCountsAsFailure(t *testing.T) {
	b := New("test", Settings{
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
	})

	assert.Panics(t, func() {
		_ = b.Execute(func() error {
			panic("kaboom")
		})
	})
	assert.Equal(t, StateOpen, b.State())
}
