package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// step is one Record call and the expected outcome.
type step struct {
	fail      bool
	healthy   bool // RecordSuccess's first return; for failures, whether the caller should NOT fall back
	opened    bool
	closed    bool
	wantState State
}

func TestBreaker_Transitions(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		steps []step
	}{
		{
			name: "opens on the threshold failure",
			opts: []Option{WithFailureThreshold(3)},
			steps: []step{
				{fail: true, healthy: true, wantState: StateClosed},
				{fail: true, healthy: true, wantState: StateClosed},
				{fail: true, opened: true, wantState: StateOpen},
				{fail: true, wantState: StateOpen},
			},
		},
		{
			name: "success clears the failure run",
			opts: []Option{WithFailureThreshold(2)},
			steps: []step{
				{fail: true, healthy: true, wantState: StateClosed},
				{healthy: true, wantState: StateClosed},
				{fail: true, healthy: true, wantState: StateClosed},
				{fail: true, opened: true, wantState: StateOpen},
			},
		},
		{
			name: "closes after consecutive successes",
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			steps: []step{
				{fail: true, opened: true, wantState: StateOpen},
				{wantState: StateOpen},
				{healthy: true, closed: true, wantState: StateClosed},
			},
		},
		{
			name: "failure while open restarts the success run",
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			steps: []step{
				{fail: true, opened: true, wantState: StateOpen},
				{wantState: StateOpen},
				{fail: true, wantState: StateOpen},
				{wantState: StateOpen},
				{healthy: true, closed: true, wantState: StateClosed},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("research", tt.opts...)
			for i, s := range tt.steps {
				if s.fail {
					unavailable, change := b.RecordFailure()
					assert.Equal(t, !s.healthy, unavailable, "step %d", i)
					assert.Equal(t, s.opened, change.Opened, "step %d", i)
				} else {
					healthy, change := b.RecordSuccess()
					assert.Equal(t, s.healthy, healthy, "step %d", i)
					assert.Equal(t, s.closed, change.Closed, "step %d", i)
				}
				require.Equal(t, s.wantState, b.State(), "step %d", i)
			}
		})
	}
}

func TestBreaker_Defaults(t *testing.T) {
	b := New("swift_directory")
	assert.Equal(t, "swift_directory", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())

	for range 4 {
		b.RecordFailure()
	}
	assert.False(t, b.IsOpen(), "default threshold is five")
	b.RecordFailure()
	assert.True(t, b.IsOpen())
}

func TestBreaker_CooldownGatesProbes(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b := New("geocoding",
		WithFailureThreshold(1),
		WithCooldown(10*time.Second),
		WithClock(func() time.Time { return now }),
	)

	b.RecordFailure()
	assert.False(t, b.Allow())

	now = now.Add(9 * time.Second)
	assert.False(t, b.Allow())

	now = now.Add(time.Second)
	assert.True(t, b.Allow(), "probe allowed once cooldown elapses")

	b.RecordFailure()
	assert.False(t, b.Allow(), "failed probe restarts the cooldown")
}

func TestBreaker_Reset(t *testing.T) {
	b := New("research", WithFailureThreshold(1))
	b.RecordFailure()
	require.True(t, b.IsOpen())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())

	unavailable, change := b.RecordFailure()
	assert.True(t, unavailable, "counters were cleared, threshold of one opens again")
	assert.True(t, change.Opened)
}

func TestBreaker_IgnoresNonPositiveOptions(t *testing.T) {
	b := New("research", WithFailureThreshold(0), WithSuccessThreshold(-1), WithCooldown(0), WithClock(nil))
	assert.Equal(t, 5, b.failureThreshold)
	assert.Equal(t, 2, b.successThreshold)
	assert.Equal(t, 30*time.Second, b.cooldown)
	assert.NotNil(t, b.now)
}
