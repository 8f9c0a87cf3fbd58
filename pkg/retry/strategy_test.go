package retry

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/bloom-commerce/bloom-server/pkg/retry/backoff"
)

type testSleeper struct {
	sleepTimes []time.Duration
}

func (t *testSleeper) Sleep(d time.Duration) {
	t.sleepTimes = append(t.sleepTimes, d)
}

func TestLimit(t *testing.T) {
	strategy := Limit(2)

	// One iteration has been executed. Try again.
	assert.True(t, strategy(1, errors.New("test")))
	// Two iterations have been executed. Do not try again.
	assert.False(t, strategy(2, errors.New("test")))

	counter, err := Retry(func() error {
		return errors.New("test")
	}, Limit(2))

	assert.EqualError(t, err, "test")
	assert.Equal(t, uint(2), counter)
}

func TestRetriableErrors(t *testing.T) {
	retriableErrors := []error{
		errors.New("retriableA"),
		errors.New("retriableB"),
		errors.New("retriableC"),
	}

	strategy := RetriableErrors(retriableErrors...)
	for _, err := range retriableErrors {
		assert.True(t, strategy(1, err))
		// Ensure wrapped errors are detected.
		assert.True(t, strategy(1, errors.Wrap(err, "wrapper")))
	}
	assert.False(t, strategy(2, errors.New("unexpected")))
}

func TestNonRetriableErrors(t *testing.T) {
	nonRetriableErrors := []error{
		errors.New("nonRetriableA"),
		errors.New("nonRetriableB"),
		errors.New("nonRetriableC"),
	}

	strategy := NonRetriableErrors(nonRetriableErrors...)
	for _, err := range nonRetriableErrors {
		assert.False(t, strategy(1, err))
		// Ensure wrapped errors are detected.
		assert.False(t, strategy(1, errors.Wrap(err, "wrapper")))
	}
	assert.True(t, strategy(2, errors.New("unexpected")))
}

func TestBackoff(t *testing.T) {
	ts := &testSleeper{}
	sleeperImpl = ts
	defer func() { sleeperImpl = &realSleeper{} }()

	strategy := Backoff(backoff.Linear(time.Second), 2*time.Second)

	for i := uint(1); i <= 4; i++ {
		assert.True(t, strategy(i, errors.New("test")))
	}

	// The backoff is capped at 2s after the second attempt.
	assert.Equal(t, []time.Duration{
		1 * time.Second,
		2 * time.Second,
		2 * time.Second,
		2 * time.Second,
	}, ts.sleepTimes)
}

func TestBackoffWithJitter(t *testing.T) {
	ts := &testSleeper{}
	sleeperImpl = ts
	defer func() { sleeperImpl = &realSleeper{} }()

	strategy := BackoffWithJitter(backoff.Constant(time.Second), 2*time.Second, 0.25)

	for i := uint(1); i <= 16; i++ {
		assert.True(t, strategy(i, errors.New("test")))
	}

	for _, d := range ts.sleepTimes {
		assert.True(t, d >= 750*time.Millisecond)
		assert.True(t, d <= 1250*time.Millisecond)
	}
}
