package trivia

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingGenerate tracks which topics ran together and when.
type recordingGenerate struct {
	mu     sync.Mutex
	starts map[string]time.Time
	fail   map[string]bool
}

func newRecordingGenerate(failTopics ...string) *recordingGenerate {
	fail := map[string]bool{}
	for _, t := range failTopics {
		fail[t] = true
	}
	return &recordingGenerate{starts: map[string]time.Time{}, fail: fail}
}

func (r *recordingGenerate) generate(_ context.Context, req Request) Outcome {
	r.mu.Lock()
	r.starts[req.Topic] = time.Now()
	r.mu.Unlock()

	if r.fail[req.Topic] {
		return Outcome{Set: fallbackSet(req.Topic), Fallback: true, Err: errors.New("synthetic failure")}
	}
	return Outcome{Set: fallbackSet(req.Topic)}
}

func requestsFor(topics ...string) []Request {
	reqs := make([]Request, 0, len(topics))
	for _, t := range topics {
		reqs = append(reqs, Request{Topic: t})
	}
	return reqs
}

func TestSchedulerGroupsOfTwoWithCooldown(t *testing.T) {
	rec := newRecordingGenerate()
	delay := 50 * time.Millisecond
	sched := NewScheduler(rec.generate, 2, delay, NopMetrics(), zerolog.New(io.Discard))

	started := time.Now()
	result := sched.Run(context.Background(), requestsFor("a", "b", "c", "d", "e"), nil)
	elapsed := time.Since(started)

	require.Len(t, result.Sets, 5)
	assert.Empty(t, result.Errors)
	// Three groups: {a,b} {c,d} {e} with two cooldowns between them.
	assert.GreaterOrEqual(t, elapsed, 2*delay)

	// Group boundaries: c and d start after both a and b, e after c and d.
	for _, later := range []string{"c", "d"} {
		for _, earlier := range []string{"a", "b"} {
			assert.True(t, rec.starts[later].After(rec.starts[earlier]),
				"%s must start after %s", later, earlier)
		}
	}
	for _, earlier := range []string{"c", "d"} {
		assert.True(t, rec.starts["e"].After(rec.starts[earlier]))
	}
}

func TestSchedulerFailureIsolation(t *testing.T) {
	rec := newRecordingGenerate("b")
	sched := NewScheduler(rec.generate, 2, 0, NopMetrics(), zerolog.New(io.Discard))

	result := sched.Run(context.Background(), requestsFor("a", "b", "c"), nil)

	require.Len(t, result.Sets, 3, "a failure never drops its siblings or later groups")
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "b:")
	assert.Equal(t, SourceFallback, result.Sets["b"][0].Source)
}

func TestSchedulerEmptyRun(t *testing.T) {
	rec := newRecordingGenerate()
	sched := NewScheduler(rec.generate, 2, time.Second, NopMetrics(), zerolog.New(io.Discard))

	started := time.Now()
	result := sched.Run(context.Background(), nil, nil)

	assert.Empty(t, result.Sets)
	assert.Less(t, time.Since(started), 100*time.Millisecond, "no cooldown without groups")
}

func TestSchedulerSingleGroupNoCooldown(t *testing.T) {
	rec := newRecordingGenerate()
	sched := NewScheduler(rec.generate, 2, time.Second, NopMetrics(), zerolog.New(io.Discard))

	started := time.Now()
	sched.Run(context.Background(), requestsFor("a", "b"), nil)

	assert.Less(t, time.Since(started), 500*time.Millisecond)
}

func TestSchedulerReportsProgressPerGroup(t *testing.T) {
	rec := newRecordingGenerate("c")
	sched := NewScheduler(rec.generate, 2, 0, NopMetrics(), zerolog.New(io.Discard))

	var progress [][2]int
	result := sched.Run(context.Background(), requestsFor("a", "b", "c", "d", "e"), func(completed, total int) {
		progress = append(progress, [2]int{completed, total})
	})

	assert.Equal(t, [][2]int{{2, 5}, {4, 5}, {5, 5}}, progress)
	assert.Equal(t, []string{"c"}, result.FailedTopics)
}

func TestSchedulerCancelledContextCutsCooldownShort(t *testing.T) {
	rec := newRecordingGenerate()
	sched := NewScheduler(rec.generate, 1, 5*time.Second, NopMetrics(), zerolog.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	started := time.Now()
	result := sched.Run(ctx, requestsFor("a", "b", "c"), nil)

	assert.Len(t, result.Sets, 3)
	assert.Less(t, time.Since(started), time.Second)
}
