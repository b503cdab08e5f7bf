package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"esportfed/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type fakeExpirer struct {
	calledWith time.Time
	n          int
	err        error
}

func (f *fakeExpirer) ExpireEnded(ctx context.Context, now time.Time) (int, error) {
	f.calledWith = now
	return f.n, f.err
}

type fakeQueue struct{ n int64 }

func (f fakeQueue) QueueLength(ctx context.Context) int64 { return f.n }

func TestRunExpiry(t *testing.T) {
	fixed := time.Date(2027, 3, 1, 3, 0, 0, 0, time.UTC)
	exp := &fakeExpirer{n: 4}

	s := New(exp, fakeQueue{})
	s.now = func() time.Time { return fixed }
	s.RunExpiry()

	assert.Equal(t, fixed, exp.calledWith)
}

func TestRunExpiry_ErrorIsLogged(t *testing.T) {
	s := New(&fakeExpirer{err: errors.New("db down")}, fakeQueue{})
	assert.NotPanics(t, s.RunExpiry)
}

func TestRecordQueueLength(t *testing.T) {
	New(&fakeExpirer{}, fakeQueue{n: 7}).RecordQueueLength()
	assert.Equal(t, float64(7), testutil.ToFloat64(metrics.EmailQueueLength))
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := New(&fakeExpirer{}, fakeQueue{})
	assert.Error(t, s.Start("every tuesday-ish"))
}

func TestStartStop(t *testing.T) {
	s := New(&fakeExpirer{}, fakeQueue{})
	assert.NoError(t, s.Start("@daily"))
	s.Stop()
}
