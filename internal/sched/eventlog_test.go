package sched_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redbirden/internal/sched"
)

func TestCSVSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	sink, err := sched.NewCSVSink(path)
	require.NoError(t, err)

	sink.Record(sched.StatusEvent{Time: time.Now(), Frame: 3, Kind: sched.StatusDispatch, TaskID: 7, Type: sched.TypeStatusAll})
	require.NoError(t, sink.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"timestamp", "frame", "event", "task_id", "type"}, rows[0])
	assert.Equal(t, []string{"3", "Dispatch", "7", "StatusAll"}, rows[1][1:])
}

func TestTraceSinkAndTee(t *testing.T) {
	var buf bytes.Buffer
	var got []sched.StatusEvent
	tee := sched.Tee{sched.TraceSink{W: &buf}, nil, sched.SinkFunc(func(ev sched.StatusEvent) { got = append(got, ev) })}

	tee.Record(sched.StatusEvent{Time: time.Now(), Frame: 12, Kind: sched.StatusPriorityFinish, TaskID: 4, Type: sched.TypeCustomWild})

	assert.Contains(t, buf.String(), "Frame: 0000012")
	assert.Contains(t, buf.String(), "PrioFinish")
	assert.Contains(t, buf.String(), "(CustomWild)")
	assert.Len(t, got, 1)
}

func TestFrameClock(t *testing.T) {
	c := sched.NewFrameClock(4)
	c.Start(time.Millisecond)

	<-c.Ch
	<-c.Ch
	c.Stop()

	assert.GreaterOrEqual(t, c.Count(), int64(2))
}

func TestFrameClock_DriveStepsInOrder(t *testing.T) {
	c := sched.NewFrameClock(1)
	c.Start(time.Millisecond)
	defer c.Stop()

	var frames []int
	err := c.Drive(context.Background(), 3, func(n int) { frames = append(frames, n) })

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, frames)
}

func TestFrameClock_CountsDroppedFrames(t *testing.T) {
	c := sched.NewFrameClock(1)
	c.Start(time.Millisecond)
	defer c.Stop()

	// nobody reads: the buffer holds one tick, the rest are dropped
	require.Eventually(t, func() bool { return c.Dropped() >= 3 }, time.Second, time.Millisecond)
	dropped := c.Dropped()
	assert.GreaterOrEqual(t, c.Count(), dropped+1)
}

func TestFrameClock_DriveStopsOnCancel(t *testing.T) {
	c := sched.NewFrameClock(1)
	c.Start(time.Hour)
	defer c.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Drive(ctx, 10, func(int) { t.Fatal("step must not run") })
	require.ErrorIs(t, err, context.Canceled)
}
