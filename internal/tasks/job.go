package tasks

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/abx/internal/models"
	"github.com/desertthunder/abx/internal/shared"
)

// JobState is the lifecycle position of a [Job].
type JobState int32

const (
	// Idle is the zero value. [Engine.Start] stores Running before it returns, so a started job never reports it.
	Idle JobState = iota
	Running
	Completed
	Failed
)

func (s JobState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

// Job is one background enumeration started by [Engine.Start].
type Job struct {
	id     string
	state  atomic.Int32
	events chan Event
	cancel context.CancelFunc
	logger *log.Logger
}

func newJob(buffer int, cancel context.CancelFunc) *Job {
	return &Job{
		id:     shared.GenerateID(),
		events: make(chan Event, buffer),
		cancel: cancel,
		logger: shared.NewDiscardLogger(),
	}
}

// ID identifies the job in logs and API output.
func (j *Job) ID() string { return j.id }

// State returns the current lifecycle state. It is final by the time the terminal event is received.
func (j *Job) State() JobState { return JobState(j.state.Load()) }

// Events returns the event stream: progress updates in index order, then one terminal event, then close.
func (j *Job) Events() <-chan Event { return j.events }

// Cancel requests cancellation. The job fails at its next record boundary.
//
// After cancellation the terminal event is only delivered if the buffer has room or a reader is waiting;
// otherwise the stream closes without one and [Job.Run] reports a cancellation error.
func (j *Job) Cancel() { j.cancel() }

// Run drains the event stream on the calling goroutine, invoking onProgress with each percentage and
// onFinish exactly once at the end. On failure onFinish receives a nil list. Either handler may be nil.
func (j *Job) Run(onProgress func(percent int), onFinish func([]models.ContactRecord, error)) {
	finished := false
	for ev := range j.events {
		if !ev.Terminal() {
			if onProgress != nil {
				onProgress(ev.Progress.Percent)
			}
			continue
		}
		finished = true
		if onFinish != nil {
			onFinish(ev.Contacts, ev.Err)
		}
	}
	if !finished && onFinish != nil {
		onFinish(nil, fmt.Errorf("%w: job %s ended without a result", context.Canceled, j.id))
	}
}

// Wait drains the event stream and returns the terminal result.
func (j *Job) Wait() ([]models.ContactRecord, error) {
	var (
		contacts []models.ContactRecord
		err      error
	)
	j.Run(nil, func(c []models.ContactRecord, e error) {
		contacts, err = c, e
	})
	return contacts, err
}

// emit blocks until the consumer accepts u or ctx ends.
func (j *Job) emit(ctx context.Context, u ProgressUpdate) error {
	select {
	case j.events <- Event{Progress: &u}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// finish delivers the terminal event. Once ctx has ended it stops waiting for a reader.
func (j *Job) finish(ctx context.Context, ev Event) {
	select {
	case j.events <- ev:
		return
	default:
	}

	select {
	case j.events <- ev:
	case <-ctx.Done():
		j.logger.Debug("terminal event dropped", "err", ctx.Err())
	}
}
