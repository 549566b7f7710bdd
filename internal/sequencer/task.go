package sequencer

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Action is the work a task performs on every tick it is active.
// dt is the step size of the tick being processed.
type Action func(dt time.Duration) error

// Task is a schedulable unit of work. A task is identified by its pointer:
// cancelling requires the same *Task that was enqueued.
type Task struct {
	Name string

	elapsed           time.Duration
	maxTime           time.Duration
	runSubsequentTime time.Duration
	action            Action
	ranOn             uint64 // sequencer tick this task last ran on
}

// NewTask creates a task that stays active for maxTime and lets the next
// pending task start once runSubsequentTime has elapsed. runSubsequentTime
// is capped at maxTime.
func NewTask(name string, maxTime, runSubsequentTime time.Duration, action Action) *Task {
	if runSubsequentTime > maxTime {
		runSubsequentTime = maxTime
	}
	return &Task{
		Name:              name,
		maxTime:           maxTime,
		runSubsequentTime: runSubsequentTime,
		action:            action,
	}
}

// Delay does nothing for d. It holds back everything queued behind it.
func Delay(d time.Duration) *Task {
	return NewTask("delay", d, d, nil)
}

// Instant runs fn exactly once, on the first tick the task is active.
func Instant(name string, fn func() error) *Task {
	return NewTask(name, 0, 0, func(time.Duration) error {
		return fn()
	})
}

// Message logs msg at info level when it fires. Mostly useful for tracing
// the order tasks run in.
func Message(logger *zap.Logger, msg string) *Task {
	return Instant("message", func() error {
		logger.Info(msg)
		return nil
	})
}

// Tween linearly interpolates from → to over d, calling set with the
// position reached at the end of each tick. The final call always receives
// exactly to. Tasks queued behind a tween start on the same tick the tween
// does, so the movement overlaps whatever follows.
func Tween(from, to mgl32.Vec2, d time.Duration, set func(mgl32.Vec2)) *Task {
	t := &Task{Name: "tween", maxTime: d}
	t.action = func(dt time.Duration) error {
		if d <= 0 {
			set(to)
			return nil
		}
		done := t.elapsed + dt
		if done >= d {
			set(to)
			return nil
		}
		frac := float32(done) / float32(d)
		set(from.Add(to.Sub(from).Mul(frac)))
		return nil
	}
	return t
}

// Mover is anything that can be told to travel to a position over time.
type Mover interface {
	MoveTo(pos mgl32.Vec2, d time.Duration)
}

// MoveAndWait returns an Instant that starts m moving towards pos followed by
// a Delay of the same length, so later tasks wait for the movement to finish.
func MoveAndWait(m Mover, pos mgl32.Vec2, d time.Duration) []*Task {
	return []*Task{
		Instant("move", func() error {
			m.MoveTo(pos, d)
			return nil
		}),
		Delay(d),
	}
}

// Elapsed returns how long the task has been active.
func (t *Task) Elapsed() time.Duration {
	return t.elapsed
}

// MaxTime returns how long the task stays active.
func (t *Task) MaxTime() time.Duration {
	return t.maxTime
}

// RunSubsequentTime returns how long the task must run before the next
// pending task may start alongside it.
func (t *Task) RunSubsequentTime() time.Duration {
	return t.runSubsequentTime
}

func (t *Task) progress(dt time.Duration) error {
	var err error
	if t.action != nil {
		err = t.action(dt)
	}
	t.elapsed += dt
	return err
}

func (t *Task) beyondMaxTime() bool {
	return t.elapsed >= t.maxTime
}

func (t *Task) beyondRunSubsequentTime() bool {
	return t.elapsed >= t.runSubsequentTime
}
