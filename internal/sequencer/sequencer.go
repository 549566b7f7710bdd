// Package sequencer runs timed side effects in order across discrete ticks.
//
// A Sequencer holds two lists: pending tasks waiting to start and active tasks
// that run on every tick. Nothing here spawns goroutines or reads the wall
// clock; the owner calls Tick with the step size of its own loop.
package sequencer

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Sequencer is a single-threaded cooperative task scheduler.
type Sequencer struct {
	pending []*Task
	active  []*Task
	ticks   uint64 // number of Tick calls so far
	logger  *zap.Logger
}

// New creates an empty sequencer. A nil logger disables diagnostics.
func New(logger *zap.Logger) *Sequencer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequencer{logger: logger}
}

// Append pushes tasks onto the tail of the pending queue.
func (s *Sequencer) Append(tasks ...*Task) {
	s.pending = append(s.pending, tasks...)
}

// InsertAfterHead splices t directly behind the head of the pending queue,
// so it runs next without displacing a task that is about to start.
// With an empty queue t simply becomes the head.
func (s *Sequencer) InsertAfterHead(t *Task) {
	if len(s.pending) == 0 {
		s.pending = append(s.pending, t)
		return
	}
	s.pending = append(s.pending, nil)
	copy(s.pending[2:], s.pending[1:])
	s.pending[1] = t
}

// CancelPending removes t from the pending queue. It reports whether t was found.
func (s *Sequencer) CancelPending(t *Task) bool {
	var ok bool
	s.pending, ok = remove(s.pending, t)
	return ok
}

// CancelActive stops t if it is currently running. It reports whether t was found.
// Whatever t's action already touched is left as is.
func (s *Sequencer) CancelActive(t *Task) bool {
	var ok bool
	s.active, ok = remove(s.active, t)
	return ok
}

// Clear drops every pending and active task.
func (s *Sequencer) Clear() {
	clear(s.pending)
	clear(s.active)
	s.pending = s.pending[:0]
	s.active = s.active[:0]
}

// Idle reports whether there is nothing left to run.
func (s *Sequencer) Idle() bool {
	return len(s.pending) == 0 && len(s.active) == 0
}

// Len returns the number of pending and active tasks.
func (s *Sequencer) Len() (pending, active int) {
	return len(s.pending), len(s.active)
}

// Pending returns a copy of the pending queue, head first.
func (s *Sequencer) Pending() []*Task {
	return append([]*Task(nil), s.pending...)
}

// Active returns a copy of the active list.
func (s *Sequencer) Active() []*Task {
	return append([]*Task(nil), s.active...)
}

// Tick advances every active task by dt.
//
// When nothing is active the head of the pending queue is started first.
// Each active task then runs its action and ages by dt. Once the last active
// task is past its run-subsequent time the next pending task joins the active
// list and runs in this same tick. A task past its max time is retired.
//
// If an action fails the failing task is retired and the tick stops there;
// the remaining active tasks are picked up again on the next tick.
//
// Actions may cancel active tasks, their own included. Each task runs at
// most once per tick however the active list shifts underneath.
func (s *Sequencer) Tick(dt time.Duration) error {
	s.ticks++
	if len(s.active) == 0 && len(s.pending) > 0 {
		s.advance()
	}

	for t := s.nextToRun(); t != nil; t = s.nextToRun() {
		t.ranOn = s.ticks
		if err := t.progress(dt); err != nil {
			s.active, _ = remove(s.active, t)
			s.logger.Debug("task failed", zap.String("task", t.Name), zap.Error(err))
			return errors.Wrapf(err, "task %q", t.Name)
		}
		i := index(s.active, t)
		if i < 0 {
			s.logger.Debug("task cancelled while running", zap.String("task", t.Name))
			continue
		}
		if i == len(s.active)-1 && t.beyondRunSubsequentTime() {
			s.advance()
		}
		if t.beyondMaxTime() {
			s.active, _ = remove(s.active, t)
			s.logger.Debug("task retired", zap.String("task", t.Name), zap.Duration("elapsed", t.elapsed))
		}
	}
	return nil
}

// nextToRun returns the first active task that has not run this tick.
func (s *Sequencer) nextToRun() *Task {
	for _, t := range s.active {
		if t.ranOn != s.ticks {
			return t
		}
	}
	return nil
}

// advance moves the head of the pending queue onto the end of the active list.
func (s *Sequencer) advance() {
	if len(s.pending) == 0 {
		return
	}
	t := s.pending[0]
	s.pending[0] = nil
	s.pending = s.pending[1:]
	s.active = append(s.active, t)
	s.logger.Debug("task started", zap.String("task", t.Name))
}

// Drain ticks until the sequencer is idle or maxTicks ticks have run.
// It returns the number of ticks used.
func (s *Sequencer) Drain(dt time.Duration, maxTicks int) (int, error) {
	if dt <= 0 {
		return 0, errors.Errorf("drain: non-positive step %v", dt)
	}
	n := 0
	for !s.Idle() {
		if n >= maxTicks {
			return n, errors.Errorf("drain: still busy after %d ticks", maxTicks)
		}
		if err := s.Tick(dt); err != nil {
			return n + 1, err
		}
		n++
	}
	return n, nil
}

func index(list []*Task, t *Task) int {
	for i, x := range list {
		if x == t {
			return i
		}
	}
	return -1
}

func remove(list []*Task, t *Task) ([]*Task, bool) {
	i := index(list, t)
	if i < 0 {
		return list, false
	}
	return append(list[:i], list[i+1:]...), true
}
