package game

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/peterkuimelis/lanes/internal/log"
	"github.com/peterkuimelis/lanes/internal/sequencer"
)

const (
	DefaultLaneCount = 3
	DefaultMaxTurns  = 200
	DefaultTick      = 50 * time.Millisecond
)

// Turn phases of a match.
const (
	PhasePlanning  = "planning"  // abilities may be placed
	PhaseResolving = "resolving" // lanes are enacting their battles
	PhaseDraining  = "draining"  // waiting for the sequencer to run out
	PhaseOver      = "over"
)

const (
	evEndTurn  = "end_turn"
	evResolved = "resolved"
	evDrained  = "drained"
	evFinish   = "finish"
	evAbort    = "abort"
)

var ErrWrongPhase = errors.New("not allowed in this phase")

// MatchConfig holds configuration for creating a new match.
type MatchConfig struct {
	Lanes          int // number of lanes (0 = DefaultLaneCount)
	StartingHealth int // health of both players (0 = DefaultStartingHealth)
	MaxTurns       int // stop after this many turns (0 = DefaultMaxTurns)
	Logger         log.EventLogger
	Diag           *zap.Logger // diagnostics; nil disables
}

// Match owns both players, every lane and the sequencer pacing their
// effects. Nothing is shared between matches.
type Match struct {
	ID        string
	Players   [NumSides]*Player
	Lanes     []*Lane
	Sequencer *sequencer.Sequencer
	Logger    log.EventLogger

	Turn   int // 1-based; the turn being planned or resolved
	Winner int // 0, 1, or -1 (no winner yet / draw)
	Over   bool
	Result string

	fsm      *fsm.FSM
	diag     *zap.Logger
	maxTurns int
}

// NewMatch creates a match in the planning phase of turn 1.
func NewMatch(cfg MatchConfig) *Match {
	lanes := cfg.Lanes
	if lanes <= 0 {
		lanes = DefaultLaneCount
	}
	hp := cfg.StartingHealth
	if hp <= 0 {
		hp = DefaultStartingHealth
	}
	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	diag := cfg.Diag
	if diag == nil {
		diag = zap.NewNop()
	}

	m := &Match{
		ID:        uuid.NewString(),
		Players:   [NumSides]*Player{NewPlayer(hp), NewPlayer(hp)},
		Sequencer: sequencer.New(diag.Named("sequencer")),
		Logger:    logger,
		Turn:      1,
		Winner:    -1,
		maxTurns:  maxTurns,
	}
	m.diag = diag.With(zap.String("match", m.ID))

	combatants := [NumSides]Combatant{m.Players[0], m.Players[1]}
	for i := 0; i < lanes; i++ {
		m.Lanes = append(m.Lanes, NewLane(i, combatants, m.Sequencer, logger))
	}

	m.fsm = fsm.NewFSM(
		PhasePlanning,
		fsm.Events{
			{Name: evEndTurn, Src: []string{PhasePlanning}, Dst: PhaseResolving},
			{Name: evResolved, Src: []string{PhaseResolving}, Dst: PhaseDraining},
			{Name: evDrained, Src: []string{PhaseDraining}, Dst: PhasePlanning},
			{Name: evFinish, Src: []string{PhaseDraining}, Dst: PhaseOver},
			{Name: evAbort, Src: []string{PhaseResolving}, Dst: PhaseOver},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				m.diag.Debug("phase change",
					zap.Int("turn", m.Turn),
					zap.String("from", e.Src),
					zap.String("to", e.Dst))
			},
		},
	)
	return m
}

// Phase returns the current turn phase.
func (m *Match) Phase() string {
	return m.fsm.Current()
}

// Lane returns lane i.
func (m *Match) Lane(i int) (*Lane, error) {
	if i < 0 || i >= len(m.Lanes) {
		return nil, errors.Errorf("lane %d out of range (have %d lanes)", i, len(m.Lanes))
	}
	return m.Lanes[i], nil
}

// AddAbility places a on side of lane. Only allowed while planning.
func (m *Match) AddAbility(lane, side int, a *Ability) error {
	if !m.fsm.Is(PhasePlanning) {
		return errors.Wrapf(ErrWrongPhase, "add ability during %s", m.fsm.Current())
	}
	l, err := m.Lane(lane)
	if err != nil {
		return err
	}
	return l.AddAbility(side, a)
}

// EndTurn resolves every lane, left to right. The damage those battles
// queue is dealt by later calls to Tick; the next turn can only be ended
// once they have all run.
func (m *Match) EndTurn(ctx context.Context) error {
	if !m.fsm.Can(evEndTurn) {
		return errors.Wrapf(ErrWrongPhase, "end turn during %s", m.fsm.Current())
	}
	if err := m.fsm.Event(ctx, evEndTurn); err != nil {
		return errors.Wrap(err, "end turn")
	}

	m.Logger.Log(log.NewTurnEvent(m.Turn))
	for _, l := range m.Lanes {
		if err := l.EnactBattle(); err != nil {
			m.diag.Error("battle failed", zap.Int("lane", l.Index), zap.Error(err))
			return m.abort(ctx, err)
		}
	}

	if err := m.fsm.Event(ctx, evResolved); err != nil {
		return errors.Wrap(err, "resolve turn")
	}
	return nil
}

// abort ends a match whose turn could not be resolved. Effects already
// queued by earlier lanes are dropped.
func (m *Match) abort(ctx context.Context, cause error) error {
	m.Sequencer.Clear()
	m.Over = true
	m.Winner = -1
	m.Result = fmt.Sprintf("Aborted: %v", cause)
	if err := m.fsm.Event(ctx, evAbort); err != nil {
		return errors.Wrapf(cause, "abort failed (%v)", err)
	}
	return cause
}

// Tick advances the sequencer by dt. When the turn's effects have all run
// it checks for a winner and either ends the match or opens the next turn.
func (m *Match) Tick(ctx context.Context, dt time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.Sequencer.Tick(dt); err != nil {
		m.diag.Error("tick failed", zap.Error(err))
		return err
	}
	if m.fsm.Is(PhaseDraining) && m.Sequencer.Idle() {
		return m.finishTurn(ctx)
	}
	return nil
}

func (m *Match) finishTurn(ctx context.Context) error {
	if m.CheckWinCondition() || m.Turn >= m.maxTurns {
		if !m.Over {
			m.Over = true
			m.Winner = -1
			m.Result = fmt.Sprintf("Turn limit reached (%d turns)", m.maxTurns)
			m.Logger.Log(log.NewTieEvent(m.Turn, "turn limit"))
		}
		return m.fsm.Event(ctx, evFinish)
	}
	m.Turn++
	return m.fsm.Event(ctx, evDrained)
}

// RunTurn ends the turn and ticks by dt until the match is ready for the
// next one or over. It gives up after maxTicks ticks.
func (m *Match) RunTurn(ctx context.Context, dt time.Duration, maxTicks int) error {
	if dt <= 0 {
		return errors.Errorf("run turn: non-positive step %v", dt)
	}
	if err := m.EndTurn(ctx); err != nil {
		return err
	}
	for n := 0; m.fsm.Is(PhaseDraining); n++ {
		if n >= maxTicks {
			return errors.Errorf("turn %d still draining after %d ticks", m.Turn, maxTicks)
		}
		if err := m.Tick(ctx, dt); err != nil {
			return err
		}
	}
	return nil
}

// CheckWinCondition checks if either player's health has hit 0.
// Returns true if the game is over.
func (m *Match) CheckWinCondition() bool {
	if m.Over {
		return true
	}
	p0Dead := !m.Players[0].Alive()
	p1Dead := !m.Players[1].Alive()

	switch {
	case p0Dead && p1Dead:
		m.Over = true
		m.Winner = -1
		m.Result = "Draw: both players' health reached 0"
		m.Logger.Log(log.NewTieEvent(m.Turn, "both players fell"))
	case p0Dead:
		m.Over = true
		m.Winner = 1
		m.Result = "P2 wins: P1's health reached 0"
		m.Logger.Log(log.NewWinEvent(m.Turn, 1, "P1's health reached 0"))
	case p1Dead:
		m.Over = true
		m.Winner = 0
		m.Result = "P1 wins: P2's health reached 0"
		m.Logger.Log(log.NewWinEvent(m.Turn, 0, "P2's health reached 0"))
	}
	return m.Over
}
