package game

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/lanes/internal/log"
	"github.com/peterkuimelis/lanes/internal/sequencer"
)

const testTick = 50 * time.Millisecond

// laneFixture wires a lane to real players, a sequencer and a memory logger.
type laneFixture struct {
	lane    *Lane
	seq     *sequencer.Sequencer
	logger  *log.MemoryLogger
	players [NumSides]*Player
}

func newLaneFixture(t *testing.T, hp int) *laneFixture {
	t.Helper()
	f := &laneFixture{
		seq:     sequencer.New(nil),
		logger:  log.NewMemoryLogger(),
		players: [NumSides]*Player{NewPlayer(hp), NewPlayer(hp)},
	}
	f.lane = NewLane(0, [NumSides]Combatant{f.players[0], f.players[1]}, f.seq, f.logger)
	return f
}

func (f *laneFixture) add(t *testing.T, side int, abilities ...*Ability) {
	t.Helper()
	for _, a := range abilities {
		require.NoError(t, f.lane.AddAbility(side, a))
	}
}

// drain runs the sequencer until every queued task has finished.
func (f *laneFixture) drain(t *testing.T) {
	t.Helper()
	_, err := f.seq.Drain(testTick, 10000)
	require.NoError(t, err)
}

// battle enacts one turn and lets all of its effects play out.
func (f *laneFixture) battle(t *testing.T) {
	t.Helper()
	require.NoError(t, f.lane.EnactBattle())
	f.drain(t)
}

// activationOrder returns the names of abilities in the order they activated.
func activationOrder(l *log.MemoryLogger) []string {
	var names []string
	for _, e := range l.EventsOfType(log.EventAbilityActivated) {
		names = append(names, e.Ability)
	}
	return names
}

// recordingPresenter counts the notifications it receives.
type recordingPresenter struct {
	updates     int
	activations int
	moves       []mgl32.Vec2
}

func (p *recordingPresenter) UpdateVisuals()         { p.updates++ }
func (p *recordingPresenter) PlayActivateAnimation() { p.activations++ }
func (p *recordingPresenter) MoveTo(pos mgl32.Vec2, d time.Duration) {
	p.moves = append(p.moves, pos)
}
