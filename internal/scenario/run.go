package scenario

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/peterkuimelis/lanes/internal/game"
	"github.com/peterkuimelis/lanes/internal/log"
)

// MaxTicksPerTurn bounds how long a single turn may take to drain.
const MaxTicksPerTurn = 100000

// Outcome summarises a finished run.
type Outcome struct {
	Match  *game.Match
	Turns  int // turns fully resolved
	Over   bool
	Winner int
	Result string
	Health [game.NumSides]int
}

// Run plays s on a fresh match. logger and diag may be nil; tick overrides
// the scenario's own tick when positive.
func Run(ctx context.Context, s *Scenario, logger log.EventLogger, diag *zap.Logger, tick time.Duration) (*Outcome, error) {
	if diag == nil {
		diag = zap.NewNop()
	}
	if tick <= 0 {
		tick = s.Tick
	}
	if tick <= 0 {
		tick = game.DefaultTick
	}

	m := game.NewMatch(game.MatchConfig{
		Lanes:          s.Lanes,
		StartingHealth: s.StartingHealth,
		MaxTurns:       s.MaxTurns,
		Logger:         logger,
		Diag:           diag,
	})
	diag.Info("scenario start",
		zap.String("scenario", s.Name),
		zap.String("match", m.ID),
		zap.Int("lanes", len(m.Lanes)),
		zap.Duration("tick", tick))

	out := &Outcome{Match: m}
	for _, turn := range s.Turns {
		if m.Over {
			break
		}
		for _, p := range turn.Plays {
			a, err := p.Build()
			if err != nil {
				return out, errors.Wrapf(err, "turn %d", m.Turn)
			}
			if err := m.AddAbility(p.Lane, p.Side, a); err != nil {
				return out, errors.Wrapf(err, "turn %d", m.Turn)
			}
		}
		if err := m.RunTurn(ctx, tick, MaxTicksPerTurn); err != nil {
			return out, err
		}
		out.Turns++
	}

	for s.PlayOut && !m.Over {
		if err := m.RunTurn(ctx, tick, MaxTicksPerTurn); err != nil {
			return out, err
		}
		out.Turns++
	}

	out.Over = m.Over
	out.Winner = m.Winner
	out.Result = m.Result
	for i, p := range m.Players {
		out.Health[i] = p.Health()
	}
	diag.Info("scenario done",
		zap.String("scenario", s.Name),
		zap.Int("turns", out.Turns),
		zap.Bool("over", out.Over),
		zap.Int("winner", out.Winner))
	return out, nil
}
