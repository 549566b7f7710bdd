package scenario

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/lanes/internal/game"
	"github.com/peterkuimelis/lanes/internal/log"
)

const duelYAML = `
scenarios:
  - name: Duel
    lanes: 1
    starting_health: 30
    tick: 25ms
    turns:
      - plays:
          - { lane: 0, side: 0, preset: Basic Attack }
          - { lane: 0, side: 1, preset: Basic Defend }
      - plays: []
  - name: Knockout
    lanes: 2
    starting_health: 6
    play_out: true
    turns:
      - plays:
          - lane: 1
            side: 1
            ability:
              name: Poison Dart
              kind: attack
              damage: 1
              element: smog
              lifespan: 5
              affliction: { kind: choked, amount: 2 }
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(duelYAML))
	require.NoError(t, err)
	require.Len(t, f.Scenarios, 2)

	s := f.Scenarios[0]
	assert.Equal(t, "Duel", s.Name)
	assert.Equal(t, 25*time.Millisecond, s.Tick)
	require.Len(t, s.Turns, 2)
	assert.Equal(t, "Basic Defend", s.Turns[0].Plays[1].Preset)

	dart, err := f.Scenarios[1].Turns[0].Plays[0].Build()
	require.NoError(t, err)
	assert.Equal(t, game.KindAttack, dart.Kind())
	assert.Equal(t, game.Affliction{Kind: game.Choked, Amount: 2}, dart.Affliction())
}

func TestLookup(t *testing.T) {
	f, err := Parse([]byte(duelYAML))
	require.NoError(t, err)

	s, err := f.ByName("knockout")
	require.NoError(t, err)
	assert.Equal(t, "Knockout", s.Name)

	s, err = f.ByNumber(1)
	require.NoError(t, err)
	assert.Equal(t, "Duel", s.Name)

	_, err = f.ByNumber(3)
	assert.Error(t, err)
	_, err = f.ByName("missing")
	assert.Error(t, err)
}

func TestParseRejectsBadPlays(t *testing.T) {
	cases := map[string]string{
		"unknown preset": `
scenarios:
  - name: x
    turns: [ { plays: [ { lane: 0, side: 0, preset: Meteor } ] } ]`,
		"lane out of range": `
scenarios:
  - name: x
    lanes: 1
    turns: [ { plays: [ { lane: 1, side: 0, preset: Basic Attack } ] } ]`,
		"empty play": `
scenarios:
  - name: x
    turns: [ { plays: [ { lane: 0, side: 0 } ] } ]`,
		"bad element": `
scenarios:
  - name: x
    turns: [ { plays: [ { lane: 0, side: 0, ability: { name: a, kind: attack, damage: 1, element: fire, lifespan: 1 } } ] } ]`,
		"bad kind": `
scenarios:
  - name: x
    turns: [ { plays: [ { lane: 0, side: 0, ability: { name: a, kind: spell, lifespan: 1 } } ] } ]`,
		"no lifespan": `
scenarios:
  - name: x
    turns: [ { plays: [ { lane: 0, side: 0, ability: { name: a, kind: defend, defense: 2 } } ] } ]`,
		"not yaml": `scenarios: [`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte(cases["unknown preset"]))
	assert.True(t, errors.Is(err, game.ErrUnknownPreset))
}

func TestRunDuel(t *testing.T) {
	f, err := Parse([]byte(duelYAML))
	require.NoError(t, err)
	logger := log.NewMemoryLogger()

	out, err := Run(context.Background(), &f.Scenarios[0], logger, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, out.Turns)
	assert.False(t, out.Over)
	assert.Equal(t, [game.NumSides]int{30, 28}, out.Health)
	assert.Empty(t, out.Match.Lanes[0].Abilities(0))
	assert.Empty(t, out.Match.Lanes[0].Abilities(1))
	assert.Len(t, logger.EventsOfType(log.EventTurnStart), 2)
}

func TestRunPlaysOutUntilOver(t *testing.T) {
	f, err := Parse([]byte(duelYAML))
	require.NoError(t, err)

	out, err := Run(context.Background(), &f.Scenarios[1], nil, nil, 100*time.Millisecond)
	require.NoError(t, err)

	assert.True(t, out.Over)
	assert.Equal(t, 1, out.Winner)
	assert.Equal(t, 0, out.Health[0])
	assert.Equal(t, 6, out.Health[1])
}

func TestBundledScenarios(t *testing.T) {
	f, err := Load("../../scenarios.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, f.Scenarios)

	for i := range f.Scenarios {
		s := &f.Scenarios[i]
		t.Run(s.Name, func(t *testing.T) {
			_, err := Run(context.Background(), s, nil, nil, 0)
			assert.NoError(t, err)
		})
	}
}

func TestLookupErrorsCarryStack(t *testing.T) {
	f, err := Parse([]byte(duelYAML))
	require.NoError(t, err)

	_, err = f.ByNumber(0)
	require.Error(t, err)
	assert.Contains(t, fmt.Sprintf("%+v", err), "scenario.(*File).ByNumber")

	_, err = f.ByName("missing")
	require.Error(t, err)
	assert.Contains(t, fmt.Sprintf("%+v", err), "scenario.(*File).ByName")

	_, err = Load("does-not-exist.yaml")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
