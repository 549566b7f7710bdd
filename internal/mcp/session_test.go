package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/lanes/internal/game"
	"github.com/peterkuimelis/lanes/internal/scenario"
)

func TestSessionRequiresMatch(t *testing.T) {
	s := NewSession(0, nil)

	_, err := s.State()
	assert.True(t, errors.Is(err, ErrNoMatch))
	_, err = s.EndTurn(context.Background())
	assert.True(t, errors.Is(err, ErrNoMatch))
	_, err = s.Play(scenario.Play{Preset: "Basic Attack"})
	assert.True(t, errors.Is(err, ErrNoMatch))
}

func TestSessionPlaysATurn(t *testing.T) {
	s := NewSession(0, nil)
	resp, err := s.NewMatch(game.MatchConfig{Lanes: 1}, false)
	require.NoError(t, err)
	assert.Equal(t, game.PhasePlanning, resp.State.Phase)
	assert.Len(t, resp.State.Lanes, 1)
	assert.Empty(t, resp.Events)

	resp, err = s.Play(scenario.Play{Lane: 0, Side: 0, Preset: "Basic Attack"})
	require.NoError(t, err)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "AbilityAdded", resp.Events[0].Type)

	_, err = s.Play(scenario.Play{Lane: 0, Side: 1, Ability: &scenario.AbilityEntry{
		Name: "Wall", Kind: "defend", Defense: 3, Element: "sludge", Lifespan: 2,
	}})
	require.NoError(t, err)

	resp, err = s.EndTurn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.State.Turn)
	assert.Equal(t, 29, resp.State.Players[1].Health)
	assert.False(t, resp.GameOver)
	assert.Equal(t, "TurnStart", resp.Events[0].Type)

	sides := resp.State.Lanes[0].Sides
	require.Len(t, sides[1].Abilities, 1)
	assert.Equal(t, AbilityView{
		Name: "Wall", Kind: "Defend", Element: "Sludge", Value: 0, MaxDefense: 3, Lifespan: 1,
	}, sides[1].Abilities[0])

	// Nothing new happened since the last response.
	resp, err = s.State()
	require.NoError(t, err)
	assert.Empty(t, resp.Events)
}

func TestSessionReportsAfflictionsAndGameOver(t *testing.T) {
	s := NewSession(0, nil)
	_, err := s.NewMatch(game.MatchConfig{Lanes: 1, StartingHealth: 1}, false)
	require.NoError(t, err)
	_, err = s.Play(scenario.Play{Lane: 0, Side: 1, Preset: "Smog Cloud"})
	require.NoError(t, err)

	resp, err := s.EndTurn(context.Background())
	require.NoError(t, err)

	assert.True(t, resp.GameOver)
	assert.Equal(t, 1, resp.Winner)
	assert.Equal(t, map[string]int{"Choked": 2}, resp.State.Lanes[0].Sides[0].Afflictions)

	_, err = s.EndTurn(context.Background())
	assert.True(t, errors.Is(err, game.ErrWrongPhase))

	_, err = s.NewMatch(game.MatchConfig{}, false)
	assert.NoError(t, err, "a finished match can be replaced")
}

func TestSessionRefusesToReplaceRunningMatch(t *testing.T) {
	s := NewSession(0, nil)
	_, err := s.NewMatch(game.MatchConfig{}, false)
	require.NoError(t, err)

	_, err = s.NewMatch(game.MatchConfig{}, false)
	assert.Error(t, err)

	_, err = s.NewMatch(game.MatchConfig{Lanes: 2}, true)
	require.NoError(t, err)
	resp, err := s.State()
	require.NoError(t, err)
	assert.Len(t, resp.State.Lanes, 2)
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)

	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return res, c.Text
	case *mcp.TextContent:
		return res, c.Text
	}
	t.Fatalf("unexpected content %T", res.Content[0])
	return nil, ""
}

func TestToolHandlers(t *testing.T) {
	tools := NewTools(NewSession(0, nil))

	res, _ := callTool(t, tools.handleGetState, nil)
	assert.True(t, res.IsError)

	res, text := callTool(t, tools.handleNewMatch, map[string]any{"lanes": 2, "starting_health": 10})
	require.False(t, res.IsError, text)
	var resp ToolResponse
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.Len(t, resp.State.Lanes, 2)
	assert.Equal(t, 10, resp.State.Players[0].Health)

	res, text = callTool(t, tools.handlePlayAbility, map[string]any{
		"lane": 1, "side": 0, "kind": "attack", "name": "Tar Spit",
		"damage": 2, "element": "oil", "lifespan": 2,
		"affliction": "slow", "affliction_amount": 1,
	})
	require.False(t, res.IsError, text)

	res, _ = callTool(t, tools.handlePlayAbility, map[string]any{"lane": 5, "side": 0, "preset": "Basic Attack"})
	assert.True(t, res.IsError)

	res, text = callTool(t, tools.handleEndTurn, nil)
	require.False(t, res.IsError, text)
	resp = ToolResponse{}
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.Equal(t, 8, resp.State.Players[1].Health)
	assert.Equal(t, map[string]int{"Slow": 1}, resp.State.Lanes[1].Sides[1].Afflictions)

	res, text = callTool(t, tools.handleListPresets, nil)
	require.False(t, res.IsError)
	assert.Contains(t, text, "Quick Defend [Defend 5/5 Radioactivity, 1 turns]")
}
