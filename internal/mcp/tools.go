package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/lanes/internal/game"
	"github.com/peterkuimelis/lanes/internal/scenario"
)

// Tools exposes a Session as MCP tools.
type Tools struct {
	session *Session
}

// NewTools wraps session.
func NewTools(session *Session) *Tools {
	return &Tools{session: session}
}

// RegisterTools adds all match tools to the MCP server.
func (t *Tools) RegisterTools(s *server.MCPServer) {
	s.AddTool(newMatchTool(), t.handleNewMatch)
	s.AddTool(listPresetsTool(), t.handleListPresets)
	s.AddTool(playAbilityTool(), t.handlePlayAbility)
	s.AddTool(endTurnTool(), t.handleEndTurn)
	s.AddTool(getStateTool(), t.handleGetState)
}

// --- Tool definitions ---

func newMatchTool() mcp.Tool {
	return mcp.NewTool("new_match",
		mcp.WithDescription("Start a new lane battle. Both sides are played through these tools. "+
			"Returns the initial state."),
		mcp.WithNumber("lanes", mcp.Description("Number of lanes (default 3)")),
		mcp.WithNumber("starting_health", mcp.Description("Health of both players (default 30)")),
		mcp.WithNumber("max_turns", mcp.Description("Declare a draw after this many turns (default 200)")),
		mcp.WithBoolean("restart", mcp.Description("Replace a match that is still running")),
	)
}

func listPresetsTool() mcp.Tool {
	return mcp.NewTool("list_presets",
		mcp.WithDescription("List the preset abilities that play_ability accepts by name. Read-only."),
	)
}

func playAbilityTool() mcp.Tool {
	return mcp.NewTool("play_ability",
		mcp.WithDescription("Place an ability on one side of a lane during planning. "+
			"Give either a preset name or a custom kind with its numbers."),
		mcp.WithNumber("lane", mcp.Required(), mcp.Description("0-based lane index")),
		mcp.WithNumber("side", mcp.Required(), mcp.Description("0 or 1: attacks go on the attacking side, defends on the defended side")),
		mcp.WithString("preset", mcp.Description("Preset ability name, see list_presets")),
		mcp.WithString("name", mcp.Description("Name of a custom ability")),
		mcp.WithString("kind", mcp.Description("Custom ability kind: attack, defend or generic")),
		mcp.WithNumber("damage", mcp.Description("Attack damage per turn")),
		mcp.WithNumber("defense", mcp.Description("Defend strength per turn")),
		mcp.WithString("element", mcp.Description("Smog, Sludge, Radioactivity, Water or Oil")),
		mcp.WithNumber("lifespan", mcp.Description("Turns the ability stays on the lane")),
		mcp.WithString("affliction", mcp.Description("Attack rider: Choked, Slow, Irradiated, Flooded or Covered")),
		mcp.WithNumber("affliction_amount", mcp.Description("Rider amount")),
	)
}

func endTurnTool() mcp.Tool {
	return mcp.NewTool("end_turn",
		mcp.WithDescription("Resolve every lane and play the turn out. Returns the events it produced and the new state."),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get the current match state and any events not returned yet. Read-only."),
	)
}

// --- Tool handlers ---

func (t *Tools) handleNewMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := game.MatchConfig{
		Lanes:          request.GetInt("lanes", 0),
		StartingHealth: request.GetInt("starting_health", 0),
		MaxTurns:       request.GetInt("max_turns", 0),
	}
	if cfg.Lanes < 0 || cfg.StartingHealth < 0 || cfg.MaxTurns < 0 {
		return mcp.NewToolResultError("lanes, starting_health and max_turns must not be negative"), nil
	}

	resp, err := t.session.NewMatch(cfg, request.GetBool("restart", false))
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start match: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var lines []string
	for _, name := range game.PresetNames() {
		a, err := game.LookupPreset(name)
		if err != nil {
			return mcp.NewToolResultErrorf("%v", err), nil
		}
		lines = append(lines, a.String())
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (t *Tools) handlePlayAbility(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	play := scenario.Play{
		Lane:   request.GetInt("lane", -1),
		Side:   request.GetInt("side", -1),
		Preset: request.GetString("preset", ""),
	}
	if kind := request.GetString("kind", ""); kind != "" {
		entry := &scenario.AbilityEntry{
			Name:     request.GetString("name", kind),
			Kind:     kind,
			Damage:   request.GetInt("damage", 0),
			Defense:  request.GetInt("defense", 0),
			Element:  request.GetString("element", ""),
			Lifespan: request.GetInt("lifespan", 0),
		}
		if af := request.GetString("affliction", ""); af != "" {
			entry.Affliction = &scenario.AfflictionEntry{Kind: af, Amount: request.GetInt("affliction_amount", 0)}
		}
		play.Ability = entry
	}

	resp, err := t.session.Play(play)
	if err != nil {
		return mcp.NewToolResultErrorf("Cannot play ability: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := t.session.EndTurn(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Cannot end turn: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := t.session.State()
	if err != nil {
		return mcp.NewToolResultError("No match is running. Use new_match first."), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}
