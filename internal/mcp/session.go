package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/peterkuimelis/lanes/internal/game"
	"github.com/peterkuimelis/lanes/internal/log"
	"github.com/peterkuimelis/lanes/internal/scenario"
)

// ErrNoMatch is returned by every call that needs a running match.
var ErrNoMatch = errors.New("no match is running")

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events   []EventView `json:"events"`
	State    *StateView  `json:"state,omitempty"`
	GameOver bool        `json:"game_over"`
	Winner   int         `json:"winner"`
	Result   string      `json:"result,omitempty"`
}

// Session holds the single local match driven through the tools. Both sides
// are played by the caller.
type Session struct {
	mu        sync.Mutex
	match     *game.Match
	events    *log.MemoryLogger
	delivered int // seq of the last event handed out
	tick      time.Duration
	diag      *zap.Logger
}

// NewSession creates an empty session. Turns are drained in steps of tick.
func NewSession(tick time.Duration, diag *zap.Logger) *Session {
	if tick <= 0 {
		tick = game.DefaultTick
	}
	if diag == nil {
		diag = zap.NewNop()
	}
	return &Session{tick: tick, diag: diag}
}

// NewMatch starts a fresh match. A running match is only replaced when
// restart is set.
func (s *Session) NewMatch(cfg game.MatchConfig, restart bool) (*ToolResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.match != nil && !s.match.Over && !restart {
		return nil, errors.New("a match is already running")
	}
	s.events = log.NewMemoryLogger()
	s.delivered = 0
	cfg.Logger = s.events
	cfg.Diag = s.diag
	s.match = game.NewMatch(cfg)
	s.diag.Info("match started", zap.String("match", s.match.ID), zap.Int("lanes", len(s.match.Lanes)))
	return s.respond(), nil
}

// Play places an ability during the planning phase.
func (s *Session) Play(p scenario.Play) (*ToolResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.match == nil {
		return nil, ErrNoMatch
	}
	a, err := p.Build()
	if err != nil {
		return nil, err
	}
	if err := s.match.AddAbility(p.Lane, p.Side, a); err != nil {
		return nil, err
	}
	return s.respond(), nil
}

// EndTurn resolves the current turn and plays it out to the end.
func (s *Session) EndTurn(ctx context.Context) (*ToolResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.match == nil {
		return nil, ErrNoMatch
	}
	if err := s.match.RunTurn(ctx, s.tick, scenario.MaxTicksPerTurn); err != nil {
		return nil, err
	}
	return s.respond(), nil
}

// State returns the match state and any events not yet handed out.
func (s *Session) State() (*ToolResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.match == nil {
		return nil, ErrNoMatch
	}
	return s.respond(), nil
}

// respond builds a response and marks its events delivered. Caller holds mu.
func (s *Session) respond() *ToolResponse {
	resp := &ToolResponse{
		Events:   []EventView{},
		State:    BuildStateView(s.match),
		GameOver: s.match.Over,
		Winner:   s.match.Winner,
		Result:   s.match.Result,
	}
	for _, e := range s.events.Since(s.delivered) {
		resp.Events = append(resp.Events, BuildEventView(e))
		s.delivered = e.Seq
	}
	return resp
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
