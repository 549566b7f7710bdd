package mcp

import (
	"github.com/peterkuimelis/lanes/internal/game"
	"github.com/peterkuimelis/lanes/internal/log"
)

// EventView is a combat event as presented in tool responses.
type EventView struct {
	Seq     int    `json:"seq"`
	Turn    int    `json:"turn"`
	Lane    int    `json:"lane"` // -1 for match-wide events
	Side    int    `json:"side"`
	Type    string `json:"type"`
	Ability string `json:"ability,omitempty"`
	Amount  int    `json:"amount,omitempty"`
	Details string `json:"details"`
}

// StateView is the whole match, seen from above.
type StateView struct {
	Match   string        `json:"match"`
	Turn    int           `json:"turn"`
	Phase   string        `json:"phase"`
	Players [2]PlayerView `json:"players"`
	Lanes   []LaneView    `json:"lanes"`
}

// PlayerView shows one player's health.
type PlayerView struct {
	Health    int `json:"health"`
	MaxHealth int `json:"max_health"`
}

// LaneView shows both sides of one lane.
type LaneView struct {
	Index int         `json:"index"`
	Sides [2]SideView `json:"sides"`
}

// SideView lists one side's abilities and its non-zero affliction counters.
type SideView struct {
	Abilities   []AbilityView  `json:"abilities"`
	Afflictions map[string]int `json:"afflictions,omitempty"`
}

// AbilityView describes a placed ability.
type AbilityView struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Element    string `json:"element"`
	Value      int    `json:"value"`
	MaxDefense int    `json:"max_defense,omitempty"`
	Lifespan   int    `json:"lifespan"`
	Affliction string `json:"affliction,omitempty"`
}

// BuildEventView converts a logged event.
func BuildEventView(e log.GameEvent) EventView {
	return EventView{
		Seq:     e.Seq,
		Turn:    e.Turn,
		Lane:    e.Lane,
		Side:    e.Side,
		Type:    e.Type.String(),
		Ability: e.Ability,
		Amount:  e.Amount,
		Details: e.Details,
	}
}

// BuildStateView snapshots m.
func BuildStateView(m *game.Match) *StateView {
	sv := &StateView{
		Match: m.ID,
		Turn:  m.Turn,
		Phase: m.Phase(),
		Lanes: make([]LaneView, 0, len(m.Lanes)),
	}
	for i, p := range m.Players {
		sv.Players[i] = PlayerView{Health: p.Health(), MaxHealth: p.MaxHealth()}
	}

	for _, l := range m.Lanes {
		lv := LaneView{Index: l.Index}
		for side := 0; side < game.NumSides; side++ {
			lv.Sides[side] = buildSideView(l, side)
		}
		sv.Lanes = append(sv.Lanes, lv)
	}
	return sv
}

func buildSideView(l *game.Lane, side int) SideView {
	v := SideView{Abilities: []AbilityView{}}
	for _, a := range l.Abilities(side) {
		av := AbilityView{
			Name:     a.Name,
			Kind:     a.Kind().String(),
			Element:  a.Element().String(),
			Value:    a.Value(),
			Lifespan: a.Lifespan(),
		}
		if a.Kind() == game.KindDefend {
			av.MaxDefense = a.MaxDefense()
		}
		if af := a.Affliction(); af.Kind != game.AfflictionNone {
			av.Affliction = af.String()
		}
		v.Abilities = append(v.Abilities, av)
	}

	counters := l.Afflictions(side)
	for i, n := range counters {
		if n == 0 {
			continue
		}
		if v.Afflictions == nil {
			v.Afflictions = make(map[string]int)
		}
		v.Afflictions[(game.Choked + game.AfflictionKind(i)).String()] = n
	}
	return v
}
