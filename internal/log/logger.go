package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging combat events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// Since returns the events logged after sequence number seq.
func (l *MemoryLogger) Since(seq int) []GameEvent {
	for i, e := range l.events {
		if e.Seq > seq {
			return l.events[i:]
		}
	}
	return nil
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// playerName returns "P1" or "P2" for display.
func playerName(p int) string {
	return fmt.Sprintf("P%d", p+1)
}

func laneName(lane int) string {
	if lane == NoLane {
		return "match"
	}
	return fmt.Sprintf("lane %d", lane+1)
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	where := laneName(e.Lane)
	// Pad to 8 chars for alignment
	for len(where) < 8 {
		where += " "
	}
	return fmt.Sprintf("T%-2d %s| %s", e.Turn, where, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewTurnEvent(turn int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Lane:    NoLane,
		Type:    EventTurnStart,
		Details: fmt.Sprintf("=== Turn %d ===", turn),
	}
}

func NewAbilityAddedEvent(turn, lane, side int, ability string, value, lifespan int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Lane:    lane,
		Side:    side,
		Type:    EventAbilityAdded,
		Ability: ability,
		Amount:  value,
		Details: fmt.Sprintf("%s places %s (%d, %d turns)", playerName(side), ability, value, lifespan),
	}
}

func NewAbilityRemovedEvent(turn, lane, side int, ability string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Lane:    lane,
		Side:    side,
		Type:    EventAbilityRemoved,
		Ability: ability,
		Details: fmt.Sprintf("%s is removed from %s's side", ability, playerName(side)),
	}
}

func NewActivateEvent(turn, lane, side int, ability string, target int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Lane:    lane,
		Side:    side,
		Type:    EventAbilityActivated,
		Ability: ability,
		Details: fmt.Sprintf("%s activates %s → %s", playerName(side), ability, playerName(target)),
	}
}

func NewDefendAbsorbEvent(turn, lane, side int, ability string, absorbed, remaining int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Lane:    lane,
		Side:    side,
		Type:    EventDefendAbsorb,
		Ability: ability,
		Amount:  absorbed,
		Details: fmt.Sprintf("%s absorbs %d (%d left)", ability, absorbed, remaining),
	}
}

func NewHPChangeEvent(turn, lane, player int, oldHP, newHP int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Lane:    lane,
		Side:    player,
		Type:    EventHPChange,
		Amount:  oldHP - newHP,
		Details: fmt.Sprintf("%s HP: %d → %d (%s)", playerName(player), oldHP, newHP, reason),
	}
}

func NewAfflictionAppliedEvent(turn, lane, side int, kind string, delta, value int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Lane:    lane,
		Side:    side,
		Type:    EventAfflictionApplied,
		Amount:  value,
		Details: fmt.Sprintf("%s %s %+d → %d", playerName(side), kind, delta, value),
	}
}

func NewAfflictionNegatedEvent(turn, lane, side int, kind string, defend string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Lane:    lane,
		Side:    side,
		Type:    EventAfflictionNegated,
		Ability: defend,
		Details: fmt.Sprintf("%s negates %s on %s", defend, kind, playerName(side)),
	}
}

func NewAfflictionDamageEvent(turn, lane, side int, kind string, dmg int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Lane:    lane,
		Side:    side,
		Type:    EventAfflictionDamage,
		Amount:  dmg,
		Details: fmt.Sprintf("%s suffers %d from %s", playerName(side), dmg, kind),
	}
}

func NewAbilityExpiredEvent(turn, lane, side int, ability string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Lane:    lane,
		Side:    side,
		Type:    EventAbilityExpired,
		Ability: ability,
		Details: fmt.Sprintf("%s expires", ability),
	}
}

func NewWinEvent(turn int, winner int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Lane:    NoLane,
		Side:    winner,
		Type:    EventWin,
		Details: fmt.Sprintf("%s wins! (%s)", playerName(winner), reason),
	}
}

func NewTieEvent(turn int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Lane:    NoLane,
		Type:    EventDraw_Tie,
		Details: fmt.Sprintf("Draw (%s)", reason),
	}
}
