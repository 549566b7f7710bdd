package log

// EventType enumerates all observable combat events.
type EventType int

const (
	EventTurnStart EventType = iota
	EventAbilityAdded
	EventAbilityRemoved
	EventAbilityActivated
	EventDefendAbsorb
	EventHPChange
	EventAfflictionApplied
	EventAfflictionNegated
	EventAfflictionDamage
	EventAbilityExpired
	EventWin
	EventDraw_Tie
)

func (e EventType) String() string {
	switch e {
	case EventTurnStart:
		return "TurnStart"
	case EventAbilityAdded:
		return "AbilityAdded"
	case EventAbilityRemoved:
		return "AbilityRemoved"
	case EventAbilityActivated:
		return "AbilityActivated"
	case EventDefendAbsorb:
		return "DefendAbsorb"
	case EventHPChange:
		return "HPChange"
	case EventAfflictionApplied:
		return "AfflictionApplied"
	case EventAfflictionNegated:
		return "AfflictionNegated"
	case EventAfflictionDamage:
		return "AfflictionDamage"
	case EventAbilityExpired:
		return "AbilityExpired"
	case EventWin:
		return "Win"
	case EventDraw_Tie:
		return "Draw(tie)"
	default:
		return "Unknown"
	}
}

// NoLane marks events that belong to the match rather than a single lane.
const NoLane = -1

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which turn (1-based)
	Lane    int       // lane index, or NoLane
	Side    int       // affected side (0 or 1)
	Type    EventType // event type
	Ability string    // ability name (if applicable)
	Amount  int       // damage, absorbed amount or counter value
	Details string    // human-readable detail string
}
