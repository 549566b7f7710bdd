package game

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/peterkuimelis/lanes/internal/log"
	"github.com/peterkuimelis/lanes/internal/sequencer"
)

// NumSides is the number of sides facing each other on a lane.
const NumSides = 2

// Lane-local layout of ability slots.
const (
	SlotSpacing       = 1.1
	SideOffset        = 1.5
	PlacementDuration = 300 * time.Millisecond
)

var (
	ErrInvalidSide   = errors.New("invalid side")
	ErrInvalidAmount = errors.New("invalid amount")
)

// Combatant is the player handle a lane deals damage to.
type Combatant interface {
	Health() int
	TakeDamage(amount int)
}

// Scheduler receives the timed tasks produced by ability activation.
type Scheduler interface {
	Append(tasks ...*sequencer.Task)
}

// Lane is one independent arena. It owns the abilities placed on it and the
// affliction counters of both sides, and resolves one turn of combat at a time.
type Lane struct {
	Index int

	players     [NumSides]Combatant
	sched       Scheduler
	logger      log.EventLogger
	turn        int
	abilities   [NumSides][]*Ability
	afflictions [NumSides]Afflictions
}

// NewLane creates an empty lane. logger may be nil.
func NewLane(index int, players [NumSides]Combatant, sched Scheduler, logger log.EventLogger) *Lane {
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	return &Lane{
		Index:   index,
		players: players,
		sched:   sched,
		logger:  logger,
		turn:    1,
	}
}

func checkSide(side int) error {
	if side < 0 || side >= NumSides {
		return errors.Wrapf(ErrInvalidSide, "side %d", side)
	}
	return nil
}

func mustSide(side int) {
	if err := checkSide(side); err != nil {
		panic(err)
	}
}

// Turn returns the turn the lane will resolve next.
func (l *Lane) Turn() int {
	return l.turn
}

// --- Views ---
//
// The view accessors panic on an invalid side: they are only ever called
// with sides the caller already validated.

// Abilities returns every ability on side, in insertion order.
func (l *Lane) Abilities(side int) []*Ability {
	mustSide(side)
	return append([]*Ability(nil), l.abilities[side]...)
}

// Attacks returns the attacks on side, in insertion order.
func (l *Lane) Attacks(side int) []*Ability {
	return l.ofKind(side, KindAttack)
}

// Defends returns the defends on side, in insertion order.
func (l *Lane) Defends(side int) []*Ability {
	return l.ofKind(side, KindDefend)
}

// Others returns the abilities on side that are neither attacks nor defends.
func (l *Lane) Others(side int) []*Ability {
	return l.ofKind(side, KindGeneric)
}

func (l *Lane) ofKind(side int, kind Kind) []*Ability {
	mustSide(side)
	var result []*Ability
	for _, a := range l.abilities[side] {
		if a.kind == kind {
			result = append(result, a)
		}
	}
	return result
}

// Affliction returns side's counter for kind.
func (l *Lane) Affliction(side int, kind AfflictionKind) (int, error) {
	if err := checkSide(side); err != nil {
		return 0, err
	}
	return l.afflictions[side].Get(kind)
}

// Afflictions returns a copy of side's counters.
func (l *Lane) Afflictions(side int) Afflictions {
	mustSide(side)
	return l.afflictions[side]
}

// SlotPosition returns the lane-local position of slot index out of count on side.
// Slots are spread evenly around the lane's center line; side 0 sits below it.
func SlotPosition(side, index, count int) mgl32.Vec2 {
	if count < 1 {
		count = 1
	}
	x := float32(index)*SlotSpacing - SlotSpacing*float32(count-1)/2
	y := float32(SideOffset)
	if side == 0 {
		y = -y
	}
	return mgl32.Vec2{x, y}
}

// --- Placement ---

// AddAbility places a on side. Attacks go on the side they attack from,
// defends on the side they protect. A presented ability is moved into its
// slot through the scheduler.
func (l *Lane) AddAbility(side int, a *Ability) error {
	if err := checkSide(side); err != nil {
		return err
	}
	if a == nil {
		return errors.Wrap(ErrInvalidAbility, "nil ability")
	}
	if err := a.Validate(); err != nil {
		return err
	}
	for s := range l.abilities {
		for _, b := range l.abilities[s] {
			if b == a {
				return errors.Wrapf(ErrInvalidAbility, "%s is already on lane %d", a.Name, l.Index)
			}
		}
	}

	l.abilities[side] = append(l.abilities[side], a)
	l.logger.Log(log.NewAbilityAddedEvent(l.turn, l.Index, side, a.Name, a.Value(), a.lifespan))

	if a.presenter != nil {
		n := len(l.abilities[side])
		l.sched.Append(sequencer.MoveAndWait(a.presenter, SlotPosition(side, n-1, n), PlacementDuration)...)
	}
	return nil
}

// RemoveAbility takes a off side. Removing an ability that is not there is a no-op.
func (l *Lane) RemoveAbility(side int, a *Ability) error {
	if err := checkSide(side); err != nil {
		return err
	}
	if l.remove(side, a) {
		l.logger.Log(log.NewAbilityRemovedEvent(l.turn, l.Index, side, a.Name))
	}
	return nil
}

func (l *Lane) remove(side int, a *Ability) bool {
	list := l.abilities[side]
	for i, b := range list {
		if b == a {
			l.abilities[side] = append(list[:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// --- Turn resolution ---

// CalculatePlayerPriority returns the side whose abilities act first.
func (l *Lane) CalculatePlayerPriority() int {
	return 0
}

// EnactBattle resolves one turn on the lane. It refreshes every ability,
// applies afflictions, queues the attacks of both sides alternately starting
// with the priority side, and ages every ability by one turn. Abilities that
// run out are swept off the lane once the attacks queued this turn have landed.
//
// EnactBattle never waits: all timed effects go through the scheduler.
func (l *Lane) EnactBattle() error {
	for side := range l.abilities {
		for _, a := range l.abilities[side] {
			a.Refresh()
		}
	}

	priority := l.CalculatePlayerPriority()

	if err := l.enactAfflictions(priority); err != nil {
		return errors.Wrapf(err, "lane %d afflictions", l.Index)
	}
	if err := l.enactAbilities(priority); err != nil {
		return errors.Wrapf(err, "lane %d abilities", l.Index)
	}

	for side := range l.abilities {
		for _, a := range l.abilities[side] {
			a.DecrementLifespan()
		}
	}
	l.sched.Append(sequencer.Instant("sweep expired", func() error {
		l.sweepExpired()
		l.turn++
		return nil
	}))
	return nil
}

func (l *Lane) enactAfflictions(priority int) error {
	order := [NumSides]int{priority, 1 - priority}

	for _, side := range order {
		choked, err := l.afflictions[side].Get(Choked)
		if err != nil {
			return err
		}
		if choked == 0 {
			continue
		}
		l.logger.Log(log.NewAfflictionDamageEvent(l.turn, l.Index, side, Choked.String(), choked))
		if err := l.hurt(side, choked, Choked.String()); err != nil {
			return err
		}
		if err := l.ApplyAffliction(side, Choked, -1); err != nil {
			return err
		}
	}

	for _, side := range order {
		rad, err := l.afflictions[side].Get(Irradiated)
		if err != nil {
			return err
		}
		if rad != IrradiatedLethal {
			continue
		}
		if err := l.requirePlayer(side); err != nil {
			return err
		}
		dmg := (l.players[side].Health() + 1) / 2
		if dmg <= 0 {
			continue
		}
		l.logger.Log(log.NewAfflictionDamageEvent(l.turn, l.Index, side, Irradiated.String(), dmg))
		if err := l.hurt(side, dmg, Irradiated.String()); err != nil {
			return err
		}
	}
	return nil
}

// enactAbilities merges both sides' attacks: strict alternation from the
// priority side while both have attacks left, then the rest in order.
func (l *Lane) enactAbilities(priority int) error {
	other := 1 - priority
	first, second := l.Attacks(priority), l.Attacks(other)

	i, j := 0, 0
	for i < len(first) || j < len(second) {
		if i <= j {
			if i < len(first) {
				if err := first[i].Activate(other, l); err != nil {
					return err
				}
			}
			i++
		} else {
			if j < len(second) {
				if err := second[j].Activate(priority, l); err != nil {
					return err
				}
			}
			j++
		}
	}
	return nil
}

func (l *Lane) sweepExpired() {
	for side := range l.abilities {
		kept := l.abilities[side][:0]
		for _, a := range l.abilities[side] {
			if a.Expired() {
				l.logger.Log(log.NewAbilityExpiredEvent(l.turn, l.Index, side, a.Name))
				continue
			}
			kept = append(kept, a)
		}
		clear(l.abilities[side][len(kept):])
		l.abilities[side] = kept
	}
}

// --- Damage ---

// TakeDamage deals dmg to side. Defends soak it up in the order they were
// placed; whatever is left hits the player.
func (l *Lane) TakeDamage(side, dmg int) error {
	if err := checkSide(side); err != nil {
		return err
	}
	if dmg < 0 {
		return errors.Wrapf(ErrInvalidAmount, "damage %d", dmg)
	}
	for _, d := range l.Defends(side) {
		if dmg == 0 {
			return nil
		}
		dmg = l.absorbWith(side, d, dmg)
	}
	if dmg == 0 {
		return nil
	}
	return l.hurt(side, dmg, "lane damage")
}

// TakeAfflictionDamage deals dmg to side together with an affliction.
//
// The first defend matching element takes the hit on its own and negates the
// affliction; anything it cannot hold goes through TakeDamage. Without a
// matching defend the affliction lands. Either way dmg is then dealt again
// through TakeDamage.
func (l *Lane) TakeAfflictionDamage(side, dmg int, af Affliction, element Element) error {
	if err := checkSide(side); err != nil {
		return err
	}
	if dmg < 0 {
		return errors.Wrapf(ErrInvalidAmount, "damage %d", dmg)
	}
	if af.Kind != AfflictionNone {
		if !af.Kind.Valid() {
			return errors.Wrapf(ErrUnknownAffliction, "kind %d", int(af.Kind))
		}
		var match *Ability
		for _, d := range l.Defends(side) {
			if d.MatchesElement(element) {
				match = d
				break
			}
		}
		if match != nil {
			l.logger.Log(log.NewAfflictionNegatedEvent(l.turn, l.Index, side, af.Kind.String(), match.Name))
			if overflow := l.absorbWith(side, match, dmg); overflow > 0 {
				if err := l.TakeDamage(side, overflow); err != nil {
					return err
				}
			}
		} else if err := l.ApplyAffliction(side, af.Kind, af.Amount); err != nil {
			return err
		}
	}
	return l.TakeDamage(side, dmg)
}

// ApplyAffliction changes side's counter for kind by delta.
func (l *Lane) ApplyAffliction(side int, kind AfflictionKind, delta int) error {
	if err := checkSide(side); err != nil {
		return err
	}
	v, err := l.afflictions[side].Apply(kind, delta)
	if err != nil {
		return err
	}
	l.logger.Log(log.NewAfflictionAppliedEvent(l.turn, l.Index, side, kind.String(), delta, v))
	return nil
}

func (l *Lane) absorbWith(side int, d *Ability, dmg int) int {
	before := d.currentDefense
	overflow := d.absorb(dmg)
	if absorbed := before - d.currentDefense; absorbed > 0 {
		l.logger.Log(log.NewDefendAbsorbEvent(l.turn, l.Index, side, d.Name, absorbed, d.currentDefense))
	}
	return overflow
}

func (l *Lane) requirePlayer(side int) error {
	if l.players[side] == nil {
		return errors.Errorf("lane %d has no player on side %d", l.Index, side)
	}
	return nil
}

// hurt applies dmg to side's player, bypassing defends.
func (l *Lane) hurt(side, dmg int, reason string) error {
	if err := l.requirePlayer(side); err != nil {
		return err
	}
	p := l.players[side]
	old := p.Health()
	p.TakeDamage(dmg)
	l.logger.Log(log.NewHPChangeEvent(l.turn, l.Index, side, old, p.Health(), reason))
	return nil
}
