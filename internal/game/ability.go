package game

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/peterkuimelis/lanes/internal/log"
	"github.com/peterkuimelis/lanes/internal/sequencer"
)

// Kind is the variant tag of an Ability.
type Kind int

const (
	KindGeneric Kind = iota
	KindAttack
	KindDefend
)

func (k Kind) String() string {
	switch k {
	case KindAttack:
		return "Attack"
	case KindDefend:
		return "Defend"
	default:
		return "Generic"
	}
}

// Attack activation timing. Every attack plays its cue, waits, deals its
// damage, then waits again before the next queued effect runs.
const (
	ActivationCueDelay = 500 * time.Millisecond
	DamageSettleDelay  = 250 * time.Millisecond
)

var ErrInvalidAbility = errors.New("invalid ability")

// Presenter is the optional visual attached to an ability. Every call into it
// is a notification; combat logic never depends on one being present.
type Presenter interface {
	// UpdateVisuals is called whenever lifespan, value or element changes.
	UpdateVisuals()
	PlayActivateAnimation()
	MoveTo(pos mgl32.Vec2, d time.Duration)
}

// Ability is a timed effect placed on one side of a lane. It is a closed
// union over Kind: fields that do not belong to the variant stay zero.
type Ability struct {
	ID   string
	Name string

	kind     Kind
	element  Element
	lifespan int

	// Attack
	damage     int
	affliction Affliction

	// Defend
	maxDefense     int
	currentDefense int

	presenter Presenter
}

// NewAttack creates an attack that hits the opposing side for damage every
// turn it is on the field.
func NewAttack(name string, damage int, element Element, lifespan int) *Ability {
	return &Ability{
		ID:       uuid.NewString(),
		Name:     name,
		kind:     KindAttack,
		element:  element,
		lifespan: lifespan,
		damage:   damage,
	}
}

// NewDefend creates a defend that absorbs up to defense damage per turn.
func NewDefend(name string, defense int, element Element, lifespan int) *Ability {
	return &Ability{
		ID:             uuid.NewString(),
		Name:           name,
		kind:           KindDefend,
		element:        element,
		lifespan:       lifespan,
		maxDefense:     defense,
		currentDefense: defense,
	}
}

// NewGeneric creates an ability with no combat behaviour of its own.
func NewGeneric(name string, lifespan int) *Ability {
	return &Ability{
		ID:       uuid.NewString(),
		Name:     name,
		kind:     KindGeneric,
		lifespan: lifespan,
	}
}

// WithAffliction sets the rider an attack inflicts when it lands.
// It has no effect on other kinds.
func (a *Ability) WithAffliction(af Affliction) *Ability {
	if a.kind == KindAttack {
		a.affliction = af
	}
	return a
}

// Attach links a presenter to the ability, replacing any previous one.
func (a *Ability) Attach(p Presenter) {
	a.presenter = p
	a.notify()
}

// Detach drops the presenter. The ability keeps working without it.
func (a *Ability) Detach() {
	a.presenter = nil
}

func (a *Ability) Presenter() Presenter { return a.presenter }
func (a *Ability) Kind() Kind           { return a.kind }
func (a *Ability) Element() Element     { return a.element }
func (a *Ability) Lifespan() int        { return a.lifespan }
func (a *Ability) Damage() int          { return a.damage }
func (a *Ability) MaxDefense() int      { return a.maxDefense }
func (a *Ability) CurrentDefense() int  { return a.currentDefense }

// Affliction returns the attack's rider, or NoAffliction.
func (a *Ability) Affliction() Affliction { return a.affliction }

// DecrementLifespan uses up one turn.
func (a *Ability) DecrementLifespan() {
	a.lifespan--
	a.notify()
}

// Expired reports whether the ability has no turns left.
func (a *Ability) Expired() bool {
	return a.lifespan <= 0
}

// Value is the number shown on the ability: damage for attacks, remaining
// defense for defends, 0 otherwise.
func (a *Ability) Value() int {
	switch a.kind {
	case KindAttack:
		return a.damage
	case KindDefend:
		return a.currentDefense
	default:
		return 0
	}
}

// MatchesElement reports whether the ability is tagged with e.
func (a *Ability) MatchesElement(e Element) bool {
	return a.element == e
}

// Refresh restores a defend to full strength. Called once per turn before
// combat; a no-op for other kinds.
func (a *Ability) Refresh() {
	if a.kind != KindDefend {
		return
	}
	if a.currentDefense != a.maxDefense {
		a.currentDefense = a.maxDefense
		a.notify()
	}
}

// absorb soaks up to currentDefense of dmg and returns what gets through.
func (a *Ability) absorb(dmg int) int {
	if a.kind != KindDefend {
		return dmg
	}
	absorbed := min(a.currentDefense, dmg)
	a.currentDefense -= absorbed
	if absorbed > 0 {
		a.notify()
	}
	return dmg - absorbed
}

// Activate queues the ability's active effect against target on lane l.
// Only attacks do anything: a cue, a pause, the hit, another pause.
func (a *Ability) Activate(target int, l *Lane) error {
	if a.kind != KindAttack {
		return nil
	}
	if err := checkSide(target); err != nil {
		return err
	}
	side, turn := 1-target, l.turn
	l.sched.Append(
		sequencer.Instant("activation cue", func() error {
			l.logger.Log(log.NewActivateEvent(turn, l.Index, side, a.Name, target))
			if a.presenter != nil {
				a.presenter.PlayActivateAnimation()
			}
			return nil
		}),
		sequencer.Delay(ActivationCueDelay),
		sequencer.Instant("deal damage", func() error {
			if a.affliction.Kind != AfflictionNone {
				return l.TakeAfflictionDamage(target, a.damage, a.affliction, a.element)
			}
			return l.TakeDamage(target, a.damage)
		}),
		sequencer.Delay(DamageSettleDelay),
	)
	return nil
}

// Validate checks the variant invariants of a freshly built ability.
func (a *Ability) Validate() error {
	switch {
	case a.lifespan <= 0:
		return errors.Wrapf(ErrInvalidAbility, "%s: lifespan %d", a.Name, a.lifespan)
	case a.kind == KindAttack && a.damage < 0:
		return errors.Wrapf(ErrInvalidAbility, "%s: negative damage %d", a.Name, a.damage)
	case a.kind == KindDefend && (a.maxDefense < 0 || a.currentDefense < 0 || a.currentDefense > a.maxDefense):
		return errors.Wrapf(ErrInvalidAbility, "%s: defense %d/%d", a.Name, a.currentDefense, a.maxDefense)
	case a.affliction.Kind != AfflictionNone && !a.affliction.Kind.Valid():
		return errors.Wrapf(ErrUnknownAffliction, "%s: kind %d", a.Name, int(a.affliction.Kind))
	}
	return nil
}

func (a *Ability) String() string {
	switch a.kind {
	case KindAttack:
		s := fmt.Sprintf("%s [Attack %d %s, %d turns]", a.Name, a.damage, a.element, a.lifespan)
		if a.affliction.Kind != AfflictionNone {
			s += " +" + a.affliction.String()
		}
		return s
	case KindDefend:
		return fmt.Sprintf("%s [Defend %d/%d %s, %d turns]", a.Name, a.currentDefense, a.maxDefense, a.element, a.lifespan)
	default:
		return fmt.Sprintf("%s [Generic, %d turns]", a.Name, a.lifespan)
	}
}

func (a *Ability) notify() {
	if a.presenter != nil {
		a.presenter.UpdateVisuals()
	}
}
