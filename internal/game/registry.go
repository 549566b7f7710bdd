package game

import (
	"sort"

	"github.com/pkg/errors"
)

// PresetRegistry maps preset names to constructors. Each call returns a
// fresh ability with its own ID.
var PresetRegistry = map[string]func() *Ability{
	"Basic Attack": BasicAttack,
	"Slow Attack":  SlowAttack,
	"Basic Defend": BasicDefend,
	"Quick Defend": QuickDefend,
	"Smog Cloud":   SmogCloud,
	"Fallout":      Fallout,
	"Rally Banner": RallyBanner,
}

var ErrUnknownPreset = errors.New("unknown preset")

// LookupPreset builds the preset ability called name.
func LookupPreset(name string) (*Ability, error) {
	ctor, ok := PresetRegistry[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPreset, "%q", name)
	}
	return ctor(), nil
}

// PresetNames returns every preset name, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(PresetRegistry))
	for name := range PresetRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Deal 4 damage each turn for 2 turns.
func BasicAttack() *Ability {
	return NewAttack("Basic Attack", 4, ElementSmog, 2)
}

// Deal 2 damage each turn for 5 turns.
func SlowAttack() *Ability {
	return NewAttack("Slow Attack", 2, ElementSmog, 5)
}

// Block 3 damage each turn for 2 turns.
func BasicDefend() *Ability {
	return NewDefend("Basic Defend", 3, ElementSludge, 2)
}

// Block 5 damage each turn for 1 turn.
func QuickDefend() *Ability {
	return NewDefend("Quick Defend", 5, ElementRadioactivity, 1)
}

// Deal 1 damage and choke for 2 each turn for 3 turns.
func SmogCloud() *Ability {
	return NewAttack("Smog Cloud", 1, ElementSmog, 3).
		WithAffliction(Affliction{Kind: Choked, Amount: 2})
}

// Deal 1 damage and irradiate by 1 each turn for 4 turns.
func Fallout() *Ability {
	return NewAttack("Fallout", 1, ElementRadioactivity, 4).
		WithAffliction(Affliction{Kind: Irradiated, Amount: 1})
}

// Does nothing in combat; holds its slot for 3 turns.
func RallyBanner() *Ability {
	return NewGeneric("Rally Banner", 3)
}
