package game

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// AfflictionKind identifies one of the persistent per-side status counters.
type AfflictionKind int

const (
	AfflictionNone AfflictionKind = iota
	Choked                        // additive, floored at 0; deals its value each turn, then decays by 1
	Slow                          // binary
	Irradiated                    // clamped to [0, IrradiatedLethal]
	Flooded                       // binary
	Covered                       // binary
)

// NumAfflictions is the number of real affliction kinds (AfflictionNone excluded).
const NumAfflictions = 5

// IrradiatedLethal is the Irradiated level at which a side loses half its health each turn.
const IrradiatedLethal = 4

var ErrUnknownAffliction = errors.New("unknown affliction kind")

func (k AfflictionKind) String() string {
	switch k {
	case AfflictionNone:
		return "None"
	case Choked:
		return "Choked"
	case Slow:
		return "Slow"
	case Irradiated:
		return "Irradiated"
	case Flooded:
		return "Flooded"
	case Covered:
		return "Covered"
	default:
		return "Unknown"
	}
}

// Valid reports whether k is one of the five real kinds.
func (k AfflictionKind) Valid() bool {
	return k >= Choked && k <= Covered
}

// ParseAfflictionKind maps a case-insensitive name to its kind.
// The empty string parses as AfflictionNone.
func ParseAfflictionKind(s string) (AfflictionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return AfflictionNone, nil
	case "choked":
		return Choked, nil
	case "slow":
		return Slow, nil
	case "irradiated":
		return Irradiated, nil
	case "flooded":
		return Flooded, nil
	case "covered":
		return Covered, nil
	}
	return AfflictionNone, errors.Wrapf(ErrUnknownAffliction, "%q", s)
}

// Affliction is the status rider an attack inflicts on the side it hits.
type Affliction struct {
	Kind   AfflictionKind
	Amount int
}

// NoAffliction is the zero rider.
var NoAffliction = Affliction{}

func (a Affliction) String() string {
	if a.Kind == AfflictionNone {
		return "none"
	}
	return fmt.Sprintf("%s %+d", a.Kind, a.Amount)
}

// Afflictions holds one side's counters, one slot per kind.
type Afflictions [NumAfflictions]int

// Get returns the counter for kind.
func (a *Afflictions) Get(kind AfflictionKind) (int, error) {
	if !kind.Valid() {
		return 0, errors.Wrapf(ErrUnknownAffliction, "kind %d", int(kind))
	}
	return a[kind-Choked], nil
}

// Apply changes the counter for kind by delta following the kind's rule and
// returns the new value.
func (a *Afflictions) Apply(kind AfflictionKind, delta int) (int, error) {
	if !kind.Valid() {
		return 0, errors.Wrapf(ErrUnknownAffliction, "kind %d", int(kind))
	}
	slot := &a[kind-Choked]
	switch kind {
	case Choked:
		*slot = max(0, *slot+delta)
	case Slow, Flooded, Covered:
		if delta > 0 {
			*slot = 1
		} else {
			*slot = 0
		}
	case Irradiated:
		*slot = min(IrradiatedLethal, max(0, *slot+delta))
	}
	return *slot, nil
}
