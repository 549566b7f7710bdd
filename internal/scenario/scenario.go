package scenario

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/peterkuimelis/lanes/internal/game"
)

// File represents the top-level YAML structure.
type File struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenario is a scripted match: the setup plus the abilities each side
// places at the start of each turn.
type Scenario struct {
	Name           string        `yaml:"name"`
	Lanes          int           `yaml:"lanes"`
	StartingHealth int           `yaml:"starting_health"`
	MaxTurns       int           `yaml:"max_turns"`
	Tick           time.Duration `yaml:"tick"`
	PlayOut        bool          `yaml:"play_out"` // keep ending empty turns after the script until the match is over
	Turns          []Turn        `yaml:"turns"`
}

// Turn lists the plays made during one planning phase.
type Turn struct {
	Plays []Play `yaml:"plays"`
}

// Play places one ability. Exactly one of Preset or Ability is set.
type Play struct {
	Lane    int           `yaml:"lane"`
	Side    int           `yaml:"side"`
	Preset  string        `yaml:"preset,omitempty"`
	Ability *AbilityEntry `yaml:"ability,omitempty"`
}

// AbilityEntry describes a custom ability.
type AbilityEntry struct {
	Name       string           `yaml:"name"`
	Kind       string           `yaml:"kind"` // attack, defend or generic
	Damage     int              `yaml:"damage,omitempty"`
	Defense    int              `yaml:"defense,omitempty"`
	Element    string           `yaml:"element,omitempty"`
	Lifespan   int              `yaml:"lifespan"`
	Affliction *AfflictionEntry `yaml:"affliction,omitempty"`
}

// AfflictionEntry is the rider carried by a custom attack.
type AfflictionEntry struct {
	Kind   string `yaml:"kind"`
	Amount int    `yaml:"amount"`
}

// Parse decodes a scenario file.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse scenario YAML")
	}
	for i := range f.Scenarios {
		if err := f.Scenarios[i].Validate(); err != nil {
			return nil, errors.Wrapf(err, "scenario %d", i+1)
		}
	}
	return &f, nil
}

// Load reads and parses the scenario file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario file")
	}
	return Parse(data)
}

// ByNumber returns the Nth scenario (1-indexed).
func (f *File) ByNumber(n int) (*Scenario, error) {
	if n < 1 || n > len(f.Scenarios) {
		return nil, errors.Errorf("scenario %d not found (have %d scenarios)", n, len(f.Scenarios))
	}
	return &f.Scenarios[n-1], nil
}

// ByName returns the scenario called name, ignoring case.
func (f *File) ByName(name string) (*Scenario, error) {
	for i := range f.Scenarios {
		if strings.EqualFold(f.Scenarios[i].Name, name) {
			return &f.Scenarios[i], nil
		}
	}
	return nil, errors.Errorf("scenario %q not found", name)
}

// Validate checks that every play can be built and placed.
func (s *Scenario) Validate() error {
	if s.Tick < 0 {
		return errors.Errorf("negative tick %v", s.Tick)
	}
	lanes := s.Lanes
	if lanes <= 0 {
		lanes = game.DefaultLaneCount
	}
	for ti, turn := range s.Turns {
		for pi, p := range turn.Plays {
			if p.Lane < 0 || p.Lane >= lanes {
				return errors.Errorf("turn %d play %d: lane %d out of range", ti+1, pi+1, p.Lane)
			}
			if _, err := p.Build(); err != nil {
				return errors.Wrapf(err, "turn %d play %d", ti+1, pi+1)
			}
		}
	}
	return nil
}

// Build creates a fresh ability for the play.
func (p Play) Build() (*game.Ability, error) {
	switch {
	case p.Preset != "" && p.Ability != nil:
		return nil, errors.New("play names both a preset and an ability")
	case p.Preset != "":
		return game.LookupPreset(p.Preset)
	case p.Ability != nil:
		return p.Ability.Build()
	}
	return nil, errors.New("play names neither a preset nor an ability")
}

// Build creates the described ability and checks it.
func (e *AbilityEntry) Build() (*game.Ability, error) {
	element, err := game.ParseElement(e.Element)
	if err != nil {
		return nil, err
	}

	var a *game.Ability
	switch strings.ToLower(e.Kind) {
	case "attack":
		a = game.NewAttack(e.Name, e.Damage, element, e.Lifespan)
		if e.Affliction != nil {
			kind, err := game.ParseAfflictionKind(e.Affliction.Kind)
			if err != nil {
				return nil, err
			}
			a.WithAffliction(game.Affliction{Kind: kind, Amount: e.Affliction.Amount})
		}
	case "defend":
		a = game.NewDefend(e.Name, e.Defense, element, e.Lifespan)
	case "generic", "":
		a = game.NewGeneric(e.Name, e.Lifespan)
	default:
		return nil, errors.Errorf("unknown ability kind %q", e.Kind)
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}
