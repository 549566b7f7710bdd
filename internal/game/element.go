package game

import (
	"strings"

	"github.com/pkg/errors"
)

// Element tags attacks and defends. A defend negates afflictions carried by
// attacks of its own element.
type Element int

const (
	ElementNone Element = iota
	ElementSmog
	ElementSludge
	ElementRadioactivity
	ElementWater
	ElementOil
)

func (e Element) String() string {
	switch e {
	case ElementSmog:
		return "Smog"
	case ElementSludge:
		return "Sludge"
	case ElementRadioactivity:
		return "Radioactivity"
	case ElementWater:
		return "Water"
	case ElementOil:
		return "Oil"
	default:
		return "None"
	}
}

// ParseElement maps a case-insensitive element name to its Element.
// The empty string parses as ElementNone.
func ParseElement(s string) (Element, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ElementNone, nil
	case "smog":
		return ElementSmog, nil
	case "sludge":
		return ElementSludge, nil
	case "radioactivity":
		return ElementRadioactivity, nil
	case "water":
		return ElementWater, nil
	case "oil":
		return ElementOil, nil
	}
	return ElementNone, errors.Errorf("unknown element %q", s)
}
