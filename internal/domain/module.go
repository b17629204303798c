package domain

import "fmt"

// Module selects a prediction formula and its input schema.
type Module int

const (
	ModuleAccident Module = iota + 1
	ModuleAirQuality
	ModuleActivity
	ModuleParking
)

var moduleNames = map[Module]string{
	ModuleAccident:   "accident",
	ModuleAirQuality: "air_quality",
	ModuleActivity:   "activity",
	ModuleParking:    "parking",
}

func (m Module) String() string {
	if name, ok := moduleNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Module(%d)", int(m))
}

// ParseModule maps a wire name ("accident", "air_quality", "activity",
// "parking") to a Module.
func ParseModule(name string) (Module, error) {
	for m, n := range moduleNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownModule, name)
}
