package config

import (
	"sort"

	"github.com/tomas-hradek/ecolab/internal/ecosystem"
)

// Preset is a built-in ecosystem definition for demos and quick starts.
type Preset struct {
	Description string
	Definition  *ecosystem.Definition
}

var Presets = map[string]Preset{
	"pond": {
		Description: "amphibians competing for pond invertebrates",
		Definition: &ecosystem.Definition{
			Market: map[string]float64{"frogs": 30, "toads": 20, "newts": 15},
			Supply: map[string]float64{"flies": 3000, "worms": 800, "snails": 400},
			Demand: map[string]map[string]float64{
				"frogs": {"flies": 60, "worms": 12, "snails": 5},
				"toads": {"flies": 40, "worms": 20, "snails": 2},
				"newts": {"flies": 20, "worms": 8, "snails": 10},
			},
		},
	},
	"meadow": {
		Description: "grazers sharing grassland forage",
		Definition: &ecosystem.Definition{
			Market: map[string]float64{"rabbits": 40, "voles": 60, "deer": 10},
			Supply: map[string]float64{"grass": 5000, "clover": 1200, "bark": 300},
			Demand: map[string]map[string]float64{
				"rabbits": {"grass": 50, "clover": 20},
				"voles":   {"grass": 20, "clover": 10},
				"deer":    {"grass": 200, "bark": 30},
			},
		},
	},
	"tidepool": {
		Description: "intertidal filter feeders and grazers",
		Definition: &ecosystem.Definition{
			Market: map[string]float64{"anemones": 25, "crabs": 15, "urchins": 20},
			Supply: map[string]float64{"plankton": 10000, "algae": 600, "detritus": 400},
			Demand: map[string]map[string]float64{
				"anemones": {"plankton": 300},
				"crabs":    {"algae": 25, "detritus": 10},
				"urchins":  {"algae": 15, "detritus": 5},
			},
		},
	},
}

// GetPreset returns a copy of the named preset's definition, or nil. Copies
// keep interactive adjustments from leaking into the shared table.
func GetPreset(name string) *ecosystem.Definition {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Definition.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
