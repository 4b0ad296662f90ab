package ecosystem

import (
	"fmt"
	"sort"
)

// Definition describes an ecosystem as a capacity-allocation model: a market
// of consumer populations, a pool of supplied resources, and per-consumer
// resource demand rates.
type Definition struct {
	// Market maps each consumer to its maximum population.
	Market map[string]float64
	// Supply maps each resource to its available quantity.
	Supply map[string]float64
	// Demand maps consumer -> resource -> quantity consumed per individual.
	Demand map[string]map[string]float64
	// Weights optionally maps consumers to objective weights. A missing
	// entry counts as 1.
	Weights map[string]float64
}

func New(market, supply map[string]float64, demand map[string]map[string]float64) *Definition {
	return &Definition{Market: market, Supply: supply, Demand: demand}
}

// Consumers returns the market's consumer names in sorted order.
func (d *Definition) Consumers() []string {
	names := make([]string, 0, len(d.Market))
	for name := range d.Market {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resources returns all supplied resource names in sorted order.
func (d *Definition) Resources() []string {
	names := make([]string, 0, len(d.Supply))
	for name := range d.Supply {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DemandedResources returns the supplied resources that appear in at least
// one consumer's demand, in sorted order. Only these become constraints.
func (d *Definition) DemandedResources() []string {
	names := make([]string, 0, len(d.Supply))
	for name := range d.Supply {
		if d.demanded(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (d *Definition) demanded(resource string) bool {
	for _, demand := range d.Demand {
		if _, ok := demand[resource]; ok {
			return true
		}
	}
	return false
}

// Coefficient returns the demand rate of consumer for resource. Missing
// entries read as zero.
func (d *Definition) Coefficient(consumer, resource string) float64 {
	demand, ok := d.Demand[consumer]
	if !ok {
		return 0
	}
	return demand[resource]
}

// Weight returns the objective weight for consumer, defaulting to 1.
func (d *Definition) Weight(consumer string) float64 {
	if w, ok := d.Weights[consumer]; ok {
		return w
	}
	return 1
}

// Clone returns a deep copy, used by sweeps and the interactive explorer so
// adjustments never touch the loaded definition.
func (d *Definition) Clone() *Definition {
	c := &Definition{
		Market: make(map[string]float64, len(d.Market)),
		Supply: make(map[string]float64, len(d.Supply)),
		Demand: make(map[string]map[string]float64, len(d.Demand)),
	}
	for k, v := range d.Market {
		c.Market[k] = v
	}
	for k, v := range d.Supply {
		c.Supply[k] = v
	}
	for consumer, demand := range d.Demand {
		dc := make(map[string]float64, len(demand))
		for k, v := range demand {
			dc[k] = v
		}
		c.Demand[consumer] = dc
	}
	if d.Weights != nil {
		c.Weights = make(map[string]float64, len(d.Weights))
		for k, v := range d.Weights {
			c.Weights[k] = v
		}
	}
	return c
}

// Validate checks internal consistency: demanded resources must be supplied,
// supplied quantities must be non-negative, and every consumer with a demand
// entry must exist in the market.
func (d *Definition) Validate() error {
	if len(d.Market) == 0 {
		return fmt.Errorf("ecosystem: market is empty")
	}
	for _, consumer := range sortedKeys(d.Demand) {
		demand := d.Demand[consumer]
		for _, resource := range sortedKeysF(demand) {
			if _, ok := d.Supply[resource]; !ok {
				return fmt.Errorf("ecosystem: %s is demanded by %s but missing from the supply definition", resource, consumer)
			}
		}
	}
	for _, resource := range d.Resources() {
		if qty := d.Supply[resource]; qty < 0 {
			return fmt.Errorf("ecosystem: supplied quantity of %s must be >= 0, got %g", resource, qty)
		}
	}
	for _, consumer := range sortedKeys(d.Demand) {
		if _, ok := d.Market[consumer]; !ok {
			return fmt.Errorf("ecosystem: %s is in the demand definition but not in the market definition", consumer)
		}
	}
	for _, consumer := range d.Consumers() {
		if cap := d.Market[consumer]; cap < 0 {
			return fmt.Errorf("ecosystem: market size of %s must be >= 0, got %g", consumer, cap)
		}
	}
	return nil
}

func sortedKeys(m map[string]map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeysF(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
