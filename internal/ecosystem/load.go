package ecosystem

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type yamlDefinition struct {
	Market  map[string]float64            `yaml:"market"`
	Supply  map[string]float64            `yaml:"supply"`
	Demand  map[string]map[string]float64 `yaml:"demand"`
	Weights map[string]float64            `yaml:"weights"`
}

// LoadYAML reads a definition file with market, supply and demand sections
// and an optional weights section.
func LoadYAML(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw yamlDefinition
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ecosystem: parse %s: %w", path, err)
	}
	if err := raw.checkSections(); err != nil {
		return nil, err
	}
	return &Definition{
		Market:  raw.Market,
		Supply:  raw.Supply,
		Demand:  raw.Demand,
		Weights: raw.Weights,
	}, nil
}

func (r yamlDefinition) checkSections() error {
	var missing, present []string
	for _, s := range []struct {
		name string
		ok   bool
	}{
		{"market", len(r.Market) > 0},
		{"supply", len(r.Supply) > 0},
		{"demand", len(r.Demand) > 0},
	} {
		if s.ok {
			present = append(present, s.name)
		} else {
			missing = append(missing, s.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("ecosystem: definition needs the sections market, supply and demand; missing %s (found: %s)",
			strings.Join(missing, ", "), strings.Join(present, ", "))
	}
	return nil
}

// SaveYAML writes the definition with deterministic key order (yaml.v3 sorts
// map keys on marshal).
func SaveYAML(path string, d *Definition) error {
	raw := yamlDefinition{
		Market:  d.Market,
		Supply:  d.Supply,
		Demand:  d.Demand,
		Weights: d.Weights,
	}
	data, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCSV reads the tabular layout: header row names the consumers with a
// trailing supply column, each body row holds one resource's demand
// coefficients and its supplied quantity, and the final row holds the market
// caps (its supply cell is ignored).
//
//	,frogs,toads,newts,supply
//	flies,60,40,20,3000
//	worms,12,20,8,800
//	market,30,20,15,
func LoadCSV(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ecosystem: parse %s: %w", path, err)
	}
	if len(records) < 3 {
		return nil, fmt.Errorf("ecosystem: %s needs a header, at least one resource row and a market row", path)
	}

	header := records[0]
	if len(header) < 3 {
		return nil, fmt.Errorf("ecosystem: %s needs at least one consumer column and a supply column", path)
	}
	consumers := header[1 : len(header)-1]

	def := &Definition{
		Market: make(map[string]float64, len(consumers)),
		Supply: make(map[string]float64, len(records)-2),
		Demand: make(map[string]map[string]float64, len(consumers)),
	}
	for _, consumer := range consumers {
		def.Demand[strings.TrimSpace(consumer)] = make(map[string]float64)
	}

	parse := func(row, col int) (float64, error) {
		cell := strings.TrimSpace(records[row][col])
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return 0, fmt.Errorf("ecosystem: %s row %d col %d: %q is not numeric", path, row+1, col+1, cell)
		}
		return v, nil
	}

	for i := 1; i < len(records)-1; i++ {
		if len(records[i]) != len(header) {
			return nil, fmt.Errorf("ecosystem: %s row %d has %d cells, want %d", path, i+1, len(records[i]), len(header))
		}
		resource := strings.TrimSpace(records[i][0])
		for j, consumer := range consumers {
			v, err := parse(i, j+1)
			if err != nil {
				return nil, err
			}
			def.Demand[strings.TrimSpace(consumer)][resource] = v
		}
		qty, err := parse(i, len(header)-1)
		if err != nil {
			return nil, err
		}
		def.Supply[resource] = qty
	}

	last := len(records) - 1
	if len(records[last]) < len(header)-1 {
		return nil, fmt.Errorf("ecosystem: %s market row has %d cells, want at least %d", path, len(records[last]), len(header)-1)
	}
	for j, consumer := range consumers {
		v, err := parse(last, j+1)
		if err != nil {
			return nil, err
		}
		def.Market[strings.TrimSpace(consumer)] = v
	}

	return def, nil
}

// Load picks the loader by file extension: .csv uses the tabular layout,
// everything else is treated as YAML.
func Load(path string) (*Definition, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return LoadCSV(path)
	}
	return LoadYAML(path)
}
