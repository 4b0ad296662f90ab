package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tomas-hradek/ecolab/internal/ecosystem"
	"github.com/tomas-hradek/ecolab/internal/report"
	"github.com/tomas-hradek/ecolab/internal/solver"
)

// Store persists solve runs under a base directory, one directory per run
// with metadata.json, definition.yaml and captures.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID                string    `json:"id"`
	Timestamp         time.Time `json:"timestamp"`
	Consumers         int       `json:"consumers"`
	Resources         int       `json:"resources"`
	Integer           bool      `json:"integer"`
	Objective         float64   `json:"objective"`
	MarketSize        float64   `json:"market_size"`
	MarketPenetration float64   `json:"market_penetration"`
	SupplyUtilization float64   `json:"supply_utilization"`
	Nodes             int       `json:"nodes"`
}

// Capture is one row of a persisted allocation.
type Capture struct {
	Consumer    string
	Cap         float64
	Captured    float64
	Penetration float64
}

func (s *Store) Save(def *ecosystem.Definition, opts solver.Options, sol *solver.Solution, rep *report.Report) (string, error) {
	runID := fmt.Sprintf("eco_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:                runID,
		Timestamp:         time.Now(),
		Consumers:         len(def.Market),
		Resources:         len(def.Supply),
		Integer:           opts.Integer,
		Objective:         sol.Objective,
		MarketSize:        rep.MarketSize,
		MarketPenetration: rep.MarketPenetration,
		SupplyUtilization: rep.SupplyUtilization,
		Nodes:             sol.Nodes,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := ecosystem.SaveYAML(filepath.Join(runDir, "definition.yaml"), def); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "captures.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"consumer", "cap", "captured", "penetration"}); err != nil {
		return "", err
	}
	for _, consumer := range def.Consumers() {
		row := []string{
			consumer,
			strconv.FormatFloat(rep.MarketCaps[consumer], 'f', 6, 64),
			strconv.FormatFloat(rep.MarketCaptures[consumer], 'f', 6, 64),
			strconv.FormatFloat(rep.PenetrationByConsumer[consumer], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadDefinition(runID string) (*ecosystem.Definition, error) {
	return ecosystem.LoadYAML(filepath.Join(s.baseDir, runID, "definition.yaml"))
}

func (s *Store) LoadCaptures(runID string) ([]Capture, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "captures.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Capture{}, nil
	}

	captures := make([]Capture, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != 4 {
			continue
		}
		c := Capture{Consumer: record[0]}
		if c.Cap, err = strconv.ParseFloat(record[1], 64); err != nil {
			continue
		}
		if c.Captured, err = strconv.ParseFloat(record[2], 64); err != nil {
			continue
		}
		if c.Penetration, err = strconv.ParseFloat(record[3], 64); err != nil {
			continue
		}
		captures = append(captures, c)
	}

	return captures, nil
}
