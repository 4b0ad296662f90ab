package ecosystem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const pondCSV = `,frogs,toads,newts,supply
flies,60,40,20,3000
worms,12,20,8,800
snails,5,2,10,400
market,30,20,15,
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	def, err := LoadCSV(writeFile(t, "pond.csv", pondCSV))
	if err != nil {
		t.Fatal(err)
	}

	if def.Market["frogs"] != 30 || def.Market["toads"] != 20 || def.Market["newts"] != 15 {
		t.Errorf("unexpected market: %v", def.Market)
	}
	if def.Supply["flies"] != 3000 || def.Supply["worms"] != 800 || def.Supply["snails"] != 400 {
		t.Errorf("unexpected supply: %v", def.Supply)
	}
	if def.Demand["toads"]["worms"] != 20 {
		t.Errorf("expected toads/worms demand 20, got %g", def.Demand["toads"]["worms"])
	}
	if err := def.Validate(); err != nil {
		t.Errorf("loaded definition should validate: %v", err)
	}
}

func TestLoadCSV_BadCell(t *testing.T) {
	csv := ",frogs,supply\nflies,sixty,3000\nmarket,30,\n"
	_, err := LoadCSV(writeFile(t, "bad.csv", csv))
	if err == nil {
		t.Fatal("expected error for non-numeric cell")
	}
	if !strings.Contains(err.Error(), "sixty") {
		t.Errorf("error should quote the bad cell: %v", err)
	}
}

func TestLoadCSV_TooShort(t *testing.T) {
	if _, err := LoadCSV(writeFile(t, "short.csv", ",frogs,supply\nmarket,30,\n")); err == nil {
		t.Error("expected error for file without resource rows")
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	def := &Definition{
		Market: map[string]float64{"frogs": 30},
		Supply: map[string]float64{"flies": 3000},
		Demand: map[string]map[string]float64{"frogs": {"flies": 60}},
	}

	path := filepath.Join(t.TempDir(), "pond.yaml")
	if err := SaveYAML(path, def); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadYAML(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Market["frogs"] != 30 {
		t.Errorf("expected market frogs 30, got %g", loaded.Market["frogs"])
	}
	if loaded.Demand["frogs"]["flies"] != 60 {
		t.Errorf("expected demand 60, got %g", loaded.Demand["frogs"]["flies"])
	}
}

func TestLoadYAML_MissingSection(t *testing.T) {
	yaml := "market:\n  frogs: 30\nsupply:\n  flies: 100\n"
	_, err := LoadYAML(writeFile(t, "partial.yaml", yaml))
	if err == nil {
		t.Fatal("expected error for missing demand section")
	}
	if !strings.Contains(err.Error(), "demand") {
		t.Errorf("error should name the missing section: %v", err)
	}
	if !strings.Contains(err.Error(), "market") {
		t.Errorf("error should list the sections found: %v", err)
	}
}

func TestLoad_ByExtension(t *testing.T) {
	if _, err := Load(writeFile(t, "pond.csv", pondCSV)); err != nil {
		t.Errorf("csv load failed: %v", err)
	}

	yaml := "market:\n  frogs: 30\nsupply:\n  flies: 100\ndemand:\n  frogs:\n    flies: 2\n"
	if _, err := Load(writeFile(t, "pond.yaml", yaml)); err != nil {
		t.Errorf("yaml load failed: %v", err)
	}
}
