package storage

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tomas-hradek/ecolab/internal/ecosystem"
	"github.com/tomas-hradek/ecolab/internal/report"
	"github.com/tomas-hradek/ecolab/internal/solver"
)

func solvedRun(t *testing.T) (*ecosystem.Definition, solver.Options, *solver.Solution, *report.Report) {
	t.Helper()
	def := &ecosystem.Definition{
		Market: map[string]float64{"frogs": 30, "toads": 20},
		Supply: map[string]float64{"worms": 500},
		Demand: map[string]map[string]float64{
			"frogs": {"worms": 12},
			"toads": {"worms": 20},
		},
	}
	opts := solver.DefaultOptions()
	prob, err := solver.Build(def)
	if err != nil {
		t.Fatal(err)
	}
	sol, err := prob.Solve(opts)
	if err != nil {
		t.Fatal(err)
	}
	return def, opts, sol, report.Build(def, sol)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	def, opts, sol, rep := solvedRun(t)
	runID, err := st.Save(def, opts, sol, rep)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(runID, "eco_") {
		t.Errorf("unexpected run id: %s", runID)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.ID != runID {
		t.Errorf("expected id %s, got %s", runID, meta.ID)
	}
	if !meta.Integer {
		t.Error("expected integer run")
	}
	if meta.Objective != sol.Objective {
		t.Errorf("expected objective %g, got %g", sol.Objective, meta.Objective)
	}
	if meta.Consumers != 2 || meta.Resources != 1 {
		t.Errorf("unexpected sizes: %d consumers, %d resources", meta.Consumers, meta.Resources)
	}
}

func TestLoadDefinition(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	def, opts, sol, rep := solvedRun(t)
	runID, err := st.Save(def, opts, sol, rep)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := st.LoadDefinition(runID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Market["frogs"] != 30 {
		t.Errorf("expected 30 frogs, got %g", loaded.Market["frogs"])
	}
	if loaded.Demand["toads"]["worms"] != 20 {
		t.Errorf("expected demand 20, got %g", loaded.Demand["toads"]["worms"])
	}
}

func TestLoadCaptures(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	def, opts, sol, rep := solvedRun(t)
	runID, err := st.Save(def, opts, sol, rep)
	if err != nil {
		t.Fatal(err)
	}

	captures, err := st.LoadCaptures(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(captures) != 2 {
		t.Fatalf("expected 2 capture rows, got %d", len(captures))
	}
	// Rows follow sorted consumer order.
	if captures[0].Consumer != "frogs" || captures[1].Consumer != "toads" {
		t.Errorf("unexpected row order: %+v", captures)
	}
	if captures[0].Captured != sol.Captures["frogs"] {
		t.Errorf("expected %g captured frogs, got %g", sol.Captures["frogs"], captures[0].Captured)
	}
}

func TestList_EmptyDir(t *testing.T) {
	st := New(t.TempDir() + "/missing")
	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestExportJSON(t *testing.T) {
	def, _, sol, rep := solvedRun(t)
	meta := &RunMetadata{ID: "eco_test", Integer: true, Objective: sol.Objective}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, def, rep); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if data.ID != "eco_test" {
		t.Errorf("expected id eco_test, got %s", data.ID)
	}
	if data.Captures["frogs"] != sol.Captures["frogs"] {
		t.Errorf("capture mismatch: %g != %g", data.Captures["frogs"], sol.Captures["frogs"])
	}
}

func TestExportCSV(t *testing.T) {
	captures := []Capture{
		{Consumer: "frogs", Cap: 30, Captured: 30, Penetration: 1},
		{Consumer: "toads", Cap: 20, Captured: 7, Penetration: 0.35},
	}

	var buf bytes.Buffer
	if err := ExportCSV(&buf, captures); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "consumer,cap,captured,penetration") {
		t.Errorf("missing header: %s", out)
	}
	if !strings.Contains(out, "toads") {
		t.Errorf("missing row: %s", out)
	}
}
