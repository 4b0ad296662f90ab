package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/tomas-hradek/ecolab/internal/ecosystem"
	"github.com/tomas-hradek/ecolab/internal/report"
	"github.com/tomas-hradek/ecolab/internal/solver"
)

const historyCapacity = 120

type paramRef struct {
	section string // "supply" or "market"
	name    string
}

// Explorer is the interactive what-if view: adjust supplies and market caps
// and watch the optimal allocation re-solve.
type Explorer struct {
	name     string
	def      *ecosystem.Definition
	initial  *ecosystem.Definition
	opts     solver.Options
	rep      *report.Report
	solveErr error
	params   []paramRef
	selected int
	history  []float64
	showHelp bool
}

// NewExplorer solves the definition once and prepares the parameter list.
func NewExplorer(name string, def *ecosystem.Definition, opts solver.Options) Explorer {
	e := Explorer{
		name:    name,
		def:     def.Clone(),
		initial: def.Clone(),
		opts:    opts,
	}
	for _, resource := range def.Resources() {
		e.params = append(e.params, paramRef{section: "supply", name: resource})
	}
	for _, consumer := range def.Consumers() {
		e.params = append(e.params, paramRef{section: "market", name: consumer})
	}
	e.resolve()
	return e
}

func (e *Explorer) resolve() {
	prob, err := solver.Build(e.def)
	if err != nil {
		e.rep, e.solveErr = nil, err
		return
	}
	sol, err := prob.Solve(e.opts)
	if err != nil {
		e.rep, e.solveErr = nil, err
		return
	}
	e.rep, e.solveErr = report.Build(e.def, sol), nil
	e.history = append(e.history, e.rep.MarketPenetration)
	if len(e.history) > historyCapacity {
		e.history = e.history[1:]
	}
}

func (e Explorer) Init() tea.Cmd {
	return nil
}

// Update handles key input; every parameter change re-solves the model.
func (e Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return e, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return e, tea.Quit
	case "tab":
		if len(e.params) > 0 {
			e.selected = (e.selected + 1) % len(e.params)
		}
	case "shift+tab":
		if len(e.params) > 0 {
			e.selected = (e.selected + len(e.params) - 1) % len(e.params)
		}
	case "up", "k":
		e.adjust(1.05)
	case "down", "j":
		e.adjust(0.95)
	case "i":
		e.opts.Integer = !e.opts.Integer
		e.resolve()
	case "r":
		e.def = e.initial.Clone()
		e.history = e.history[:0]
		e.resolve()
	case "?":
		e.showHelp = !e.showHelp
	}
	return e, nil
}

func (e *Explorer) adjust(factor float64) {
	if len(e.params) == 0 {
		return
	}
	p := e.params[e.selected]
	var m map[string]float64
	switch p.section {
	case "supply":
		m = e.def.Supply
	case "market":
		m = e.def.Market
	}
	v := m[p.name] * factor
	if v == 0 && factor > 1 {
		v = 1
	}
	m[p.name] = v
	e.resolve()
}

// View renders the parameter pane beside the solution charts.
func (e Explorer) View() string {
	var params strings.Builder
	params.WriteString(headerStyle.Render(strings.ToUpper(e.name)) + "\n")
	mode := "integer"
	if !e.opts.Integer {
		mode = "relaxed"
	}
	params.WriteString(labelStyle.Render("Mode ") + valueStyle.Render(mode) + "\n\n")

	section := ""
	for i, p := range e.params {
		if p.section != section {
			section = p.section
			params.WriteString(strings.ToUpper(section) + "\n")
		}
		var v, initial float64
		switch p.section {
		case "supply":
			v, initial = e.def.Supply[p.name], e.initial.Supply[p.name]
		case "market":
			v, initial = e.def.Market[p.name], e.initial.Market[p.name]
		}
		line := paramLine(p.name, v, initial)
		if i == e.selected {
			params.WriteString(activeStyle.Render("> "+line) + "\n")
		} else {
			params.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}
	params.WriteString(helpStyle.Render("\n─────────────────────\nTab:Select ↑↓:Adjust\nI:Mode R:Reset Q:Quit ?:Help"))

	var charts strings.Builder
	if e.solveErr != nil {
		charts.WriteString(errorStyle.Render("solve failed: "+e.solveErr.Error()) + "\n")
	} else if e.rep != nil {
		charts.WriteString(PenetrationChart(e.rep) + "\n")
		if chart, err := UtilizationChart(e.rep, "supply"); err == nil {
			charts.WriteString(chart)
		}
		if len(e.history) > 1 {
			spark := asciigraph.Plot(e.history,
				asciigraph.Height(4),
				asciigraph.Width(50),
				asciigraph.Caption("penetration history"),
			)
			charts.WriteString(graphStyle.Render(spark) + "\n")
		}
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(params.String()),
		panelStyle.Render(charts.String()))

	if e.showHelp {
		return helpOverlay + "\n\n" + main
	}
	return main
}

func paramLine(name string, v, initial float64) string {
	const width = 10
	ratio := 0.5
	if initial > 0 {
		ratio = v / (2 * initial)
	}
	if ratio > 1 {
		ratio = 1
	} else if ratio < 0 {
		ratio = 0
	}
	filled := int(ratio * width)
	bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
	return fmt.Sprintf("%-12s %s %.0f", name, bar, v)
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Tab       - Cycle parameters        ║
║  Up/K      - Increase value (+5%)    ║
║  Down/J    - Decrease value (-5%)    ║
║  I         - Toggle integer/relaxed  ║
║  R         - Reset definition        ║
║  Q         - Quit                    ║
║  ?         - Toggle this help        ║
╚══════════════════════════════════════╝`

// Run starts the explorer and blocks until quit.
func Run(name string, def *ecosystem.Definition, opts solver.Options) error {
	p := tea.NewProgram(NewExplorer(name, def, opts))
	_, err := p.Run()
	return err
}
