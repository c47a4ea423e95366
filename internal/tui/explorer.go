package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/hawkmoth/internal/analysis"
	"github.com/san-kum/hawkmoth/internal/config"
	"github.com/san-kum/hawkmoth/internal/experiment"
	"github.com/san-kum/hawkmoth/internal/viz"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var tabs = []experiment.Kind{experiment.Hawkmoth, experiment.Butterfly}

var tabInfo = map[experiment.Kind]string{
	experiment.Hawkmoth:  "same initial, different model",
	experiment.Butterfly: "different initial, same model",
}

// slider is one adjustable parameter of the sidebar.
type slider struct {
	name     string
	min, max float64
	step     float64
	format   string
	get      func(*config.Config) float64
	set      func(*config.Config, float64)
}

var sliders = []slider{
	{"r", experiment.MinR, experiment.MaxR, experiment.StepR, "%.2f",
		func(c *config.Config) float64 { return c.R },
		func(c *config.Config, v float64) { c.R = v }},
	{"x0", experiment.MinX0, experiment.MaxX0, experiment.StepX0, "%.2f",
		func(c *config.Config) float64 { return c.X0 },
		func(c *config.Config, v float64) { c.X0 = v }},
	{"steps", experiment.MinSteps, experiment.MaxSteps, experiment.StepSteps, "%.0f",
		func(c *config.Config) float64 { return float64(c.Steps) },
		func(c *config.Config, v float64) { c.Steps = int(v + 0.5) }},
	{"epsilon", experiment.MinEpsilon, experiment.MaxEpsilon, experiment.StepEpsilon, "%.3f",
		func(c *config.Config) float64 { return c.Epsilon },
		func(c *config.Config, v float64) { c.Epsilon = v }},
	{"delta", experiment.MinDelta, experiment.MaxDelta, experiment.StepDelta, "%.3f",
		func(c *config.Config) float64 { return c.Delta },
		func(c *config.Config, v float64) { c.Delta = v }},
	{"noise", experiment.MinNoise, experiment.MaxNoise, experiment.StepNoise, "%.3f",
		func(c *config.Config) float64 { return c.NoiseLevel },
		func(c *config.Config, v float64) { c.NoiseLevel = v }},
}

// Explorer is the bubbletea model of the interactive explorer.
type Explorer struct {
	cfg     *config.Config
	initial *config.Config
	tab     int
	cursor  int

	result *experiment.Comparison
	err    error

	width  int
	height int
}

// NewExplorer builds the interactive explorer starting from cfg.
func NewExplorer(cfg *config.Config) *Explorer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	m := &Explorer{
		cfg:     cfg.Clone(),
		initial: cfg.Clone(),
		width:   cfg.Chart.Width + 30,
		height:  cfg.Chart.Height*2 + 16,
	}
	if cfg.Experiment == string(experiment.Butterfly) {
		m.tab = 1
	}
	m.recompute()
	return m
}

func (m Explorer) Init() tea.Cmd { return nil }

func (m Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Explorer) handleKey(msg tea.KeyMsg) (Explorer, tea.Cmd) {
	if k := msg.String(); k == "q" || k == "ctrl+c" || k == "esc" {
		return m, tea.Quit
	}

	// The previous model shares the config pointer.
	m.cfg = m.cfg.Clone()
	switch msg.String() {
	case "tab", "shift+tab":
		m.tab = (m.tab + 1) % len(tabs)
	case "1":
		m.tab = 0
	case "2":
		m.tab = 1
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(sliders)-1 {
			m.cursor++
		}
	case "left", "h":
		m.adjust(-1)
	case "right", "l":
		m.adjust(1)
	case "n":
		m.cfg.NoiseEnabled = !m.cfg.NoiseEnabled
	case "r":
		m.cfg = m.initial.Clone()
	default:
		return m, nil
	}
	m.cfg.Experiment = string(tabs[m.tab])
	m.recompute()
	return m, nil
}

func (m *Explorer) adjust(dir float64) {
	s := sliders[m.cursor]
	v := math.Round((s.get(m.cfg)+dir*s.step)/s.step) * s.step
	if v < s.min {
		v = s.min
	}
	if v > s.max {
		v = s.max
	}
	s.set(m.cfg, v)
}

func (m *Explorer) recompute() {
	p := m.cfg.Params().Clamp()
	switch tabs[m.tab] {
	case experiment.Butterfly:
		m.result, m.err = experiment.RunButterfly(p)
	default:
		m.result, m.err = experiment.RunHawkmoth(p)
	}
}

func (m Explorer) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("   " + cyan.Render("h a w k m o t h") + "  " + dim.Render("sensitivity explorer for the logistic map") + "\n")
	b.WriteString("   " + m.viewTabs() + "\n")
	b.WriteString("   " + viz.Separator(40) + "\n\n")

	body := m.viewResult()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(), "  ", body))

	b.WriteString("\n" + dim.Render("   tab switch  ↑↓ select  ←→ adjust  n noise  r reset  q quit") + "\n")
	return b.String()
}

func (m Explorer) viewTabs() string {
	parts := make([]string, len(tabs))
	for i, k := range tabs {
		label := fmt.Sprintf("%d %s", i+1, k)
		if i == m.tab {
			parts[i] = white.Render("[" + label + "]")
		} else {
			parts[i] = dim.Render(" " + label + " ")
		}
	}
	return strings.Join(parts, " ") + "  " + dimmer.Render(tabInfo[tabs[m.tab]])
}

func (m Explorer) viewSidebar() string {
	var b strings.Builder
	for i, s := range sliders {
		val := fmt.Sprintf("%8s", fmt.Sprintf(s.format, s.get(m.cfg)))
		if s.name == "noise" && !m.cfg.NoiseEnabled {
			val = fmt.Sprintf("%8s", "off")
		}
		if i == m.cursor {
			b.WriteString("   " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-8s", s.name)) + magenta.Render(val) + "\n")
		} else {
			b.WriteString("     " + dim.Render(fmt.Sprintf("%-8s", s.name)) + dim.Render(val) + "\n")
		}
	}

	noise := yellow.Render("○ noise off")
	if m.cfg.NoiseEnabled {
		noise = green.Render("● noise on")
	}
	b.WriteString("\n     " + noise + "\n")

	if m.result != nil {
		b.WriteString("\n     " + dim.Render("divergence") + "\n")
		b.WriteString("     " + viz.SparklineChart(m.result.Divergence, 20) + "\n")
	}
	return b.String()
}

func (m Explorer) viewResult() string {
	if m.err != nil {
		return red.Render("error: " + m.err.Error())
	}
	if m.result == nil {
		return ""
	}

	opts := viz.ChartOptions{
		Height: m.cfg.Chart.Height,
		Width:  max(m.width-40, 20),
		Color:  true,
	}
	var b strings.Builder
	b.WriteString(viz.TrajectoryChart(m.result, opts))
	b.WriteString("\n\n")
	b.WriteString(viz.DivergenceChart(m.result, opts))
	b.WriteString("\n\n")
	b.WriteString(viz.SummaryBlock(analysis.Summarize(m.result.Divergence, analysis.DefaultHorizonThreshold)))
	return b.String()
}

// Run starts the explorer in the alternate screen.
func Run(cfg *config.Config) error {
	p := tea.NewProgram(NewExplorer(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
