// Package tui provides the live terminal view of a running chain.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mcfluid/internal/mc"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

const historyLen = 160

type progressMsg struct {
	step     int
	energy   float64
	accepted bool
}

type doneMsg struct{ err error }

type model struct {
	cfg      mc.Config
	step     int
	accepts  int
	proposed int
	energy   float64
	history  []float64
	finished bool
	err      error
	width    int
}

func newModel(cfg mc.Config) model {
	return model{cfg: cfg, history: make([]float64, 0, historyLen), width: 80}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case progressMsg:
		m.step = msg.step
		m.energy = msg.energy
		m.proposed++
		if msg.accepted {
			m.accepts++
		}
		m.history = append(m.history, msg.energy)
		if len(m.history) > historyLen {
			m.history = m.history[1:]
		}
	case doneMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	var sb strings.Builder

	sb.WriteString(cyan.Render("mcfluid live") + "\n")
	sb.WriteString(dim.Render(fmt.Sprintf("N=%d  L=%.2f  tau=%.2f  M=%d",
		m.cfg.N, m.cfg.BoxSide, m.cfg.Temperature, m.cfg.Steps)) + "\n\n")

	if len(m.history) >= 2 {
		width := m.width - 12
		if width > 100 {
			width = 100
		}
		if width < 20 {
			width = 20
		}
		sb.WriteString(asciigraph.Plot(m.history,
			asciigraph.Height(10),
			asciigraph.Width(width),
			asciigraph.Caption("total energy"),
		))
		sb.WriteString("\n\n")
	}

	rate := 0.0
	if m.proposed > 0 {
		rate = float64(m.accepts) / float64(m.proposed)
	}
	sb.WriteString(fmt.Sprintf("%s %d/%d   %s %.4f   %s %s\n",
		dim.Render("step"), m.step+1, m.cfg.Steps,
		dim.Render("energy"), m.energy,
		dim.Render("accept"), yellow.Render(fmt.Sprintf("%.1f%%", 100*rate)),
	))

	if m.finished {
		sb.WriteString(green.Render("done") + "\n")
	} else {
		sb.WriteString(dim.Render("q to stop") + "\n")
	}
	return sb.String()
}

// RunLive executes the chain while rendering progress. Stopping the
// view cancels the sampler; the committed prefix is still returned.
func RunLive(cfg mc.Config) (*mc.Result, error) {
	s, err := mc.NewSampler(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(newModel(cfg))

	stride := cfg.Steps / 400
	if stride < 1 {
		stride = 1
	}
	s.AddObserver(mc.ObserverFunc(func(step int, energy float64, accepted bool) {
		if step%stride == 0 || step == cfg.Steps-1 {
			p.Send(progressMsg{step: step, energy: energy, accepted: accepted})
		}
	}))

	var res *mc.Result
	var runErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		res, runErr = s.Run(ctx)
		p.Send(doneMsg{err: runErr})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return res, err
	}
	cancel()
	<-done

	if errors.Is(runErr, context.Canceled) {
		return res, nil // user stopped the view; prefix is valid
	}
	return res, runErr
}
