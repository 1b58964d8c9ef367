package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-sirs/pkg/config"
	"github.com/dd0wney/cluso-sirs/pkg/logging"
	"github.com/dd0wney/cluso-sirs/pkg/pubsub"
	"github.com/dd0wney/cluso-sirs/pkg/simulation"
)

type keyMap struct {
	Play key.Binding
	Step key.Binding
	Up   key.Binding
	Down key.Binding
	Help key.Binding
	Quit key.Binding
}

var keys = keyMap{
	Play: key.NewBinding(
		key.WithKeys(" ", "p"),
		key.WithHelp("space", "play/pause"),
	),
	Step: key.NewBinding(
		key.WithKeys("n", "right"),
		key.WithHelp("n", "step"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "scroll up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "scroll down"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Step, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Step},
		{k.Up, k.Down},
		{k.Help, k.Quit},
	}
}

type (
	tickMsg         time.Time
	frameMsg        simulation.Frame
	framesClosedMsg struct{}
	stepErrMsg      struct{ err error }
)

// tuiModel renders frames received from the hub. Steps run in a tea.Cmd;
// at most one is in flight, and the next may start only after its frame
// has arrived.
type tuiModel struct {
	engine     *simulation.Engine
	frames     <-chan simulation.Frame
	iterations int
	interval   time.Duration

	playing  bool
	stepping bool
	frame    simulation.Frame
	history  []simulation.GlobalSnapshot

	table  table.Model
	help   help.Model
	keys   keyMap
	width  int
	height int
	err    error
}

func newTUIModel(engine *simulation.Engine, frames <-chan simulation.Frame, iterations int, interval time.Duration) tuiModel {
	columns := []table.Column{
		{Title: "t", Width: 5},
		{Title: "Susceptible", Width: 12},
		{Title: "Infected", Width: 10},
		{Title: "Recovered", Width: 10},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	return tuiModel{
		engine:     engine,
		frames:     frames,
		iterations: iterations,
		interval:   interval,
		table:      t,
		help:       help.New(),
		keys:       keys,
	}
}

func waitForFrame(frames <-chan simulation.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-frames
		if !ok {
			return framesClosedMsg{}
		}
		return frameMsg(f)
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// stepCmd advances the engine. Success is reported by the frame the
// engine publishes, so only failures produce a message here.
func stepCmd(engine *simulation.Engine) tea.Cmd {
	return func() tea.Msg {
		if _, err := engine.Step(); err != nil {
			return stepErrMsg{err: err}
		}
		return nil
	}
}

func (m tuiModel) done() bool {
	return m.err != nil || m.frame.Global.Timestep >= m.iterations
}

// startStep returns the command for the next step, or nil when a step is
// in flight or the run is over.
func (m *tuiModel) startStep() tea.Cmd {
	if m.stepping || m.done() {
		return nil
	}
	m.stepping = true
	return stepCmd(m.engine)
}

func (m tuiModel) Init() tea.Cmd {
	return waitForFrame(m.frames)
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case frameMsg:
		m.applyFrame(simulation.Frame(msg))
		m.stepping = false
		if m.done() {
			m.playing = false
		}
		cmds = append(cmds, waitForFrame(m.frames))
		if m.playing {
			cmds = append(cmds, tickCmd(m.interval))
		}

	case framesClosedMsg:
		m.playing = false

	case stepErrMsg:
		m.stepping = false
		m.playing = false
		m.err = msg.err

	case tickMsg:
		if m.playing {
			cmds = append(cmds, m.startStep())
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Play):
			if m.done() {
				break
			}
			m.playing = !m.playing
			if m.playing {
				cmds = append(cmds, m.startStep())
			}

		case key.Matches(msg, m.keys.Step):
			m.playing = false
			cmds = append(cmds, m.startStep())

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *tuiModel) applyFrame(f simulation.Frame) {
	m.frame = f
	m.history = append(m.history, f.Global)

	rows := make([]table.Row, len(m.history))
	for i, h := range m.history {
		rows[i] = table.Row{
			fmt.Sprintf("%d", h.Timestep),
			fmt.Sprintf("%d", h.Susceptible),
			fmt.Sprintf("%d", h.Infected),
			fmt.Sprintf("%d", h.Recovered),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoBottom()
}

func (m tuiModel) status() string {
	state := "paused"
	switch {
	case m.err != nil:
		state = "halted"
	case m.done():
		state = "finished"
	case m.playing:
		state = "playing"
	}
	return fmt.Sprintf("t=%d/%d  %s  %s", m.frame.Global.Timestep, m.iterations, renderCounts(m.frame.Global.Counts), state)
}

func (m tuiModel) View() string {
	if len(m.history) == 0 {
		return "Initializing..."
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("SIRS across four communities"))
	s.WriteString("\n\n")

	s.WriteString(renderCommunities(m.frame.Communities))
	s.WriteString("\n")

	chartWidth := 60
	if m.width > 10 {
		chartWidth = min(m.width-8, 120)
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		renderSeries(m.history, chartWidth/2),
		"  ",
		m.table.View(),
	))
	s.WriteString("\n\n")

	s.WriteString(helpStyle.Render(m.status()))
	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render("✗ " + m.err.Error()))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return s.String()
}

func newTUICmd() *cobra.Command {
	var (
		pf       paramFlags
		interval time.Duration
		logFile  string
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run a simulation in the terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := pf.load(cmd.Flags())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("interval") {
				cfg.TUI.Interval = interval
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			// Log lines would tear the alternate screen.
			var logger logging.Logger = logging.NewNopLogger()
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				logger = logging.NewLogger(f, logging.ParseLevel(cfg.Logging.Level), logging.ParseFormat(cfg.Logging.Format))
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			hub := pubsub.NewHub[simulation.Frame](0)
			defer hub.Shutdown()
			sub, err := hub.Subscribe(ctx)
			if err != nil {
				return err
			}

			opts := append(cfg.Options(logger), simulation.WithObserver(simulation.ObserverFunc(hub.Publish)))
			engine, err := simulation.New(cfg.Params(), opts...)
			if err != nil {
				return err
			}

			m := newTUIModel(engine, sub.Channel(), cfg.Simulation.Iterations, cfg.TUI.Interval)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run terminal ui: %w", err)
			}
			return nil
		},
	}

	pf.register(cmd.Flags())
	cmd.Flags().DurationVar(&interval, "interval", config.Default().TUI.Interval, "delay between timesteps while playing")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")

	return cmd
}
