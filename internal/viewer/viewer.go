package viewer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/thermostat-panel/internal/board"
	"github.com/oshokin/thermostat-panel/internal/domain/thermostat"
	"github.com/oshokin/thermostat-panel/internal/hal"
	"github.com/oshokin/thermostat-panel/internal/logger"
	"github.com/oshokin/thermostat-panel/internal/service/controller"
)

const (
	// refreshInterval is how often the view samples the panel.
	refreshInterval = 50 * time.Millisecond
	// pressMargin extends a key press past the settle delay so that one
	// poll of the button sees both reads Low.
	pressMargin = 40 * time.Millisecond
)

// Palette.
var (
	colorTitleBg = lipgloss.Color("17")
	colorTitleFg = lipgloss.Color("51")
	colorBorder  = lipgloss.Color("62")
	colorSegment = lipgloss.Color("196")
	colorDark    = lipgloss.Color("237")
	colorLabel   = lipgloss.Color("252")
	colorDim     = lipgloss.Color("240")
	colorLED     = [thermostat.RangeLEDCount]lipgloss.Color{"33", "42", "220", "208"}
	colorAlarm   = lipgloss.Color("196")
)

// keyBindings maps keys to panel buttons.
var keyBindings = map[string]board.Button{
	"+":    board.ButtonIncrement,
	"=":    board.ButtonIncrement,
	"up":   board.ButtonIncrement,
	"-":    board.ButtonDecrement,
	"down": board.ButtonDecrement,
	"u":    board.ButtonToggleUnit,
	"m":    board.ButtonChangeMode,
	"s":    board.ButtonStopAlarm,
}

// Options controls the simulator session.
type Options struct {
	// LogFile receives the loop logs; empty discards them so they do not
	// tear the terminal view.
	LogFile string
}

// tickMsg triggers a redraw.
type tickMsg time.Time

// model is the bubbletea model of the simulated panel.
type model struct {
	// ctrl is the running loop, read for the status line.
	ctrl *controller.Controller
	// sim is the board the loop drives; key presses go here.
	sim *hal.Simulator
	// panel decodes what the pins show.
	panel *board.Panel
	// clock is the simulator timeline.
	clock hal.Clock
	// lastKey is the last button pressed, for the footer.
	lastKey string
	// width is the terminal width.
	width int
}

// Run starts the loop on a simulated board and shows it until the user quits
// or ctx is cancelled.
func Run(ctx context.Context, opts *Options) error {
	closeLog, err := redirectLogs(opts.LogFile)
	if err != nil {
		return err
	}

	defer closeLog()

	ctx = logger.WithName(ctx, "simulator")

	clock := hal.NewRealClock()
	sim := hal.NewSimulator(clock, hal.WithoutEventLog())
	ctrl := controller.New(sim, clock)
	panel := board.NewPanel(ctrl.Layout())

	sim.Observe(panel.Apply)

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopErr := make(chan error, 1)

	go func() {
		loopErr <- ctrl.Run(loopCtx)
	}()

	program := tea.NewProgram(
		newModel(ctrl, sim, panel, clock),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err = program.Run()

	cancel()

	if runErr := <-loopErr; runErr != nil {
		return fmt.Errorf("simulated loop: %w", runErr)
	}

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run simulator view: %w", err)
	}

	return nil
}

// redirectLogs points the global logger at a file, or at nothing.
func redirectLogs(path string) (func(), error) {
	previous := logger.Logger()

	if path == "" {
		logger.SetLogger(logger.NewWithSink(zapcore.AddSync(io.Discard), nil))

		return func() { logger.SetLogger(previous) }, nil
	}

	//nolint:gosec // The path comes from the operator's own command line.
	file, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	logger.SetLogger(logger.NewWithSink(zapcore.AddSync(file), nil))

	return func() {
		logger.SetLogger(previous)
		_ = file.Close()
	}, nil
}

// newModel builds the initial view model.
func newModel(ctrl *controller.Controller, sim *hal.Simulator, panel *board.Panel, clock hal.Clock) model {
	return model{
		ctrl:  ctrl,
		sim:   sim,
		panel: panel,
		clock: clock,
	}
}

// tick schedules the next redraw.
func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the redraw ticker.
func (m model) Init() tea.Cmd {
	return tick()
}

// Update handles key presses, resizes and redraw ticks.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key == "q" || key == "ctrl+c" || key == "esc" {
			return m, tea.Quit
		}

		if button, ok := keyBindings[key]; ok {
			m.press(button)
		}

		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width

		return m, nil
	case tickMsg:
		return m, tick()
	}

	return m, nil
}

// press holds a panel button down for one debounced poll.
func (m *model) press(button board.Button) {
	layout := m.ctrl.Layout()
	hold := m.ctrl.Timing().Debounce[button] + pressMargin

	m.sim.Press(layout.ButtonPin(button), hold)
	m.lastKey = button.String()
}

// View renders the panel.
func (m model) View() string {
	view := m.panel.Snapshot(m.clock.Now())
	state := m.ctrl.State()

	sections := []string{
		m.renderTitle(),
		m.renderDisplay(view),
		m.renderLEDs(view),
		m.renderStatus(state),
		m.renderFooter(),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTitle draws the header bar.
func (m model) renderTitle() string {
	style := lipgloss.NewStyle()
	if m.width > 0 {
		style = style.Width(m.width)
	}

	return style.
		Bold(true).
		Foreground(colorTitleFg).
		Background(colorTitleBg).
		Padding(0, 1).
		Render("THERMOSTAT PANEL SIMULATOR")
}

// renderDisplay draws the three 7-segment digits.
func (m model) renderDisplay(view board.PanelView) string {
	lit := lipgloss.NewStyle().Foreground(colorSegment).Bold(true)
	dark := lipgloss.NewStyle().Foreground(colorDark)

	var rows [3]strings.Builder

	for _, digit := range view.Digits {
		style := dark
		pattern := byte(0x7F)

		if digit.Lit {
			style = lit
			pattern = digit.Pattern
		}

		for i, row := range segmentRows(pattern) {
			rows[i].WriteString(style.Render(row))
			rows[i].WriteString(" ")
		}
	}

	lines := make([]string, 0, len(rows))
	for i := range rows {
		lines = append(lines, rows[i].String())
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderLEDs draws the range LEDs and the alarm LED.
func (m model) renderLEDs(view board.PanelView) string {
	labels := [thermostat.RangeLEDCount]string{"<15", "15-25", "26-35", "36-40"}
	dim := lipgloss.NewStyle().Foreground(colorDim)

	parts := make([]string, 0, thermostat.RangeLEDCount+1)

	for i, on := range view.RangeLEDs {
		dot := dim.Render("○")
		if on {
			dot = lipgloss.NewStyle().Foreground(colorLED[i]).Render("●")
		}

		parts = append(parts, fmt.Sprintf("%s %s", dot, dim.Render(labels[i])))
	}

	alarm := dim.Render("○ alarm")
	if view.Alarm {
		alarm = lipgloss.NewStyle().Foreground(colorAlarm).Bold(true).Render("● ALARM")
	}

	parts = append(parts, alarm)

	return " " + strings.Join(parts, "   ")
}

// renderStatus draws the loop state as text.
func (m model) renderStatus(state thermostat.State) string {
	label := lipgloss.NewStyle().Foreground(colorLabel)

	return label.Render(fmt.Sprintf(" temperature %d°C   mode %s   unit %s",
		state.Temperature, state.Mode, state.Unit))
}

// renderFooter draws the key help and the last pressed button.
func (m model) renderFooter() string {
	dim := lipgloss.NewStyle().Foreground(colorDim)
	help := "+/- temperature  u unit  m mode  s stop alarm  q quit"

	if m.lastKey != "" {
		help += "   last: " + m.lastKey
	}

	return dim.Render(" " + help)
}
