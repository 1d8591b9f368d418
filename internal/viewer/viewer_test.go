package viewer

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/thermostat-panel/internal/board"
	"github.com/oshokin/thermostat-panel/internal/hal"
	"github.com/oshokin/thermostat-panel/internal/service/controller"
)

// newTestModel wires a model to an initialised controller on virtual time.
func newTestModel(t *testing.T) (model, *controller.Controller) {
	t.Helper()

	clock := hal.NewVirtualClock()
	sim := hal.NewSimulator(clock)
	ctrl := controller.New(sim, clock)
	panel := board.NewPanel(ctrl.Layout())

	sim.Observe(panel.Apply)
	require.NoError(t, ctrl.Init(context.Background()))

	return newModel(ctrl, sim, panel, clock), ctrl
}

// runesKey builds a key message for a printable key.
func runesKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// TestModel_KeyPressesReachTheLoop verifies keys hold the matching button for one accepted poll.
func TestModel_KeyPressesReachTheLoop(t *testing.T) {
	t.Parallel()

	m, ctrl := newTestModel(t)
	ctx := context.Background()

	updated, _ := m.Update(runesKey('+'))
	m = updated.(model)
	require.Equal(t, "increment", m.lastKey)

	// Several iterations: the press counts once.
	for range 10 {
		require.NoError(t, ctrl.Step(ctx))
	}

	require.Equal(t, 1, ctrl.State().Temperature)

	updated, _ = m.Update(runesKey('u'))
	m = updated.(model)

	require.NoError(t, ctrl.Step(ctx))
	require.Equal(t, "F", ctrl.State().Unit.String())

	view := m.View()
	require.Contains(t, view, "THERMOSTAT PANEL SIMULATOR")
	require.Contains(t, view, "temperature 1")
	require.Contains(t, view, "last: toggle-unit")
}

// TestModel_Quit verifies the quit keys stop the program.
func TestModel_Quit(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)

	_, cmd := m.Update(runesKey('q'))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(runesKey('x'))
	require.Nil(t, cmd)
}
