package viz

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/dpsim/internal/pendulum"
)

func newTestModel(t *testing.T, p pendulum.Params, clearOnReset bool) Model {
	t.Helper()
	st, err := pendulum.New(p, 0)
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(st, Options{Dt: 0.05, FPS: 20, GrabRadius: 20, ClearOnReset: clearOnReset})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func mouseAt(m Model, p pendulum.Point, action tea.MouseAction) tea.MouseMsg {
	col, row := m.worldToCell(p)
	return tea.MouseMsg{X: col, Y: row, Action: action, Button: tea.MouseButtonLeft}
}

func TestViewportRoundTrip(t *testing.T) {
	m := newTestModel(t, pendulum.DefaultParams(), false)

	for _, p := range []pendulum.Point{m.st.Origin, m.st.Joint1(), m.st.Joint2()} {
		x, y := m.view.toCanvas(p)
		back := m.view.toWorld(float64(x), float64(y))
		if back.Dist(p) > 1/m.view.scale {
			t.Errorf("round trip of %v gave %v", p, back)
		}
	}

	x, y := m.view.toCanvas(m.st.Origin)
	if x != width || y != height*2 {
		t.Errorf("origin should map to canvas center, got (%d, %d)", x, y)
	}
}

func TestTickStepsWhenRunning(t *testing.T) {
	m := newTestModel(t, pendulum.DefaultParams(), false)

	m = update(t, m, TickMsg(time.Now()))
	m = update(t, m, TickMsg(time.Now()))
	if m.st.Trail().Len() != 2 {
		t.Errorf("expected 2 trail points, got %d", m.st.Trail().Len())
	}
	if math.Abs(m.t-0.1) > 1e-12 {
		t.Errorf("expected t=0.1, got %f", m.t)
	}
	if len(m.energyHistory) != 2 {
		t.Errorf("expected 2 energy samples, got %d", len(m.energyHistory))
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	theta := m.st.Theta1
	m = update(t, m, TickMsg(time.Now()))
	if m.st.Theta1 != theta || m.st.Trail().Len() != 2 {
		t.Error("paused model should not step")
	}
}

func TestDragBob(t *testing.T) {
	m := newTestModel(t, pendulum.ManualParams(), false)
	theta1 := m.st.Theta1

	m = update(t, m, mouseAt(m, m.st.Joint2(), tea.MouseActionPress))
	if !m.dragging {
		t.Fatal("press on the bob should start dragging")
	}

	m = update(t, m, TickMsg(time.Now()))
	if m.st.Trail().Len() != 0 {
		t.Error("dragging should freeze the simulation")
	}

	target := pendulum.Point{X: m.st.Joint2().X + 100, Y: m.st.Joint1().Y}
	m = update(t, m, mouseAt(m, target, tea.MouseActionMotion))
	if m.st.Theta2 == 0 {
		t.Error("motion should re-angle the second link")
	}
	if m.st.Theta1 != theta1 {
		t.Error("dragging must not change theta1")
	}
	if math.Abs(m.st.Joint1().Dist(m.st.Joint2())-m.st.L2) > 1e-9 {
		t.Error("re-angling must preserve the second link length")
	}

	m = update(t, m, mouseAt(m, target, tea.MouseActionRelease))
	if m.dragging {
		t.Error("release should stop dragging")
	}
	m = update(t, m, TickMsg(time.Now()))
	if m.st.Trail().Len() != 1 {
		t.Error("stepping should resume after release")
	}
}

func TestPressAwayFromBobDoesNotGrab(t *testing.T) {
	m := newTestModel(t, pendulum.ManualParams(), false)

	m = update(t, m, mouseAt(m, m.st.Origin, tea.MouseActionPress))
	if m.dragging {
		t.Error("press at the pivot should not grab the bob")
	}

	m = update(t, m, mouseAt(m, pendulum.Point{X: 0, Y: 0}, tea.MouseActionMotion))
	if m.st.Theta2 != 0 {
		t.Error("motion without a grab should not re-angle")
	}
}

func TestResetAndClear(t *testing.T) {
	tests := []struct {
		name         string
		clearOnReset bool
		wantTrail    int
	}{
		{"keep trail", false, 3},
		{"clear trail", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, pendulum.DefaultParams(), tt.clearOnReset)
			for i := 0; i < 3; i++ {
				m = update(t, m, TickMsg(time.Now()))
			}

			m = update(t, m, key('r'))
			if m.st.Theta1 != pendulum.DefaultParams().Theta1 || m.st.Omega1 != 0 {
				t.Error("reset should restore the configured state")
			}
			if m.st.Trail().Len() != tt.wantTrail {
				t.Errorf("expected %d trail points, got %d", tt.wantTrail, m.st.Trail().Len())
			}
			if m.t != 0 || len(m.energyHistory) != 0 {
				t.Error("reset should clear the clock and history")
			}

			m = update(t, m, key('c'))
			if m.st.Trail().Len() != 0 {
				t.Error("c should clear the trail")
			}
		})
	}
}

func TestThemeAndQuit(t *testing.T) {
	m := newTestModel(t, pendulum.DefaultParams(), false)
	before := CurrentTheme.Name
	m = update(t, m, key('t'))
	if CurrentTheme.Name == before {
		t.Error("t should cycle the theme")
	}
	SetTheme(before)

	_, cmd := m.Update(key('q'))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestResize(t *testing.T) {
	m := newTestModel(t, pendulum.DefaultParams(), false)
	m = update(t, m, tea.WindowSizeMsg{Width: 160, Height: 50})
	if m.canvas.Width != m.width || m.canvas.Height != m.height {
		t.Error("canvas should follow the model size")
	}
	if m.height != 48 {
		t.Errorf("expected height 48, got %d", m.height)
	}
}

func TestView(t *testing.T) {
	m := newTestModel(t, pendulum.DefaultParams(), false)
	for i := 0; i < 5; i++ {
		m = update(t, m, TickMsg(time.Now()))
	}

	out := m.View()
	for _, want := range []string{"RUNNING", "θ1", "ω2", "Energy"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
