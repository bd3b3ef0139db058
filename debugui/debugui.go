// Package debugui provides Dear ImGui debug windows for debris sessions.
// The windows read the session directly; call DebugUI.Render between the
// backend's BeginFrame and EndFrame.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/debrisfall/debris"
)

// ImguiItem holds a Dear ImGui render function drawn every frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks whether Dear ImGui is consuming mouse or keyboard
// input. Frontends check it before reacting to input themselves.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// DebugUI is the set of debug windows for one session.
type DebugUI struct {
	Visible bool
	Input   ImguiInputState

	Inspector *SessionInspector
	Browser   *DebrisBrowser
	Stats     *PerformanceStats

	session *debris.Session
	timer   *FrameTimer
	items   []ImguiItem
}

// New creates the standard windows for session: inspector, debris browser
// and performance stats.
func New(session *debris.Session) *DebugUI {
	ui := &DebugUI{
		Visible:   true,
		Inspector: NewSessionInspector(),
		Browser:   NewDebrisBrowser(50),
		Stats:     NewPerformanceStats(120),
		session:   session,
		timer:     NewFrameTimer(),
	}

	ui.Add(func() { ui.Inspector.Render(ui.session) })
	ui.Add(func() { ui.Browser.Render(ui.session) })
	ui.Add(func() { ui.Stats.Render(ui.session, ui.timer.GetDeltaTime()) })

	return ui
}

// Add registers an extra window.
func (ui *DebugUI) Add(render func()) {
	ui.items = append(ui.items, ImguiItem{Render: render})
}

// Render updates the input capture state and, when visible, draws every
// window.
func (ui *DebugUI) Render() {
	io := imgui.CurrentIO()
	ui.Input.WantCaptureMouse = io.WantCaptureMouse()
	ui.Input.WantCaptureKeyboard = io.WantCaptureKeyboard()

	if !ui.Visible {
		return
	}

	for _, item := range ui.items {
		item.Render()
	}
}

// Toggle flips visibility.
func (ui *DebugUI) Toggle() {
	ui.Visible = !ui.Visible
}
