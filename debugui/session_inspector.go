package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/debrisfall/debris"
)

// SessionInspector shows the phase, clock, counters and parameters of a
// session, with a button to start over.
type SessionInspector struct{}

func NewSessionInspector() *SessionInspector {
	return &SessionInspector{}
}

func (si *SessionInspector) Render(session *debris.Session) {
	if !imgui.BeginV("Session", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if session.World() == nil {
		imgui.Text("Session not started")
		imgui.End()
		return
	}

	params := session.Params()

	imgui.Text(fmt.Sprintf("State: %s", session.State()))
	imgui.Text(fmt.Sprintf("Remaining: %.2f s / %.0f s", session.RemainingTime(), params.TimeLimit))
	imgui.Text(fmt.Sprintf("Elapsed: %.2f s", session.Elapsed()))
	imgui.Text(fmt.Sprintf("Debris: %d / %d", session.SpawnedCount(), params.MaxDebris))
	imgui.Text(fmt.Sprintf("Player contacts: %d (grounded: %v)", session.ContactCount(), session.IsPlayerGrounded()))

	if player := session.Player(); player != nil {
		pos, vel := player.Position(), player.LinearVelocity()
		imgui.Text(fmt.Sprintf("Player: (%.2f, %.2f) v=(%.2f, %.2f)", pos.X(), pos.Y(), vel.X(), vel.Y()))
	}
	if door := session.Door(); door != nil {
		pos := door.Position()
		imgui.Text(fmt.Sprintf("Door: (%.2f, %.2f)", pos.X(), pos.Y()))
	} else {
		imgui.Text("Door: not placed")
	}

	if imgui.Button("Reset") {
		session.Reset()
	}

	imgui.Separator()

	if imgui.TreeNodeStr("Transitions") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("TransitionTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("From")
			imgui.TableSetupColumn("To")
			imgui.TableSetupColumn("At (s)")
			imgui.TableHeadersRow()

			for _, t := range session.Transitions() {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(t.From.String())
				imgui.TableNextColumn()
				imgui.Text(t.To.String())
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%.3f", t.At))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Params") {
		for _, line := range ParamLines(params) {
			imgui.BulletText(line)
		}
		imgui.TreePop()
	}

	imgui.End()
}

// ParamLines renders every Params field as "yaml_key: value", in field
// order.
func ParamLines(params debris.Params) []string {
	val := reflect.ValueOf(params)
	fields := globalReflectionCache.GetFields(val.Type())

	lines := make([]string, 0, len(fields))
	for _, field := range fields {
		lines = append(lines, fmt.Sprintf("%s: %s", field.Key, formatValue(val.Field(field.Index))))
	}
	return lines
}

func formatValue(val reflect.Value) string {
	switch val.Kind() {
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%g", val.Float())
	case reflect.Slice:
		if val.Len() == 0 {
			return "[]"
		}
		return fmt.Sprintf("%v", val.Interface())
	default:
		return fmt.Sprintf("%v", val.Interface())
	}
}
