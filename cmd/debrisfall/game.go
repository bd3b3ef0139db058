package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/debrisfall/control"
	"github.com/plus3/debrisfall/debris"
	"github.com/plus3/debrisfall/debugui"
	debugui_ebiten "github.com/plus3/debrisfall/debugui/ebiten"
)

// Game implements ebiten.Game around one session.
type Game struct {
	session      *debris.Session
	ui           *debugui.DebugUI
	imguiBackend debugui_ebiten.ImguiBackend
	renderer     *Renderer
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.imguiBackend.BeginFrame()
	defer g.imguiBackend.EndFrame()

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.ui.Toggle()
	}

	if !g.ui.Input.WantCaptureKeyboard {
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			g.session.Reset()
		}
		control.Apply(g.session, readInput())
	}

	g.session.Tick(1.0 / float64(ebiten.TPS()))
	g.ui.Render()

	return nil
}

func readInput() control.Input {
	return control.Input{
		Left:  ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA),
		Right: ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD),
		Jump: inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
			inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) ||
			inpututil.IsKeyJustPressed(ebiten.KeyW),
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.session, g.ui.Browser.Selected())

	ebitenutil.DebugPrint(screen, hud(g.session))

	g.imguiBackend.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.imguiBackend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func hud(session *debris.Session) string {
	text := fmt.Sprintf("%s  time %.1f  debris %d/%d",
		session.State(), max(session.RemainingTime(), 0), session.SpawnedCount(), session.Params().MaxDebris)

	switch session.State() {
	case debris.Win:
		text += "\nYou reached the door! R to play again"
	case debris.Dead:
		text += "\nOut of time. R to try again"
	case debris.Stopped:
		text += "\nThe door is here, touch it!"
	}
	return text + "\narrows move, space jumps, F1 debug"
}
