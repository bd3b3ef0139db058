package main

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/debrisfall/debris"
)

var (
	backgroundColor = color.RGBA{24, 26, 33, 255}
	boundaryColor   = color.RGBA{120, 120, 130, 255}
	playerColor     = color.RGBA{186, 255, 201, 255}
	doorColor       = color.RGBA{255, 223, 186, 255}
	selectedColor   = color.RGBA{255, 255, 255, 255}
)

var tierColors = []color.RGBA{
	{179, 229, 252, 255},
	{255, 200, 221, 255},
	{217, 186, 255, 255},
	{255, 179, 186, 255},
}

// Renderer draws a session with the world's y axis pointing up.
type Renderer struct {
	frame frame
}

// frame is the world rectangle kept on screen.
type frame struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

func NewRenderer(p debris.Params) *Renderer {
	margin := 2 * p.WallWidth
	return &Renderer{frame: frame{
		MinX: -p.StageWidth/2 - 2*p.WallWidth - margin,
		MaxX: p.StageWidth/2 + 2*p.WallWidth + margin,
		MinY: -margin,
		MaxY: p.StageHeight * p.SpawnHeightFactor,
	}}
}

// view maps world coordinates onto a screen of size w x h, keeping the
// aspect ratio and centring the stage horizontally.
type view struct {
	scale   float64
	offsetX float64
	offsetY float64
}

func (r *Renderer) view(w, h int) view {
	p := r.frame
	scale := min(float64(w)/(p.MaxX-p.MinX), float64(h)/(p.MaxY-p.MinY))
	return view{
		scale:   scale,
		offsetX: float64(w)/2 - (p.MinX+p.MaxX)/2*scale,
		offsetY: float64(h) + p.MinY*scale,
	}
}

func (v view) point(p mgl64.Vec2) (float32, float32) {
	return float32(v.offsetX + p.X()*v.scale), float32(v.offsetY - p.Y()*v.scale)
}

func (r *Renderer) Draw(screen *ebiten.Image, session *debris.Session, selected int) {
	screen.Fill(backgroundColor)

	world := session.World()
	if world == nil {
		return
	}

	bounds := screen.Bounds()
	v := r.view(bounds.Dx(), bounds.Dy())

	var selectedBody debris.Body
	if bodies := session.Debris(); selected >= 0 && selected < len(bodies) {
		selectedBody = bodies[selected]
	}

	for body := range world.Bodies() {
		clr := bodyColor(body)
		width := float32(1.5)
		if body == selectedBody {
			clr, width = selectedColor, 3
		}
		drawBody(screen, v, body, clr, width)
	}
}

func bodyColor(body debris.Body) color.RGBA {
	switch data := body.UserData().(type) {
	case debris.Role:
		switch data {
		case debris.RolePlayer:
			return playerColor
		case debris.RoleDoor:
			return doorColor
		default:
			return boundaryColor
		}
	case debris.DebrisData:
		return tierColors[data.Tier%len(tierColors)]
	default:
		return boundaryColor
	}
}

func drawBody(screen *ebiten.Image, v view, body debris.Body, clr color.RGBA, width float32) {
	pos := body.Position()
	rot := mgl64.Rotate2D(body.Angle())

	switch shape := body.Shape().(type) {
	case debris.Circle:
		x, y := v.point(pos)
		vector.DrawFilledCircle(screen, x, y, float32(shape.Radius*v.scale), clr, true)
	case debris.Box:
		if body.Type() == debris.StaticBody && shape.Angle == 0 && body.Angle() == 0 {
			minX, maxY := v.point(pos.Add(shape.Center).Add(mgl64.Vec2{-shape.HalfExtents.X(), shape.HalfExtents.Y()}))
			w := float32(2 * shape.HalfExtents.X() * v.scale)
			h := float32(2 * shape.HalfExtents.Y() * v.scale)
			vector.DrawFilledRect(screen, minX, maxY, w, h, clr, false)
			return
		}
		drawOutline(screen, v, pos, rot, shape.Vertices(), clr, width)
	case debris.Polygon:
		drawOutline(screen, v, pos, rot, shape.Vertices, clr, width)
	}
}

func drawOutline(screen *ebiten.Image, v view, pos mgl64.Vec2, rot mgl64.Mat2, local []mgl64.Vec2, clr color.RGBA, width float32) {
	for i := range local {
		a := pos.Add(rot.Mul2x1(local[i]))
		b := pos.Add(rot.Mul2x1(local[(i+1)%len(local)]))
		x0, y0 := v.point(a)
		x1, y1 := v.point(b)
		vector.StrokeLine(screen, x0, y0, x1, y1, width, clr, true)
	}
}
