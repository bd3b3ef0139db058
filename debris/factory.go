package debris

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Role marks what a body is for. It is stored as user data on every body
// the factory creates except debris, which carry their size tier instead.
type Role uint8

const (
	RoleFloor Role = iota
	RoleLeftWall
	RoleRightWall
	RolePlayer
	RoleDoor
)

func (r Role) String() string {
	switch r {
	case RoleFloor:
		return "floor"
	case RoleLeftWall:
		return "left wall"
	case RoleRightWall:
		return "right wall"
	case RolePlayer:
		return "player"
	case RoleDoor:
		return "door"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// DebrisData is the user data attached to every debris body.
type DebrisData struct {
	Tier int
	Size float64
}

// BodyFactory builds correctly parameterised bodies in a World.
type BodyFactory struct {
	world  World
	params Params
}

// NewBodyFactory creates a factory bound to world.
func NewBodyFactory(world World, params Params) *BodyFactory {
	return &BodyFactory{world: world, params: params}
}

// CreateStaticBox creates an immovable box at (x, y). offset and angle
// place the box relative to the body origin.
func (f *BodyFactory) CreateStaticBox(x, y, halfWidth, halfHeight float64, offset mgl64.Vec2, angle float64, data any) Body {
	return f.create(BodyDef{
		Type:     StaticBody,
		Position: mgl64.Vec2{x, y},
		Shape: Box{
			HalfExtents: mgl64.Vec2{halfWidth, halfHeight},
			Center:      offset,
			Angle:       angle,
		},
		Material: StaticMaterial,
		UserData: data,
	})
}

// CreateDynamicShape creates a movable body at (x, y) with the shared
// dynamic material.
func (f *BodyFactory) CreateDynamicShape(x, y float64, shape Shape, data any) Body {
	return f.create(BodyDef{
		Type:     DynamicBody,
		Position: mgl64.Vec2{x, y},
		Shape:    shape,
		Material: DynamicMaterial,
		UserData: data,
	})
}

// CreateDebrisBox creates a dynamic box with half extents w and h.
func (f *BodyFactory) CreateDebrisBox(x, y, w, h float64, data DebrisData) Body {
	return f.CreateDynamicShape(x, y, Box{HalfExtents: mgl64.Vec2{w, h}}, data)
}

// CreateDebrisCircle creates a dynamic disc of the given radius.
func (f *BodyFactory) CreateDebrisCircle(x, y, radius float64, data DebrisData) Body {
	return f.CreateDynamicShape(x, y, Circle{Radius: radius}, data)
}

// CreateDebrisTriangle creates a dynamic equilateral triangle with edge e,
// pointing down from its top edge.
func (f *BodyFactory) CreateDebrisTriangle(x, y, e float64, data DebrisData) Body {
	return f.CreateDynamicShape(x, y, Polygon{Vertices: []mgl64.Vec2{
		{0, 0},
		{e * 0.5, -e * 0.866},
		{e, 0},
	}}, data)
}

// CreateBoundaries builds the floor and both walls so the space between
// the inner wall faces is exactly StageWidth wide.
func (f *BodyFactory) CreateBoundaries() (floor, left, right Body) {
	p := f.params
	floor = f.CreateStaticBox(0, 0, p.StageWidth/2, p.WallWidth,
		mgl64.Vec2{0, p.WallWidth}, 0, RoleFloor)
	left = f.CreateStaticBox(-p.StageWidth/2, 0, p.WallWidth, p.WallHeight,
		mgl64.Vec2{-p.WallWidth, p.WallHeight}, 0, RoleLeftWall)
	right = f.CreateStaticBox(p.StageWidth/2, 0, p.WallWidth, p.WallHeight,
		mgl64.Vec2{p.WallWidth, p.WallHeight}, 0, RoleRightWall)
	return floor, left, right
}

// CreatePlayer creates the player disc above the floor.
func (f *BodyFactory) CreatePlayer() Body {
	p := f.params
	return f.CreateDynamicShape(0, p.StageHeight*p.PlayerHeightFactor,
		Circle{Radius: p.PlayerSize}, RolePlayer)
}

// CreateDoor creates the door box above the stage; it falls in like debris.
func (f *BodyFactory) CreateDoor() Body {
	p := f.params
	return f.CreateDynamicShape(0, p.StageHeight*p.DoorHeightFactor,
		Box{HalfExtents: mgl64.Vec2{p.DoorWidth, p.DoorHeight}}, RoleDoor)
}

func (f *BodyFactory) create(def BodyDef) Body {
	if def.Shape == nil || !def.Shape.valid() {
		panic(fmt.Sprintf("invalid %s body shape %#v", def.Type, def.Shape))
	}
	if !finite(def.Position.X()) || !finite(def.Position.Y()) {
		panic(fmt.Sprintf("invalid %s body position %v", def.Type, def.Position))
	}
	return f.world.CreateBody(def)
}
