package debris_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/debrisfall/debris"
	"github.com/plus3/debrisfall/physics/physicstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFactory(params debris.Params) (*debris.BodyFactory, *physicstest.World) {
	world := physicstest.New(mgl64.Vec2{0, params.Gravity})
	return debris.NewBodyFactory(world, params), world
}

func TestBodyFactoryBoundaries(t *testing.T) {
	params := debris.DefaultParams()
	factory, world := newFactory(params)

	floor, left, right := factory.CreateBoundaries()
	require.Equal(t, 3, world.BodyCount())

	for _, body := range []debris.Body{floor, left, right} {
		assert.Equal(t, debris.StaticBody, body.Type())
		assert.Equal(t, debris.StaticMaterial, body.(*physicstest.Body).Material())
	}

	floorBox := floor.Shape().(debris.Box)
	assert.Equal(t, mgl64.Vec2{0, 0}, floor.Position())
	assert.Equal(t, mgl64.Vec2{params.StageWidth / 2, params.WallWidth}, floorBox.HalfExtents)
	assert.Equal(t, mgl64.Vec2{0, params.WallWidth}, floorBox.Center)

	leftBox := left.Shape().(debris.Box)
	rightBox := right.Shape().(debris.Box)
	assert.Equal(t, mgl64.Vec2{-params.StageWidth / 2, 0}, left.Position())
	assert.Equal(t, mgl64.Vec2{params.StageWidth / 2, 0}, right.Position())
	assert.Equal(t, mgl64.Vec2{params.WallWidth, params.WallHeight}, leftBox.HalfExtents)

	// The inner faces of the walls are exactly one stage width apart.
	leftInner := left.Position().X() + leftBox.Center.X() + leftBox.HalfExtents.X()
	rightInner := right.Position().X() + rightBox.Center.X() - rightBox.HalfExtents.X()
	assert.InDelta(t, params.StageWidth, rightInner-leftInner, 1e-12)

	// Walls stand on the ground and reach twice their half height.
	assert.InDelta(t, 0, leftBox.Center.Y()-leftBox.HalfExtents.Y(), 1e-12)
	assert.InDelta(t, 2*params.WallHeight, rightBox.Center.Y()+rightBox.HalfExtents.Y(), 1e-12)
}

func TestBodyFactoryPlayerAndDoor(t *testing.T) {
	params := debris.DefaultParams()
	factory, _ := newFactory(params)

	player := factory.CreatePlayer()
	assert.Equal(t, debris.DynamicBody, player.Type())
	assert.Equal(t, debris.Circle{Radius: params.PlayerSize}, player.Shape())
	assert.Equal(t, mgl64.Vec2{0, params.StageHeight * params.PlayerHeightFactor}, player.Position())
	assert.Equal(t, debris.DynamicMaterial, player.(*physicstest.Body).Material())

	door := factory.CreateDoor()
	assert.Equal(t, debris.DynamicBody, door.Type())
	assert.Equal(t, debris.Box{HalfExtents: mgl64.Vec2{params.DoorWidth, params.DoorHeight}}, door.Shape())
	assert.Equal(t, mgl64.Vec2{0, params.StageHeight * params.DoorHeightFactor}, door.Position())
	assert.Equal(t, debris.RoleDoor, door.UserData())
}

func TestBodyFactoryDebrisShapes(t *testing.T) {
	factory, _ := newFactory(debris.DefaultParams())
	data := debris.DebrisData{Tier: 1, Size: 0.5}

	box := factory.CreateDebrisBox(1, 2, 0.5, 0.25, data)
	assert.Equal(t, debris.Box{HalfExtents: mgl64.Vec2{0.5, 0.25}}, box.Shape())
	assert.Equal(t, data, box.UserData())
	assert.InDelta(t, 0.5, box.Shape().Area(), 1e-12)

	circle := factory.CreateDebrisCircle(1, 2, 0.5, data)
	assert.InDelta(t, math.Pi*0.25, circle.Shape().Area(), 1e-12)

	triangle := factory.CreateDebrisTriangle(1, 2, 1, data)
	poly, ok := triangle.Shape().(debris.Polygon)
	require.True(t, ok)
	assert.Len(t, poly.Vertices, 3)
	assert.InDelta(t, 0.433, poly.Area(), 1e-12)
}

func TestBodyFactoryRejectsInvalidBodies(t *testing.T) {
	factory, world := newFactory(debris.DefaultParams())

	tests := []struct {
		name   string
		create func()
	}{
		{"zero radius", func() { factory.CreateDebrisCircle(0, 0, 0, debris.DebrisData{}) }},
		{"negative extent", func() { factory.CreateDebrisBox(0, 0, -1, 1, debris.DebrisData{}) }},
		{"nan position", func() { factory.CreateDebrisBox(math.NaN(), 0, 1, 1, debris.DebrisData{}) }},
		{"degenerate polygon", func() {
			factory.CreateDynamicShape(0, 0, debris.Polygon{Vertices: []mgl64.Vec2{{0, 0}, {1, 0}}}, nil)
		}},
		{"clockwise polygon", func() {
			factory.CreateDynamicShape(0, 0, debris.Polygon{Vertices: []mgl64.Vec2{{0, 0}, {0, 1}, {1, 0}}}, nil)
		}},
		{"nil shape", func() { factory.CreateDynamicShape(0, 0, nil, nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, tt.create)
		})
	}
	assert.Zero(t, world.BodyCount())
}

func TestBoxVertices(t *testing.T) {
	box := debris.Box{HalfExtents: mgl64.Vec2{2, 1}, Center: mgl64.Vec2{1, 0}, Angle: math.Pi / 2}

	want := []mgl64.Vec2{{2, -2}, {2, 2}, {0, 2}, {0, -2}}
	got := box.Vertices()
	require.Len(t, got, 4)
	for i := range want {
		assert.True(t, want[i].ApproxEqualThreshold(got[i], 1e-9), "vertex %d: %v != %v", i, got[i], want[i])
	}
}

func TestContactEventInvolves(t *testing.T) {
	world := physicstest.New(mgl64.Vec2{})
	a := world.CreateBody(debris.BodyDef{Shape: debris.Circle{Radius: 1}})
	b := world.CreateBody(debris.BodyDef{Shape: debris.Circle{Radius: 1}})
	c := world.CreateBody(debris.BodyDef{Shape: debris.Circle{Radius: 1}})
	ev := debris.ContactEvent{Kind: debris.ContactBegin, A: a, B: b}

	other, ok := ev.Involves(a)
	assert.True(t, ok)
	assert.Same(t, b, other)

	other, ok = ev.Involves(b)
	assert.True(t, ok)
	assert.Same(t, a, other)

	_, ok = ev.Involves(c)
	assert.False(t, ok)
	_, ok = ev.Involves(nil)
	assert.False(t, ok)
}
