package impulse

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// runPyramidScene builds a small pyramid of boxes, steps it and returns a
// trace of every body state at regular intervals.
func runPyramidScene() string {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})

	bd := MakeBodyDef()
	bd.Position = Vec2{0.0, -10.0}
	ground := world.CreateBody(&bd)
	groundShape := NewPolygonShape()
	groundShape.SetAsBox(50.0, 10.0)
	ground.CreateFixture(groundShape, 0.0)

	shape := NewPolygonShape()
	shape.SetAsBox(0.5, 0.5)

	fd := MakeFixtureDef()
	fd.Shape = shape
	fd.Density = 5.0
	fd.Friction = 0.3

	var bodies []*Body
	rows := 5
	for row := 0; row < rows; row++ {
		for col := 0; col < rows-row; col++ {
			bd := MakeBodyDef()
			bd.Type = DynamicBody
			bd.Position = Vec2{
				float64(col)*1.05 + 0.5*float64(row),
				0.55 + 1.1*float64(row),
			}
			body := world.CreateBody(&bd)
			body.CreateFixtureFromDef(&fd)
			bodies = append(bodies, body)
		}
	}

	var sb strings.Builder
	conf := DefaultStepConf(1.0 / 60.0)
	for i := 0; i < 300; i++ {
		world.Step(conf)
		if (i+1)%60 != 0 {
			continue
		}
		fmt.Fprintf(&sb, "step %d\n", i+1)
		for j, body := range bodies {
			p := body.GetPosition()
			v := body.GetLinearVelocity()
			fmt.Fprintf(&sb, "  body %d pos %.17g %.17g angle %.17g vel %.17g %.17g omega %.17g\n",
				j, p.X, p.Y, body.GetAngle(), v.X, v.Y, body.GetAngularVelocity())
		}
	}

	return sb.String()
}

// The solver performs no map iteration and no parallelism, so two identical
// runs must produce bit identical trajectories.
func TestDeterministicSimulation(t *testing.T) {
	first := runPyramidScene()
	second := runPyramidScene()

	if first != second {
		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(first),
			B:        difflib.SplitLines(second),
			FromFile: "first run",
			ToFile:   "second run",
			Context:  3,
		}
		text, _ := difflib.GetUnifiedDiffString(diff)
		t.Fatalf("runs diverged:\n%s", text)
	}
}

// Sub-stepping continuous physics must leave the world in a resumable state.
func TestSubSteppingCompletes(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})

	bd := MakeBodyDef()
	bd.Position = Vec2{0.0, 0.0}
	wall := world.CreateBody(&bd)
	wallShape := NewPolygonShape()
	wallShape.SetAsBox(0.1, 10.0)
	wall.CreateFixture(wallShape, 0.0)

	bd = MakeBodyDef()
	bd.Type = DynamicBody
	bd.Position = Vec2{-10.0, 0.0}
	bd.Bullet = true
	bd.LinearVelocity = Vec2{150.0, 0.0}
	bullet := world.CreateBody(&bd)
	bullet.CreateFixture(NewCircleShape(0.25), 1.0)

	conf := DefaultStepConf(1.0 / 60.0)
	conf.SubStepping = true
	for i := 0; i < 120; i++ {
		world.Step(conf)
	}

	if bullet.GetPosition().X > 0.0 {
		t.Fatalf("bullet tunneled under sub-stepping, x = %v", bullet.GetPosition().X)
	}
}
