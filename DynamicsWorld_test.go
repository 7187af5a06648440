package reactphysics3d

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

func TestWorldFreeFall(t *testing.T) {
	world := MakeDynamicsWorld(DefaultWorldConfig())

	def := MakeBodyDef()
	def.Type = DynamicBody
	def.Mass = 1.0
	def.Position = Vector3{0.0, 1.0, 0.0}
	body := world.CreateBody(def)

	world.Step(testDt, nil)

	wantV := -9.81 * testDt
	if vy := body.LinearVelocity().Y(); math.Abs(vy-wantV) > 1e-12 {
		t.Fatalf("velocity after one step = %v, want %v", vy, wantV)
	}
	wantY := 1.0 + wantV*testDt
	if y := body.Position().Y(); math.Abs(y-wantY) > 1e-12 {
		t.Fatalf("position after one step = %v, want %v", y, wantY)
	}
}

func TestWorldBodyLookup(t *testing.T) {
	world := MakeDynamicsWorld(DefaultWorldConfig())

	body := world.CreateBody(MakeBodyDef())
	if world.Body(body.ID()) != body {
		t.Fatalf("body not found by id")
	}

	world.DestroyBody(body)
	if world.Body(body.ID()) != nil {
		t.Fatalf("destroyed body still registered")
	}
	if world.NbBodies() != 0 {
		t.Fatalf("world still holds %d bodies", world.NbBodies())
	}
}

// worldStack is a two-cube stack on a static ground with hand-maintained
// contacts standing in for the external narrow phase.
type worldStack struct {
	world     DynamicsWorld
	ground    *RigidBody
	lower     *RigidBody
	upper     *RigidBody
	manifolds []*ContactManifold
}

func makeWorldStack() *worldStack {
	world := MakeDynamicsWorld(DefaultWorldConfig())
	material := Material{Friction: 0.4}

	groundDef := MakeBodyDef()
	groundDef.Material = material
	ground := world.CreateBody(groundDef)

	cube := func(y Scalar) *RigidBody {
		def := MakeBodyDef()
		def.Type = DynamicBody
		def.Mass = 1.0
		def.Position = Vector3{0.0, y, 0.0}
		def.Material = material
		return world.CreateBody(def)
	}
	lower := cube(0.5)
	upper := cube(1.5)

	up := Vector3{0.0, 1.0, 0.0}
	lowPoint := MakeContactPoint(ground, lower, Vector3{}, Vector3{}, up, 0.0)
	upPoint := MakeContactPoint(lower, upper, Vector3{0.0, 1.0, 0.0}, Vector3{0.0, 1.0, 0.0}, up, 0.0)
	lowManifold := MakeContactManifold(&lowPoint)
	upManifold := MakeContactManifold(&upPoint)

	return &worldStack{
		world:     world,
		ground:    ground,
		lower:     lower,
		upper:     upper,
		manifolds: []*ContactManifold{&lowManifold, &upManifold},
	}
}

func TestWorldStackSettles(t *testing.T) {
	stack := makeWorldStack()

	for step := 0; step < 60; step++ {
		stack.world.Step(testDt, stack.manifolds)
	}

	for _, body := range []*RigidBody{stack.lower, stack.upper} {
		if v := body.LinearVelocity().Len(); v > 0.01 {
			t.Fatalf("stacked body still moving at %v m/s after 1s", v)
		}
	}
	if y := stack.lower.Position().Y(); math.Abs(y-0.5) > 0.02 {
		t.Fatalf("lower cube drifted to y = %v", y)
	}
	if y := stack.upper.Position().Y(); math.Abs(y-1.5) > 0.02 {
		t.Fatalf("upper cube drifted to y = %v", y)
	}
}

func (stack *worldStack) trace(steps int) string {
	var trace strings.Builder
	for step := 0; step < steps; step++ {
		stack.world.Step(testDt, stack.manifolds)
		for i, body := range []*RigidBody{stack.lower, stack.upper} {
			fmt.Fprintf(&trace, "step=%03d body=%d p=%.12e %.12e %.12e v=%.12e %.12e %.12e\n",
				step, i,
				body.Position().X(), body.Position().Y(), body.Position().Z(),
				body.LinearVelocity().X(), body.LinearVelocity().Y(), body.LinearVelocity().Z())
		}
	}
	return trace.String()
}

// Two identical runs must produce bit-identical trajectories: the solver and
// the island builder iterate in deterministic order.
func TestWorldDeterminism(t *testing.T) {
	first := makeWorldStack().trace(30)
	second := makeWorldStack().trace(30)

	if first != second {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(first),
			B:        difflib.SplitLines(second),
			FromFile: "first run",
			ToFile:   "second run",
			Context:  2,
		})
		t.Fatalf("runs diverged:\n%s", diff)
	}
}

func TestWorldIslandsAreIndependent(t *testing.T) {
	world := MakeDynamicsWorld(DefaultWorldConfig())
	material := Material{Friction: 0.4}

	groundDef := MakeBodyDef()
	groundDef.Material = material
	ground := world.CreateBody(groundDef)

	boxAt := func(x Scalar) *RigidBody {
		def := MakeBodyDef()
		def.Type = DynamicBody
		def.Mass = 1.0
		def.Position = Vector3{x, 0.5, 0.0}
		def.Material = material
		return world.CreateBody(def)
	}
	left := boxAt(-5.0)
	right := boxAt(5.0)

	up := Vector3{0.0, 1.0, 0.0}
	leftPoint := MakeContactPoint(ground, left, Vector3{-5.0, 0.0, 0.0}, Vector3{-5.0, 0.0, 0.0}, up, 0.0)
	rightPoint := MakeContactPoint(ground, right, Vector3{5.0, 0.0, 0.0}, Vector3{5.0, 0.0, 0.0}, up, 0.0)
	leftManifold := MakeContactManifold(&leftPoint)
	rightManifold := MakeContactManifold(&rightPoint)

	manifolds := []*ContactManifold{&leftManifold, &rightManifold}
	islands := world.buildIslands(manifolds)

	// The two boxes only share the static ground, which must not merge
	// their islands.
	if len(islands) != 2 {
		t.Fatalf("got %d islands, want 2", len(islands))
	}
	for _, island := range islands {
		if island.NbContactManifolds() != 1 {
			t.Fatalf("island has %d manifolds, want 1", island.NbContactManifolds())
		}
		if island.NbBodies() != 2 {
			t.Fatalf("island has %d bodies, want 2", island.NbBodies())
		}
	}
}
