package reactphysics3d

import (
	"context"
	"errors"
	"testing"
	"time"
)

type noContacts struct{}

func (noContacts) GenerateContacts(world *DynamicsWorld) []*ContactManifold {
	return nil
}

func TestPhysicsEngineRun(t *testing.T) {
	world := MakeDynamicsWorld(DefaultWorldConfig())

	def := MakeBodyDef()
	def.Type = DynamicBody
	def.Mass = 1.0
	body := world.CreateBody(def)

	engine := MakePhysicsEngine(&world, noContacts{}, 0.005)

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	err := engine.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run returned %v, want deadline exceeded", err)
	}
	if engine.NbSteps() == 0 {
		t.Fatalf("engine performed no steps")
	}
	if body.LinearVelocity().Y() >= 0.0 {
		t.Fatalf("body did not accelerate under gravity")
	}
}
