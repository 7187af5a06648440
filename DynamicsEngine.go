package reactphysics3d

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

/// ContactGenerator is the narrow phase seen by the engine loop. It produces
/// the contact manifolds of the current body configuration.
type ContactGenerator interface {
	GenerateContacts(world *DynamicsWorld) []*ContactManifold
}

/// PhysicsEngine drives a dynamics world in real time with a fixed timestep.
/// Each tick it pulls fresh contacts from the generator and steps the world.
type PhysicsEngine struct {
	world    *DynamicsWorld
	contacts ContactGenerator
	timeStep Scalar
	limiter  *rate.Limiter
	logger   *zap.Logger
	nbSteps  uint64
}

func MakePhysicsEngine(world *DynamicsWorld, contacts ContactGenerator, timeStep Scalar) PhysicsEngine {
	assert(world != nil)
	assert(contacts != nil)
	assert(timeStep > 0.0)

	interval := time.Duration(Scalar(time.Second) * timeStep)

	return PhysicsEngine{
		world:    world,
		contacts: contacts,
		timeStep: timeStep,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		logger:   zap.NewNop(),
	}
}

func (engine *PhysicsEngine) SetLogger(logger *zap.Logger) {
	assert(logger != nil)
	engine.logger = logger
}

// Update performs a single simulation step.
func (engine *PhysicsEngine) Update() {
	manifolds := engine.contacts.GenerateContacts(engine.world)
	engine.world.Step(engine.timeStep, manifolds)
	engine.nbSteps++
}

// NbSteps returns the number of steps performed so far.
func (engine *PhysicsEngine) NbSteps() uint64 {
	return engine.nbSteps
}

// Run steps the world at the fixed timestep rate until the context is
// canceled, then returns the context error.
func (engine *PhysicsEngine) Run(ctx context.Context) error {
	engine.logger.Info("physics loop started", zap.Float64("time-step", engine.timeStep))

	for {
		if err := engine.limiter.Wait(ctx); err != nil {
			// Wait fails early when the next tick falls after the context
			// deadline. No step is due before then, so wait for the context
			// to end and report its error.
			<-ctx.Done()
			engine.logger.Info("physics loop stopped", zap.Uint64("steps", engine.nbSteps))
			return ctx.Err()
		}
		engine.Update()
	}
}
