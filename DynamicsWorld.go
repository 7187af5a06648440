package reactphysics3d

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

/// DynamicsWorld owns the rigid bodies and drives the contact solver. Each
/// step it integrates velocities, groups the touching bodies into islands,
/// solves every island and integrates positions. Collision detection is
/// external: the contact manifolds of the current configuration are handed
/// to Step by the caller.
type DynamicsWorld struct {
	config  WorldConfig
	gravity Vector3
	logger  *zap.Logger

	bodies     []*RigidBody
	bodiesByID map[uuid.UUID]*RigidBody

	contactSolver ContactSolver
}

func MakeDynamicsWorld(config WorldConfig) DynamicsWorld {
	assert(config.Validate() == nil)

	return DynamicsWorld{
		config:        config,
		gravity:       config.GravityVector(),
		logger:        zap.NewNop(),
		bodiesByID:    make(map[uuid.UUID]*RigidBody),
		contactSolver: MakeContactSolver(),
	}
}

func (world *DynamicsWorld) SetLogger(logger *zap.Logger) {
	assert(logger != nil)
	world.logger = logger
}

func (world *DynamicsWorld) Gravity() Vector3 {
	return world.gravity
}

func (world *DynamicsWorld) SetGravity(gravity Vector3) {
	world.gravity = gravity
}

// ContactSolver exposes the world's solver for configuration (mixing rules,
// toggles not covered by WorldConfig).
func (world *DynamicsWorld) ContactSolver() *ContactSolver {
	return &world.contactSolver
}

// CreateBody adds a new rigid body to the world.
func (world *DynamicsWorld) CreateBody(def BodyDef) *RigidBody {
	body := newRigidBody(def)
	world.bodies = append(world.bodies, body)
	world.bodiesByID[body.id] = body
	return body
}

// DestroyBody removes a body from the world. Manifolds referencing the body
// must not be passed to Step afterwards.
func (world *DynamicsWorld) DestroyBody(body *RigidBody) {
	assert(body != nil)

	for i, b := range world.bodies {
		if b == body {
			world.bodies = append(world.bodies[:i], world.bodies[i+1:]...)
			break
		}
	}
	delete(world.bodiesByID, body.id)
}

// Body looks up a body by its identifier.
func (world *DynamicsWorld) Body(id uuid.UUID) *RigidBody {
	return world.bodiesByID[id]
}

func (world *DynamicsWorld) NbBodies() int {
	return len(world.bodies)
}

// Step advances the simulation by dt using the given contact manifolds.
func (world *DynamicsWorld) Step(dt Scalar, manifolds []*ContactManifold) {
	assert(dt > 0.0)

	step := MakeTimeStep(dt, world.config.VelocityIterations, world.config.WarmStarting)

	world.integrateVelocities(step)

	islands := world.buildIslands(manifolds)
	for _, island := range islands {
		world.solveIsland(island, step)
	}

	world.integratePositions(step)
	world.clearForces()

	world.logger.Debug("world step",
		zap.Float64("dt", dt),
		zap.Int("bodies", len(world.bodies)),
		zap.Int("manifolds", len(manifolds)),
		zap.Int("islands", len(islands)))
}

// Integrate gravity and accumulated forces, and apply damping.
func (world *DynamicsWorld) integrateVelocities(step TimeStep) {
	h := step.Dt

	for _, body := range world.bodies {
		if body.bodyType != DynamicBody {
			continue
		}

		v := body.linearVelocity.Add(world.gravity.Add(body.force.Mul(body.massInverse)).Mul(h))
		w := body.angularVelocity.Add(body.InertiaTensorInverseWorld().Mul3x1(body.torque).Mul(h))

		// Apply damping.
		// ODE: dv/dt + c * v = 0
		// Solution: v(t) = v0 * exp(-c * t)
		// Pade approximation:
		// v2 = v1 * 1 / (1 + c * dt)
		v = v.Mul(1.0 / (1.0 + h*body.linearDamping))
		w = w.Mul(1.0 / (1.0 + h*body.angularDamping))

		body.linearVelocity = v
		body.angularVelocity = w
	}
}

// buildIslands groups the bodies connected through contact manifolds.
// Static and kinematic bodies join an island but never merge two islands,
// so they may appear in several of them.
func (world *DynamicsWorld) buildIslands(manifolds []*ContactManifold) []*Island {
	if len(manifolds) == 0 {
		return nil
	}

	manifoldsOfBody := make(map[*RigidBody][]*ContactManifold)
	for _, manifold := range manifolds {
		manifoldsOfBody[manifold.Body1()] = append(manifoldsOfBody[manifold.Body1()], manifold)
		manifoldsOfBody[manifold.Body2()] = append(manifoldsOfBody[manifold.Body2()], manifold)
	}

	var islands []*Island
	visitedBody := make(map[*RigidBody]bool)
	visitedManifold := make(map[*ContactManifold]bool)
	stack := make([]*RigidBody, 0, len(world.bodies))

	for _, seed := range world.bodies {
		if seed.bodyType != DynamicBody || visitedBody[seed] || len(manifoldsOfBody[seed]) == 0 {
			continue
		}

		island := MakeIsland(len(world.bodies), len(manifolds))
		inIsland := make(map[*RigidBody]bool)

		visitedBody[seed] = true
		stack = append(stack[:0], seed)

		for len(stack) > 0 {
			body := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !inIsland[body] {
				island.AddBody(body)
				inIsland[body] = true
			}

			// Islands do not grow across non-dynamic bodies.
			if body.bodyType != DynamicBody {
				continue
			}

			for _, manifold := range manifoldsOfBody[body] {
				if visitedManifold[manifold] {
					continue
				}
				visitedManifold[manifold] = true
				island.AddContactManifold(manifold)

				other := manifold.Body1()
				if other == body {
					other = manifold.Body2()
				}

				if inIsland[other] {
					continue
				}
				if other.bodyType == DynamicBody {
					if !visitedBody[other] {
						visitedBody[other] = true
						stack = append(stack, other)
					}
				} else {
					island.AddBody(other)
					inIsland[other] = true
				}
			}
		}

		if island.NbContactManifolds() > 0 {
			islands = append(islands, &island)
		}
	}

	return islands
}

// solveIsland runs the contact solver pipeline on one island and writes the
// solved velocities back onto the bodies.
func (world *DynamicsWorld) solveIsland(island *Island, step TimeStep) {
	bodies := island.Bodies()

	linear := make([]Vector3, len(bodies))
	angular := make([]Vector3, len(bodies))
	splitLinear := make([]Vector3, len(bodies))
	splitAngular := make([]Vector3, len(bodies))
	indexOfBody := make(map[*RigidBody]int, len(bodies))

	for i, body := range bodies {
		linear[i] = body.linearVelocity
		angular[i] = body.angularVelocity
		indexOfBody[body] = i
	}

	solver := &world.contactSolver
	solver.SetVelocityBuffers(linear, angular, splitLinear, splitAngular)
	solver.SetBodyIndexMap(indexOfBody)
	solver.SetIsWarmStartingActive(step.WarmStarting)
	solver.SetIsSplitImpulseActive(world.config.SplitImpulse)
	solver.SetRestitutionVelocityThreshold(world.config.RestitutionVelocityThreshold)

	solver.InitializeForIsland(step.Dt, island)
	solver.WarmStart()

	for it := 0; it < step.VelocityIterations; it++ {
		solver.ResetTotalPenetrationImpulse()
		solver.SolvePenetrationConstraints()
		solver.SolveFrictionConstraints()
	}

	solver.StoreImpulses()
	solver.Cleanup()

	for i, body := range bodies {
		if body.bodyType != DynamicBody {
			continue
		}
		body.linearVelocity = linear[i]
		body.angularVelocity = angular[i]
		body.splitLinearVelocity = splitLinear[i]
		body.splitAngularVelocity = splitAngular[i]
	}
}

// integratePositions advances positions and orientations using the solved
// velocities plus the split-impulse pseudo velocities, which are consumed
// here and do not persist across steps.
func (world *DynamicsWorld) integratePositions(step TimeStep) {
	h := step.Dt

	for _, body := range world.bodies {
		if body.bodyType == StaticBody {
			continue
		}

		v := body.linearVelocity.Add(body.splitLinearVelocity)
		w := body.angularVelocity.Add(body.splitAngularVelocity)

		body.centerOfMassWorld = body.centerOfMassWorld.Add(v.Mul(h))

		spin := Quaternion{W: 0.0, V: w}
		body.orientation = body.orientation.Add(spin.Mul(body.orientation).Scale(0.5 * h)).Normalize()

		body.splitLinearVelocity = Vector3{}
		body.splitAngularVelocity = Vector3{}
	}
}

func (world *DynamicsWorld) clearForces() {
	for _, body := range world.bodies {
		body.force = Vector3{}
		body.torque = Vector3{}
	}
}
