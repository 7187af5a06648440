package reactphysics3d

/// Island is an independent group of bodies connected by contact manifolds.
/// Islands are built each step by the world and solved in isolation.
type Island struct {
	bodies    []*RigidBody
	manifolds []*ContactManifold

	bodyCapacity     int
	manifoldCapacity int
}

func MakeIsland(bodyCapacity, manifoldCapacity int) Island {
	assert(bodyCapacity > 0)
	assert(manifoldCapacity > 0)

	return Island{
		bodies:           make([]*RigidBody, 0, bodyCapacity),
		manifolds:        make([]*ContactManifold, 0, manifoldCapacity),
		bodyCapacity:     bodyCapacity,
		manifoldCapacity: manifoldCapacity,
	}
}

func (island *Island) AddBody(body *RigidBody) {
	assert(len(island.bodies) < island.bodyCapacity)
	body.islandIndex = len(island.bodies)
	island.bodies = append(island.bodies, body)
}

func (island *Island) AddContactManifold(manifold *ContactManifold) {
	assert(len(island.manifolds) < island.manifoldCapacity)
	island.manifolds = append(island.manifolds, manifold)
}

func (island *Island) Clear() {
	island.bodies = island.bodies[:0]
	island.manifolds = island.manifolds[:0]
}

func (island *Island) NbBodies() int {
	return len(island.bodies)
}

func (island *Island) NbContactManifolds() int {
	return len(island.manifolds)
}

func (island *Island) Bodies() []*RigidBody {
	return island.bodies
}

func (island *Island) ContactManifolds() []*ContactManifold {
	return island.manifolds
}
