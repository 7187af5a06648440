package reactphysics3d

import "math"

/// Friction mixing law. The idea is to allow either surface to drive the
/// friction to zero. For example, anything slides on ice.
func MixFriction(friction1, friction2 Scalar) Scalar {
	return math.Sqrt(friction1 * friction2)
}

/// Restitution mixing law. The idea is to allow anything to bounce off an
/// inelastic surface. For example, a superball bounces on anything.
func MixRestitution(restitution1, restitution2 Scalar) Scalar {
	if restitution1 > restitution2 {
		return restitution1
	}
	return restitution2
}

/// Rolling resistance mixing law. Either surface pulls the pair toward its
/// own behavior.
func MixRollingResistance(resistance1, resistance2 Scalar) Scalar {
	return 0.5 * (resistance1 + resistance2)
}

/// ContactPoint is a single contact produced by the narrow phase between two
/// bodies. The normal points from body 1 toward body 2. The solver writes
/// the cached normal impulse and the resting flag; everything else is
/// read-only to it.
type ContactPoint struct {
	Body1 *RigidBody
	Body2 *RigidBody

	WorldPointOnBody1 Vector3
	WorldPointOnBody2 Vector3
	Normal            Vector3
	PenetrationDepth  Scalar

	// True when the contact also existed at the previous step.
	IsRestingContact bool

	// Accumulated normal impulse of the previous step, used to warm start.
	PenetrationImpulse Scalar
}

func MakeContactPoint(body1, body2 *RigidBody, pointOnBody1, pointOnBody2, normal Vector3, depth Scalar) ContactPoint {
	assert(body1 != nil && body2 != nil)
	assert(depth >= 0.0)
	assert(normal.Len() > MachineEpsilon)

	return ContactPoint{
		Body1:             body1,
		Body2:             body2,
		WorldPointOnBody1: pointOnBody1,
		WorldPointOnBody2: pointOnBody2,
		Normal:            normal,
		PenetrationDepth:  depth,
	}
}

/// ContactManifold is an ordered set of contact points between the same two
/// bodies sharing an approximate normal. It carries the friction state
/// cached between steps: the tangent basis of the previous step and the
/// accumulated friction impulses, written back by the solver at
/// StoreImpulses time.
type ContactManifold struct {
	Points []*ContactPoint

	FrictionVector1 Vector3
	FrictionVector2 Vector3

	FrictionImpulse1         Scalar
	FrictionImpulse2         Scalar
	FrictionTwistImpulse     Scalar
	RollingResistanceImpulse Vector3
}

func MakeContactManifold(points ...*ContactPoint) ContactManifold {
	assert(len(points) > 0 && len(points) <= MaxContactPointsPerManifold)
	for _, point := range points {
		assert(point.Body1 == points[0].Body1 && point.Body2 == points[0].Body2)
	}

	return ContactManifold{Points: points}
}

// Body1 returns the first body of the manifold, taken from contact point 0.
func (manifold *ContactManifold) Body1() *RigidBody {
	assert(len(manifold.Points) > 0)
	return manifold.Points[0].Body1
}

// Body2 returns the second body of the manifold, taken from contact point 0.
func (manifold *ContactManifold) Body2() *RigidBody {
	assert(len(manifold.Points) > 0)
	return manifold.Points[0].Body2
}
