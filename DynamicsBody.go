package reactphysics3d

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

type BodyType uint8

const (
	// A static body has zero mass and never moves.
	StaticBody BodyType = iota

	// A kinematic body is moved by setting its velocity; it is not affected
	// by forces or contact impulses.
	KinematicBody

	// A dynamic body has finite mass and responds to forces and impulses.
	DynamicBody
)

/// Material holds the surface properties mixed into contact constraints.
type Material struct {
	Friction          Scalar
	Restitution       Scalar
	RollingResistance Scalar
}

/// BodyDef describes a rigid body to create. Make one with MakeBodyDef and
/// override the fields you need.
type BodyDef struct {
	Type               BodyType
	Position           Vector3
	Orientation        Quaternion
	LinearVelocity     Vector3
	AngularVelocity    Vector3
	Mass               Scalar
	InertiaTensorLocal Matrix3x3
	LinearDamping      Scalar
	AngularDamping     Scalar
	Material           Material
}

func MakeBodyDef() BodyDef {
	return BodyDef{
		Type:               StaticBody,
		Orientation:        mgl64.QuatIdent(),
		Mass:               1.0,
		InertiaTensorLocal: mgl64.Ident3(),
		Material:           Material{Friction: 0.3},
	}
}

/// RigidBody is a body in a dynamics world. The position is the world-space
/// center of mass. Bodies are created through DynamicsWorld.CreateBody.
type RigidBody struct {
	id       uuid.UUID
	bodyType BodyType

	centerOfMassWorld Vector3
	orientation       Quaternion

	linearVelocity  Vector3
	angularVelocity Vector3

	// Pseudo velocities accumulated by the split-impulse position
	// correction. Consumed and reset by the position integration.
	splitLinearVelocity  Vector3
	splitAngularVelocity Vector3

	force  Vector3
	torque Vector3

	massInverse               Scalar
	inertiaTensorLocalInverse Matrix3x3

	linearDamping  Scalar
	angularDamping Scalar

	material Material

	// Index of the body inside the island currently being solved.
	islandIndex int
}

func newRigidBody(def BodyDef) *RigidBody {
	assert(def.Type <= DynamicBody)

	body := &RigidBody{
		id:                uuid.New(),
		bodyType:          def.Type,
		centerOfMassWorld: def.Position,
		orientation:       def.Orientation.Normalize(),
		linearVelocity:    def.LinearVelocity,
		angularVelocity:   def.AngularVelocity,
		linearDamping:     def.LinearDamping,
		angularDamping:    def.AngularDamping,
		material:          def.Material,
		islandIndex:       -1,
	}

	// Only dynamic bodies carry finite mass; static and kinematic bodies
	// behave as infinitely heavy in the solver.
	if def.Type == DynamicBody {
		assert(def.Mass > 0.0)
		body.massInverse = 1.0 / def.Mass
		body.inertiaTensorLocalInverse = def.InertiaTensorLocal.Inv()
	}

	return body
}

func (body *RigidBody) ID() uuid.UUID {
	return body.id
}

func (body *RigidBody) Type() BodyType {
	return body.bodyType
}

// Position returns the world-space center of mass.
func (body *RigidBody) Position() Vector3 {
	return body.centerOfMassWorld
}

func (body *RigidBody) SetPosition(position Vector3) {
	body.centerOfMassWorld = position
}

func (body *RigidBody) Orientation() Quaternion {
	return body.orientation
}

func (body *RigidBody) SetOrientation(orientation Quaternion) {
	body.orientation = orientation.Normalize()
}

func (body *RigidBody) LinearVelocity() Vector3 {
	return body.linearVelocity
}

func (body *RigidBody) SetLinearVelocity(velocity Vector3) {
	if body.bodyType == StaticBody {
		return
	}
	body.linearVelocity = velocity
}

func (body *RigidBody) AngularVelocity() Vector3 {
	return body.angularVelocity
}

func (body *RigidBody) SetAngularVelocity(velocity Vector3) {
	if body.bodyType == StaticBody {
		return
	}
	body.angularVelocity = velocity
}

func (body *RigidBody) Material() Material {
	return body.material
}

func (body *RigidBody) SetMaterial(material Material) {
	body.material = material
}

func (body *RigidBody) MassInverse() Scalar {
	return body.massInverse
}

// InertiaTensorInverseWorld returns the inverse inertia tensor in world
// coordinates, R * I^-1 * R^T.
func (body *RigidBody) InertiaTensorInverseWorld() Matrix3x3 {
	if body.bodyType != DynamicBody {
		return Matrix3x3{}
	}
	rotation := RotationMatrix(body.orientation)
	return rotation.Mul3(body.inertiaTensorLocalInverse).Mul3(rotation.Transpose())
}

// ApplyForceToCenter accumulates a force through the center of mass for the
// next step. No-op on non-dynamic bodies.
func (body *RigidBody) ApplyForceToCenter(force Vector3) {
	if body.bodyType != DynamicBody {
		return
	}
	body.force = body.force.Add(force)
}

// ApplyTorque accumulates a torque for the next step. No-op on non-dynamic
// bodies.
func (body *RigidBody) ApplyTorque(torque Vector3) {
	if body.bodyType != DynamicBody {
		return
	}
	body.torque = body.torque.Add(torque)
}
