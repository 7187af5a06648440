package reactphysics3d

import "math"

/// PenetrationConstraint is the solver-internal record of one contact point.
/// It lives between InitializeForIsland and Cleanup.
type PenetrationConstraint struct {
	IndexBody1 int
	IndexBody2 int

	// Contact point offsets from each body's center of mass.
	R1 Vector3
	R2 Vector3

	Normal   Vector3
	R1CrossN Vector3
	R2CrossN Vector3

	MassInverseBody1          Scalar
	MassInverseBody2          Scalar
	InverseInertiaTensorBody1 Matrix3x3
	InverseInertiaTensorBody2 Matrix3x3

	RestitutionFactor Scalar
	PenetrationDepth  Scalar
	IsRestingContact  bool

	// 1/K along the normal axis, or 0 when the denominator is not positive.
	InversePenetrationMass Scalar

	// Restitution velocity bias computed from the relative velocity at the
	// beginning of the step.
	RestitutionBias Scalar

	// Accumulated impulses, both always >= 0.
	PenetrationImpulse      Scalar
	PenetrationSplitImpulse Scalar

	// Index of the friction constraint of the enclosing manifold.
	IndexFrictionConstraint int

	ContactPoint *ContactPoint
}

/// FrictionConstraint is the solver-internal friction record of one contact
/// manifold. Friction is solved at the centroid of the manifold with two
/// tangent directions, a twist axis and an optional rolling resistance.
type FrictionConstraint struct {
	IndexBody1 int
	IndexBody2 int

	MassInverseBody1          Scalar
	MassInverseBody2          Scalar
	InverseInertiaTensorBody1 Matrix3x3
	InverseInertiaTensorBody2 Matrix3x3

	// Manifold centroid offsets from each body's center of mass.
	R1Friction Vector3
	R2Friction Vector3

	// Averaged, normalized manifold normal and the tangent basis, with
	// FrictionVector1 x FrictionVector2 = Normal.
	Normal          Vector3
	FrictionVector1 Vector3
	FrictionVector2 Vector3

	// Tangent basis of the previous step, used to reproject the cached
	// impulses during warm start.
	OldFrictionVector1 Vector3
	OldFrictionVector2 Vector3

	R1CrossT1 Vector3
	R1CrossT2 Vector3
	R2CrossT1 Vector3
	R2CrossT2 Vector3

	InverseFriction1Mass     Scalar
	InverseFriction2Mass     Scalar
	InverseTwistFrictionMass Scalar

	// (I1 + I2)^-1 for the rolling resistance constraint, or zero.
	InverseRollingResistance Matrix3x3

	FrictionCoefficient     Scalar
	RollingResistanceFactor Scalar

	// Accumulated impulses.
	Friction1Impulse         Scalar
	Friction2Impulse         Scalar
	FrictionTwistImpulse     Scalar
	RollingResistanceImpulse Vector3

	// Sum of the penetration impulses of this manifold's contact points,
	// reset at the beginning of every iteration. Bounds the friction cone.
	TotalPenetrationImpulse Scalar

	HasAtLeastOneRestingContactPoint bool

	ContactManifold *ContactManifold
}

/// MixingRule combines a material property of two touching bodies.
type MixingRule func(value1, value2 Scalar) Scalar

/// ContactSolver computes the contact impulses of one island with a
/// sequential-impulse (projected Gauss-Seidel) scheme. The velocity buffers
/// and the body index map are owned by the caller and bound before
/// InitializeForIsland; the solver reads and writes them in place.
type ContactSolver struct {
	timeStep Scalar

	linearVelocities       []Vector3
	angularVelocities      []Vector3
	splitLinearVelocities  []Vector3
	splitAngularVelocities []Vector3

	mapBodyToVelocityIndex map[*RigidBody]int

	penetrationConstraints []PenetrationConstraint
	frictionConstraints    []FrictionConstraint
	manifolds              []*ContactManifold

	mixFriction          MixingRule
	mixRestitution       MixingRule
	mixRollingResistance MixingRule

	restitutionVelocityThreshold Scalar

	isWarmStartingActive                         bool
	isSplitImpulseActive                         bool
	isSolveFrictionAtContactManifoldCenterActive bool

	initialized bool
}

func MakeContactSolver() ContactSolver {
	return ContactSolver{
		mixFriction:                  MixFriction,
		mixRestitution:               MixRestitution,
		mixRollingResistance:         MixRollingResistance,
		restitutionVelocityThreshold: RestitutionVelocityThreshold,
		isWarmStartingActive:         true,
		isSplitImpulseActive:         true,
		isSolveFrictionAtContactManifoldCenterActive: true,
	}
}

// SetVelocityBuffers binds the four velocity arrays, indexed by body index:
// the constrained linear and angular velocities and the split (position
// correction only) linear and angular velocities.
func (solver *ContactSolver) SetVelocityBuffers(linear, angular, splitLinear, splitAngular []Vector3) {
	assert(linear != nil && angular != nil && splitLinear != nil && splitAngular != nil)
	assert(len(linear) == len(angular) && len(linear) == len(splitLinear) && len(linear) == len(splitAngular))

	solver.linearVelocities = linear
	solver.angularVelocities = angular
	solver.splitLinearVelocities = splitLinear
	solver.splitAngularVelocities = splitAngular
}

// SetBodyIndexMap installs the body to velocity-index lookup used during
// InitializeForIsland.
func (solver *ContactSolver) SetBodyIndexMap(indexOfBody map[*RigidBody]int) {
	assert(indexOfBody != nil)
	solver.mapBodyToVelocityIndex = indexOfBody
}

func (solver *ContactSolver) SetIsWarmStartingActive(active bool) {
	solver.isWarmStartingActive = active
}

func (solver *ContactSolver) SetIsSplitImpulseActive(active bool) {
	solver.isSplitImpulseActive = active
}

// SetIsSolveFrictionAtContactManifoldCenterActive is kept for compatibility;
// only the manifold-center friction path is implemented.
func (solver *ContactSolver) SetIsSolveFrictionAtContactManifoldCenterActive(active bool) {
	assert(active)
	solver.isSolveFrictionAtContactManifoldCenterActive = active
}

func (solver *ContactSolver) SetRestitutionVelocityThreshold(threshold Scalar) {
	assert(threshold >= 0.0)
	solver.restitutionVelocityThreshold = threshold
}

// SetMixingRules overrides the material mixing rules. A nil rule keeps the
// current one.
func (solver *ContactSolver) SetMixingRules(friction, restitution, rollingResistance MixingRule) {
	if friction != nil {
		solver.mixFriction = friction
	}
	if restitution != nil {
		solver.mixRestitution = restitution
	}
	if rollingResistance != nil {
		solver.mixRollingResistance = rollingResistance
	}
}

// InitializeForIsland materializes the internal constraint records from the
// island's contact manifolds for a step of duration dt.
func (solver *ContactSolver) InitializeForIsland(dt Scalar, island *Island) {
	assert(island != nil)
	assert(dt > 0.0)
	assert(island.NbContactManifolds() > 0)
	assert(solver.linearVelocities != nil)
	assert(solver.mapBodyToVelocityIndex != nil)
	assert(solver.isSolveFrictionAtContactManifoldCenterActive)

	solver.timeStep = dt
	solver.manifolds = island.ContactManifolds()
	solver.penetrationConstraints = make([]PenetrationConstraint, 0, len(solver.manifolds)*MaxContactPointsPerManifold)
	solver.frictionConstraints = make([]FrictionConstraint, 0, len(solver.manifolds))

	for _, manifold := range solver.manifolds {
		assert(len(manifold.Points) > 0)

		body1 := manifold.Body1()
		body2 := manifold.Body2()

		indexBody1, ok1 := solver.mapBodyToVelocityIndex[body1]
		indexBody2, ok2 := solver.mapBodyToVelocityIndex[body2]
		assert(ok1 && ok2)

		x1 := body1.centerOfMassWorld
		x2 := body2.centerOfMassWorld

		v1 := solver.linearVelocities[indexBody1]
		w1 := solver.angularVelocities[indexBody1]
		v2 := solver.linearVelocities[indexBody2]
		w2 := solver.angularVelocities[indexBody2]

		i1 := body1.InertiaTensorInverseWorld()
		i2 := body2.InertiaTensorInverseWorld()

		fc := FrictionConstraint{
			IndexBody1:                indexBody1,
			IndexBody2:                indexBody2,
			MassInverseBody1:          body1.massInverse,
			MassInverseBody2:          body2.massInverse,
			InverseInertiaTensorBody1: i1,
			InverseInertiaTensorBody2: i2,
			ContactManifold:           manifold,
		}

		restitutionFactor := solver.mixRestitution(body1.material.Restitution, body2.material.Restitution)
		fc.FrictionCoefficient = solver.mixFriction(body1.material.Friction, body2.material.Friction)
		fc.RollingResistanceFactor = solver.mixRollingResistance(body1.material.RollingResistance, body2.material.RollingResistance)

		// Compute the inverse K matrix for the rolling resistance constraint.
		if fc.RollingResistanceFactor > 0.0 && (body1.bodyType == DynamicBody || body2.bodyType == DynamicBody) {
			fc.InverseRollingResistance = i1.Add(i2).Inv()
		}

		frictionPointBody1 := Vector3{}
		frictionPointBody2 := Vector3{}

		for _, contact := range manifold.Points {
			pc := PenetrationConstraint{
				IndexBody1:                indexBody1,
				IndexBody2:                indexBody2,
				MassInverseBody1:          body1.massInverse,
				MassInverseBody2:          body2.massInverse,
				InverseInertiaTensorBody1: i1,
				InverseInertiaTensorBody2: i2,
				RestitutionFactor:         restitutionFactor,
				PenetrationDepth:          contact.PenetrationDepth,
				IsRestingContact:          contact.IsRestingContact,
				IndexFrictionConstraint:   len(solver.frictionConstraints),
				ContactPoint:              contact,
			}

			pc.R1 = contact.WorldPointOnBody1.Sub(x1)
			pc.R2 = contact.WorldPointOnBody2.Sub(x2)
			pc.Normal = contact.Normal
			pc.R1CrossN = pc.R1.Cross(pc.Normal)
			pc.R2CrossN = pc.R2.Cross(pc.Normal)

			// Compute the inverse mass matrix K for the penetration
			// constraint.
			massPenetration := pc.MassInverseBody1 + pc.MassInverseBody2 +
				i1.Mul3x1(pc.R1CrossN).Cross(pc.R1).Dot(pc.Normal) +
				i2.Mul3x1(pc.R2CrossN).Cross(pc.R2).Dot(pc.Normal)
			if massPenetration > 0.0 {
				pc.InversePenetrationMass = 1.0 / massPenetration
			}

			// Compute the restitution velocity bias "b" here instead of in
			// the sweep because it uses the relative velocity at the
			// beginning of the step. A resting contact (normal velocity
			// below the threshold) gets no restitution bias.
			deltaV := v2.Add(w2.Cross(pc.R2)).Sub(v1).Sub(w1.Cross(pc.R1))
			deltaVDotN := deltaV.Dot(pc.Normal)
			if deltaVDotN < -solver.restitutionVelocityThreshold {
				pc.RestitutionBias = pc.RestitutionFactor * deltaVDotN
			}

			if solver.isWarmStartingActive {
				pc.PenetrationImpulse = contact.PenetrationImpulse
			}
			pc.PenetrationSplitImpulse = 0.0

			fc.HasAtLeastOneRestingContactPoint = fc.HasAtLeastOneRestingContactPoint || contact.IsRestingContact

			// Next step sees this contact as resting if it survives.
			contact.IsRestingContact = true

			frictionPointBody1 = frictionPointBody1.Add(contact.WorldPointOnBody1)
			frictionPointBody2 = frictionPointBody2.Add(contact.WorldPointOnBody2)
			fc.Normal = fc.Normal.Add(contact.Normal)

			solver.penetrationConstraints = append(solver.penetrationConstraints, pc)
		}

		nbContacts := Scalar(len(manifold.Points))
		frictionPointBody1 = frictionPointBody1.Mul(1.0 / nbContacts)
		frictionPointBody2 = frictionPointBody2.Mul(1.0 / nbContacts)
		fc.R1Friction = frictionPointBody1.Sub(x1)
		fc.R2Friction = frictionPointBody2.Sub(x2)
		fc.OldFrictionVector1 = manifold.FrictionVector1
		fc.OldFrictionVector2 = manifold.FrictionVector2

		if solver.isWarmStartingActive {
			// Initialize the accumulated impulses with the impulses of the
			// previous step.
			fc.Friction1Impulse = manifold.FrictionImpulse1
			fc.Friction2Impulse = manifold.FrictionImpulse2
			fc.FrictionTwistImpulse = manifold.FrictionTwistImpulse
			fc.RollingResistanceImpulse = manifold.RollingResistanceImpulse
		}

		fc.Normal = fc.Normal.Normalize()

		deltaVFrictionPoint := v2.Add(w2.Cross(fc.R2Friction)).Sub(v1).Sub(w1.Cross(fc.R1Friction))

		// Compute the friction vectors.
		solver.computeFrictionVectors(deltaVFrictionPoint, &fc)

		// Compute the inverse mass matrix K for the friction constraints at
		// the center of the contact manifold.
		fc.R1CrossT1 = fc.R1Friction.Cross(fc.FrictionVector1)
		fc.R1CrossT2 = fc.R1Friction.Cross(fc.FrictionVector2)
		fc.R2CrossT1 = fc.R2Friction.Cross(fc.FrictionVector1)
		fc.R2CrossT2 = fc.R2Friction.Cross(fc.FrictionVector2)

		friction1Mass := fc.MassInverseBody1 + fc.MassInverseBody2 +
			i1.Mul3x1(fc.R1CrossT1).Cross(fc.R1Friction).Dot(fc.FrictionVector1) +
			i2.Mul3x1(fc.R2CrossT1).Cross(fc.R2Friction).Dot(fc.FrictionVector1)
		friction2Mass := fc.MassInverseBody1 + fc.MassInverseBody2 +
			i1.Mul3x1(fc.R1CrossT2).Cross(fc.R1Friction).Dot(fc.FrictionVector2) +
			i2.Mul3x1(fc.R2CrossT2).Cross(fc.R2Friction).Dot(fc.FrictionVector2)
		frictionTwistMass := fc.Normal.Dot(i1.Mul3x1(fc.Normal)) +
			fc.Normal.Dot(i2.Mul3x1(fc.Normal))

		if friction1Mass > 0.0 {
			fc.InverseFriction1Mass = 1.0 / friction1Mass
		}
		if friction2Mass > 0.0 {
			fc.InverseFriction2Mass = 1.0 / friction2Mass
		}
		if frictionTwistMass > 0.0 {
			fc.InverseTwistFrictionMass = 1.0 / frictionTwistMass
		}

		solver.frictionConstraints = append(solver.frictionConstraints, fc)
	}

	solver.initialized = true
}

// WarmStart applies the impulses cached from the previous step to the
// velocities so the iterations start close to the solution. Constraints of
// fresh (non-resting) contacts get their accumulators reset instead.
func (solver *ContactSolver) WarmStart() {
	assert(solver.initialized)

	if !solver.isWarmStartingActive {
		return
	}

	for i := range solver.penetrationConstraints {
		pc := &solver.penetrationConstraints[i]

		if pc.IsRestingContact {
			linearImpulse := pc.Normal.Mul(pc.PenetrationImpulse)

			solver.linearVelocities[pc.IndexBody1] = solver.linearVelocities[pc.IndexBody1].Sub(linearImpulse.Mul(pc.MassInverseBody1))
			solver.angularVelocities[pc.IndexBody1] = solver.angularVelocities[pc.IndexBody1].Sub(pc.InverseInertiaTensorBody1.Mul3x1(pc.R1CrossN.Mul(pc.PenetrationImpulse)))

			solver.linearVelocities[pc.IndexBody2] = solver.linearVelocities[pc.IndexBody2].Add(linearImpulse.Mul(pc.MassInverseBody2))
			solver.angularVelocities[pc.IndexBody2] = solver.angularVelocities[pc.IndexBody2].Add(pc.InverseInertiaTensorBody2.Mul3x1(pc.R2CrossN.Mul(pc.PenetrationImpulse)))
		} else {
			pc.PenetrationImpulse = 0.0
		}
	}

	for i := range solver.frictionConstraints {
		fc := &solver.frictionConstraints[i]

		if fc.HasAtLeastOneRestingContactPoint {
			// Project the old friction impulses (expressed in the old
			// tangent basis) onto the new tangent basis.
			oldFrictionImpulse := fc.OldFrictionVector1.Mul(fc.Friction1Impulse).Add(fc.OldFrictionVector2.Mul(fc.Friction2Impulse))
			fc.Friction1Impulse = oldFrictionImpulse.Dot(fc.FrictionVector1)
			fc.Friction2Impulse = oldFrictionImpulse.Dot(fc.FrictionVector2)

			v1 := solver.linearVelocities[fc.IndexBody1]
			w1 := solver.angularVelocities[fc.IndexBody1]
			v2 := solver.linearVelocities[fc.IndexBody2]
			w2 := solver.angularVelocities[fc.IndexBody2]

			// First friction constraint at the center of the manifold.
			linearImpulse := fc.FrictionVector1.Mul(fc.Friction1Impulse)
			v1 = v1.Sub(linearImpulse.Mul(fc.MassInverseBody1))
			w1 = w1.Sub(fc.InverseInertiaTensorBody1.Mul3x1(fc.R1CrossT1.Mul(fc.Friction1Impulse)))
			v2 = v2.Add(linearImpulse.Mul(fc.MassInverseBody2))
			w2 = w2.Add(fc.InverseInertiaTensorBody2.Mul3x1(fc.R2CrossT1.Mul(fc.Friction1Impulse)))

			// Second friction constraint at the center of the manifold.
			linearImpulse = fc.FrictionVector2.Mul(fc.Friction2Impulse)
			v1 = v1.Sub(linearImpulse.Mul(fc.MassInverseBody1))
			w1 = w1.Sub(fc.InverseInertiaTensorBody1.Mul3x1(fc.R1CrossT2.Mul(fc.Friction2Impulse)))
			v2 = v2.Add(linearImpulse.Mul(fc.MassInverseBody2))
			w2 = w2.Add(fc.InverseInertiaTensorBody2.Mul3x1(fc.R2CrossT2.Mul(fc.Friction2Impulse)))

			// Twist friction constraint.
			twistImpulse := fc.Normal.Mul(fc.FrictionTwistImpulse)
			w1 = w1.Sub(fc.InverseInertiaTensorBody1.Mul3x1(twistImpulse))
			w2 = w2.Add(fc.InverseInertiaTensorBody2.Mul3x1(twistImpulse))

			// Rolling resistance.
			w1 = w1.Sub(fc.InverseInertiaTensorBody1.Mul3x1(fc.RollingResistanceImpulse))
			w2 = w2.Add(fc.InverseInertiaTensorBody2.Mul3x1(fc.RollingResistanceImpulse))

			solver.linearVelocities[fc.IndexBody1] = v1
			solver.angularVelocities[fc.IndexBody1] = w1
			solver.linearVelocities[fc.IndexBody2] = v2
			solver.angularVelocities[fc.IndexBody2] = w2
		} else {
			fc.Friction1Impulse = 0.0
			fc.Friction2Impulse = 0.0
			fc.FrictionTwistImpulse = 0.0
			fc.RollingResistanceImpulse = Vector3{}
		}
	}
}

// ResetTotalPenetrationImpulse zeroes the per-manifold normal impulse sums.
// Call at the beginning of every iteration, before the penetration sweep.
func (solver *ContactSolver) ResetTotalPenetrationImpulse() {
	assert(solver.initialized)

	for i := range solver.frictionConstraints {
		solver.frictionConstraints[i].TotalPenetrationImpulse = 0.0
	}
}

// SolvePenetrationConstraints runs one Gauss-Seidel sweep over the normal
// constraints, and, when split impulse is active, the position-correction
// sweep against the split velocity buffers.
func (solver *ContactSolver) SolvePenetrationConstraints() {
	assert(solver.initialized)

	for i := range solver.penetrationConstraints {
		pc := &solver.penetrationConstraints[i]

		v1 := solver.linearVelocities[pc.IndexBody1]
		w1 := solver.angularVelocities[pc.IndexBody1]
		v2 := solver.linearVelocities[pc.IndexBody2]
		w2 := solver.angularVelocities[pc.IndexBody2]

		// Compute J*v.
		deltaV := v2.Add(w2.Cross(pc.R2)).Sub(v1).Sub(w1.Cross(pc.R1))
		Jv := deltaV.Dot(pc.Normal)

		// Compute the bias "b" of the constraint.
		beta := ContactBeta
		if solver.isSplitImpulseActive {
			beta = ContactBetaSplitImpulse
		}
		biasPenetrationDepth := 0.0
		if pc.PenetrationDepth > ContactSlop {
			biasPenetrationDepth = -(beta / solver.timeStep) * math.Max(0.0, pc.PenetrationDepth-ContactSlop)
		}

		// Compute the Lagrange multiplier increment. With split impulse the
		// positional bias is handled by the split sweep below, not here.
		var deltaLambda Scalar
		if solver.isSplitImpulseActive {
			deltaLambda = -(Jv + pc.RestitutionBias) * pc.InversePenetrationMass
		} else {
			deltaLambda = -(Jv + biasPenetrationDepth + pc.RestitutionBias) * pc.InversePenetrationMass
		}

		// Clamp the accumulated impulse to the normal cone.
		lambdaTemp := pc.PenetrationImpulse
		pc.PenetrationImpulse = math.Max(pc.PenetrationImpulse+deltaLambda, 0.0)
		deltaLambda = pc.PenetrationImpulse - lambdaTemp

		// Feed the friction cone of the owning friction constraint.
		solver.frictionConstraints[pc.IndexFrictionConstraint].TotalPenetrationImpulse += pc.PenetrationImpulse

		// Apply the impulse P = J^T * lambda.
		linearImpulse := pc.Normal.Mul(deltaLambda)
		v1 = v1.Sub(linearImpulse.Mul(pc.MassInverseBody1))
		w1 = w1.Sub(pc.InverseInertiaTensorBody1.Mul3x1(pc.R1CrossN.Mul(deltaLambda)))
		v2 = v2.Add(linearImpulse.Mul(pc.MassInverseBody2))
		w2 = w2.Add(pc.InverseInertiaTensorBody2.Mul3x1(pc.R2CrossN.Mul(deltaLambda)))

		solver.linearVelocities[pc.IndexBody1] = v1
		solver.angularVelocities[pc.IndexBody1] = w1
		solver.linearVelocities[pc.IndexBody2] = v2
		solver.angularVelocities[pc.IndexBody2] = w2

		// Split impulse position correction, against the split buffers only.
		if solver.isSplitImpulseActive {
			v1Split := solver.splitLinearVelocities[pc.IndexBody1]
			w1Split := solver.splitAngularVelocities[pc.IndexBody1]
			v2Split := solver.splitLinearVelocities[pc.IndexBody2]
			w2Split := solver.splitAngularVelocities[pc.IndexBody2]

			deltaVSplit := v2Split.Add(w2Split.Cross(pc.R2)).Sub(v1Split).Sub(w1Split.Cross(pc.R1))
			JvSplit := deltaVSplit.Dot(pc.Normal)

			deltaLambdaSplit := -(JvSplit + biasPenetrationDepth) * pc.InversePenetrationMass
			lambdaTempSplit := pc.PenetrationSplitImpulse
			pc.PenetrationSplitImpulse = math.Max(pc.PenetrationSplitImpulse+deltaLambdaSplit, 0.0)
			deltaLambdaSplit = pc.PenetrationSplitImpulse - lambdaTempSplit

			splitImpulse := pc.Normal.Mul(deltaLambdaSplit)
			solver.splitLinearVelocities[pc.IndexBody1] = v1Split.Sub(splitImpulse.Mul(pc.MassInverseBody1))
			solver.splitAngularVelocities[pc.IndexBody1] = w1Split.Sub(pc.InverseInertiaTensorBody1.Mul3x1(pc.R1CrossN.Mul(deltaLambdaSplit)))
			solver.splitLinearVelocities[pc.IndexBody2] = v2Split.Add(splitImpulse.Mul(pc.MassInverseBody2))
			solver.splitAngularVelocities[pc.IndexBody2] = w2Split.Add(pc.InverseInertiaTensorBody2.Mul3x1(pc.R2CrossN.Mul(deltaLambdaSplit)))
		}
	}
}

// SolveFrictionConstraints runs one Gauss-Seidel sweep over the friction
// constraints: two tangent directions, the twist axis and the rolling
// resistance, each clamped by the Coulomb cone of the accumulated normal
// impulse.
func (solver *ContactSolver) SolveFrictionConstraints() {
	assert(solver.initialized)

	for i := range solver.frictionConstraints {
		fc := &solver.frictionConstraints[i]

		v1 := solver.linearVelocities[fc.IndexBody1]
		w1 := solver.angularVelocities[fc.IndexBody1]
		v2 := solver.linearVelocities[fc.IndexBody2]
		w2 := solver.angularVelocities[fc.IndexBody2]

		frictionLimit := fc.FrictionCoefficient * fc.TotalPenetrationImpulse

		// First friction constraint at the center of the manifold.
		deltaV := v2.Add(w2.Cross(fc.R2Friction)).Sub(v1).Sub(w1.Cross(fc.R1Friction))
		Jv := deltaV.Dot(fc.FrictionVector1)

		deltaLambda := -Jv * fc.InverseFriction1Mass
		lambdaTemp := fc.Friction1Impulse
		fc.Friction1Impulse = Clamp(fc.Friction1Impulse+deltaLambda, -frictionLimit, frictionLimit)
		deltaLambda = fc.Friction1Impulse - lambdaTemp

		linearImpulse := fc.FrictionVector1.Mul(deltaLambda)
		v1 = v1.Sub(linearImpulse.Mul(fc.MassInverseBody1))
		w1 = w1.Sub(fc.InverseInertiaTensorBody1.Mul3x1(fc.R1CrossT1.Mul(deltaLambda)))
		v2 = v2.Add(linearImpulse.Mul(fc.MassInverseBody2))
		w2 = w2.Add(fc.InverseInertiaTensorBody2.Mul3x1(fc.R2CrossT1.Mul(deltaLambda)))

		// Second friction constraint at the center of the manifold.
		deltaV = v2.Add(w2.Cross(fc.R2Friction)).Sub(v1).Sub(w1.Cross(fc.R1Friction))
		Jv = deltaV.Dot(fc.FrictionVector2)

		deltaLambda = -Jv * fc.InverseFriction2Mass
		lambdaTemp = fc.Friction2Impulse
		fc.Friction2Impulse = Clamp(fc.Friction2Impulse+deltaLambda, -frictionLimit, frictionLimit)
		deltaLambda = fc.Friction2Impulse - lambdaTemp

		linearImpulse = fc.FrictionVector2.Mul(deltaLambda)
		v1 = v1.Sub(linearImpulse.Mul(fc.MassInverseBody1))
		w1 = w1.Sub(fc.InverseInertiaTensorBody1.Mul3x1(fc.R1CrossT2.Mul(deltaLambda)))
		v2 = v2.Add(linearImpulse.Mul(fc.MassInverseBody2))
		w2 = w2.Add(fc.InverseInertiaTensorBody2.Mul3x1(fc.R2CrossT2.Mul(deltaLambda)))

		// Twist friction constraint around the manifold normal. Pure
		// angular impulses.
		Jv = w2.Sub(w1).Dot(fc.Normal)

		deltaLambda = -Jv * fc.InverseTwistFrictionMass
		lambdaTemp = fc.FrictionTwistImpulse
		fc.FrictionTwistImpulse = Clamp(fc.FrictionTwistImpulse+deltaLambda, -frictionLimit, frictionLimit)
		deltaLambda = fc.FrictionTwistImpulse - lambdaTemp

		twistImpulse := fc.Normal.Mul(deltaLambda)
		w1 = w1.Sub(fc.InverseInertiaTensorBody1.Mul3x1(twistImpulse))
		w2 = w2.Add(fc.InverseInertiaTensorBody2.Mul3x1(twistImpulse))

		// Rolling resistance constraint. The accumulated 3-vector impulse
		// is clamped coordinate-wise, not onto an L2 ball.
		if fc.RollingResistanceFactor > 0.0 {
			JvRolling := w2.Sub(w1)

			deltaLambdaRolling := fc.InverseRollingResistance.Mul3x1(JvRolling.Mul(-1.0))
			rollingLimit := fc.RollingResistanceFactor * fc.TotalPenetrationImpulse
			lambdaTempRolling := fc.RollingResistanceImpulse
			fc.RollingResistanceImpulse = ClampVector3(fc.RollingResistanceImpulse.Add(deltaLambdaRolling), rollingLimit)
			deltaLambdaRolling = fc.RollingResistanceImpulse.Sub(lambdaTempRolling)

			w1 = w1.Sub(fc.InverseInertiaTensorBody1.Mul3x1(deltaLambdaRolling))
			w2 = w2.Add(fc.InverseInertiaTensorBody2.Mul3x1(deltaLambdaRolling))
		}

		solver.linearVelocities[fc.IndexBody1] = v1
		solver.angularVelocities[fc.IndexBody1] = w1
		solver.linearVelocities[fc.IndexBody2] = v2
		solver.angularVelocities[fc.IndexBody2] = w2
	}
}

// StoreImpulses writes the accumulated impulses and the tangent basis back
// onto the contact points and manifolds for the warm start of the next step.
func (solver *ContactSolver) StoreImpulses() {
	assert(solver.initialized)

	for i := range solver.penetrationConstraints {
		pc := &solver.penetrationConstraints[i]
		pc.ContactPoint.PenetrationImpulse = pc.PenetrationImpulse
	}

	for i := range solver.frictionConstraints {
		fc := &solver.frictionConstraints[i]
		manifold := fc.ContactManifold

		manifold.FrictionImpulse1 = fc.Friction1Impulse
		manifold.FrictionImpulse2 = fc.Friction2Impulse
		manifold.FrictionTwistImpulse = fc.FrictionTwistImpulse
		manifold.RollingResistanceImpulse = fc.RollingResistanceImpulse
		manifold.FrictionVector1 = fc.FrictionVector1
		manifold.FrictionVector2 = fc.FrictionVector2
	}
}

// Cleanup releases the per-island constraint arrays. InitializeForIsland may
// be called again afterwards.
func (solver *ContactSolver) Cleanup() {
	solver.penetrationConstraints = nil
	solver.frictionConstraints = nil
	solver.manifolds = nil
	solver.initialized = false
}

// computeFrictionVectors derives the tangent basis t1, t2 of a friction
// constraint such that t1 x t2 = normal. t1 follows the tangential relative
// velocity when there is one; otherwise a deterministic orthogonal vector is
// chosen.
func (solver *ContactSolver) computeFrictionVectors(deltaVelocity Vector3, fc *FrictionConstraint) {
	assert(fc.Normal.Len() > MachineEpsilon)

	normalVelocity := fc.Normal.Mul(deltaVelocity.Dot(fc.Normal))
	tangentVelocity := deltaVelocity.Sub(normalVelocity)

	lengthTangentVelocity := tangentVelocity.Len()
	if lengthTangentVelocity > MachineEpsilon {
		fc.FrictionVector1 = tangentVelocity.Mul(1.0 / lengthTangentVelocity)
	} else {
		fc.FrictionVector1 = OneUnitOrthogonalVector(fc.Normal)
	}

	fc.FrictionVector2 = fc.Normal.Cross(fc.FrictionVector1).Normalize()
}
