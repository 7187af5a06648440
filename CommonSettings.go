package reactphysics3d

import "math"

func assert(a bool) {
	if !a {
		panic("assert")
	}
}

/// @file
/// Global tuning constants based on meters-kilograms-seconds (MKS) units.

/// MachineEpsilon is the gap between 1 and the next larger float64 (2^-52).
var MachineEpsilon = math.Nextafter(1.0, 2.0) - 1.0

/// Baumgarte factor for the penetration bias of the velocity solve when the
/// split-impulse position correction is disabled.
const ContactBeta = 0.2

/// Baumgarte factor for the split-impulse position correction sweep.
const ContactBetaSplitImpulse = 0.2

/// Allowed penetration. Positional correction is suppressed below this depth
/// to reduce jitter. This is in meters.
const ContactSlop = 0.01

/// A velocity threshold for elastic collisions. Any contact with a relative
/// normal velocity below this threshold is treated as inelastic.
const RestitutionVelocityThreshold = 1.0

/// The maximum number of contact points in a contact manifold. Do not change
/// this value.
const MaxContactPointsPerManifold = 4

/// Default number of Gauss-Seidel sweeps over the velocity constraints.
const DefaultVelocityIterations = 10
