package reactphysics3d

/// This is an internal structure.
type TimeStep struct {
	Dt                 Scalar // time step
	InvDt              Scalar // inverse time step
	VelocityIterations int
	WarmStarting       bool
}

func MakeTimeStep(dt Scalar, velocityIterations int, warmStarting bool) TimeStep {
	assert(dt > 0.0)
	assert(velocityIterations > 0)

	return TimeStep{
		Dt:                 dt,
		InvDt:              1.0 / dt,
		VelocityIterations: velocityIterations,
		WarmStarting:       warmStarting,
	}
}

/// This is an internal structure.
type Velocity struct {
	V Vector3
	W Vector3
}
