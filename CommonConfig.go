package reactphysics3d

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// WorldConfig holds the tuning parameters of a dynamics world. Fields with a
// `toml` tag can be loaded from a configuration file.
type WorldConfig struct {
	// World gravity in m/s^2.
	Gravity [3]Scalar `toml:"gravity"`

	// Number of Gauss-Seidel sweeps over the velocity constraints per step.
	VelocityIterations int `toml:"velocity-iterations"`

	// Seed the solver with the impulses of the previous step.
	WarmStarting bool `toml:"warm-starting"`

	// Resolve positional error with a separate split-impulse sweep instead
	// of a bias in the velocity solve.
	SplitImpulse bool `toml:"split-impulse"`

	// Contacts with a relative normal velocity below this threshold do not
	// bounce.
	RestitutionVelocityThreshold Scalar `toml:"restitution-velocity-threshold"`
}

// DefaultWorldConfig returns the engine defaults.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Gravity:                      [3]Scalar{0.0, -9.81, 0.0},
		VelocityIterations:           DefaultVelocityIterations,
		WarmStarting:                 true,
		SplitImpulse:                 true,
		RestitutionVelocityThreshold: RestitutionVelocityThreshold,
	}
}

// LoadWorldConfig reads a WorldConfig from a TOML file. Fields missing from
// the file keep their default values.
func LoadWorldConfig(path string) (WorldConfig, error) {
	config := DefaultWorldConfig()
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return WorldConfig{}, fmt.Errorf("load world config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return WorldConfig{}, fmt.Errorf("load world config: %w", err)
	}
	return config, nil
}

// Validate reports the first invalid parameter.
func (config *WorldConfig) Validate() error {
	if config.VelocityIterations < 1 {
		return fmt.Errorf("velocity-iterations must be >= 1, got %d", config.VelocityIterations)
	}
	if config.RestitutionVelocityThreshold < 0 {
		return fmt.Errorf("restitution-velocity-threshold must be >= 0, got %g", config.RestitutionVelocityThreshold)
	}
	return nil
}

// GravityVector returns the configured gravity as a Vector3.
func (config *WorldConfig) GravityVector() Vector3 {
	return Vector3{config.Gravity[0], config.Gravity[1], config.Gravity[2]}
}
