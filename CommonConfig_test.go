package reactphysics3d

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "world.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWorldConfig(t *testing.T) {
	path := writeConfigFile(t, `
gravity = [0.0, -3.71, 0.0]
velocity-iterations = 20
warm-starting = false
restitution-velocity-threshold = 0.5
`)

	config, err := LoadWorldConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if config.Gravity != [3]Scalar{0.0, -3.71, 0.0} {
		t.Fatalf("gravity = %v", config.Gravity)
	}
	if config.VelocityIterations != 20 {
		t.Fatalf("velocity-iterations = %d", config.VelocityIterations)
	}
	if config.WarmStarting {
		t.Fatalf("warm-starting not overridden")
	}
	// Fields absent from the file keep their defaults.
	if !config.SplitImpulse {
		t.Fatalf("split-impulse default lost")
	}
	if config.RestitutionVelocityThreshold != 0.5 {
		t.Fatalf("restitution-velocity-threshold = %v", config.RestitutionVelocityThreshold)
	}
}

func TestLoadWorldConfigRejectsInvalid(t *testing.T) {
	path := writeConfigFile(t, "velocity-iterations = 0\n")
	if _, err := LoadWorldConfig(path); err == nil {
		t.Fatalf("invalid iteration count accepted")
	}
}

func TestLoadWorldConfigMissingFile(t *testing.T) {
	if _, err := LoadWorldConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("missing file accepted")
	}
}
