// Package particle is a renderer-agnostic particle-system simulation
// engine: it maintains populations of independent point-mass particles and
// advances them in discrete time steps by applying a composed sequence of
// actions (forces, kinematic integrators, spatial/velocity filters,
// emitters, and killers). Callers own display, input, and I/O; they consume
// particle state through GetParticles or GetParticlePointer.
package particle

import (
	"unsafe"

	"github.com/davemc0/particle/pdomain"
	"github.com/davemc0/particle/pvec"
)

// Vec3 is the engine's point/vector type, re-exported from pvec for callers
// that only import the root package.
type Vec3 = pvec.Vec3

// Domain is the engine's geometric region type, re-exported from pdomain.
type Domain = pdomain.Domain

// Particle is a fixed 128-byte record. Field order matters: position,
// color+alpha, and velocity occupy contiguous float runs so GetParticlePointer
// can hand callers a zero-copy vertex-array view. Color must be immediately
// followed by Alpha so a 4-float RGBA read is valid.
type Particle struct {
	Pos  Vec3 // current position
	PosB Vec3 // secondary/"home" position; Restore target

	Up  Vec3 // body-frame up vector
	UpB Vec3 // secondary up; Restore target

	Vel  Vec3 // linear velocity
	VelB Vec3 // previous-frame velocity, used for orientation frames
	RVel Vec3 // rotational velocity, applied to Up

	Size Vec3 // rendering size triple; semantics are app-defined

	Color Vec3    // rendering color
	Alpha float32 // must follow Color for a valid 4-float RGBA read

	Age  float32 // time since emission, in time-step units
	Mass float32 // used by Vortex and any future inverse-mass-scaled force

	Tmp0 float32 // scratch: Sort key

	Data uint32 // opaque per-particle tag passed to user callbacks
}

const particleSize = 128

func init() {
	if unsafe.Sizeof(Particle{}) != particleSize {
		panic("particle: Particle record size drifted from the documented 128 bytes")
	}
}
