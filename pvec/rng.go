package pvec

import (
	"github.com/chewxy/math32"
)

// Rng is a small, fast pseudo-random source, scoped to its owning Context
// rather than the process so two contexts on two goroutines never share
// mutable state.
//
// The generator is a xorshift32, which is more than adequate for visual
// particle work and, unlike math/rand, needs no heap allocation per draw.
type Rng struct {
	state uint32
	// haveSpare caches the second sample from the polar Box-Muller method,
	// which produces two standard-normal draws per rejection-loop pass.
	haveSpare bool
	spare     float32
}

// NewRng returns a generator seeded with seed. A zero seed is remapped to a
// fixed nonzero value since xorshift32 cannot recover from an all-zero state.
func NewRng(seed uint32) *Rng {
	if seed == 0 {
		seed = 0x9e3779b9
	}
	return &Rng{state: seed}
}

// Seed re-seeds the generator and clears any cached normal sample.
func (r *Rng) Seed(seed uint32) {
	if seed == 0 {
		seed = 0x9e3779b9
	}
	r.state = seed
	r.haveSpare = false
}

func (r *Rng) next() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Float32 returns a uniform sample in [0, 1).
func (r *Rng) Float32() float32 {
	// 24 bits of mantissa precision is plenty for a [0,1) float32 and keeps
	// the conversion exact.
	return float32(r.next()>>8) / float32(1<<24)
}

// Range returns a uniform sample in [lo, hi).
func (r *Rng) Range(lo, hi float32) float32 {
	return lo + (hi-lo)*r.Float32()
}

// Normal returns a standard-normal (mean 0, stdev 1) sample via the
// rejection-based polar (Marsaglia) method: draw points in the unit square
// until one lands in the unit disc, then derive two independent normals
// from it in one pass.
func (r *Rng) Normal() float32 {
	if r.haveSpare {
		r.haveSpare = false
		return r.spare
	}
	var u, v, s float32
	for {
		u = 2*r.Float32() - 1
		v = 2*r.Float32() - 1
		s = u*u + v*v
		if s > 0 && s < 1 {
			break
		}
	}
	mul := math32.Sqrt(-2 * math32.Log(s) / s)
	r.spare = v * mul
	r.haveSpare = true
	return u * mul
}

// Vec3In returns a uniform sample with each component independently drawn
// from [lo, hi). Used by Box-like domains and RandomAccel/RandomDisplace
// when their underlying domain is itself a Box.
func (r *Rng) Vec3In(lo, hi Vec3) Vec3 {
	return Vec3{r.Range(lo[0], hi[0]), r.Range(lo[1], hi[1]), r.Range(lo[2], hi[2])}
}

// UnitVec3 returns a uniformly distributed point on the unit sphere.
func (r *Rng) UnitVec3() Vec3 {
	// Normalizing three independent normals is uniform on the sphere and
	// avoids the pole-crowding that naive (theta, phi) sampling produces.
	v := Vec3{r.Normal(), r.Normal(), r.Normal()}
	return NormalizeSafe(v)
}
