package particle

// BirthCallback is invoked once per newly emitted particle, in emission
// order. DeathCallback shares the same per-particle (particle, userData)
// shape; neither may mutate the group's length.
type BirthCallback func(p *Particle, userData any)

// DeathCallback is invoked once per removed particle, in removal order,
// with the particle's state as it was immediately before removal.
type DeathCallback func(p *Particle, userData any)

// Group is a contiguous, growable population of particles sharing one
// capacity and one pair of birth/death callbacks. Removal uses
// swap-with-last: it does not preserve order, only set membership.
type Group struct {
	particles []Particle
	capacity  int

	birthCB   BirthCallback
	birthData any
	deathCB   DeathCallback
	deathData any
}

func newGroup(capacity int) *Group {
	return &Group{particles: make([]Particle, 0, capacity), capacity: capacity}
}

// Len returns the number of live particles.
func (g *Group) Len() int { return len(g.particles) }

// Capacity returns the group's maximum particle count.
func (g *Group) Capacity() int { return g.capacity }

// Particles exposes the live particle slice directly. Callers must not
// resize the group while holding it.
func (g *Group) Particles() []Particle { return g.particles }

// At returns a pointer to the i'th live particle for in-place mutation.
func (g *Group) At(i int) *Particle { return &g.particles[i] }

// SetCapacity resizes the group's capacity. Shrinking truncates the tail
// and fires the death callback for each removed particle, in list order.
func (g *Group) SetCapacity(n int) {
	if n < 0 {
		n = 0
	}
	if len(g.particles) > n {
		for i := n; i < len(g.particles); i++ {
			g.fireDeath(&g.particles[i])
		}
		g.particles = g.particles[:n]
	}
	g.capacity = n
	if cap(g.particles) < n {
		grown := make([]Particle, len(g.particles), n)
		copy(grown, g.particles)
		g.particles = grown
	}
}

// SetBirthCallback installs the callback invoked for each newly emitted
// particle. A nil fn removes it.
func (g *Group) SetBirthCallback(fn BirthCallback, userData any) {
	g.birthCB, g.birthData = fn, userData
}

// SetDeathCallback installs the callback invoked for each removed
// particle. A nil fn removes it.
func (g *Group) SetDeathCallback(fn DeathCallback, userData any) {
	g.deathCB, g.deathData = fn, userData
}

func (g *Group) fireBirth(p *Particle) {
	if g.birthCB != nil {
		g.birthCB(p, g.birthData)
	}
}

func (g *Group) fireDeath(p *Particle) {
	if g.deathCB != nil {
		g.deathCB(p, g.deathData)
	}
}

// append adds a new particle at the tail, firing the birth callback, and
// reports whether there was capacity to do so.
func (g *Group) append(p Particle) bool {
	if len(g.particles) >= g.capacity {
		return false
	}
	g.particles = append(g.particles, p)
	g.fireBirth(&g.particles[len(g.particles)-1])
	return true
}

// remaining reports how many more particles can be appended before
// capacity is reached.
func (g *Group) remaining() int {
	r := g.capacity - len(g.particles)
	if r < 0 {
		return 0
	}
	return r
}

// removeSwap removes the particle at index i by swapping it with the last
// live particle, firing the death callback with its pre-removal state.
// This is the documented swap-with-last deletion: it preserves set
// membership but not stable order, so Follow's "successor in the array"
// semantics depend on whatever order currently exists.
func (g *Group) removeSwap(i int) {
	last := len(g.particles) - 1
	dead := g.particles[i]
	g.fireDeath(&dead)
	g.particles[i] = g.particles[last]
	g.particles = g.particles[:last]
}

// copyFrom appends up to count particles from src starting at start,
// respecting g's capacity, firing g's birth callback for each. Returns the
// number actually copied.
func (g *Group) copyFrom(src *Group, start, count int) int {
	if start < 0 || start >= len(src.particles) {
		return 0
	}
	end := start + count
	if end > len(src.particles) {
		end = len(src.particles)
	}
	n := 0
	for i := start; i < end; i++ {
		if !g.append(src.particles[i]) {
			break
		}
		n++
	}
	return n
}
