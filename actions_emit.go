package particle

import (
	"github.com/davemc0/particle/pdomain"
	"github.com/davemc0/particle/pvec"
)

// Source emits floor(rate*dt) particles, plus one more with probability
// equal to the fractional remainder (temporal dithering), stopping at group
// capacity. Each new particle draws Pos from PosDom; every other attribute
// comes from State.
type Source struct {
	wholeGroupFlag
	Rate   float32
	PosDom pdomain.Domain
	State  SourceState
}

func (a *Source) Execute(ec *ExecContext, _, _ int) error {
	n := emitCount(a.Rate, ec.Dt, ec.Rng)
	if n <= 0 {
		return nil
	}
	if rem := ec.Group.remaining(); n > rem {
		if ec.Log.DebugEnabled() {
			ec.Log.Debugf("Source: capping emission from %d to %d (capacity reached)", n, rem)
		}
		n = rem
	}
	for i := 0; i < n; i++ {
		p := newParticleFromState(&a.State, a.PosDom.Generate(ec.Rng), ec.Rng)
		ec.Group.append(p)
	}
	return nil
}

// emitCount implements the floor(rate*dt) + dithered remainder rule.
func emitCount(rate, dt float32, rng *pvec.Rng) int {
	expected := rate * dt
	if expected <= 0 {
		return 0
	}
	n := int(expected)
	frac := expected - float32(n)
	if rng.Float32() < frac {
		n++
	}
	return n
}

func newParticleFromState(s *SourceState, pos Vec3, rng *pvec.Rng) Particle {
	var p Particle
	p.Pos = pos
	p.Up = s.UpDom.Generate(rng)
	p.Vel = s.VelDom.Generate(rng)
	p.RVel = s.RVelDom.Generate(rng)
	p.Size = s.SizeDom.Generate(rng)
	p.Color = s.ColorDom.Generate(rng)
	p.Alpha = s.AlphaDom.Generate(rng)[0]
	p.Mass = s.Mass
	p.Data = s.Data
	p.Age = s.AgeMean + s.AgeSigma*rng.Normal()
	if s.VertexBTracksPos {
		p.PosB = pos
	} else {
		p.PosB = s.VertexBDom.Generate(rng)
	}
	p.UpB = p.Up
	p.VelB = p.Vel
	return p
}

// Vertex emits exactly one particle at literal position Pos with the given
// per-particle Data, overriding State.Data, when called immediately. In
// list-building mode it reduces to Source(1, Point(p), stateWithData).
// Vertex always sets PosB from the sampled VertexBDom, even when
// State.VertexBTracksPos is set.
type Vertex struct {
	wholeGroupFlag
	Pos   Vec3
	State SourceState
	Data  uint32
}

func (a *Vertex) Execute(ec *ExecContext, _, _ int) error {
	st := a.State
	st.Data = a.Data
	p := newParticleFromState(&st, a.Pos, ec.Rng)
	p.PosB = st.VertexBDom.Generate(ec.Rng)
	ec.Group.append(p)
	return nil
}

// AsSource reduces a Vertex to the Source it becomes when recorded into an
// action list.
func (a *Vertex) AsSource() *Source {
	st := a.State
	st.Data = a.Data
	st.VertexBTracksPos = false
	return &Source{Rate: 1, PosDom: pdomain.NewPoint(a.Pos), State: st}
}
