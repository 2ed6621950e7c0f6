package particle

import (
	"github.com/chewxy/math32"
	"github.com/davemc0/particle/pdomain"
	"github.com/davemc0/particle/pvec"
)

// Gravity adds a constant acceleration to every particle's velocity.
type Gravity struct {
	baseFlags
	Dir Vec3
}

func (a *Gravity) Execute(ec *ExecContext, begin, end int) error {
	d := a.Dir.Mul(ec.Dt)
	for i := begin; i < end; i++ {
		p := ec.Group.At(i)
		p.Vel = p.Vel.Add(d)
	}
	return nil
}

// OrbitPoint pulls particles toward (or away from, for negative Mag) a
// fixed center with an inverse-square force, skipped beyond RMax.
type OrbitPoint struct {
	baseFlags
	Center  Vec3
	Mag     float32
	Epsilon float32
	RMax    float32
}

func (a *OrbitPoint) Execute(ec *ExecContext, begin, end int) error {
	rMax2 := a.RMax * a.RMax
	for i := begin; i < end; i++ {
		p := ec.Group.At(i)
		toCenter := a.Center.Sub(p.Pos)
		d2 := toCenter.LenSqr()
		if d2 >= rMax2 {
			continue
		}
		d := math32.Sqrt(d2)
		if d < 1e-12 {
			continue
		}
		scale := a.Mag * ec.Dt / (d * (d2 + a.Epsilon))
		p.Vel = p.Vel.Add(toCenter.Mul(scale))
	}
	return nil
}

// OrbitLine is OrbitPoint with the target being the closest point on the
// line through P along Axis.
type OrbitLine struct {
	baseFlags
	P, Axis Vec3
	Mag     float32
	Epsilon float32
	RMax    float32
}

func (a *OrbitLine) Execute(ec *ExecContext, begin, end int) error {
	axis := pvec.NormalizeSafe(a.Axis)
	rMax2 := a.RMax * a.RMax
	for i := begin; i < end; i++ {
		p := ec.Group.At(i)
		toP := p.Pos.Sub(a.P)
		t := toP.Dot(axis)
		closest := a.P.Add(axis.Mul(t))
		toLine := closest.Sub(p.Pos)
		d2 := toLine.LenSqr()
		if d2 >= rMax2 {
			continue
		}
		d := math32.Sqrt(d2)
		if d < 1e-12 {
			continue
		}
		scale := a.Mag * ec.Dt / (d * (d2 + a.Epsilon))
		p.Vel = p.Vel.Add(toLine.Mul(scale))
	}
	return nil
}

// gaussian evaluates the unnormalized Gaussian density with stdev sigma.
func gaussian(x, sigma float32) float32 {
	if sigma <= 0 {
		return 0
	}
	return math32.Exp(-(x * x) / (2 * sigma * sigma))
}

// Explosion applies a Gaussian shock-wave centered Radius away from Center.
// The action does not advance Radius itself; the caller increments it
// between steps to propagate the wave.
type Explosion struct {
	baseFlags
	Center  Vec3
	Radius  float32
	Mag     float32
	Sigma   float32
	Epsilon float32
}

func (a *Explosion) Execute(ec *ExecContext, begin, end int) error {
	for i := begin; i < end; i++ {
		p := ec.Group.At(i)
		away := p.Pos.Sub(a.Center)
		dist := away.Len()
		mag := a.Mag * gaussian(a.Radius-dist, a.Sigma) / (dist*dist + a.Epsilon)
		dir := pvec.NormalizeSafe(away)
		p.Vel = p.Vel.Add(dir.Mul(mag * ec.Dt))
	}
	return nil
}

// Vortex pulls particles outside its silhouette inward, and replaces (not
// adds to) the velocity of particles inside with a swirl around Axis.
// Silhouette radius at axial fraction a in [0,1] is a^Tightness * RMax.
type Vortex struct {
	baseFlags
	Tip, Axis                     Vec3
	Tightness, RMax               float32
	InSpeed, UpSpeed, AroundSpeed float32
}

func (a *Vortex) Execute(ec *ExecContext, begin, end int) error {
	axis := pvec.NormalizeSafe(a.Axis)
	for i := begin; i < end; i++ {
		p := ec.Group.At(i)
		rel := p.Pos.Sub(a.Tip)
		axialDist := rel.Dot(axis)
		if axialDist < 0 || axialDist > a.RMax {
			continue
		}
		frac := axialDist / a.RMax
		silhouette := math32.Pow(frac, a.Tightness) * a.RMax

		radial := rel.Sub(axis.Mul(axialDist))
		radialDist := radial.Len()
		if radialDist > a.RMax {
			continue
		}

		if radialDist > silhouette {
			// The inward pull is a force, so heavier particles respond
			// more slowly; the in-silhouette swirl below replaces velocity
			// outright and ignores mass.
			invMass := float32(1)
			if p.Mass > 0 {
				invMass = 1 / p.Mass
			}
			dirIn := pvec.NormalizeSafe(radial).Mul(-1)
			p.Vel = p.Vel.Add(dirIn.Mul(a.InSpeed * ec.Dt * invMass))
			continue
		}

		radialDir := pvec.NormalizeSafe(radial)
		around := axis.Cross(radialDir)
		p.Vel = axis.Mul(a.UpSpeed).Add(around.Mul(a.AroundSpeed))
	}
	return nil
}

// Jet adds AccelDom.Generate()*dt to the velocity of every particle inside
// ShapeDom.
type Jet struct {
	baseFlags
	ShapeDom, AccelDom pdomain.Domain
}

func (a *Jet) Execute(ec *ExecContext, begin, end int) error {
	for i := begin; i < end; i++ {
		p := ec.Group.At(i)
		if !a.ShapeDom.Within(p.Pos, ec.Rng) {
			continue
		}
		p.Vel = p.Vel.Add(a.AccelDom.Generate(ec.Rng).Mul(ec.Dt))
	}
	return nil
}

// RandomAccel adds Dom.Generate()*dt to velocity each step.
type RandomAccel struct {
	baseFlags
	Dom pdomain.Domain
}

func (a *RandomAccel) Execute(ec *ExecContext, begin, end int) error {
	for i := begin; i < end; i++ {
		p := ec.Group.At(i)
		p.Vel = p.Vel.Add(a.Dom.Generate(ec.Rng).Mul(ec.Dt))
	}
	return nil
}

// RandomDisplace adds Dom.Generate()*dt to position each step.
type RandomDisplace struct {
	baseFlags
	Dom pdomain.Domain
}

func (a *RandomDisplace) Execute(ec *ExecContext, begin, end int) error {
	for i := begin; i < end; i++ {
		p := ec.Group.At(i)
		p.Pos = p.Pos.Add(a.Dom.Generate(ec.Rng).Mul(ec.Dt))
	}
	return nil
}

// RandomVelocity replaces velocity with a fresh sample from Dom each step.
type RandomVelocity struct {
	baseFlags
	Dom pdomain.Domain
}

func (a *RandomVelocity) Execute(ec *ExecContext, begin, end int) error {
	for i := begin; i < end; i++ {
		ec.Group.At(i).Vel = a.Dom.Generate(ec.Rng)
	}
	return nil
}

// RandomRotVelocity replaces rotational velocity with a fresh sample from
// Dom each step.
type RandomRotVelocity struct {
	baseFlags
	Dom pdomain.Domain
}

func (a *RandomRotVelocity) Execute(ec *ExecContext, begin, end int) error {
	for i := begin; i < end; i++ {
		ec.Group.At(i).RVel = a.Dom.Generate(ec.Rng)
	}
	return nil
}
