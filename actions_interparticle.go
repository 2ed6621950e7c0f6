package particle

import "github.com/chewxy/math32"

// Gravitate applies Newtonian pairwise attraction between every particle in
// the group. O(n^2); must run on the whole group in one call since each
// particle's effect depends on every other.
type Gravitate struct {
	wholeGroupFlag
	Mag, Epsilon, RMax float32
}

func (a *Gravitate) Execute(ec *ExecContext, _, _ int) error {
	ps := ec.Group.Particles()
	n := len(ps)
	rMax2 := a.RMax * a.RMax
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			delta := ps[j].Pos.Sub(ps[i].Pos)
			d2 := delta.LenSqr()
			if d2 >= rMax2 || d2 < 1e-12 {
				continue
			}
			d := math32.Sqrt(d2)
			scale := a.Mag * ec.Dt / (d * (d2 + a.Epsilon))
			impulse := delta.Mul(scale)
			ps[i].Vel = ps[i].Vel.Add(impulse)
			ps[j].Vel = ps[j].Vel.Sub(impulse)
		}
	}
	return nil
}

// Follow attracts each particle to its successor in the array; the last
// particle is unaffected. Because removal is swap-with-last, "successor"
// depends on whatever order currently exists; this is intentional.
type Follow struct {
	wholeGroupFlag
	Mag, Epsilon, RMax float32
}

func (a *Follow) Execute(ec *ExecContext, _, _ int) error {
	ps := ec.Group.Particles()
	n := len(ps)
	rMax2 := a.RMax * a.RMax
	for i := 0; i < n-1; i++ {
		delta := ps[i+1].Pos.Sub(ps[i].Pos)
		d2 := delta.LenSqr()
		if d2 >= rMax2 || d2 < 1e-12 {
			continue
		}
		d := math32.Sqrt(d2)
		scale := a.Mag * ec.Dt / (d * (d2 + a.Epsilon))
		ps[i].Vel = ps[i].Vel.Add(delta.Mul(scale))
	}
	return nil
}

// MatchVelocity nudges each particle's velocity toward the weighted
// average of neighbors within RMax, softened by Epsilon.
type MatchVelocity struct {
	wholeGroupFlag
	Mag, Epsilon, RMax float32
}

func (a *MatchVelocity) Execute(ec *ExecContext, _, _ int) error {
	matchNeighborAverage(ec, a.Mag, a.Epsilon, a.RMax,
		func(p *Particle) Vec3 { return p.Vel },
		func(p *Particle, v Vec3) { p.Vel = v })
	return nil
}

// MatchRotVelocity is MatchVelocity applied to rotational velocity.
type MatchRotVelocity struct {
	wholeGroupFlag
	Mag, Epsilon, RMax float32
}

func (a *MatchRotVelocity) Execute(ec *ExecContext, _, _ int) error {
	matchNeighborAverage(ec, a.Mag, a.Epsilon, a.RMax,
		func(p *Particle) Vec3 { return p.RVel },
		func(p *Particle, v Vec3) { p.RVel = v })
	return nil
}

// matchNeighborAverage computes, for every particle, the weighted average
// of get(neighbor) over neighbors within rMax, with weight 1/(d^2+epsilon),
// then nudges get(self) toward it by mag*dt. Shared by
// MatchVelocity/MatchRotVelocity.
func matchNeighborAverage(ec *ExecContext, mag, epsilon, rMax float32, get func(*Particle) Vec3, set func(*Particle, Vec3)) {
	ps := ec.Group.Particles()
	n := len(ps)
	rMax2 := rMax * rMax
	sums := make([]Vec3, n)
	weights := make([]float32, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d2 := ps[j].Pos.Sub(ps[i].Pos).LenSqr()
			if d2 >= rMax2 {
				continue
			}
			w := 1 / (d2 + epsilon)
			sums[i] = sums[i].Add(get(&ps[j]).Mul(w))
			weights[i] += w
			sums[j] = sums[j].Add(get(&ps[i]).Mul(w))
			weights[j] += w
		}
	}
	for i := 0; i < n; i++ {
		if weights[i] <= 0 {
			continue
		}
		avg := sums[i].Mul(1 / weights[i])
		cur := get(&ps[i])
		set(&ps[i], cur.Add(avg.Sub(cur).Mul(mag*ec.Dt)))
	}
}
