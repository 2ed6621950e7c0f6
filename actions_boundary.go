package particle

import (
	"github.com/davemc0/particle/pdomain"
	"github.com/davemc0/particle/perror"
	"github.com/davemc0/particle/pvec"
)

// Avoid steers particles away from a domain before they reach it: for each
// particle it extrapolates pos+vel*lookAhead and, if that segment would
// cross into Dom, blends a unit vector toward the nearest safe point with
// the current velocity direction, scaled by Mag*dt/(t^2+Epsilon) where t is
// the predicted time-to-impact, then rescales to preserve speed.
// Implemented for Disc, Plane, Rectangle, Sphere, and Triangle.
type Avoid struct {
	baseFlags
	Dom       pdomain.Domain
	Mag       float32
	Epsilon   float32
	LookAhead float32
}

func (a *Avoid) Execute(ec *ExecContext, begin, end int) error {
	if !boundaryOpSupported(a.Dom.Kind()) {
		return perror.New(perror.NotImplemented, "Avoid", "unsupported domain kind for Avoid")
	}
	for i := begin; i < end; i++ {
		p := ec.Group.At(i)
		pnext := p.Pos.Add(p.Vel.Mul(a.LookAhead))
		hit, tFrac, safeDir := avoidCrossing(a.Dom, p.Pos, pnext)
		if !hit {
			continue
		}
		speed := p.Vel.Len()
		if speed < 1e-12 {
			continue
		}
		t := tFrac * a.LookAhead
		scale := a.Mag * ec.Dt / (t*t + a.Epsilon)
		velDir := p.Vel.Mul(1 / speed)
		blended := pvec.NormalizeSafe(velDir.Add(safeDir.Mul(scale)))
		p.Vel = blended.Mul(speed)
	}
	return nil
}

func boundaryOpSupported(k pdomain.Kind) bool {
	switch k {
	case pdomain.KindDisc, pdomain.KindPlane, pdomain.KindRectangle, pdomain.KindSphere, pdomain.KindTriangle:
		return true
	default:
		return false
	}
}

// avoidCrossing reports whether the look-ahead segment pos->pnext enters
// dom, the fraction along the segment where it does, and a unit vector
// pointing from the crossing point toward the nearest safe point: past the
// nearest rim for a Disc, past the nearest edge for a Rectangle or
// Triangle, along the surface normal for a Plane, and radially outward for
// a Sphere.
func avoidCrossing(dom pdomain.Domain, pos, pnext pvec.Vec3) (hit bool, t float32, safeDir pvec.Vec3) {
	switch dom.Kind() {
	case pdomain.KindPlane:
		tc, _, crossed := planeCrossing(dom, pos, pnext)
		if !crossed {
			return false, 0, pvec.Vec3{}
		}
		n := dom.Normal()
		if dom.PlaneValue(pos) < 0 {
			n = n.Mul(-1)
		}
		return true, tc, n
	case pdomain.KindDisc:
		tc, cp, crossed := planeCrossing(dom, pos, pnext)
		if !crossed || !dom.Within(cp, nil) {
			return false, 0, pvec.Vec3{}
		}
		// Nearest safe point is just past whichever rim is closer to the
		// crossing point.
		radial := cp.Sub(dom.Center())
		dist := radial.Len()
		radialDir := pvec.NormalizeSafe(radial)
		if radialDir.LenSqr() < 0.5 {
			radialDir = pvec.NormalizeSafe(dom.U())
		}
		target := dom.Center().Add(radialDir.Mul(dom.OuterRadius() * 1.01))
		if dom.InnerRadius() > 0 && dist-dom.InnerRadius() < dom.OuterRadius()-dist {
			target = dom.Center().Add(radialDir.Mul(dom.InnerRadius() * 0.99))
		}
		return true, tc, pvec.NormalizeSafe(target.Sub(cp))
	case pdomain.KindRectangle, pdomain.KindTriangle:
		tc, cp, crossed := planeCrossing(dom, pos, pnext)
		if !crossed || !dom.Within(cp, nil) {
			return false, 0, pvec.Vec3{}
		}
		return true, tc, pvec.NormalizeSafe(nearestEdgeExit(dom, cp).Sub(cp))
	case pdomain.KindSphere:
		dir := pnext.Sub(pos)
		if dom.Within(pos, nil) {
			return false, 0, pvec.Vec3{}
		}
		tNear, _, okHit := dom.RaySphere(pos, dir)
		if !okHit || tNear < 0 || tNear > 1 {
			return false, 0, pvec.Vec3{}
		}
		cp := pos.Add(dir.Mul(tNear))
		return true, tNear, pvec.NormalizeSafe(cp.Sub(dom.Center()))
	default:
		return false, 0, pvec.Vec3{}
	}
}

// planeCrossing intersects the segment pos->pnext with dom's supporting
// plane, returning the segment fraction and crossing point. Only a
// sign change counts: a particle already on the surface plane has nothing
// to steer around.
func planeCrossing(dom pdomain.Domain, pos, pnext pvec.Vec3) (t float32, cp pvec.Vec3, crossed bool) {
	f0 := dom.PlaneValue(pos)
	f1 := dom.PlaneValue(pnext)
	if f0 == 0 || f0 == f1 || (f0 >= 0) == (f1 >= 0) {
		return 0, pvec.Vec3{}, false
	}
	tc := f0 / (f0 - f1)
	if tc < 0 || tc > 1 {
		return 0, pvec.Vec3{}, false
	}
	return tc, pos.Add(pnext.Sub(pos).Mul(tc)), true
}

// nearestEdgeExit returns a point just outside the nearest edge of a
// Rectangle or Triangle, in the domain's plane, from the in-plane point cp.
// Steering toward it takes the particle around the obstacle instead of
// straight back the way it came.
func nearestEdgeExit(dom pdomain.Domain, cp pvec.Vec3) pvec.Vec3 {
	s, t := dom.ParametricUV(cp)
	u, v := dom.U(), dom.V()
	p0 := dom.P0()
	const push = 0.05
	if dom.Kind() == pdomain.KindRectangle {
		// Distances to the four edges in parametric space.
		ds := [4]float32{s, 1 - s, t, 1 - t}
		best, bd := 0, ds[0]
		for i := 1; i < 4; i++ {
			if ds[i] < bd {
				best, bd = i, ds[i]
			}
		}
		switch best {
		case 0:
			return p0.Add(u.Mul(-push)).Add(v.Mul(t))
		case 1:
			return p0.Add(u.Mul(1 + push)).Add(v.Mul(t))
		case 2:
			return p0.Add(u.Mul(s)).Add(v.Mul(-push))
		default:
			return p0.Add(u.Mul(s)).Add(v.Mul(1 + push))
		}
	}
	// Triangle: edges are s==0, t==0, and s+t==1.
	ds := [3]float32{s, t, (1 - s - t) * 0.70710678}
	best, bd := 0, ds[0]
	for i := 1; i < 3; i++ {
		if ds[i] < bd {
			best, bd = i, ds[i]
		}
	}
	switch best {
	case 0:
		return p0.Add(u.Mul(-push)).Add(v.Mul(t))
	case 1:
		return p0.Add(u.Mul(s)).Add(v.Mul(-push))
	default:
		over := (1 + push - (s + t)) / 2
		return p0.Add(u.Mul(s + over)).Add(v.Mul(t + over))
	}
}

// Bounce reflects velocity at the boundary of Dom when the segment
// pos->pos+vel*dt would cross it, decomposing velocity into normal and
// tangential components and applying friction/resilience. Implemented for
// Box, Disc, Plane, Rectangle, Sphere, and Triangle.
type Bounce struct {
	baseFlags
	Friction, Resilience, FricMinVel float32
	Dom                              pdomain.Domain
}

func bounceSupported(k pdomain.Kind) bool {
	switch k {
	case pdomain.KindBox, pdomain.KindDisc, pdomain.KindPlane, pdomain.KindRectangle, pdomain.KindSphere, pdomain.KindTriangle:
		return true
	default:
		return false
	}
}

func (a *Bounce) Execute(ec *ExecContext, begin, end int) error {
	if !bounceSupported(a.Dom.Kind()) {
		return perror.New(perror.NotImplemented, "Bounce", "unsupported domain kind for Bounce")
	}
	if a.Dom.Kind() == pdomain.KindSphere {
		if a.Dom.InnerRadius() != 0 {
			// No implicit inner-surface bounce for thick shells.
			return perror.New(perror.InvalidValue, "Bounce", "sphere bounce requires rIn == 0")
		}
		for i := begin; i < end; i++ {
			a.bounceSphere(ec.Group.At(i), ec.Dt)
		}
		return nil
	}
	for i := begin; i < end; i++ {
		p := ec.Group.At(i)
		pnext := p.Pos.Add(p.Vel.Mul(ec.Dt))
		normal, hit := bounceNormal(a.Dom, p.Pos, pnext)
		if !hit {
			continue
		}
		p.Vel = a.reflect(p.Vel, normal)
	}
	return nil
}

// reflect applies the friction/resilience decomposition at the hit plane:
// vel <- vt*(1-friction) - vn*resilience, skipping friction when the
// tangential speed is at or below FricMinVel (a particle nearly at rest
// shouldn't be dragged to a stop).
func (a *Bounce) reflect(vel, normal pvec.Vec3) pvec.Vec3 {
	vn := normal.Mul(vel.Dot(normal))
	vt := vel.Sub(vn)
	if vt.LenSqr() > a.FricMinVel*a.FricMinVel {
		return vt.Mul(1 - a.Friction).Sub(vn.Mul(a.Resilience))
	}
	return vt.Sub(vn.Mul(a.Resilience))
}

// bounceSphere handles inside-out and outside-in crossings separately,
// using strict radius tests: no surface tolerance, so a particle resting
// exactly on the surface is on whichever side it came from. If a
// reflected inside trajectory would still exit the sphere, which the
// tangent-plane approximation allows near grazing hits, the velocity is
// replaced with one that lands the particle at 0.999*rOut from center,
// guaranteeing containment.
func (a *Bounce) bounceSphere(p *Particle, dt float32) {
	c := a.Dom.Center()
	rOut := a.Dom.OuterRadius()
	r2 := rOut * rOut
	pnext := p.Pos.Add(p.Vel.Mul(dt))
	wasIn := p.Pos.Sub(c).LenSqr() < r2
	nowIn := pnext.Sub(c).LenSqr() < r2
	if wasIn == nowIn {
		return
	}
	dir := pnext.Sub(p.Pos)
	tNear, tFar, ok := a.Dom.RaySphere(p.Pos, dir)
	if !ok {
		return
	}
	t := tNear
	if wasIn {
		t = tFar
	}
	t = pvec.Clamp(t, 0, 1)
	cp := p.Pos.Add(dir.Mul(t))
	n := pvec.NormalizeSafe(cp.Sub(c))
	if wasIn {
		n = n.Mul(-1)
	}
	p.Vel = a.reflect(p.Vel, n)

	if wasIn {
		after := p.Pos.Add(p.Vel.Mul(dt))
		if after.Sub(c).LenSqr() >= r2 {
			landing := c.Add(pvec.NormalizeSafe(after.Sub(c)).Mul(rOut * 0.999))
			p.Vel = landing.Sub(p.Pos).Mul(1 / dt)
		}
	}
}

// bounceNormal returns the outward surface normal at the boundary crossing
// between pos and pnext for the planar and box domains, and whether a
// crossing was found.
func bounceNormal(dom pdomain.Domain, pos, pnext pvec.Vec3) (pvec.Vec3, bool) {
	switch dom.Kind() {
	case pdomain.KindPlane, pdomain.KindDisc, pdomain.KindRectangle, pdomain.KindTriangle:
		f0 := dom.PlaneValue(pos)
		f1 := dom.PlaneValue(pnext)
		if (f0 >= 0) == (f1 >= 0) {
			return pvec.Vec3{}, false
		}
		tc := f0 / (f0 - f1)
		cp := pos.Add(pnext.Sub(pos).Mul(tc))
		if dom.Kind() != pdomain.KindPlane && !dom.Within(cp, nil) {
			return pvec.Vec3{}, false
		}
		return dom.Normal(), true
	case pdomain.KindBox:
		dir := pnext.Sub(pos)
		wasIn := dom.Within(pos, nil)
		nowIn := dom.Within(pnext, nil)
		if wasIn == nowIn {
			return pvec.Vec3{}, false
		}
		tMin, tMax, ok := dom.RayBox(pos, dir)
		if !ok {
			return pvec.Vec3{}, false
		}
		t := tMin
		if wasIn {
			t = tMax
		}
		t = pvec.Clamp(t, 0, 1)
		return dom.BoxOutwardNormal(pos.Add(dir.Mul(t))), true
	default:
		return pvec.Vec3{}, false
	}
}
