package pdomain

import (
	"github.com/chewxy/math32"
	"github.com/davemc0/particle/pvec"
)

// Size returns the domain's measure (length/area/volume), used only as a
// mixture weight inside Union. Zero-measure or otherwise unmeasurable
// domains report 1.0 so they aren't starved out of a Union draw.
func (d Domain) Size() float32 { return d.size }

// Generate draws a point from the domain. Line, Triangle, Rectangle, and Box
// draw uniformly; Blob draws normally around its center; Disc, Cylinder,
// Cone, and Sphere draw the radius linearly in [rIn, rOut], which is not
// area- or volume-uniform; Plane returns its anchor point; Union picks a
// sub-domain by Size() and draws from it.
func (d Domain) Generate(r *pvec.Rng) pvec.Vec3 {
	switch d.kind {
	case KindPoint:
		return d.p0
	case KindLine:
		return d.p0.Add(d.p1.Sub(d.p0).Mul(r.Float32()))
	case KindTriangle:
		// Rejection-free barycentric sample: fold the unit square onto the
		// triangle by reflecting points past the diagonal.
		s, t := r.Float32(), r.Float32()
		if s+t > 1 {
			s, t = 1-s, 1-t
		}
		return d.p0.Add(d.u.Mul(s)).Add(d.v.Mul(t))
	case KindRectangle:
		return d.p0.Add(d.u.Mul(r.Float32())).Add(d.v.Mul(r.Float32()))
	case KindDisc:
		theta := r.Float32() * 2 * math32.Pi
		// Linear radius draw, not area-correct: long-standing behavior
		// callers depend on.
		rad := r.Range(d.rIn, d.rOut)
		return d.p0.Add(d.u.Mul(rad * math32.Cos(theta))).Add(d.v.Mul(rad * math32.Sin(theta)))
	case KindPlane:
		return d.p0
	case KindBox:
		return r.Vec3In(d.p0, d.p1)
	case KindCylinder:
		t := r.Float32() * d.length
		theta := r.Float32() * 2 * math32.Pi
		rad := r.Range(d.rIn, d.rOut)
		axisPt := d.p0.Add(pvec.NormalizeSafe(d.p1.Sub(d.p0)).Mul(t))
		return axisPt.Add(d.u.Mul(rad * math32.Cos(theta))).Add(d.v.Mul(rad * math32.Sin(theta)))
	case KindCone:
		t := r.Float32() * d.length
		frac := float32(0)
		if d.length > 0 {
			frac = t / d.length
		}
		theta := r.Float32() * 2 * math32.Pi
		rad := r.Range(d.rIn*frac, d.rOut*frac)
		axisPt := d.p0.Add(pvec.NormalizeSafe(d.p1.Sub(d.p0)).Mul(t))
		return axisPt.Add(d.u.Mul(rad * math32.Cos(theta))).Add(d.v.Mul(rad * math32.Sin(theta)))
	case KindSphere:
		rad := r.Range(d.rIn, d.rOut)
		return d.p0.Add(r.UnitVec3().Mul(rad))
	case KindBlob:
		return d.p0.Add(pvec.Vec3{r.Normal(), r.Normal(), r.Normal()}.Mul(d.stdev))
	case KindUnion:
		return d.generateUnion(r)
	default:
		return pvec.Vec3{}
	}
}

func (d Domain) generateUnion(r *pvec.Rng) pvec.Vec3 {
	if len(d.sub) == 0 {
		return pvec.Vec3{}
	}
	total := d.weights[len(d.weights)-1]
	if total <= 0 {
		return d.sub[0].Generate(r)
	}
	pick := r.Float32() * total
	for i, w := range d.weights {
		if pick < w {
			return d.sub[i].Generate(r)
		}
	}
	return d.sub[len(d.sub)-1].Generate(r)
}

// Within reports whether p is a member of the domain. Surface domains
// (Triangle, Rectangle, Disc, Plane) succeed within planeTolerance of the
// plane. Blob.Within is probabilistic: it returns true with probability
// proportional to the Gaussian density at p, so repeated calls with the
// same p can disagree.
func (d Domain) Within(p pvec.Vec3, r *pvec.Rng) bool {
	switch d.kind {
	case KindPoint:
		return p.Sub(d.p0).LenSqr() < planeTolerance*planeTolerance
	case KindLine:
		return withinSegment(d.p0, d.p1, p, planeTolerance)
	case KindTriangle:
		return d.withinPlanar(p) && d.barycentricInTriangle(p)
	case KindRectangle:
		return d.withinPlanar(p) && d.withinParallelogram(p)
	case KindDisc:
		return d.withinPlanar(p) && withinAnnulus(p.Sub(d.p0).Len(), d.rIn, d.rOut)
	case KindPlane:
		return d.normal.Dot(p)+d.d >= -planeTolerance
	case KindBox:
		return p[0] >= d.p0[0] && p[0] <= d.p1[0] &&
			p[1] >= d.p0[1] && p[1] <= d.p1[1] &&
			p[2] >= d.p0[2] && p[2] <= d.p1[2]
	case KindCylinder:
		axis := pvec.NormalizeSafe(d.p1.Sub(d.p0))
		t := p.Sub(d.p0).Dot(axis)
		if t < 0 || t > d.length {
			return false
		}
		radial := p.Sub(d.p0).Sub(axis.Mul(t))
		return withinAnnulus(radial.Len(), d.rIn, d.rOut)
	case KindCone:
		axis := pvec.NormalizeSafe(d.p1.Sub(d.p0))
		t := p.Sub(d.p0).Dot(axis)
		if t < 0 || t > d.length || d.length == 0 {
			return false
		}
		frac := t / d.length
		radial := p.Sub(d.p0).Sub(axis.Mul(t))
		return withinAnnulus(radial.Len(), d.rIn*frac, d.rOut*frac)
	case KindSphere:
		return withinAnnulus(p.Sub(d.p0).Len(), d.rIn, d.rOut)
	case KindBlob:
		return d.withinBlob(p, r)
	case KindUnion:
		for _, s := range d.sub {
			if s.Within(p, r) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func withinAnnulus(dist, rIn, rOut float32) bool {
	return dist >= rIn-planeTolerance && dist <= rOut+planeTolerance
}

func withinSegment(a, b, p pvec.Vec3, tol float32) bool {
	ab := b.Sub(a)
	l2 := ab.LenSqr()
	if l2 < 1e-12 {
		return p.Sub(a).Len() <= tol
	}
	t := pvec.Clamp(p.Sub(a).Dot(ab)/l2, 0, 1)
	closest := a.Add(ab.Mul(t))
	return p.Sub(closest).Len() <= tol
}

func (d Domain) withinPlanar(p pvec.Vec3) bool {
	dist := math32.Abs(d.normal.Dot(p) + d.d)
	return dist <= planeTolerance
}

func (d Domain) barycentricInTriangle(p pvec.Vec3) bool {
	w := p.Sub(d.p0)
	wu, wv := w.Dot(d.u), w.Dot(d.v)
	s := (d.vv*wu - d.uv*wv) * d.invDenom
	t := (d.uu*wv - d.uv*wu) * d.invDenom
	const eps = 1e-4
	return s >= -eps && t >= -eps && s+t <= 1+eps
}

func (d Domain) withinParallelogram(p pvec.Vec3) bool {
	w := p.Sub(d.p0)
	wu, wv := w.Dot(d.u), w.Dot(d.v)
	s := (d.vv*wu - d.uv*wv) * d.invDenom
	t := (d.uu*wv - d.uv*wu) * d.invDenom
	const eps = 1e-4
	return s >= -eps && s <= 1+eps && t >= -eps && t <= 1+eps
}

func (d Domain) withinBlob(p pvec.Vec3, r *pvec.Rng) bool {
	if d.stdev <= 0 {
		return p.Sub(d.p0).LenSqr() < 1e-12
	}
	dist2 := p.Sub(d.p0).LenSqr()
	density := math32.Exp(-dist2 / (2 * d.stdev * d.stdev))
	return r.Float32() < density
}
