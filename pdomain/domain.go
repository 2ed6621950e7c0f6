// Package pdomain implements the tagged-union geometric domain library used
// to sample, classify, and redirect particles. Domain is a sum type rather
// than an interface hierarchy: one struct carrying a Kind tag plus whatever
// subset of its fields that Kind's Generate/Within/Size need, which keeps
// domain values copyable by value and avoids per-call dynamic dispatch in
// the action inner loops.
package pdomain

import (
	"github.com/chewxy/math32"
	"github.com/davemc0/particle/perror"
	"github.com/davemc0/particle/pvec"
)

// Kind tags which of the twelve shape variants a Domain holds.
type Kind int

const (
	KindPoint Kind = iota
	KindLine
	KindTriangle
	KindRectangle
	KindDisc
	KindPlane
	KindBox
	KindCylinder
	KindCone
	KindSphere
	KindBlob
	KindUnion
)

// planeTolerance is the membership slop for nominally 2-D surface domains
// (Triangle, Rectangle, Disc, Plane).
const planeTolerance = 1e-3

// Vec3 re-exported for callers that only import pdomain.
type Vec3 = pvec.Vec3

// Domain is a value type: all twelve variants fit in one struct so domain
// parameters can be copied inline into action records.
type Domain struct {
	kind Kind

	p0, p1, p2 Vec3 // endpoints / corners / apex-base, per kind
	normal     Vec3 // plane/disc normal, or cylinder/cone axis (unit)
	u, v       Vec3 // precomputed in-plane basis (Triangle, Rectangle) or perpendicular basis (Disc, Cylinder, Cone)

	d float32 // plane offset: dot(normal, p) + d == 0 on the plane

	// precomputed (u,v) inverse-basis terms for Triangle/Rectangle point tests
	uu, uv, vv, invDenom float32

	length    float32 // cylinder/cone axial length
	rOut, rIn float32 // outer/inner radius (rIn <= rOut); rIn==rOut means a thin shell

	stdev float32 // Blob standard deviation

	sub     []Domain
	weights []float32 // cumulative Size() over sub, for weighted selection
	size    float32   // cached Size()
}

// Kind reports which shape variant d holds.
func (d Domain) Kind() Kind { return d.kind }

// validRadii rejects the two inputs every radius-bearing constructor must
// refuse: negative values and NaN/Inf.
func validRadii(rs ...float32) bool {
	for _, r := range rs {
		if r < 0 || math32.IsNaN(r) || math32.IsInf(r, 0) {
			return false
		}
	}
	return true
}

func perpBasis(axis Vec3) (u, v Vec3) {
	// Any vector not parallel to axis works as a seed for the first
	// perpendicular; pick whichever standard axis is least aligned.
	seed := Vec3{1, 0, 0}
	if math32.Abs(axis[0]) > 0.9 {
		seed = Vec3{0, 1, 0}
	}
	u = pvec.NormalizeSafe(axis.Cross(seed))
	v = axis.Cross(u)
	return u, v
}

// NewPoint constructs a zero-measure point domain.
func NewPoint(p Vec3) Domain {
	return Domain{kind: KindPoint, p0: p, size: 1.0}
}

// NewLine constructs a 1-D segment domain; its Size is the segment length.
func NewLine(p0, p1 Vec3) Domain {
	return Domain{kind: KindLine, p0: p0, p1: p1, size: p1.Sub(p0).Len()}
}

// NewTriangle constructs a 2-D triangle domain, precomputing the plane
// normal/offset and the (u,v) basis used for point-in-triangle tests.
func NewTriangle(p0, p1, p2 Vec3) Domain {
	u := p1.Sub(p0)
	v := p2.Sub(p0)
	n := pvec.NormalizeSafe(u.Cross(v))
	uu, uv, vv := u.Dot(u), u.Dot(v), v.Dot(v)
	denom := uu*vv - uv*uv
	inv := float32(0)
	if denom != 0 {
		inv = 1 / denom
	}
	area := 0.5 * u.Cross(v).Len()
	return Domain{
		kind: KindTriangle, p0: p0, p1: p1, p2: p2,
		normal: n, d: -n.Dot(p0), u: u, v: v,
		uu: uu, uv: uv, vv: vv, invDenom: inv,
		size: area,
	}
}

// NewRectangle constructs a parallelogram domain with corners p0, p0+u,
// p0+u+v, p0+v.
func NewRectangle(p0, u, v Vec3) Domain {
	n := pvec.NormalizeSafe(u.Cross(v))
	uu, uv, vv := u.Dot(u), u.Dot(v), v.Dot(v)
	denom := uu*vv - uv*uv
	inv := float32(0)
	if denom != 0 {
		inv = 1 / denom
	}
	area := u.Cross(v).Len()
	return Domain{
		kind: KindRectangle, p0: p0, normal: n, d: -n.Dot(p0), u: u, v: v,
		uu: uu, uv: uv, vv: vv, invDenom: inv,
		size: area,
	}
}

// NewDisc constructs a flat annulus domain. rIn may be 0. Negative radii are
// rejected; if rIn > rOut the two are swapped so the larger is always outer.
func NewDisc(center, normal Vec3, rOut, rIn float32) (Domain, error) {
	if !validRadii(rOut, rIn) {
		return Domain{}, perror.New(perror.InvalidValue, "NewDisc", "radius must be finite and non-negative")
	}
	if rIn > rOut {
		rOut, rIn = rIn, rOut
	}
	n := pvec.NormalizeSafe(normal)
	u, v := perpBasis(n)
	sz := float32(2 * math32.Pi * rOut) // thin ring: circumference
	if rOut != rIn {
		sz = math32.Pi * (rOut*rOut - rIn*rIn)
	}
	return Domain{
		kind: KindDisc, p0: center, normal: n, d: -n.Dot(center), u: u, v: v,
		rOut: rOut, rIn: rIn, size: sz,
	}, nil
}

// NewPlane constructs an oriented half-space domain; Within succeeds on the
// side normal points toward.
func NewPlane(p0, normal Vec3) Domain {
	n := pvec.NormalizeSafe(normal)
	return Domain{kind: KindPlane, p0: p0, normal: n, d: -n.Dot(p0), size: 1.0}
}

// NewBox constructs an axis-aligned box, sorting each axis so p0 <= p1
// component-wise regardless of caller order.
func NewBox(a, b Vec3) Domain {
	lo := Vec3{minf(a[0], b[0]), minf(a[1], b[1]), minf(a[2], b[2])}
	hi := Vec3{maxf(a[0], b[0]), maxf(a[1], b[1]), maxf(a[2], b[2])}
	ext := hi.Sub(lo)
	return Domain{kind: KindBox, p0: lo, p1: hi, size: ext[0] * ext[1] * ext[2]}
}

// NewCylinder constructs a finite right cylinder from p0 to p1, optionally
// thick-shelled (rIn < rOut) or thin-shelled (rIn == rOut).
func NewCylinder(p0, p1 Vec3, rOut, rIn float32) (Domain, error) {
	if !validRadii(rOut, rIn) {
		return Domain{}, perror.New(perror.InvalidValue, "NewCylinder", "radius must be finite and non-negative")
	}
	if rIn > rOut {
		rOut, rIn = rIn, rOut
	}
	axis := p1.Sub(p0)
	length := axis.Len()
	n := pvec.NormalizeSafe(axis)
	u, v := perpBasis(n)
	var sz float32
	if rOut == rIn {
		sz = 2 * math32.Pi * rOut * length
	} else {
		sz = math32.Pi * (rOut*rOut - rIn*rIn) * length
	}
	return Domain{
		kind: KindCylinder, p0: p0, p1: p1, normal: n, u: u, v: v,
		length: length, rOut: rOut, rIn: rIn, size: sz,
	}, nil
}

// NewCone constructs a finite cone from apex to base, with radius tapering
// linearly from 0 at apex to rOut (outer) / rIn (inner) at base.
func NewCone(apex, base Vec3, rOut, rIn float32) (Domain, error) {
	if !validRadii(rOut, rIn) {
		return Domain{}, perror.New(perror.InvalidValue, "NewCone", "radius must be finite and non-negative")
	}
	if rIn > rOut {
		rOut, rIn = rIn, rOut
	}
	axis := base.Sub(apex)
	length := axis.Len()
	n := pvec.NormalizeSafe(axis)
	u, v := perpBasis(n)
	vol := (math32.Pi / 3) * (rOut*rOut - rIn*rIn) * length
	return Domain{
		kind: KindCone, p0: apex, p1: base, normal: n, u: u, v: v,
		length: length, rOut: rOut, rIn: rIn, size: vol,
	}, nil
}

// NewSphere constructs a ball (rIn==0) or thick/thin shell.
func NewSphere(center Vec3, rOut, rIn float32) (Domain, error) {
	if !validRadii(rOut, rIn) {
		return Domain{}, perror.New(perror.InvalidValue, "NewSphere", "radius must be finite and non-negative")
	}
	if rIn > rOut {
		rOut, rIn = rIn, rOut
	}
	var sz float32
	if rOut == rIn {
		sz = 4 * math32.Pi * rOut * rOut
	} else {
		sz = (4.0 / 3.0) * math32.Pi * (rOut*rOut*rOut - rIn*rIn*rIn)
	}
	return Domain{kind: KindSphere, p0: center, rOut: rOut, rIn: rIn, size: sz}, nil
}

// NewBlob constructs a Gaussian cloud domain. Within is probabilistic.
func NewBlob(center Vec3, stdev float32) (Domain, error) {
	if !validRadii(stdev) {
		return Domain{}, perror.New(perror.InvalidValue, "NewBlob", "stdev must be finite and non-negative")
	}
	return Domain{kind: KindBlob, p0: center, stdev: stdev, size: 1.0}, nil
}

// NewUnion constructs a weighted mixture of sub-domains; generation picks a
// sub-domain with probability proportional to its Size().
func NewUnion(sub ...Domain) Domain {
	weights := make([]float32, len(sub))
	var total float32
	for i, s := range sub {
		total += s.Size()
		weights[i] = total
	}
	return Domain{kind: KindUnion, sub: sub, weights: weights, size: total}
}

// IsThinShell reports whether d is a Sphere, Cylinder, Cone, or Disc whose
// inner and outer radii coincide. Bounce does not consult it: Sphere
// Bounce accepts only rIn == 0.
func (d Domain) IsThinShell() bool {
	switch d.kind {
	case KindSphere, KindCylinder, KindCone, KindDisc:
		return d.rIn == d.rOut
	default:
		return false
	}
}

// OuterRadius and InnerRadius expose the radii of radius-bearing domains,
// used by Bounce/Avoid's per-kind math.
func (d Domain) OuterRadius() float32 { return d.rOut }
func (d Domain) InnerRadius() float32 { return d.rIn }
func (d Domain) Center() Vec3         { return d.p0 }
func (d Domain) Normal() Vec3         { return d.normal }
func (d Domain) P0() Vec3             { return d.p0 }
func (d Domain) P1() Vec3             { return d.p1 }
func (d Domain) P2() Vec3             { return d.p2 }
func (d Domain) U() Vec3              { return d.u }
func (d Domain) V() Vec3              { return d.v }
func (d Domain) Sub() []Domain        { return d.sub }

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
