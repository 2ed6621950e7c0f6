package pdomain

import (
	"github.com/chewxy/math32"
	"github.com/davemc0/particle/pvec"
)

// PlaneValue returns dot(normal, p) + d, the signed distance (up to the
// normal's scale) from p to the domain's supporting plane. Only meaningful
// for Plane, Disc, Rectangle, and Triangle, which all precompute normal/d.
func (d Domain) PlaneValue(p pvec.Vec3) float32 {
	return d.normal.Dot(p) + d.d
}

// ParametricUV expresses an in-plane point as (s, t) coordinates in the
// domain's (u, v) basis, using the same precomputed inverse-basis terms the
// point-in-triangle test uses. Only meaningful for Triangle and Rectangle.
func (d Domain) ParametricUV(p pvec.Vec3) (s, t float32) {
	w := p.Sub(d.p0)
	wu, wv := w.Dot(d.u), w.Dot(d.v)
	s = (d.vv*wu - d.uv*wv) * d.invDenom
	t = (d.uu*wv - d.uv*wu) * d.invDenom
	return s, t
}

// RaySphere solves |o + t*dir - center|^2 == rOut^2 for t, returning the two
// roots (tNear <= tFar) if real. Only meaningful for Kind() == KindSphere.
func (d Domain) RaySphere(o, dir pvec.Vec3) (tNear, tFar float32, ok bool) {
	oc := o.Sub(d.p0)
	a := dir.Dot(dir)
	if a < 1e-12 {
		return 0, 0, false
	}
	b := 2 * oc.Dot(dir)
	c := oc.Dot(oc) - d.rOut*d.rOut
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math32.Sqrt(disc)
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	return t0, t1, true
}

// RayBox solves the slab intersection of the ray o+t*dir against the box,
// returning the entry/exit parametric distances. Only meaningful for
// Kind() == KindBox.
func (d Domain) RayBox(o, dir pvec.Vec3) (tMin, tMax float32, ok bool) {
	tMin, tMax = -1e30, 1e30
	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if o[i] < d.p0[i] || o[i] > d.p1[i] {
				return 0, 0, false
			}
			continue
		}
		inv := 1 / dir[i]
		t0 := (d.p0[i] - o[i]) * inv
		t1 := (d.p1[i] - o[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMin > tMax {
			return 0, 0, false
		}
	}
	return tMin, tMax, true
}

// BoxOutwardNormal returns the outward face normal nearest to p on the box
// boundary, used by Bounce to decompose velocity at the hit face.
func (d Domain) BoxOutwardNormal(p pvec.Vec3) pvec.Vec3 {
	center := d.p0.Add(d.p1).Mul(0.5)
	ext := d.p1.Sub(d.p0).Mul(0.5)
	rel := p.Sub(center)
	best := 0
	bestRatio := float32(-1)
	for i := 0; i < 3; i++ {
		if ext[i] <= 0 {
			continue
		}
		ratio := absf(rel[i]) / ext[i]
		if ratio > bestRatio {
			bestRatio = ratio
			best = i
		}
	}
	n := pvec.Vec3{}
	if rel[best] >= 0 {
		n[best] = 1
	} else {
		n[best] = -1
	}
	return n
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
