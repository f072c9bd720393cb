// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import "math"

// Array returns q as a [x, y, z, w] array, matching the component order
// keyframe data uses for quaternion animation.
func (q *Q) Array() [4]float32 { return [4]float32{q.V[0], q.V[1], q.V[2], q.R} }

// FromArray sets q from a [x, y, z, w] array.
func (q *Q) FromArray(a [4]float32) {
	q.V = V3{a[0], a[1], a[2]}
	q.R = a[3]
}

// Dot returns the 4-component dot product of q and p.
func (q *Q) Dot(p *Q) float32 { return q.V.Dot(&p.V) + q.R*p.R }

// Len returns the norm of q.
func (q *Q) Len() float32 { return float32(math.Sqrt(float64(q.Dot(q)))) }

// Norm sets q to contain p normalized.
func (q *Q) Norm(p *Q) {
	l := p.Len()
	q.V.Scale(1/l, &p.V)
	q.R = p.R / l
}

// Slerp sets q to the spherical linear interpolation of l and r by
// t ∈ [0,1]. It takes the shorter path around the 4-sphere, negating
// r when l·r < 0, and falls back to linear interpolation (normalized)
// when l and r are nearly coincident to avoid division by a near-zero
// sin(theta).
func (q *Q) Slerp(l, r *Q, t float32) {
	cosHalfTheta := l.Dot(r)
	r2 := *r
	if cosHalfTheta < 0 {
		r2.V.Scale(-1, &r2.V)
		r2.R = -r2.R
		cosHalfTheta = -cosHalfTheta
	}
	const epsilon = 1e-6
	if cosHalfTheta > 1-epsilon {
		var v V3
		v.Lerp(&l.V, &r2.V, t)
		q.V = v
		q.R = l.R + (r2.R-l.R)*t
		q.Norm(q)
		return
	}
	halfTheta := float32(math.Acos(float64(cosHalfTheta)))
	sinHalfTheta := float32(math.Sin(float64(halfTheta)))
	a := float32(math.Sin(float64((1-t)*halfTheta))) / sinHalfTheta
	b := float32(math.Sin(float64(t*halfTheta))) / sinHalfTheta
	var lv, rv V3
	lv.Scale(a, &l.V)
	rv.Scale(b, &r2.V)
	q.V.Add(&lv, &rv)
	q.R = l.R*a + r2.R*b
}
