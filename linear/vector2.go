// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

// V2 is a 2-component vector of float32.
//
// Added alongside V3/V4 so that block layout fields and vertex
// attributes of GLSL's vec2 have a matching CPU-side type.
type V2 [2]float32

// Add sets v to contain l + r.
func (v *V2) Add(l, r *V2) {
	for i := range v {
		v[i] = l[i] + r[i]
	}
}

// Sub sets v to contain l - r.
func (v *V2) Sub(l, r *V2) {
	for i := range v {
		v[i] = l[i] - r[i]
	}
}

// Scale sets v to contain s ⋅ w.
func (v *V2) Scale(s float32, w *V2) {
	for i := range v {
		v[i] = s * w[i]
	}
}

// Lerp sets v to the linear interpolation of l and r by t ∈ [0,1].
func (v *V2) Lerp(l, r *V2, t float32) {
	for i := range v {
		v[i] = l[i] + (r[i]-l[i])*t
	}
}

// Lerp sets v to the linear interpolation of l and r by t ∈ [0,1].
func (v *V3) Lerp(l, r *V3, t float32) {
	for i := range v {
		v[i] = l[i] + (r[i]-l[i])*t
	}
}

// Lerp sets v to the linear interpolation of l and r by t ∈ [0,1].
func (v *V4) Lerp(l, r *V4, t float32) {
	for i := range v {
		v[i] = l[i] + (r[i]-l[i])*t
	}
}
