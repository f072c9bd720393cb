// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

// Lerp sets m to the per-element linear interpolation of l and r by
// t ∈ [0,1]. Used by the animation engine's mat4 mix function; callers
// that need rotation-stable interpolation should decompose and slerp
// the rotation separately (out of scope here).
func (m *M4) Lerp(l, r *M4, t float32) {
	for i := range m {
		m[i].Lerp(&l[i], &r[i], t)
	}
}

// Array returns m as a flat column-major [16]float32, the layout GPU
// block fields expect.
func (m *M4) Array() [16]float32 {
	return [16]float32{
		m[0][0], m[0][1], m[0][2], m[0][3],
		m[1][0], m[1][1], m[1][2], m[1][3],
		m[2][0], m[2][1], m[2][2], m[2][3],
		m[3][0], m[3][1], m[3][2], m[3][3],
	}
}
