package anim

import "github.com/nopeforge/ngpu/linear"

// Float64Mixer lerps plain float64 values, used for time-animated
// scalar sequences (spec.md §4.L "scalar time" row). Time-animated
// nodes are restricted to Linear easing by their caller; this mixer
// does not enforce that itself.
func Float64Mixer(dst *float64, v0, v1 *float64, ratio float64) {
	*dst = *v0 + (*v1-*v0)*ratio
}

// Float64Copier copies a float64 keyframe value.
func Float64Copier(dst *float64, v *float64) { *dst = *v }

// Float32Mixer lerps float32 values (spec.md §4.L "scalar float" row),
// casting the double-precision ratio down at the end.
func Float32Mixer(dst *float32, v0, v1 *float32, ratio float64) {
	*dst = *v0 + (*v1-*v0)*float32(ratio)
}

// Float32Copier copies a float32 keyframe value.
func Float32Copier(dst *float32, v *float32) { *dst = *v }

// V2Mixer lerps linear.V2 values.
func V2Mixer(dst *linear.V2, v0, v1 *linear.V2, ratio float64) {
	dst.Lerp(v0, v1, float32(ratio))
}

// V2Copier copies a linear.V2 keyframe value.
func V2Copier(dst *linear.V2, v *linear.V2) { *dst = *v }

// V3Mixer lerps linear.V3 values.
func V3Mixer(dst *linear.V3, v0, v1 *linear.V3, ratio float64) {
	dst.Lerp(v0, v1, float32(ratio))
}

// V3Copier copies a linear.V3 keyframe value.
func V3Copier(dst *linear.V3, v *linear.V3) { *dst = *v }

// V4Mixer lerps linear.V4 values.
func V4Mixer(dst *linear.V4, v0, v1 *linear.V4, ratio float64) {
	dst.Lerp(v0, v1, float32(ratio))
}

// V4Copier copies a linear.V4 keyframe value.
func V4Copier(dst *linear.V4, v *linear.V4) { *dst = *v }

// QuatMixer spherically interpolates linear.Q values.
func QuatMixer(dst *linear.Q, v0, v1 *linear.Q, ratio float64) {
	dst.Slerp(v0, v1, float32(ratio))
}

// QuatCopier copies a linear.Q keyframe value.
func QuatCopier(dst *linear.Q, v *linear.Q) { *dst = *v }

// Mat4Mixer lerps linear.M4 values component-wise. Rotation-stable
// interpolation (decompose + slerp the rotation) is out of scope, per
// linear.M4.Lerp's own doc comment.
func Mat4Mixer(dst *linear.M4, v0, v1 *linear.M4, ratio float64) {
	dst.Lerp(v0, v1, float32(ratio))
}

// Mat4Copier copies a linear.M4 keyframe value.
func Mat4Copier(dst *linear.M4, v *linear.M4) { *dst = *v }

// BufferMixer returns a Mixer for []float32 buffers holding count
// elements of width elemLen float32s each (vecK, K ∈ {1,2,3,4}),
// lerping per element per component (spec.md §4.L "buffer-of-vecK"
// row). dst must already be sized to count*elemLen; v0/v1 must be at
// least that long.
func BufferMixer(elemLen int) Mixer[[]float32] {
	return func(dst *[]float32, v0, v1 *[]float32, ratio float64) {
		d, a, b := *dst, *v0, *v1
		n := len(d)
		if len(a) < n {
			n = len(a)
		}
		if len(b) < n {
			n = len(b)
		}
		r := float32(ratio)
		for i := 0; i < n; i++ {
			d[i] = a[i] + (b[i]-a[i])*r
		}
	}
}

// BufferCopier copies a []float32 keyframe value element-wise into an
// already-sized dst.
func BufferCopier(dst *[]float32, v *[]float32) {
	copy(*dst, *v)
}
