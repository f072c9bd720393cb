// Package anim implements the animation/keyframe evaluator of
// spec.md §4.L: a monotonic sequence of timestamped keyframes mixed
// by a pluggable, type-generic Mixer/Copier pair.
//
// Grounded in _examples/original_source/libnodegl/animation.h and
// animation.c (ngli_animation_init/ngli_animation_evaluate). Per
// spec.md's Open Questions, this follows the second-generation design
// (animation.h's pluggable mix_func/cpy_func) rather than the legacy
// node_animation.c duplicate path, which is not reproduced. Easing
// curves themselves are an external collaborator (spec.md Non-goals);
// a caller supplies an Easing value per keyframe.
package anim

import "github.com/nopeforge/ngpu/gpuerr"

// Easing maps a normalized time t (usually in [0,1], but not clamped
// here) and optional per-keyframe arguments to a blend ratio.
type Easing func(t float64, args []float64) float64

// Linear is the identity easing: ratio == t. It is the only easing
// this package defines itself, since it is not a curve so much as the
// absence of one; anything else is supplied by the caller.
func Linear(t float64, args []float64) float64 { return t }

// Keyframe is one timestamped sample in a Sequence.
type Keyframe[T any] struct {
	Time  float64
	Value T

	// Easing blends toward Value from the previous keyframe. Ignored
	// on a sequence's first keyframe. Defaults to Linear if nil.
	Easing     Easing
	EasingArgs []float64

	// ScaleBoundaries, when true, remaps the normalized time into
	// Offsets before easing and the easing result out of Boundaries
	// after, per spec.md §4.L step 2.
	ScaleBoundaries bool
	Offsets         [2]float64
	Boundaries      [2]float64
}

// Mixer blends kf0 and kf1's values into dst by ratio ∈ [0,1]
// (typically, though ScaleBoundaries or an unclamped Easing can push
// it outside that range).
type Mixer[T any] func(dst *T, kf0, kf1 *T, ratio float64)

// Copier copies a single keyframe's value into dst, used when t falls
// outside the sequence's time range or the sequence has one keyframe.
type Copier[T any] func(dst *T, kf *T)

// Sequence evaluates a monotonic list of keyframes at arbitrary times.
type Sequence[T any] struct {
	kfs       []Keyframe[T]
	currentKF int
	mix       Mixer[T]
	cpy       Copier[T]
}

// NewSequence validates that kfs is non-empty and time-monotonic, and
// returns a Sequence ready to Evaluate. mix and cpy must be non-nil.
func NewSequence[T any](kfs []Keyframe[T], mix Mixer[T], cpy Copier[T]) (*Sequence[T], error) {
	const op = "anim.NewSequence"
	if len(kfs) == 0 {
		return nil, gpuerr.New(op, gpuerr.InvalidArg, "sequence must have at least one keyframe")
	}
	if mix == nil || cpy == nil {
		return nil, gpuerr.New(op, gpuerr.InvalidArg, "mix and cpy must be non-nil")
	}
	prev := -maxFloat64
	for i, kf := range kfs {
		if kf.Time < prev {
			return nil, gpuerr.New(op, gpuerr.InvalidArg, "keyframes must be monotonically increasing")
		}
		prev = kf.Time
		if kf.Easing == nil {
			kfs[i].Easing = Linear
		}
	}
	return &Sequence[T]{kfs: kfs, mix: mix, cpy: cpy}, nil
}

const maxFloat64 = 1.7976931348623157e+308

// getKFID returns the largest index i, searched from start, such that
// kfs[i].Time <= t, or -1 if none.
func getKFID[T any](kfs []Keyframe[T], start int, t float64) int {
	id := -1
	for i := start; i < len(kfs); i++ {
		if kfs[i].Time > t {
			break
		}
		id = i
	}
	return id
}

// Evaluate writes the sequence's value at time t into dst, per
// spec.md §4.L. The internal cursor is a non-binding hint: a query
// below it re-seeds by scanning from the start.
func (s *Sequence[T]) Evaluate(t float64, dst *T) {
	id := getKFID(s.kfs, s.currentKF, t)
	if id < 0 {
		id = getKFID(s.kfs, 0, t)
	}
	if id >= 0 && id < len(s.kfs)-1 {
		kf0 := &s.kfs[id]
		kf1 := &s.kfs[id+1]

		tnorm := (t - kf0.Time) / (kf1.Time - kf0.Time)
		if kf1.ScaleBoundaries {
			tnorm = (kf1.Offsets[1]-kf1.Offsets[0])*tnorm + kf1.Offsets[0]
		}
		ratio := kf1.Easing(tnorm, kf1.EasingArgs)
		if kf1.ScaleBoundaries {
			ratio = (ratio - kf1.Boundaries[0]) / (kf1.Boundaries[1] - kf1.Boundaries[0])
		}

		s.currentKF = id
		s.mix(dst, &kf0.Value, &kf1.Value, ratio)
		return
	}
	if t < s.kfs[0].Time {
		s.cpy(dst, &s.kfs[0].Value)
	} else {
		s.cpy(dst, &s.kfs[len(s.kfs)-1].Value)
	}
}

// TimeRemap wraps a Sequence with an optional time-remapping
// animation: the query time is first evaluated through Remap (a
// scalar-time sequence, §4.L "Streamed scalar/vec nodes") before being
// fed to Inner. Per spec.md §4.L, this is only valid for streamed
// scalar/vec nodes, not time-animated (linear-only) nodes.
type TimeRemap[T any] struct {
	Inner *Sequence[T]
	Remap *Sequence[float64]
}

// Evaluate applies Remap (if set) to t, then evaluates Inner.
func (r *TimeRemap[T]) Evaluate(t float64, dst *T) {
	if r.Remap != nil {
		var rt float64
		r.Remap.Evaluate(t, &rt)
		t = rt
	}
	r.Inner.Evaluate(t, dst)
}
