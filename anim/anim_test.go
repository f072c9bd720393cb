package anim

import (
	"math"
	"testing"

	"github.com/nopeforge/ngpu/gpuerr"
	"github.com/nopeforge/ngpu/linear"
)

func TestNewSequenceNonMonotonic(t *testing.T) {
	kfs := []Keyframe[float64]{
		{Time: 1, Value: 0},
		{Time: 0, Value: 10},
	}
	_, err := NewSequence(kfs, Float64Mixer, Float64Copier)
	if !gpuerr.Is(err, gpuerr.InvalidArg) {
		t.Fatalf("err = %v, want InvalidArg", err)
	}
}

func TestEvaluateLinear(t *testing.T) {
	kfs := []Keyframe[float64]{
		{Time: 0, Value: 0},
		{Time: 1, Value: 10, Easing: Linear},
	}
	s, err := NewSequence(kfs, Float64Mixer, Float64Copier)
	if err != nil {
		t.Fatal(err)
	}
	var v float64
	s.Evaluate(0.25, &v)
	if math.Abs(v-2.5) > 1e-9 {
		t.Errorf("evaluate(0.25) = %v, want 2.5", v)
	}
}

func TestEvaluateScaleBoundaries(t *testing.T) {
	kfs := []Keyframe[float64]{
		{Time: 0, Value: 0},
		{
			Time: 1, Value: 10, Easing: Linear,
			ScaleBoundaries: true,
			Offsets:         [2]float64{0.2, 0.8},
			Boundaries:      [2]float64{0.0, 1.0},
		},
	}
	s, err := NewSequence(kfs, Float64Mixer, Float64Copier)
	if err != nil {
		t.Fatal(err)
	}
	var v float64
	s.Evaluate(0.25, &v)
	// tnorm = 0.2 + 0.6*0.25 = 0.35 -> ratio = 0.35 (linear, boundaries are identity)
	if math.Abs(v-3.5) > 1e-9 {
		t.Errorf("evaluate(0.25) = %v, want 3.5", v)
	}
}

func TestEvaluateOutOfRange(t *testing.T) {
	kfs := []Keyframe[float64]{
		{Time: 0, Value: 1},
		{Time: 1, Value: 2},
		{Time: 2, Value: 3},
	}
	s, err := NewSequence(kfs, Float64Mixer, Float64Copier)
	if err != nil {
		t.Fatal(err)
	}
	var v float64
	s.Evaluate(-5, &v)
	if v != 1 {
		t.Errorf("evaluate(before) = %v, want kf[0].Value", v)
	}
	s.Evaluate(50, &v)
	if v != 3 {
		t.Errorf("evaluate(after) = %v, want kf[n-1].Value", v)
	}
}

func TestEvaluateQuatSlerpUnitLength(t *testing.T) {
	kfs := []Keyframe[linear.Q]{
		{Time: 0, Value: linear.Q{V: linear.V3{0, 0, 0}, R: 1}},
		{Time: 1, Value: linear.Q{V: linear.V3{0, 1, 0}, R: 0}},
	}
	s, err := NewSequence(kfs, QuatMixer, QuatCopier)
	if err != nil {
		t.Fatal(err)
	}
	var q linear.Q
	s.Evaluate(0.5, &q)
	l := q.Len()
	if math.Abs(float64(l)-1) > 1e-6 {
		t.Errorf("|q| = %v, want ~1", l)
	}
}

func TestAnimatedFloatThreeKeyframes(t *testing.T) {
	kfs := []Keyframe[float64]{
		{Time: 0, Value: 0},
		{Time: 1, Value: 10},
		{Time: 2, Value: 0},
	}
	s, err := NewSequence(kfs, Float64Mixer, Float64Copier)
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		t, want float64
	}{
		{0.5, 5.0},
		{1.0, 10.0},
		{1.5, 5.0},
	}
	for _, c := range cases {
		var v float64
		s.Evaluate(c.t, &v)
		if math.Abs(v-c.want) > 1e-9 {
			t.Errorf("evaluate(%v) = %v, want %v", c.t, v, c.want)
		}
	}
}

func TestBufferMixer(t *testing.T) {
	mix := BufferMixer(2)
	dst := make([]float32, 4)
	v0 := []float32{0, 0, 0, 0}
	v1 := []float32{10, 20, 30, 40}
	mix(&dst, &v0, &v1, 0.5)
	want := []float32{5, 10, 15, 20}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestTimeRemap(t *testing.T) {
	remap := []Keyframe[float64]{
		{Time: 0, Value: 0},
		{Time: 10, Value: 1},
	}
	remapSeq, err := NewSequence(remap, Float64Mixer, Float64Copier)
	if err != nil {
		t.Fatal(err)
	}
	inner := []Keyframe[float64]{
		{Time: 0, Value: 0},
		{Time: 1, Value: 100},
	}
	innerSeq, err := NewSequence(inner, Float64Mixer, Float64Copier)
	if err != nil {
		t.Fatal(err)
	}
	r := TimeRemap[float64]{Inner: innerSeq, Remap: remapSeq}
	var v float64
	r.Evaluate(5, &v)
	if math.Abs(v-50) > 1e-9 {
		t.Errorf("remapped evaluate(5) = %v, want 50", v)
	}
}
