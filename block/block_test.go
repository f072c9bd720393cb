package block

import "testing"

func TestAddFieldStd140(t *testing.T) {
	d := NewDesc(Std140)
	f0, err := d.AddField("a", Float, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	f1, _ := d.AddField("b", Vec2, 0, 0)
	f2, _ := d.AddField("c", Vec3, 0, 0)

	offs := []int{f0.Offset, f1.Offset, f2.Offset}
	want := []int{0, 8, 16}
	for i := range offs {
		if offs[i] != want[i] {
			t.Errorf("offset[%d] = %d, want %d", i, offs[i], want[i])
		}
	}
	if d.TotalSize != 28 {
		t.Errorf("TotalSize = %d, want 28", d.TotalSize)
	}
}

func TestAddFieldStd430(t *testing.T) {
	d := NewDesc(Std430)
	f0, _ := d.AddField("a", Float, 0, 0)
	f1, _ := d.AddField("b", Vec2, 0, 0)
	f2, _ := d.AddField("c", Vec3, 0, 0)

	offs := []int{f0.Offset, f1.Offset, f2.Offset}
	want := []int{0, 8, 16}
	for i := range offs {
		if offs[i] != want[i] {
			t.Errorf("offset[%d] = %d, want %d", i, offs[i], want[i])
		}
	}
	if d.TotalSize != 28 {
		t.Errorf("TotalSize = %d, want 28", d.TotalSize)
	}
}

func TestArrayOfFloatStd140(t *testing.T) {
	d := NewDesc(Std140)
	f, err := d.AddField("a", Float, 5, 0)
	if err != nil {
		t.Fatal(err)
	}
	if f.Stride != 16 {
		t.Errorf("stride = %d, want 16", f.Stride)
	}
	if f.Size != 80 {
		t.Errorf("size = %d, want 80", f.Size)
	}
}

func TestVariadicField(t *testing.T) {
	d := NewDesc(Std430)
	if _, err := d.AddField("count", Int, 0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := d.AddField("data", Vec4, Variadic, 0); err != nil {
		t.Fatal(err)
	}
	if got := d.Size(7); got != 128 {
		t.Errorf("Size(7) = %d, want 128", got)
	}
}

func TestVariadicRequiresStd430(t *testing.T) {
	d := NewDesc(Std140)
	if _, err := d.AddField("data", Vec4, Variadic, 0); err == nil {
		t.Fatal("expected error for variadic field in std140 block")
	}
}

func TestAddFieldRejectsNone(t *testing.T) {
	d := NewDesc(Std140)
	if _, err := d.AddField("a", None, 0, 0); err == nil {
		t.Fatal("expected error for None type")
	}
}

func TestFieldCopyTightAndStrided(t *testing.T) {
	d := NewDesc(Std140)
	f, _ := d.AddField("a", Float, 3, 0) // stride 16, natural size 4
	src := make([]byte, 12)
	for i := range src {
		src[i] = byte(i + 1)
	}
	dst := make([]byte, f.Size)
	FieldCopy(f, dst, src)
	for i := 0; i < 3; i++ {
		got := dst[i*16 : i*16+4]
		want := src[i*4 : i*4+4]
		for j := range got {
			if got[j] != want[j] {
				t.Fatalf("element %d byte %d = %d, want %d", i, j, got[j], want[j])
			}
		}
	}
}

func TestFieldCopyMemcpyFastPath(t *testing.T) {
	d := NewDesc(Std430)
	f, _ := d.AddField("a", Float, 3, 0) // stride == natural size (4)
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	dst := make([]byte, f.Size)
	FieldCopy(f, dst, src)
	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("byte %d = %d, want %d", i, dst[i], src[i])
		}
	}
}
