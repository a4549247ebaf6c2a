package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("zero vector Normalize() = %v, want zero", got)
	}
	l := Vec3{3, 4, 12}.Normalize().Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
}

func TestNewellNormal(t *testing.T) {
	tests := []struct {
		name   string
		points []Vec3
		want   Vec3
	}{
		{
			name:   "ccw quad in xy plane",
			points: []Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
			want:   Vec3{0, 0, 1},
		},
		{
			name:   "cw triangle",
			points: []Vec3{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}},
			want:   Vec3{0, 0, -1},
		},
		{
			name:   "concave pentagon",
			points: []Vec3{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {1, 0.5, 0}, {0, 2, 0}},
			want:   Vec3{0, 0, 1},
		},
		{
			name:   "too few points",
			points: []Vec3{{0, 0, 0}, {1, 0, 0}},
			want:   Vec3{},
		},
		{
			name:   "collinear",
			points: []Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
			want:   Vec3{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewellNormal(tt.points)
			if !got.ApproxEqual(tt.want, 1e-6) {
				t.Errorf("NewellNormal() = %v, want %v", got, tt.want)
			}
		})
	}
}
