// Package math provides the vector type shared by mesh and terrain code.
package math

import "math"

// Vec3 is a 3D vector with 64-bit components.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Components returns the vector as an x, y, z array.
func (v Vec3) Components() [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vec3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// FromXZ lifts a ground-plane coordinate into 3D with the given height.
// Ground-plane Y becomes world Z.
func FromXZ(x, z, height float64) Vec3 {
	return Vec3{X: x, Y: height, Z: z}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
