package orbital

import "math"

// Vec3 is a three component vector whose components share one dimension.
// Value semantics throughout, no component is ever mutated in place.
type Vec3[T ~float64] struct {
	X, Y, Z T
}

// Add returns v + w.
func (v Vec3[T]) Add(w Vec3[T]) Vec3[T] {
	return Vec3[T]{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v - w.
func (v Vec3[T]) Sub(w Vec3[T]) Vec3[T] {
	return Vec3[T]{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v scaled by the dimensionless factor f.
func (v Vec3[T]) Scale(f float64) Vec3[T] {
	return Vec3[T]{T(float64(v.X) * f), T(float64(v.Y) * f), T(float64(v.Z) * f)}
}

// Dot returns the inner product. The result carries the squared dimension,
// hence a bare float64.
func (v Vec3[T]) Dot(w Vec3[T]) float64 {
	return float64(v.X)*float64(w.X) + float64(v.Y)*float64(w.Y) + float64(v.Z)*float64(w.Z)
}

// Cross returns the cross product, componentwise in the shared dimension.
func (v Vec3[T]) Cross(w Vec3[T]) Vec3[T] {
	return Vec3[T]{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Norm returns the Euclidean norm.
func (v Vec3[T]) Norm() T {
	return T(math.Sqrt(v.Dot(v)))
}

// Unit returns the direction of v, or the zero vector when v has no norm.
func (v Vec3[T]) Unit() Vec3[T] {
	n := float64(v.Norm())
	if n == 0 {
		return Vec3[T]{}
	}
	return v.Scale(1 / n)
}

// Slice returns the components as a float64 slice for the integrator and
// rotation plumbing.
func (v Vec3[T]) Slice() []float64 {
	return []float64{float64(v.X), float64(v.Y), float64(v.Z)}
}

// Vec3FromSlice builds a vector from the first three elements of s.
func Vec3FromSlice[T ~float64](s []float64) Vec3[T] {
	return Vec3[T]{T(s[0]), T(s[1]), T(s[2])}
}
