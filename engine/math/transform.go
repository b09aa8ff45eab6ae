package math

import (
	"github.com/go-gl/mathgl/mgl32"
)

// QuadTransform maps the unit square onto a quad placed at (x, y) with size
// (w, h), rotated by degrees around pivot.
func QuadTransform(x, y, w, h, degrees float32, pivot Vec2) mgl32.Mat3 {
	m := mgl32.Translate2D(x, y).Mul3(mgl32.Scale2D(w, h))
	if degrees == 0 {
		return m
	}
	rotate := mgl32.Translate2D(pivot.X, pivot.Y).
		Mul3(mgl32.HomogRotate2D(mgl32.DegToRad(degrees))).
		Mul3(mgl32.Translate2D(-pivot.X, -pivot.Y))
	return rotate.Mul3(m)
}

// TransformPoint applies the homogeneous 2D transform m to p.
func TransformPoint(m mgl32.Mat3, p Vec2) Vec2 {
	v := m.Mul3x1(mgl32.Vec3{p.X, p.Y, 1})
	return Vec2{X: v[0], Y: v[1]}
}
