package math

import (
	"github.com/chewxy/math32"
)

const (
	/** @brief An approximate representation of PI. */
	K_PI float32 = math32.Pi
	/** @brief A multiplier used to convert degrees to radians. */
	K_DEG2RAD_MULTIPLIER float32 = K_PI / 180.0
	/** @brief A multiplier used to convert radians to degrees. */
	K_RAD2DEG_MULTIPLIER float32 = 180.0 / K_PI
	/** @brief Default tolerance used by the Compare helpers. */
	K_FLOAT_EPSILON float32 = 1.192092896e-07
)

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func NewVec2Zero() Vec2 {
	return Vec2{}
}

func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Compare reports whether both components are within tolerance.
func (v Vec2) Compare(other Vec2, tolerance float32) bool {
	return math32.Abs(v.X-other.X) <= tolerance && math32.Abs(v.Y-other.Y) <= tolerance
}

func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

// NewVec4One returns opaque white when used as a color.
func NewVec4One() Vec4 {
	return Vec4{X: 1, Y: 1, Z: 1, W: 1}
}

func DegToRad(degrees float32) float32 {
	return degrees * K_DEG2RAD_MULTIPLIER
}

func RadToDeg(radians float32) float32 {
	return radians * K_RAD2DEG_MULTIPLIER
}

// RotatePoint rotates p by degrees around the pivot. With y growing
// downwards a positive angle turns clockwise on screen.
func RotatePoint(p Vec2, degrees float32, pivot Vec2) Vec2 {
	rad := DegToRad(degrees)
	sa, ca := math32.Sin(rad), math32.Cos(rad)

	x := p.X - pivot.X
	y := p.Y - pivot.Y

	return Vec2{
		X: x*ca - y*sa + pivot.X,
		Y: x*sa + y*ca + pivot.Y,
	}
}
