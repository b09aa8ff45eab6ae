package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectRotationPoint(t *testing.T) {
	tests := []struct {
		anchor Anchor
		want   Vec2
	}{
		{AnchorCenter, Vec2{60, 45}},
		{AnchorTopLeft, Vec2{10, 20}},
		{AnchorTop, Vec2{60, 20}},
		{AnchorTopRight, Vec2{110, 20}},
		{AnchorLeft, Vec2{10, 45}},
		{AnchorRight, Vec2{110, 45}},
		{AnchorBottomLeft, Vec2{10, 70}},
		{AnchorBottom, Vec2{60, 70}},
		{AnchorBottomRight, Vec2{110, 70}},
	}
	for _, tt := range tests {
		t.Run(tt.anchor.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, RectRotationPoint(10, 20, 100, 50, tt.anchor))
		})
	}
}

func TestParseAnchor(t *testing.T) {
	a, err := ParseAnchor("center")
	require.NoError(t, err)
	assert.Equal(t, AnchorCenter, a)

	a, err = ParseAnchor("Bottom_Right")
	require.NoError(t, err)
	assert.Equal(t, AnchorBottomRight, a)

	_, err = ParseAnchor("middle-ish")
	assert.Error(t, err)
}

func TestRotatePoint(t *testing.T) {
	p := RotatePoint(Vec2{100, 50}, 90, Vec2{50, 50})
	assert.True(t, p.Compare(Vec2{50, 100}, 1e-4), "got %v", p)

	p = RotatePoint(Vec2{3, 4}, 0, Vec2{})
	assert.Equal(t, Vec2{3, 4}, p)
}

func TestQuadTransformMatchesRotatePoint(t *testing.T) {
	pivot := RectRotationPoint(0, 0, 100, 100, AnchorCenter)
	m := QuadTransform(0, 0, 100, 100, 45, pivot)

	corners := []Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for _, c := range corners {
		want := RotatePoint(Vec2{c.X * 100, c.Y * 100}, 45, pivot)
		got := TransformPoint(m, c)
		assert.True(t, got.Compare(want, 1e-3), "corner %v: got %v want %v", c, got, want)
	}
}

func TestQuadTransformUnrotated(t *testing.T) {
	m := QuadTransform(5, 7, 20, 10, 0, Vec2{})
	assert.Equal(t, Vec2{5, 7}, TransformPoint(m, Vec2{0, 0}))
	assert.Equal(t, Vec2{25, 17}, TransformPoint(m, Vec2{1, 1}))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(5, 0, 1))
	assert.Equal(t, float32(0.25), Clamp(float32(0.25), 0, 1))
	assert.Equal(t, NewVec4(1, 0, 0.5, 1), ClampColor(NewVec4(2, -1, 0.5, 1)))
}
