package math

import (
	"fmt"
	"strings"
)

var anchorNames = map[string]Anchor{
	"center":       AnchorCenter,
	"top-left":     AnchorTopLeft,
	"top":          AnchorTop,
	"top-right":    AnchorTopRight,
	"left":         AnchorLeft,
	"right":        AnchorRight,
	"bottom-left":  AnchorBottomLeft,
	"bottom":       AnchorBottom,
	"bottom-right": AnchorBottomRight,
}

// ParseAnchor maps names such as "center" or "top_left" to an Anchor.
func ParseAnchor(name string) (Anchor, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	a, ok := anchorNames[key]
	if !ok {
		return AnchorCenter, fmt.Errorf("unknown anchor %q", name)
	}
	return a, nil
}

func (a Anchor) String() string {
	for name, v := range anchorNames {
		if v == a {
			return name
		}
	}
	return fmt.Sprintf("Anchor(%d)", uint8(a))
}

// RectRotationPoint returns the pivot of the rectangle at (x, y) with size
// (w, h) for the given anchor. Unknown anchors resolve to the center.
func RectRotationPoint(x, y, w, h float32, anchor Anchor) Vec2 {
	switch anchor {
	case AnchorTopLeft:
		return Vec2{X: x, Y: y}
	case AnchorTop:
		return Vec2{X: x + w/2, Y: y}
	case AnchorTopRight:
		return Vec2{X: x + w, Y: y}
	case AnchorLeft:
		return Vec2{X: x, Y: y + h/2}
	case AnchorRight:
		return Vec2{X: x + w, Y: y + h/2}
	case AnchorBottomLeft:
		return Vec2{X: x, Y: y + h}
	case AnchorBottom:
		return Vec2{X: x + w/2, Y: y + h}
	case AnchorBottomRight:
		return Vec2{X: x + w, Y: y + h}
	default:
		return Vec2{X: x + w/2, Y: y + h/2}
	}
}
