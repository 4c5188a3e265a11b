package workout

import "math"

const DefaultSwipeThreshold = 50.0

type Point struct {
	X float64
	Y float64
}

// Swipe can be one of: none, left, right, up, down
type Swipe int

const (
	SwipeNone Swipe = iota
	SwipeLeft
	SwipeRight
	SwipeUp
	SwipeDown
)

func (s Swipe) String() string {
	switch s {
	case SwipeLeft:
		return "left"
	case SwipeRight:
		return "right"
	case SwipeUp:
		return "up"
	case SwipeDown:
		return "down"
	default:
		return "none"
	}
}

// DetectSwipe classifies a touch stroke by its dominant axis. Strokes shorter
// than minDistance along that axis are not swipes. A non-positive minDistance
// means DefaultSwipeThreshold. Screen coordinates: y grows downwards.
func DetectSwipe(start, end Point, minDistance float64) Swipe {
	if minDistance <= 0 {
		minDistance = DefaultSwipeThreshold
	}

	dx := end.X - start.X
	dy := end.Y - start.Y

	if math.Abs(dx) >= math.Abs(dy) {
		switch {
		case dx <= -minDistance:
			return SwipeLeft
		case dx >= minDistance:
			return SwipeRight
		}
		return SwipeNone
	}

	switch {
	case dy <= -minDistance:
		return SwipeUp
	case dy >= minDistance:
		return SwipeDown
	}
	return SwipeNone
}

type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// OrientationFromAngle maps a screen rotation angle in degrees to an orientation.
// Angles around 90 and 270 are landscape, everything else is portrait.
func OrientationFromAngle(angle int) Orientation {
	a := ((angle % 360) + 360) % 360
	if (a >= 45 && a < 135) || (a >= 225 && a < 315) {
		return Landscape
	}
	return Portrait
}
