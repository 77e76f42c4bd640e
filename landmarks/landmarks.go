// Package landmarks defines the body-pose landmark model produced by the
// external pose-detection collaborator. Coordinates arrive in normalized
// [0,1] image space as float32, the precision the vision models emit;
// helpers pack frames into flat arrays for the batch transform path.
package landmarks

import (
	"github.com/chewxy/math32"
)

// Body landmark indices, MediaPipe pose topology.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumLandmarks   = 33
)

// Landmark is one body keypoint in normalized image space. Z is depth
// relative to the hip midpoint, in the same scale as X; Visibility and
// Presence are the model's confidence that the point is unoccluded and in
// frame, both in [0,1].
type Landmark struct {
	X          float32 `json:"x"`
	Y          float32 `json:"y"`
	Z          float32 `json:"z"`
	Visibility float32 `json:"visibility"`
	Presence   float32 `json:"presence"`
}

// Reliable reports whether the landmark clears both confidence thresholds.
func (l Landmark) Reliable(minVisibility, minPresence float32) bool {
	return l.Visibility >= minVisibility && l.Presence >= minPresence
}

// Distance returns the 2D Euclidean distance between two landmarks in
// normalized units.
func Distance(a, b Landmark) float32 {
	return math32.Hypot(a.X-b.X, a.Y-b.Y)
}

// Midpoint returns the point halfway between two landmarks, averaging
// depth and taking the lower of the two confidences.
func Midpoint(a, b Landmark) Landmark {
	return Landmark{
		X:          (a.X + b.X) / 2,
		Y:          (a.Y + b.Y) / 2,
		Z:          (a.Z + b.Z) / 2,
		Visibility: math32.Min(a.Visibility, b.Visibility),
		Presence:   math32.Min(a.Presence, b.Presence),
	}
}

// Clamped returns the landmark with X and Y clamped into [0,1]. Detection
// models occasionally emit slightly out-of-range coordinates for points at
// the frame edge.
func (l Landmark) Clamped() Landmark {
	l.X = math32.Max(0, math32.Min(1, l.X))
	l.Y = math32.Max(0, math32.Min(1, l.Y))
	return l
}

// Frame is one complete pose detection result.
type Frame struct {
	Points [NumLandmarks]Landmark `json:"points"`
	// Score is the detector's overall pose confidence.
	Score float32 `json:"score"`
}

// FlattenXY appends the frame's coordinates to dst as x0,y0,x1,y1,...,
// reusing dst's backing array when it has capacity. The layout matches the
// flat batch path of the coordinate mapper.
func (f *Frame) FlattenXY(dst []float64) []float64 {
	if cap(dst) < 2*NumLandmarks {
		dst = make([]float64, 0, 2*NumLandmarks)
	}
	dst = dst[:0]
	for i := range f.Points {
		dst = append(dst, float64(f.Points[i].X), float64(f.Points[i].Y))
	}
	return dst
}

// ReliableIndices returns the indices of landmarks clearing the confidence
// thresholds, in topology order.
func (f *Frame) ReliableIndices(minVisibility, minPresence float32) []int {
	idx := make([]int, 0, NumLandmarks)
	for i, p := range f.Points {
		if p.Reliable(minVisibility, minPresence) {
			idx = append(idx, i)
		}
	}
	return idx
}

// TorsoSpan returns the normalized shoulder-to-hip midpoint distance, a
// scale reference commonly used to size overlay markers.
func (f *Frame) TorsoSpan() float32 {
	shoulders := Midpoint(f.Points[LeftShoulder], f.Points[RightShoulder])
	hips := Midpoint(f.Points[LeftHip], f.Points[RightHip])
	return Distance(shoulders, hips)
}
