package game

// Ball is the shared per-room projectile state. Updates are last-writer-wins:
// whichever client reported last fully replaces the previous state.
type Ball struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
	VZ float64 `json:"vz"`
}

// RestingBall is the kick-off state: center spot, no velocity.
func RestingBall() Ball {
	return Ball{X: 0, Y: 1, Z: 0}
}

// Score keeps the per-team goal counters.
type Score struct {
	Red  int `json:"red"`
	Blue int `json:"blue"`
}
