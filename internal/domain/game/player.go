package game

import "github.com/google/uuid"

type Team string

const (
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

// Spawn x offset per team. Clients own movement after the first placement,
// the bias only decides which half of the pitch a player appears on.
const (
	redSpawnX  = -10.0
	blueSpawnX = 10.0
)

func (t Team) Opposite() Team {
	if t == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

// SpawnX returns the initial x coordinate for a player on this team.
func (t Team) SpawnX() float64 {
	if t == TeamRed {
		return redSpawnX
	}
	return blueSpawnX
}

// Player is one connection's in-room identity. It is owned by its Room and
// mutated only under the room lock.
type Player struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Team   Team      `json:"team"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Z      float64   `json:"z"`
	Yaw    float64   `json:"ry"`
	Anim   string    `json:"anim"`
}

// NewPlayer places a fresh player at the team-biased spawn point.
func NewPlayer(id uuid.UUID, name, avatar string, team Team) *Player {
	return &Player{
		ID:     id,
		Name:   name,
		Avatar: avatar,
		Team:   team,
		X:      team.SpawnX(),
		Y:      1,
		Z:      0,
		Yaw:    0,
		Anim:   "idle",
	}
}
