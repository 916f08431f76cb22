// Package events defines the websocket wire protocol: a thin {type, data}
// envelope with typed payloads on both directions.
package events

import (
	"encoding/json"

	"github.com/mertkc/kickoff/internal/domain/game"
)

// Message is the envelope for every frame in both directions. Data stays raw
// until the dispatcher knows the concrete payload type.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Inbound event types.
const (
	TypeCreateRoom = "createRoom"
	TypeJoinRoom   = "joinRoom"
	TypeSwitchTeam = "switchTeam"
	TypeMove       = "move"
	TypeBallSync   = "ballSync"
	TypeGoal       = "goal"
	TypeChat       = "chat"
	TypePing       = "ping"
)

// Outbound event types.
const (
	TypeRoomCreated   = "roomCreated"
	TypeJoined        = "joined"
	TypeUpdatePlayers = "updatePlayers"
	TypePlayerMoved   = "playerMoved"
	TypeBallUpdate    = "ballUpdate"
	TypeGoalUpdate    = "goalUpdate"
	TypeGameFinished  = "gameFinished"
	TypePong          = "pong"
	TypeError         = "error"
)

type UserInfo struct {
	Name string `json:"name"`
	Pic  string `json:"pic"`
}

type CreateRoomEvent struct {
	Duration    int    `json:"duration"`
	CreatorName string `json:"creatorName"`
	CreatorPic  string `json:"creatorPic"`
}

type JoinRoomEvent struct {
	RoomID string   `json:"roomId"`
	User   UserInfo `json:"user"`
}

type MoveEvent struct {
	RoomID string  `json:"roomId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Yaw    float64 `json:"ry"`
	Anim   string  `json:"anim"`
}

type BallSyncEvent struct {
	RoomID string    `json:"roomId"`
	Ball   game.Ball `json:"ball"`
}

type GoalEvent struct {
	RoomID string     `json:"roomId"`
	Score  game.Score `json:"score"`
}

type ChatEvent struct {
	RoomID string `json:"roomId"`
	Text   string `json:"text"`
}

type RoomCreatedEvent struct {
	RoomID string `json:"roomId"`
}

type JoinedEvent struct {
	RoomID   string        `json:"roomId"`
	Room     game.Snapshot `json:"room"`
	PlayerID string        `json:"playerId"`
}

type UpdatePlayersEvent struct {
	Players map[string]game.Player `json:"players"`
}

type PlayerMovedEvent struct {
	PlayerID string  `json:"playerId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Yaw      float64 `json:"ry"`
	Anim     string  `json:"anim"`
}

type BallUpdateEvent struct {
	Ball game.Ball `json:"ball"`
}

type GoalUpdateEvent struct {
	Score game.Score `json:"score"`
	Ball  game.Ball  `json:"ball"`
}

type GameFinishedEvent struct {
	Score game.Score `json:"score"`
}

type ChatBroadcastEvent struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Text     string `json:"text"`
}

type ErrorEvent struct {
	Message string `json:"message"`
}

// Outbound wraps a payload into an envelope. Marshal failures cannot happen
// for the payload types above, so the error is swallowed here.
func Outbound(eventType string, payload any) Message {
	data, _ := json.Marshal(payload)
	return Message{Type: eventType, Data: data}
}
