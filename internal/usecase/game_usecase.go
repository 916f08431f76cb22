package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mertkc/kickoff/internal/application/constant"
	"github.com/mertkc/kickoff/internal/application/metric"
	"github.com/mertkc/kickoff/internal/domain/events"
	"github.com/mertkc/kickoff/internal/domain/game"
	"github.com/mertkc/kickoff/internal/infra/adapters/memory"
)

var ErrRoomNotFound = errors.New("room not found")

// GameUsecase is the room coordinator. It owns membership bookkeeping, team
// assignment, state relay and room lifecycle. Movement, physics and scoring
// are deliberately client-authoritative: every update is applied
// last-writer-wins and fanned out, never validated. Events from connections
// that are not members of the acting room are silently dropped, they are
// expected under races with leave.
type GameUsecase interface {
	HandleCreateRoom(ctx context.Context, connID uuid.UUID, ev events.CreateRoomEvent) error
	HandleJoin(ctx context.Context, connID uuid.UUID, ev events.JoinRoomEvent) error
	HandleSwitchTeam(ctx context.Context, connID uuid.UUID) error
	HandleMove(ctx context.Context, connID uuid.UUID, ev events.MoveEvent) error
	HandleBallSync(ctx context.Context, connID uuid.UUID, ev events.BallSyncEvent) error
	HandleGoal(ctx context.Context, connID uuid.UUID, ev events.GoalEvent) error
	HandleChat(ctx context.Context, connID uuid.UUID, ev events.ChatEvent) error
	HandleLeave(ctx context.Context, connID uuid.UUID) error
	HandlePing(ctx context.Context, connID uuid.UUID)
}

type gameUsecase struct {
	roomRepo memory.RoomRepository
	connRepo memory.ConnectionRepository
	registry memory.SessionRegistry
}

func NewGameUsecase(
	roomRepo memory.RoomRepository,
	connRepo memory.ConnectionRepository,
	registry memory.SessionRegistry,
) GameUsecase {
	return &gameUsecase{
		roomRepo: roomRepo,
		connRepo: connRepo,
		registry: registry,
	}
}

func (g *gameUsecase) HandleCreateRoom(ctx context.Context, connID uuid.UUID, ev events.CreateRoomEvent) error {
	if ev.Duration <= 0 {
		g.writeError(connID, "duration must be positive")
		return nil
	}

	room, err := g.roomRepo.Create(ev.Duration)
	if err != nil {
		slog.Error("create room", slog.Any(constant.Error, err))
		g.writeError(connID, "failed to create room")
		return nil
	}

	slog.Info(
		"room created",
		slog.String(constant.RoomID, room.ID()),
		slog.Any(constant.ConnID, connID),
	)

	g.connRepo.Write(connID, events.Outbound(
		events.TypeRoomCreated,
		events.RoomCreatedEvent{RoomID: room.ID()},
	))

	return nil
}

func (g *gameUsecase) HandleJoin(ctx context.Context, connID uuid.UUID, ev events.JoinRoomEvent) error {
	if ev.RoomID == "" {
		g.writeError(connID, "roomId is required")
		return nil
	}

	room, ok := g.roomRepo.Get(ev.RoomID)
	if !ok {
		g.writeError(connID, ErrRoomNotFound.Error())
		return nil
	}

	// Joining while already in a room counts as leaving the old one first.
	// Re-sending join for the current room only re-acks the snapshot: a
	// leave here would empty a sole-member room and delete it out from
	// under the player.
	if boundID, bound := g.registry.RoomOf(connID); bound {
		if boundID == room.ID() {
			g.connRepo.Write(connID, events.Outbound(events.TypeJoined, events.JoinedEvent{
				RoomID:   room.ID(),
				Room:     room.Snapshot(),
				PlayerID: connID.String(),
			}))
			return nil
		}

		if err := g.HandleLeave(ctx, connID); err != nil {
			return err
		}
	}

	player, err := room.Join(connID, ev.User.Name, ev.User.Pic)
	if err != nil {
		g.writeError(connID, err.Error())
		return nil
	}

	g.registry.Bind(connID, room.ID())

	slog.Info(
		"player joined",
		slog.String(constant.RoomID, room.ID()),
		slog.Any(constant.ConnID, connID),
		slog.String("team", string(player.Team)),
	)

	g.connRepo.Write(connID, events.Outbound(events.TypeJoined, events.JoinedEvent{
		RoomID:   room.ID(),
		Room:     room.Snapshot(),
		PlayerID: connID.String(),
	}))

	g.broadcast(room, events.Outbound(events.TypeUpdatePlayers, events.UpdatePlayersEvent{
		Players: room.PlayersSnapshot(),
	}), uuid.Nil)

	return nil
}

func (g *gameUsecase) HandleSwitchTeam(ctx context.Context, connID uuid.UUID) error {
	room, ok := g.memberRoom(connID)
	if !ok {
		return nil
	}

	if _, switched := room.SwitchTeam(connID); !switched {
		return nil
	}

	g.broadcast(room, events.Outbound(events.TypeUpdatePlayers, events.UpdatePlayersEvent{
		Players: room.PlayersSnapshot(),
	}), uuid.Nil)

	return nil
}

func (g *gameUsecase) HandleMove(ctx context.Context, connID uuid.UUID, ev events.MoveEvent) error {
	room, ok := g.memberRoom(connID)
	if !ok {
		return nil
	}

	player, moved := room.ApplyMove(connID, ev.X, ev.Y, ev.Z, ev.Yaw, ev.Anim)
	if !moved {
		return nil
	}

	g.broadcast(room, events.Outbound(events.TypePlayerMoved, events.PlayerMovedEvent{
		PlayerID: connID.String(),
		X:        player.X,
		Y:        player.Y,
		Z:        player.Z,
		Yaw:      player.Yaw,
		Anim:     player.Anim,
	}), connID)

	return nil
}

func (g *gameUsecase) HandleBallSync(ctx context.Context, connID uuid.UUID, ev events.BallSyncEvent) error {
	room, ok := g.memberRoom(connID)
	if !ok {
		return nil
	}

	room.SetBall(ev.Ball)

	g.broadcast(room, events.Outbound(events.TypeBallUpdate, events.BallUpdateEvent{
		Ball: ev.Ball,
	}), connID)

	return nil
}

func (g *gameUsecase) HandleGoal(ctx context.Context, connID uuid.UUID, ev events.GoalEvent) error {
	room, ok := g.memberRoom(connID)
	if !ok {
		return nil
	}

	score, ball := room.RecordGoal(ev.Score)

	metric.RecordGoal()

	slog.Info(
		"goal",
		slog.String(constant.RoomID, room.ID()),
		slog.Int("red", score.Red),
		slog.Int("blue", score.Blue),
	)

	g.broadcast(room, events.Outbound(events.TypeGoalUpdate, events.GoalUpdateEvent{
		Score: score,
		Ball:  ball,
	}), uuid.Nil)

	return nil
}

func (g *gameUsecase) HandleChat(ctx context.Context, connID uuid.UUID, ev events.ChatEvent) error {
	if ev.Text == "" {
		return nil
	}

	room, ok := g.memberRoom(connID)
	if !ok {
		return nil
	}

	player, member := room.Player(connID)
	if !member {
		return nil
	}

	g.broadcast(room, events.Outbound(events.TypeChat, events.ChatBroadcastEvent{
		PlayerID: connID.String(),
		Name:     player.Name,
		Text:     ev.Text,
	}), uuid.Nil)

	return nil
}

// HandleLeave removes a connection from its room, deleting the room when the
// last member goes. Safe to call for connections with no membership.
func (g *gameUsecase) HandleLeave(ctx context.Context, connID uuid.UUID) error {
	roomID, bound := g.registry.RoomOf(connID)
	if !bound {
		return nil
	}

	g.registry.Unbind(connID)

	room, ok := g.roomRepo.Get(roomID)
	if !ok {
		return nil
	}

	removed, empty := room.RemovePlayer(connID)
	if !removed {
		return nil
	}

	slog.Info(
		"player left",
		slog.String(constant.RoomID, roomID),
		slog.Any(constant.ConnID, connID),
	)

	if empty {
		g.roomRepo.Delete(roomID)
		return nil
	}

	g.broadcast(room, events.Outbound(events.TypeUpdatePlayers, events.UpdatePlayersEvent{
		Players: room.PlayersSnapshot(),
	}), uuid.Nil)

	return nil
}

func (g *gameUsecase) HandlePing(ctx context.Context, connID uuid.UUID) {
	g.connRepo.Write(connID, events.Message{Type: events.TypePong})
}

// memberRoom resolves the acting room for room-scoped events. A missing
// binding or a vanished room both read as "not a member".
func (g *gameUsecase) memberRoom(connID uuid.UUID) (*game.Room, bool) {
	roomID, bound := g.registry.RoomOf(connID)
	if !bound {
		return nil, false
	}

	room, ok := g.roomRepo.Get(roomID)
	if !ok {
		return nil, false
	}

	return room, true
}

func (g *gameUsecase) broadcast(room *game.Room, msg events.Message, exclude uuid.UUID) {
	for _, memberID := range room.MemberIDs() {
		if memberID == exclude {
			continue
		}

		g.connRepo.Write(memberID, msg)
	}
}

func (g *gameUsecase) writeError(connID uuid.UUID, message string) {
	g.connRepo.Write(connID, events.Outbound(
		events.TypeError,
		events.ErrorEvent{Message: message},
	))
}
