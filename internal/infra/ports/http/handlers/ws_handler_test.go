package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mertkc/kickoff/internal/domain/events"
)

// gameRecorder records which coordinator operation each event reached.
type gameRecorder struct {
	calls []string

	lastJoin events.JoinRoomEvent
	lastMove events.MoveEvent
}

func (g *gameRecorder) HandleCreateRoom(_ context.Context, _ uuid.UUID, _ events.CreateRoomEvent) error {
	g.calls = append(g.calls, "createRoom")
	return nil
}

func (g *gameRecorder) HandleJoin(_ context.Context, _ uuid.UUID, ev events.JoinRoomEvent) error {
	g.calls = append(g.calls, "joinRoom")
	g.lastJoin = ev
	return nil
}

func (g *gameRecorder) HandleSwitchTeam(_ context.Context, _ uuid.UUID) error {
	g.calls = append(g.calls, "switchTeam")
	return nil
}

func (g *gameRecorder) HandleMove(_ context.Context, _ uuid.UUID, ev events.MoveEvent) error {
	g.calls = append(g.calls, "move")
	g.lastMove = ev
	return nil
}

func (g *gameRecorder) HandleBallSync(_ context.Context, _ uuid.UUID, _ events.BallSyncEvent) error {
	g.calls = append(g.calls, "ballSync")
	return nil
}

func (g *gameRecorder) HandleGoal(_ context.Context, _ uuid.UUID, _ events.GoalEvent) error {
	g.calls = append(g.calls, "goal")
	return nil
}

func (g *gameRecorder) HandleChat(_ context.Context, _ uuid.UUID, _ events.ChatEvent) error {
	g.calls = append(g.calls, "chat")
	return nil
}

func (g *gameRecorder) HandleLeave(_ context.Context, _ uuid.UUID) error {
	g.calls = append(g.calls, "leave")
	return nil
}

func (g *gameRecorder) HandlePing(_ context.Context, _ uuid.UUID) {
	g.calls = append(g.calls, "ping")
}

func rawMessage(t *testing.T, eventType string, payload any) *events.Message {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	return &events.Message{Type: eventType, Data: data}
}

func TestHandleMessage_DispatchTable(t *testing.T) {
	req := require.New(t)

	recorder := &gameRecorder{}
	h := &WebSocketHandler{gameUsecase: recorder}

	ctx := context.Background()
	connID := uuid.New()

	req.NoError(h.handleMessage(ctx, connID, rawMessage(t, events.TypeCreateRoom, events.CreateRoomEvent{Duration: 5})))
	req.NoError(h.handleMessage(ctx, connID, rawMessage(t, events.TypeJoinRoom, events.JoinRoomEvent{RoomID: "ABC234"})))
	req.NoError(h.handleMessage(ctx, connID, &events.Message{Type: events.TypeSwitchTeam}))
	req.NoError(h.handleMessage(ctx, connID, rawMessage(t, events.TypeMove, events.MoveEvent{X: 1, Anim: "run"})))
	req.NoError(h.handleMessage(ctx, connID, rawMessage(t, events.TypeBallSync, events.BallSyncEvent{})))
	req.NoError(h.handleMessage(ctx, connID, rawMessage(t, events.TypeGoal, events.GoalEvent{})))
	req.NoError(h.handleMessage(ctx, connID, rawMessage(t, events.TypeChat, events.ChatEvent{Text: "hi"})))
	req.NoError(h.handleMessage(ctx, connID, &events.Message{Type: events.TypePing}))

	req.Equal(
		[]string{"createRoom", "joinRoom", "switchTeam", "move", "ballSync", "goal", "chat", "ping"},
		recorder.calls,
	)

	req.Equal("ABC234", recorder.lastJoin.RoomID)
	req.Equal("run", recorder.lastMove.Anim)
}

func TestHandleMessage_UnknownType(t *testing.T) {
	recorder := &gameRecorder{}
	h := &WebSocketHandler{gameUsecase: recorder}

	err := h.handleMessage(context.Background(), uuid.New(), &events.Message{Type: "teleport"})

	require.Error(t, err)
	require.Empty(t, recorder.calls)
}

func TestHandleMessage_MalformedPayload(t *testing.T) {
	recorder := &gameRecorder{}
	h := &WebSocketHandler{gameUsecase: recorder}

	msg := &events.Message{
		Type: events.TypeMove,
		Data: json.RawMessage(`{"x": "not a number"}`),
	}

	// A bad payload surfaces as an error to log, never a dispatched call.
	err := h.handleMessage(context.Background(), uuid.New(), msg)

	require.Error(t, err)
	require.Empty(t, recorder.calls)
}
