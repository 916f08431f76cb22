package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/mertkc/kickoff/internal/application/config"
	"github.com/mertkc/kickoff/internal/application/constant"
	"github.com/mertkc/kickoff/internal/application/metric"
	"github.com/mertkc/kickoff/internal/domain/events"
	"github.com/mertkc/kickoff/internal/infra/adapters/memory"
	"github.com/mertkc/kickoff/internal/usecase"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
)

// WebSocketHandler is the relay gateway: it owns the socket lifecycle and
// demultiplexes inbound events to coordinator operations. A bad frame is
// dropped with a log line, it never takes the process down.
type WebSocketHandler struct {
	upgrader *websocket.Upgrader

	gameUsecase usecase.GameUsecase

	connRepo memory.ConnectionRepository
}

func NewWebSocketHandler(cfg *config.Config, gameUsecase usecase.GameUsecase, connRepo memory.ConnectionRepository) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if cfg.Debug {
					return true
				}

				return r.Header.Get("Origin") == cfg.Domain
			},
		},
		gameUsecase: gameUsecase,
		connRepo:    connRepo,
	}
}

func (h *WebSocketHandler) Handle(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"WebSocket upgrade error",
			slog.Any(constant.Error, err),
		)
		return err
	}
	defer ws.Close()

	connID := uuid.New()

	h.connRepo.Add(connID, ws)
	defer h.connRepo.Remove(connID)

	slog.Info("connection opened", slog.Any(constant.ConnID, connID))

	err = ws.SetReadDeadline(time.Now().Add(pongWait))
	if err != nil {
		return err
	}
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-c.Request().Context().Done():
				return
			}
		}
	}()

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		default:
			_, msg, err := ws.ReadMessage()
			if err != nil {
				h.handleWebsocketError(connID, err)

				// Disconnect cleans up membership synchronously, no
				// grace period.
				if err = h.gameUsecase.HandleLeave(c.Request().Context(), connID); err != nil {
					slog.Error(
						"handle leave on disconnect",
						slog.Any(constant.Error, err),
						slog.Any(constant.ConnID, connID),
					)
				}

				return nil
			}

			inbound := new(events.Message)

			if err = json.Unmarshal(msg, &inbound); err != nil {
				slog.Error("unmarshal websocket message", slog.Any(constant.Error, err))

				continue
			}

			if err = h.handleMessage(c.Request().Context(), connID, inbound); err != nil {
				slog.Error(
					"handle message",
					slog.Any(constant.Error, err),
					slog.String(constant.EventType, inbound.Type),
				)
			}
		}
	}
}

func (h *WebSocketHandler) handleMessage(
	ctx context.Context,
	connID uuid.UUID,
	msg *events.Message,
) error {
	metric.RecordEvent(msg.Type)

	switch msg.Type {
	case events.TypeCreateRoom:
		var ev events.CreateRoomEvent

		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return fmt.Errorf("unmarshal createRoom event: %w", err)
		}

		if err := h.gameUsecase.HandleCreateRoom(ctx, connID, ev); err != nil {
			return fmt.Errorf("handle createRoom: %w", err)
		}

	case events.TypeJoinRoom:
		var ev events.JoinRoomEvent

		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return fmt.Errorf("unmarshal joinRoom event: %w", err)
		}

		if err := h.gameUsecase.HandleJoin(ctx, connID, ev); err != nil {
			return fmt.Errorf("handle joinRoom: %w", err)
		}

	case events.TypeSwitchTeam:
		if err := h.gameUsecase.HandleSwitchTeam(ctx, connID); err != nil {
			return fmt.Errorf("handle switchTeam: %w", err)
		}

	case events.TypeMove:
		var ev events.MoveEvent

		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return fmt.Errorf("unmarshal move event: %w", err)
		}

		if err := h.gameUsecase.HandleMove(ctx, connID, ev); err != nil {
			return fmt.Errorf("handle move: %w", err)
		}

	case events.TypeBallSync:
		var ev events.BallSyncEvent

		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return fmt.Errorf("unmarshal ballSync event: %w", err)
		}

		if err := h.gameUsecase.HandleBallSync(ctx, connID, ev); err != nil {
			return fmt.Errorf("handle ballSync: %w", err)
		}

	case events.TypeGoal:
		var ev events.GoalEvent

		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return fmt.Errorf("unmarshal goal event: %w", err)
		}

		if err := h.gameUsecase.HandleGoal(ctx, connID, ev); err != nil {
			return fmt.Errorf("handle goal: %w", err)
		}

	case events.TypeChat:
		var ev events.ChatEvent

		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return fmt.Errorf("unmarshal chat event: %w", err)
		}

		if err := h.gameUsecase.HandleChat(ctx, connID, ev); err != nil {
			return fmt.Errorf("handle chat: %w", err)
		}

	case events.TypePing:
		h.gameUsecase.HandlePing(ctx, connID)

	default:
		return errors.New("unknown message type")
	}

	return nil
}

func (h *WebSocketHandler) handleWebsocketError(connID uuid.UUID, err error) {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		switch closeErr.Code {
		case websocket.CloseNormalClosure, websocket.CloseGoingAway:
			slog.Info("client disconnected", slog.Any(constant.ConnID, connID))
		default:
			slog.Error("websocket close error", slog.Any(constant.ConnID, connID))
		}
	} else {
		slog.Error(
			"websocket read",
			slog.Any(constant.Error, err),
			slog.Any(constant.ConnID, connID),
		)
	}
}
