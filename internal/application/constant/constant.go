// Package constant holds shared slog attribute keys.
package constant

const (
	Error     = "error"
	ConnID    = "conn_id"
	RoomID    = "room_id"
	EventType = "event_type"
)
