package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/mertkc/kickoff/internal/application/constant"
	"github.com/mertkc/kickoff/internal/application/metric"
	"github.com/mertkc/kickoff/internal/domain/events"
	"github.com/mertkc/kickoff/internal/domain/game"
	"github.com/mertkc/kickoff/internal/infra/adapters/memory"
)

// tickInterval drives every countdown in the process. One ticker serves all
// rooms, rooms never run their own timers.
const tickInterval = time.Second

// emptyRoomTTL is how long a created-but-never-joined room may linger before
// the scheduler sweeps it. Rooms that lose their last member are deleted
// immediately by HandleLeave, this only covers abandoned creations.
const emptyRoomTTL = time.Minute

// Clock abstracts wall time so tests can drive ticks deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }

// Scheduler advances every playing room's countdown once per second and
// emits the termination broadcast when a room runs out of time. It is the
// only time-driven mutator, everything else is event-driven.
type Scheduler struct {
	roomRepo memory.RoomRepository
	connRepo memory.ConnectionRepository
	clock    Clock
}

func NewScheduler(
	roomRepo memory.RoomRepository,
	connRepo memory.ConnectionRepository,
	clock Clock,
) *Scheduler {
	return &Scheduler{
		roomRepo: roomRepo,
		connRepo: connRepo,
		clock:    clock,
	}
}

// Run blocks until ctx is done, ticking once per second.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(s.clock.Now())
		}
	}
}

// Tick runs one scheduler pass. Exported so tests can simulate any number of
// seconds without waiting on wall time.
func (s *Scheduler) Tick(now time.Time) {
	for _, room := range s.roomRepo.All() {
		if finished := room.Tick(); finished {
			s.finishRoom(room)
			continue
		}

		if idle, empty := room.IdleSince(now); empty && idle > emptyRoomTTL {
			slog.Info("sweeping abandoned room", slog.String(constant.RoomID, room.ID()))
			s.roomRepo.Delete(room.ID())
		}
	}
}

func (s *Scheduler) finishRoom(room *game.Room) {
	score := room.Score()

	metric.RecordGameFinished()

	slog.Info(
		"game finished",
		slog.String(constant.RoomID, room.ID()),
		slog.Int("red", score.Red),
		slog.Int("blue", score.Blue),
	)

	msg := events.Outbound(events.TypeGameFinished, events.GameFinishedEvent{Score: score})

	for _, memberID := range room.MemberIDs() {
		s.connRepo.Write(memberID, msg)
	}
}
