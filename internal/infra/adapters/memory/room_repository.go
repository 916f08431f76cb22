package memory

import (
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/mertkc/kickoff/internal/application/metric"
	"github.com/mertkc/kickoff/internal/domain/game"
)

// MaxRooms caps how many rooms a single process will hold.
const MaxRooms = 1000

var ErrTooManyRooms = errors.New("room limit reached")

// Room codes are short enough to type from a phone and skip the characters
// that are easy to misread. Not a security boundary.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

// RoomRepository is the in-memory room store. Uniqueness of codes is enforced
// by regenerating on collision, never by failing the caller.
type RoomRepository interface {
	Create(durationMinutes int) (*game.Room, error)
	Get(id string) (*game.Room, bool)
	Delete(id string)
	All() []*game.Room
	Count() int
}

type roomRepository struct {
	rooms map[string]*game.Room
	mu    sync.RWMutex
}

func NewRoomRepository() RoomRepository {
	return &roomRepository{
		rooms: make(map[string]*game.Room),
	}
}

func (r *roomRepository) Create(durationMinutes int) (*game.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.rooms) >= MaxRooms {
		return nil, ErrTooManyRooms
	}

	id := newRoomCode()
	for _, taken := r.rooms[id]; taken; _, taken = r.rooms[id] {
		id = newRoomCode()
	}

	room := game.NewRoom(id, durationMinutes, time.Now)
	r.rooms[id] = room

	metric.SetActiveRooms(len(r.rooms))

	return room, nil
}

func (r *roomRepository) Get(id string) (*game.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]

	return room, ok
}

func (r *roomRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rooms, id)

	metric.SetActiveRooms(len(r.rooms))
}

func (r *roomRepository) All() []*game.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Values(r.rooms)
}

func (r *roomRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms)
}

func newRoomCode() string {
	buf := make([]byte, codeLength)
	_, _ = rand.Read(buf)

	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return string(buf)
}
