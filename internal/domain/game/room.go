package game

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// MaxPlayersPerRoom caps membership of a single room.
const MaxPlayersPerRoom = 20

var ErrRoomFull = errors.New("room is full")

// Room is one isolated game session. All mutable state is guarded by mu;
// every operation is a single critical section, so readers never observe a
// partial update. Rooms are fully independent of each other.
type Room struct {
	mu sync.RWMutex

	clock func() time.Time

	id        string
	status    Status
	duration  int // configured duration, minutes
	remaining int // seconds left while playing
	players   map[uuid.UUID]*Player
	ball      Ball
	score     Score

	createdAt  time.Time
	lastUpdate time.Time
}

func NewRoom(id string, durationMinutes int, clock func() time.Time) *Room {
	now := clock()

	return &Room{
		clock:      clock,
		id:         id,
		status:     StatusWaiting,
		duration:   durationMinutes,
		remaining:  durationMinutes * 60,
		players:    make(map[uuid.UUID]*Player),
		ball:       RestingBall(),
		score:      Score{},
		createdAt:  now,
		lastUpdate: now,
	}
}

func (r *Room) ID() string {
	return r.id
}

func (r *Room) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.status
}

func (r *Room) Remaining() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.remaining
}

func (r *Room) Score() Score {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.score
}

func (r *Room) Ball() Ball {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.ball
}

// LastUpdate is advisory: the moment of the most recent mutation, never used
// for correctness.
func (r *Room) LastUpdate() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lastUpdate
}

func (r *Room) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.players)
}

// Player returns a copy of the member with the given id.
func (r *Room) Player(id uuid.UUID) (Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[id]
	if !ok {
		return Player{}, false
	}

	return *p, true
}

// Join adds a connection to the room, picking the team with fewer members
// (ties go to red). The first join moves the room from waiting to playing,
// which starts the countdown.
func (r *Room) Join(id uuid.UUID, name, avatar string) (Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) >= MaxPlayersPerRoom {
		return Player{}, ErrRoomFull
	}

	player := NewPlayer(id, name, avatar, r.pickTeam())
	r.players[id] = player

	if r.status == StatusWaiting {
		r.status = StatusPlaying
		r.score = Score{}
	}

	r.lastUpdate = r.clock()

	return *player, nil
}

// pickTeam balances by current head count. Callers hold the lock.
func (r *Room) pickTeam() Team {
	var red, blue int

	for _, p := range r.players {
		if p.Team == TeamRed {
			red++
		} else {
			blue++
		}
	}

	if red <= blue {
		return TeamRed
	}

	return TeamBlue
}

// SwitchTeam toggles the player's team and moves them to the new team's spawn
// side. No balance constraint applies. Reports false for non-members.
func (r *Room) SwitchTeam(id uuid.UUID) (Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[id]
	if !ok {
		return Player{}, false
	}

	p.Team = p.Team.Opposite()
	p.X = p.Team.SpawnX()
	r.lastUpdate = r.clock()

	return *p, true
}

// ApplyMove overwrites the player's transform with the client-reported values.
// Positions are trusted as-is. Reports false for non-members.
func (r *Room) ApplyMove(id uuid.UUID, x, y, z, yaw float64, anim string) (Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[id]
	if !ok {
		return Player{}, false
	}

	p.X, p.Y, p.Z = x, y, z
	p.Yaw = yaw
	p.Anim = anim
	r.lastUpdate = r.clock()

	return *p, true
}

// SetBall replaces the ball state wholesale.
func (r *Room) SetBall(ball Ball) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ball = ball
	r.lastUpdate = r.clock()
}

// RecordGoal overwrites the score with the client-computed value and puts the
// ball back on the center spot. Returns the new score and the reset ball.
func (r *Room) RecordGoal(score Score) (Score, Ball) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.score = score
	r.ball = RestingBall()
	r.lastUpdate = r.clock()

	return r.score, r.ball
}

// RemovePlayer drops a member and reports whether the room is now empty.
func (r *Room) RemovePlayer(id uuid.UUID) (removed, empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[id]; !ok {
		return false, len(r.players) == 0
	}

	delete(r.players, id)
	r.lastUpdate = r.clock()

	return true, len(r.players) == 0
}

// Tick advances the countdown by one second. It only acts on playing rooms
// and fires the finished transition exactly once; further ticks are no-ops.
func (r *Room) Tick() (finished bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusPlaying {
		return false
	}

	if r.remaining > 0 {
		r.remaining--
	}

	if r.remaining == 0 {
		r.status = StatusFinished
		return true
	}

	return false
}

// IdleSince reports how long a never-joined room has been sitting empty.
func (r *Room) IdleSince(now time.Time) (time.Duration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.players) > 0 {
		return 0, false
	}

	return now.Sub(r.createdAt), true
}

// Snapshot is a copy of room state safe to hand to the wire layer.
type Snapshot struct {
	ID        string            `json:"roomId"`
	Status    Status            `json:"status"`
	Duration  int               `json:"duration"`
	Remaining int               `json:"remaining"`
	Players   map[string]Player `json:"players"`
	Ball      Ball              `json:"ball"`
	Score     Score             `json:"score"`
}

func (r *Room) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Snapshot{
		ID:        r.id,
		Status:    r.status,
		Duration:  r.duration,
		Remaining: r.remaining,
		Players:   r.playersLocked(),
		Ball:      r.ball,
		Score:     r.score,
	}
}

// PlayersSnapshot returns a copy of the member mapping keyed by player id.
func (r *Room) PlayersSnapshot() map[string]Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.playersLocked()
}

func (r *Room) playersLocked() map[string]Player {
	return lo.MapEntries(r.players, func(id uuid.UUID, p *Player) (string, Player) {
		return id.String(), *p
	})
}

// MemberIDs lists the connection ids currently in the room.
func (r *Room) MemberIDs() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Keys(r.players)
}
