package game

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestRoom(t *testing.T, minutes int) *Room {
	t.Helper()
	return NewRoom("ABC234", minutes, time.Now)
}

func TestRoom_TeamAssignmentStaysBalanced(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t, 5)

	// Given players joining one after another, the team sizes may never
	// drift apart by more than one at assignment time.
	for i := 0; i < 11; i++ {
		p, err := room.Join(uuid.New(), "player", "")
		req.NoError(err)

		var red, blue int
		for _, member := range room.PlayersSnapshot() {
			if member.Team == TeamRed {
				red++
			} else {
				blue++
			}
		}

		req.LessOrEqual(abs(red-blue), 1)

		// Ties always break toward red.
		if red == blue+1 {
			req.Equal(TeamRed, p.Team)
		}
	}
}

func TestRoom_FirstJoinOnTie(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t, 5)

	p, err := room.Join(uuid.New(), "first", "")
	req.NoError(err)
	req.Equal(TeamRed, p.Team)
	req.Equal(redSpawnX, p.X)
	req.Equal(1.0, p.Y)
	req.Equal("idle", p.Anim)

	second, err := room.Join(uuid.New(), "second", "")
	req.NoError(err)
	req.Equal(TeamBlue, second.Team)
	req.Equal(blueSpawnX, second.X)
}

func TestRoom_JoinStartsPlaying(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t, 5)

	req.Equal(StatusWaiting, room.Status())

	_, err := room.Join(uuid.New(), "a", "")
	req.NoError(err)

	req.Equal(StatusPlaying, room.Status())
	req.Equal(5*60, room.Remaining())
	req.Equal(Score{}, room.Score())
}

func TestRoom_JoinFullRoom(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t, 5)

	for i := 0; i < MaxPlayersPerRoom; i++ {
		_, err := room.Join(uuid.New(), "p", "")
		req.NoError(err)
	}

	_, err := room.Join(uuid.New(), "late", "")
	req.ErrorIs(err, ErrRoomFull)
}

func TestRoom_SwitchTeamIsItsOwnInverse(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t, 5)

	id := uuid.New()
	original, err := room.Join(id, "a", "")
	req.NoError(err)

	flipped, ok := room.SwitchTeam(id)
	req.True(ok)
	req.Equal(original.Team.Opposite(), flipped.Team)
	req.Equal(flipped.Team.SpawnX(), flipped.X)

	back, ok := room.SwitchTeam(id)
	req.True(ok)
	req.Equal(original.Team, back.Team)
	req.Equal(original.X, back.X)
}

func TestRoom_SwitchTeamNonMember(t *testing.T) {
	room := newTestRoom(t, 5)

	_, ok := room.SwitchTeam(uuid.New())
	require.False(t, ok)
}

func TestRoom_ApplyMoveOverwritesState(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t, 5)

	id := uuid.New()
	_, err := room.Join(id, "a", "")
	req.NoError(err)

	// Positions are trusted, even absurd ones.
	p, ok := room.ApplyMove(id, 9000, -3, 12.5, 1.57, "jump")
	req.True(ok)
	req.Equal(9000.0, p.X)
	req.Equal(-3.0, p.Y)
	req.Equal(12.5, p.Z)
	req.Equal(1.57, p.Yaw)
	req.Equal("jump", p.Anim)

	_, ok = room.ApplyMove(uuid.New(), 0, 0, 0, 0, "idle")
	req.False(ok)
}

func TestRoom_SetBallLastWriterWins(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t, 5)

	room.SetBall(Ball{X: 1, Y: 2, Z: 3, VX: 4, VY: 5, VZ: 6})
	second := Ball{X: -1, Y: 0.5, Z: 7, VX: 0, VY: 0, VZ: -2}
	room.SetBall(second)

	req.Equal(second, room.Ball())
}

func TestRoom_RecordGoalResetsBall(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t, 5)

	room.SetBall(Ball{X: 30, VZ: 9})

	score, ball := room.RecordGoal(Score{Red: 1, Blue: 0})
	req.Equal(Score{Red: 1, Blue: 0}, score)
	req.Equal(RestingBall(), ball)
	req.Equal(RestingBall(), room.Ball())
}

func TestRoom_TickCountdown(t *testing.T) {
	req := require.New(t)
	room := NewRoom("ABC234", 1, time.Now)

	_, err := room.Join(uuid.New(), "a", "")
	req.NoError(err)

	for i := 0; i < 59; i++ {
		req.False(room.Tick())
	}
	req.Equal(1, room.Remaining())

	// The last second fires the finished transition exactly once.
	req.True(room.Tick())
	req.Equal(0, room.Remaining())
	req.Equal(StatusFinished, room.Status())

	// Further ticks are no-ops and never go negative.
	req.False(room.Tick())
	req.False(room.Tick())
	req.Equal(0, room.Remaining())
	req.Equal(StatusFinished, room.Status())
}

func TestRoom_TickSkipsWaitingRooms(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t, 5)

	req.False(room.Tick())
	req.Equal(5*60, room.Remaining())
}

func TestRoom_RemovePlayer(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t, 5)

	a, b := uuid.New(), uuid.New()
	_, err := room.Join(a, "a", "")
	req.NoError(err)
	_, err = room.Join(b, "b", "")
	req.NoError(err)

	removed, empty := room.RemovePlayer(a)
	req.True(removed)
	req.False(empty)

	// Removing twice is harmless.
	removed, empty = room.RemovePlayer(a)
	req.False(removed)
	req.False(empty)

	removed, empty = room.RemovePlayer(b)
	req.True(removed)
	req.True(empty)
}

func TestRoom_IdleSince(t *testing.T) {
	req := require.New(t)

	created := time.Now()
	room := NewRoom("ABC234", 5, func() time.Time { return created })

	idle, empty := room.IdleSince(created.Add(2 * time.Minute))
	req.True(empty)
	req.Equal(2*time.Minute, idle)

	_, err := room.Join(uuid.New(), "a", "")
	req.NoError(err)

	_, empty = room.IdleSince(created.Add(2 * time.Minute))
	req.False(empty)
}

func TestRoom_LastUpdateFollowsClock(t *testing.T) {
	req := require.New(t)

	now := time.Now()
	room := NewRoom("ABC234", 5, func() time.Time { return now })

	req.Equal(now, room.LastUpdate())

	now = now.Add(30 * time.Second)
	_, err := room.Join(uuid.New(), "a", "")
	req.NoError(err)

	req.Equal(now, room.LastUpdate())

	now = now.Add(time.Second)
	room.SetBall(Ball{X: 1})

	req.Equal(now, room.LastUpdate())
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
