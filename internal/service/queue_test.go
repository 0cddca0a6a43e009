package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/apperr"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/model"
)

func TestQueue_SnapshotOrdersByPriority(t *testing.T) {
	f := newFixture(t)
	f.addPlayer(t, "member", model.GenderMale, 1300)
	f.addPlayer(t, "guest", model.GenderFemale, 1250, func(p *model.Profile) { p.IsGuest = true })
	f.addPlayer(t, "tired", model.GenderMale, 1300, func(p *model.Profile) { p.GamesPlayedToday = 2 })

	f.join(t, "member", "tired")
	f.now = f.now.Add(time.Minute)
	f.join(t, "guest")
	f.now = f.now.Add(9 * time.Minute)

	snap, err := f.queue.Snapshot(f.ctx)
	require.NoError(t, err)
	require.Len(t, snap, 3)
	assert.Equal(t, "guest", snap[0].PlayerID)
	assert.Equal(t, 5000+9*200+3000, snap[0].PriorityScore)
	assert.Equal(t, "member", snap[1].PlayerID)
	assert.Equal(t, 5000+10*200, snap[1].PriorityScore)
	assert.Equal(t, "tired", snap[2].PlayerID)
	assert.Equal(t, 10*200-4*500, snap[2].PriorityScore)
	require.NotNil(t, snap[0].Profile)

	stored, err := f.queueStore.GetByPlayer(f.ctx, "member")
	require.NoError(t, err)
	assert.Equal(t, 7000, stored.PriorityScore)
}

func TestQueue_SnapshotTieBreaksByJoinTime(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"a", "b", "c"} {
		f.addPlayer(t, id, model.GenderMale, 1200)
	}
	f.join(t, "c")
	f.join(t, "a")
	f.join(t, "b")
	snap, err := f.queue.Snapshot(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, []string{snap[0].PlayerID, snap[1].PlayerID, snap[2].PlayerID})
}

func TestQueue_DepartureBonus(t *testing.T) {
	f := newFixture(t)
	f.addPlayer(t, "leaving", model.GenderMale, 1200)
	f.addPlayer(t, "staying", model.GenderMale, 1200)

	e, err := f.queue.Join(f.ctx, "leaving", " 19:30 ")
	require.NoError(t, err)
	assert.Equal(t, "19:30", e.DepartureTime)
	assert.Equal(t, 5000+8000, e.PriorityScore)

	_, err = f.queue.Join(f.ctx, "staying", "9:05")
	require.NoError(t, err)
	e, err = f.queueStore.GetByPlayer(f.ctx, "staying")
	require.NoError(t, err)
	assert.Equal(t, "09:05", e.DepartureTime)

	e, err = f.queue.UpdateDeparture(f.ctx, "staying", "19:40")
	require.NoError(t, err)
	assert.Equal(t, "19:40", e.DepartureTime)

	snap, err := f.queue.Snapshot(f.ctx)
	require.NoError(t, err)
	for _, s := range snap {
		assert.Equal(t, 13000, s.PriorityScore, s.PlayerID)
	}

	_, err = f.queue.UpdateDeparture(f.ctx, "staying", "7pm")
	assertKind(t, err, apperr.KindValidation)
}

func TestQueue_JoinRejections(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		f.addPlayer(t, id, model.GenderMale, 1200)
	}

	_, err := f.queue.Join(f.ctx, "a", "25:00")
	assertKind(t, err, apperr.KindValidation)

	_, err = f.queue.Join(f.ctx, "ghost", "")
	assertKind(t, err, apperr.KindNotFound)

	f.join(t, "a")
	_, err = f.queue.Join(f.ctx, "a", "")
	assertKind(t, err, apperr.KindConflict)
	assert.Equal(t, "already_queued", apperr.CodeOf(err))

	_, err = f.matches.ManualMatch(f.ctx, "Court 1", []string{"b", "c", "d", "e"}, "")
	require.NoError(t, err)
	_, err = f.queue.Join(f.ctx, "b", "")
	assertKind(t, err, apperr.KindConflict)
	assert.Equal(t, "player_in_match", apperr.CodeOf(err))
}

func TestQueue_LeaveAndReset(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"a", "b", "c"} {
		f.addPlayer(t, id, model.GenderMale, 1200)
	}
	f.join(t, "a", "b", "c")

	require.NoError(t, f.queue.Leave(f.ctx, "a"))
	assertKind(t, f.queue.Leave(f.ctx, "a"), apperr.KindNotFound)

	_, err := f.queue.UpdateDeparture(f.ctx, "a", "20:00")
	assertKind(t, err, apperr.KindNotFound)

	n, err := f.queue.Reset(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	snap, err := f.queue.Snapshot(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, snap)
}
